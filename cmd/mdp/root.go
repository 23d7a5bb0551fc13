package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/riverfjs/mdpub"
	"github.com/riverfjs/mdpub/internal/logging"
)

var (
	verbose bool
	logger  = logging.New(os.Stderr, false)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mdp",
	Short: "Публикация Markdown в Telegram и Telegraph",
	Long: `mdp публикует Markdown-документы в Telegram-каналы и на страницы Telegraph.

Настройки читаются из ./.env или ~/.config/mdp/.env (на Windows %APPDATA%\mdp\.env);
переменные окружения имеют приоритет над файлом.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(os.Stderr, verbose)
		slog.SetDefault(logger)
		mdpub.SetLogger(logger)
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute(version string) {
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "подробный вывод (debug)")

	rootCmd.AddCommand(tgCmd, grCmd, tghCmd, envCmd, helpAllCmd)
}
