package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/riverfjs/mdpub/internal/config"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Управление файлом настроек .env",
}

var applyEnv bool

var envInitCmd = &cobra.Command{
	Use:   "init <template>",
	Short: "Создать пользовательский .env из шаблона",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(args[0]); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("шаблон не найден: %s", args[0])
		}
		path, err := config.InitFromTemplate(args[0])
		if err != nil {
			return err
		}
		logger.Info("Файл настроек создан", "file", path)

		if !applyEnv {
			return nil
		}
		return applyValues(cmd.OutOrStdout(), path)
	},
}

// applyValues 在 Windows 上用 setx 写入用户环境变量，其余系统只能提示 source
func applyValues(w io.Writer, path string) error {
	if runtime.GOOS != "windows" {
		fmt.Fprintln(w, "💡 В Linux/macOS переменные не сохраняются глобально. Выполните:")
		fmt.Fprintf(w, "source %s\n", path)
		return nil
	}

	values, err := config.Values(path)
	if err != nil {
		return err
	}
	for _, kv := range values {
		if out, err := exec.Command("setx", kv.Key, kv.Value).CombinedOutput(); err != nil {
			return fmt.Errorf("setx %s: %w: %s", kv.Key, err, out)
		}
	}
	fmt.Fprintln(w, "✅ Переменные установлены в системное окружение (Windows).")
	fmt.Fprintln(w, "🔄 Перезапустите терминал, чтобы изменения вступили в силу.")
	return nil
}

var envShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Показать переменные из активного .env",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Locate()
		if err != nil {
			return err
		}
		values, err := config.Values(path)
		if err != nil {
			return err
		}
		if len(values) == 0 {
			logger.Warn(".env пуст", "file", path)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), envTable(path, values))
		return nil
	},
}

func envTable(path string, values []config.KeyValue) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Переменная", "Значение").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return cellStyle.Foreground(lipgloss.Color("6"))
			}
			return cellStyle
		})
	for _, kv := range values {
		t.Row(kv.Key, kv.Value)
	}
	title := headerStyle.Render(fmt.Sprintf("Текущие переменные (%s)", path))
	return lipgloss.JoinVertical(lipgloss.Left, title, t.String())
}

func init() {
	envInitCmd.Flags().BoolVar(&applyEnv, "apply", false, "установить переменные в окружение (Windows: setx)")
	envCmd.AddCommand(envInitCmd, envShowCmd)
}
