package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var helpAllCmd = &cobra.Command{
	Use:   "help-all",
	Short: "Показать помощь по всем командам и подкомандам",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printHelpRecursive(cmd.OutOrStdout(), cmd.Root())
	},
}

func printHelpRecursive(w io.Writer, cmd *cobra.Command) error {
	fmt.Fprintf(w, "\n%s\nHELP для: %s\n%s\n", strings.Repeat("=", 80), cmd.CommandPath(), strings.Repeat("=", 80))
	cmd.SetOut(w)
	if err := cmd.Help(); err != nil {
		return err
	}
	for _, sub := range cmd.Commands() {
		if !sub.IsAvailableCommand() {
			continue
		}
		if err := printHelpRecursive(w, sub); err != nil {
			return err
		}
	}
	return nil
}
