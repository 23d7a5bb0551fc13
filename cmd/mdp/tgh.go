package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tghCmd = &cobra.Command{
	Use:   "tgh",
	Short: "Telegraph-страница со ссылкой в Telegram",
}

var tghPostCmd = &cobra.Command{
	Use:     "post <md_path>",
	Aliases: []string{"p"},
	Short:   "Создать страницу Telegraph и опубликовать ссылку в канале",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		// 先检查 Telegram 配置，避免页面已创建却无法发帖
		client, err := a.telegram()
		if err != nil {
			return err
		}
		page, err := a.createPage(cmd, args[0], pageTitle)
		if err != nil {
			return err
		}
		a.log.Info("Страница доступна по адресу", "url", page.URL)

		msg, err := client.SendMessage(cmd.Context(), page.URL)
		if err != nil {
			return fmt.Errorf("post %s: %w", page.URL, err)
		}
		a.log.Info("Опубликован пост", "id", msg.MessageID)
		return nil
	},
}

func init() {
	tghPostCmd.Flags().StringVar(&pageTitle, "title", "", "заголовок страницы (по умолчанию <h1> документа)")
	tghCmd.AddCommand(tghPostCmd)
}
