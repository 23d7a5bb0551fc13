package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/riverfjs/mdpub"
)

var tgCmd = &cobra.Command{
	Use:   "tg",
	Short: "Команды для Telegram",
}

var tgPostCmd = &cobra.Command{
	Use:     "post <md_path>",
	Aliases: []string{"p"},
	Short:   "Опубликовать Markdown в Telegram-канале",
	Long:    "Публикует сообщение в Telegram-канале; при ADD_ID=true дописывает в конец ID поста.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		html, err := mdpub.TelegramHTML(ctx, args[0], a.convertOptions()...)
		if err != nil {
			return err
		}
		if html == "" {
			return fmt.Errorf("%s: %w", args[0], mdpub.ErrEmptyDocument)
		}
		a.warnLength(html, mdpub.MaxMessageLength)

		client, err := a.telegram()
		if err != nil {
			return err
		}
		msg, err := client.SendMessage(ctx, html)
		if err != nil {
			return fmt.Errorf("post %s: %w", args[0], err)
		}
		a.log.Debug("Опубликован пост", "id", msg.MessageID)

		if a.cfg.AddID {
			withID := withMessageID(html, msg.MessageID)
			if _, err := client.EditMessage(ctx, msg.MessageID, withID); err != nil {
				a.log.Warn("Не удалось добавить ID в пост", "id", msg.MessageID, "error", err)
			}
		}
		a.log.Info("Опубликован пост", "id", msg.MessageID)
		return nil
	},
}

var tgEditCmd = &cobra.Command{
	Use:     "edit <msg_id> <md_path>",
	Aliases: []string{"e"},
	Short:   "Отредактировать сообщение в Telegram-канале",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		html, err := mdpub.TelegramHTML(ctx, args[1], a.convertOptions()...)
		if err != nil {
			return err
		}
		if html == "" {
			return fmt.Errorf("%s: %w", args[1], mdpub.ErrEmptyDocument)
		}
		a.warnLength(html, mdpub.MaxMessageLength)

		client, err := a.telegram()
		if err != nil {
			return err
		}
		if _, err := client.EditMessage(ctx, id, html); err != nil {
			return fmt.Errorf("edit %d: %w", id, err)
		}
		a.log.Info("Отредактирован пост", "id", id)
		return nil
	},
}

var tgRmCmd = &cobra.Command{
	Use:   "rm <msg_id>",
	Short: "Удалить сообщение из Telegram-канала по ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		client, err := a.telegram()
		if err != nil {
			return err
		}
		if err := client.DeleteMessage(cmd.Context(), id); err != nil {
			return fmt.Errorf("rm %d: %w", id, err)
		}
		a.log.Info("Пост удалён", "id", id)
		return nil
	},
}

var imgMDPath string

var tgImgPostCmd = &cobra.Command{
	Use:     "img-post <photo_path>",
	Aliases: []string{"ip"},
	Short:   "Опубликовать изображение в Telegram-канале",
	Long: `Публикует изображение в Telegram-канале.
Можно указать путь к локальному изображению или ссылку https;
подпись берётся из --md-path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		caption, err := a.caption(cmd, imgMDPath)
		if err != nil {
			return err
		}
		client, err := a.telegram()
		if err != nil {
			return err
		}
		msg, err := client.SendPhoto(ctx, args[0], caption)
		if err != nil {
			return fmt.Errorf("img-post %s: %w", args[0], err)
		}
		a.log.Info("Опубликован пост", "id", msg.MessageID)
		return nil
	},
}

var tgImgEditCmd = &cobra.Command{
	Use:     "img-edit <post_id>",
	Aliases: []string{"ie"},
	Short:   "Отредактировать подпись изображения",
	Long: `Редактирует подпись изображения; само изображение не меняется.
Без --md-path подпись удаляется.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		caption, err := a.caption(cmd, imgMDPath)
		if err != nil {
			return err
		}
		client, err := a.telegram()
		if err != nil {
			return err
		}
		if _, err := client.EditCaption(ctx, id, caption); err != nil {
			return fmt.Errorf("img-edit %d: %w", id, err)
		}
		a.log.Info("Отредактирован пост", "id", id)
		return nil
	},
}

// caption 由 md 生成图片说明，mdPath 为空时返回空串
func (a *app) caption(cmd *cobra.Command, mdPath string) (string, error) {
	if mdPath == "" {
		return "", nil
	}
	html, err := mdpub.TelegramHTML(cmd.Context(), mdPath, a.captionOptions()...)
	if err != nil {
		return "", err
	}
	a.warnLength(html, mdpub.MaxCaptionLength)
	return html, nil
}

func withMessageID(html string, id int) string {
	return html + "\n" + strconv.Itoa(id)
}

func init() {
	for _, c := range []*cobra.Command{tgImgPostCmd, tgImgEditCmd} {
		c.Flags().StringVar(&imgMDPath, "md-path", "", "Markdown-файл с подписью")
	}
	tgCmd.AddCommand(tgPostCmd, tgEditCmd, tgRmCmd, tgImgPostCmd, tgImgEditCmd)
}
