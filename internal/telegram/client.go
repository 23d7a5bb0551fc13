// Package telegram publishes sanitized HTML posts to a Telegram channel.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// botSender is the subset of tgbotapi.BotAPI used by Client, allowing tests
// to supply a fake without a live connection.
type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Client 绑定到单个频道的发布客户端
type Client struct {
	bot     botSender
	chatID  int64
	channel string
	logger  *slog.Logger

	wait func(ctx context.Context, d time.Duration) error
}

// NewClient 连接 Bot API（会调用 getMe 校验令牌）
//
// channel 可以是 @username 或数字 chat id。
func NewClient(token, channel string) (*Client, error) {
	return NewClientWithEndpoint(token, channel, tgbotapi.APIEndpoint)
}

// NewClientWithEndpoint 同 NewClient，endpoint 形如 "https://host/bot%s/%s"
func NewClientWithEndpoint(token, channel, endpoint string) (*Client, error) {
	if token == "" {
		return nil, errors.New("telegram: TELEGRAM_BOT_TOKEN is not set")
	}
	if channel == "" {
		return nil, errors.New("telegram: TELEGRAM_CHANNEL is not set")
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect bot: %w", err)
	}
	return newClient(bot, channel), nil
}

func newClient(bot botSender, channel string) *Client {
	c := &Client{bot: bot, logger: slog.Default(), wait: sleep}
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		c.chatID = id
	} else {
		if !strings.HasPrefix(channel, "@") {
			channel = "@" + channel
		}
		c.channel = channel
	}
	return c
}

// SetLogger sets the logger used for retry warnings.
func (c *Client) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

func (c *Client) baseChat() tgbotapi.BaseChat {
	return tgbotapi.BaseChat{ChatID: c.chatID, ChannelUsername: c.channel}
}

func (c *Client) baseEdit(messageID int) tgbotapi.BaseEdit {
	return tgbotapi.BaseEdit{ChatID: c.chatID, ChannelUsername: c.channel, MessageID: messageID}
}

// SendMessage 发送 HTML 消息
func (c *Client) SendMessage(ctx context.Context, html string) (tgbotapi.Message, error) {
	return c.send(ctx, "sendMessage", tgbotapi.MessageConfig{
		BaseChat:  c.baseChat(),
		Text:      html,
		ParseMode: tgbotapi.ModeHTML,
	})
}

// EditMessage 替换已发布消息的文本
func (c *Client) EditMessage(ctx context.Context, messageID int, html string) (tgbotapi.Message, error) {
	return c.send(ctx, "editMessageText", tgbotapi.EditMessageTextConfig{
		BaseEdit:  c.baseEdit(messageID),
		Text:      html,
		ParseMode: tgbotapi.ModeHTML,
	})
}

// SendPhoto 发送图片，photo 为本地路径或 http(s) URL，caption 可为空
func (c *Client) SendPhoto(ctx context.Context, photo, caption string) (tgbotapi.Message, error) {
	var file tgbotapi.RequestFileData
	lower := strings.ToLower(photo)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		file = tgbotapi.FileURL(photo)
	} else {
		info, err := os.Stat(photo)
		if err != nil {
			return tgbotapi.Message{}, fmt.Errorf("telegram: photo: %w", err)
		}
		if info.IsDir() {
			return tgbotapi.Message{}, fmt.Errorf("telegram: photo: %s is a directory", photo)
		}
		file = tgbotapi.FilePath(photo)
	}
	cfg := tgbotapi.PhotoConfig{
		BaseFile: tgbotapi.BaseFile{BaseChat: c.baseChat(), File: file},
		Caption:  caption,
	}
	if caption != "" {
		cfg.ParseMode = tgbotapi.ModeHTML
	}
	return c.send(ctx, "sendPhoto", cfg)
}

// EditCaption 替换图片消息的说明，caption 为空时清除说明
func (c *Client) EditCaption(ctx context.Context, messageID int, caption string) (tgbotapi.Message, error) {
	cfg := tgbotapi.EditMessageCaptionConfig{
		BaseEdit: c.baseEdit(messageID),
		Caption:  caption,
	}
	if caption != "" {
		cfg.ParseMode = tgbotapi.ModeHTML
	}
	return c.send(ctx, "editMessageCaption", cfg)
}

// DeleteMessage 删除消息
func (c *Client) DeleteMessage(ctx context.Context, messageID int) error {
	cfg := tgbotapi.DeleteMessageConfig{
		ChatID:          c.chatID,
		ChannelUsername: c.channel,
		MessageID:       messageID,
	}
	return c.retry(ctx, "deleteMessage", func() error {
		resp, err := c.bot.Request(cfg)
		if err != nil {
			return err
		}
		if !resp.Ok {
			return fmt.Errorf("telegram: deleteMessage: %s", resp.Description)
		}
		return nil
	})
}

func (c *Client) send(ctx context.Context, method string, msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	var out tgbotapi.Message
	err := c.retry(ctx, method, func() error {
		var err error
		out, err = c.bot.Send(msg)
		return err
	})
	return out, err
}

// retry runs call and, when Telegram answers with retry_after, waits that long
// and runs it exactly once more.
func (c *Client) retry(ctx context.Context, method string, call func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := call()
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) || apiErr.RetryAfter <= 0 {
		return err
	}
	c.logger.Warn("Telegram rate limit, retrying", "method", method, "retry_after", apiErr.RetryAfter)
	if err := c.wait(ctx, time.Duration(apiErr.RetryAfter)*time.Second); err != nil {
		return err
	}
	return call()
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
