package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/riverfjs/mdpub"
	"github.com/riverfjs/mdpub/internal/config"
	"github.com/riverfjs/mdpub/internal/telegram"
	"github.com/riverfjs/mdpub/internal/telegraph"
)

// shortNameLimit Telegraph short_name 最长 32 个字符
const shortNameLimit = 32

// app 单次命令执行需要的配置和客户端
type app struct {
	cfg *config.Config
	log *slog.Logger

	// confirm asks a yes/no question; replaced in tests.
	confirm func(title, description string) (bool, error)
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded", "file", cfg.File)
	return &app{cfg: cfg, log: logger, confirm: confirmPrompt}, nil
}

func confirmPrompt(title, description string) (bool, error) {
	ok := true
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Да").
		Negative("Нет").
		Value(&ok).
		Run()
	return ok, err
}

// convertOptions 正文转换参数：配置了 IMGBB_API_KEY 时上传本地图片
func (a *app) convertOptions() []mdpub.Option {
	return []mdpub.Option{
		mdpub.WithImgBBKey(a.cfg.ImgBBAPIKey),
		mdpub.WithMermaid(a.cfg.RenderMermaid),
		mdpub.WithLogger(a.log),
	}
}

// captionOptions 图片说明不上传图片
func (a *app) captionOptions() []mdpub.Option {
	return []mdpub.Option{
		mdpub.WithUploader(nil),
		mdpub.WithLogger(a.log),
	}
}

func (a *app) telegram() (*telegram.Client, error) {
	c, err := telegram.NewClient(a.cfg.TelegramBotToken, a.cfg.TelegramChannel)
	if err != nil {
		return nil, err
	}
	c.SetLogger(a.log)
	return c, nil
}

// telegraph 返回 Telegraph 客户端；没有令牌时询问是否创建新账号
func (a *app) telegraph(ctx context.Context) (*telegraph.Client, error) {
	return a.telegraphAt(ctx, telegraph.DefaultBaseURL)
}

func (a *app) telegraphAt(ctx context.Context, baseURL string) (*telegraph.Client, error) {
	c := telegraph.NewClient(a.cfg.TelegraphAccessToken, baseURL)
	c.SetLogger(a.log)
	if c.Token() != "" {
		return c, nil
	}

	create, err := a.confirm(
		"TELEGRAPH_ACCESS_TOKEN не найден",
		fmt.Sprintf("Создать аккаунт Telegraph «%s» и сохранить токен в %s?", a.cfg.AuthorName, a.cfg.File),
	)
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	if !create {
		return nil, errors.New("TELEGRAPH_ACCESS_TOKEN не задан")
	}

	acc, err := c.CreateAccount(ctx, shortName(a.cfg.AuthorName), a.cfg.AuthorName, a.cfg.AuthorURL)
	if err != nil {
		return nil, fmt.Errorf("create telegraph account: %w", err)
	}
	if err := a.cfg.Save(config.KeyTelegraphAccessToken, acc.AccessToken); err != nil {
		a.log.Warn("Не удалось сохранить токен", "file", a.cfg.File, "error", err)
	} else {
		a.log.Info("Создан аккаунт Telegraph, токен сохранён", "file", a.cfg.File)
	}
	c.SetToken(acc.AccessToken)
	return c, nil
}

// pageRequest 组装 createPage/editPage 请求，标题优先级：--title > <h1> > "None"
func (a *app) pageRequest(page *mdpub.Page, title string) telegraph.PageRequest {
	if title == "" {
		title = page.TitleOr("None")
	}
	return telegraph.PageRequest{
		Title:      title,
		AuthorName: a.cfg.AuthorName,
		AuthorURL:  a.cfg.AuthorURL,
		Content:    page.Nodes,
	}
}

// warnLength 超过 Telegram 长度限制时只警告，由服务端决定是否拒绝
func (a *app) warnLength(html string, limit int) {
	if n := mdpub.TextLength(html); n > limit {
		a.log.Warn("Текст длиннее лимита Telegram", "length", n, "limit", limit)
	}
}

func shortName(name string) string {
	r := []rune(name)
	if len(r) > shortNameLimit {
		r = r[:shortNameLimit]
	}
	if len(r) == 0 {
		return "mdp"
	}
	return string(r)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("некорректный ID сообщения: %q", s)
	}
	return id, nil
}
