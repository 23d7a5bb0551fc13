package mdpub

import (
	"context"
	"fmt"

	"github.com/riverfjs/mdpub/internal/converter"
)

// TelegramHTML 读取 Markdown 文件并生成可直接发送的 Telegram HTML
//
// 相对图片路径以 Markdown 文件所在目录为基准解析。
// 没有配置 Uploader 时，本地图片替换为占位文本。
func TelegramHTML(ctx context.Context, path string, opts ...Option) (string, error) {
	options := applyOptions(opts...)
	doc, rendered, err := renderFile(path)
	if err != nil {
		return "", err
	}
	return converter.SanitizeTelegram(ctx, rendered, options.converterOptions(doc.BaseDir)), nil
}

// CompileTelegraph 读取 Markdown 文件并生成 Telegraph 页面内容
//
// 返回的 Page.Title 来自第一个 <h1>，没有时为空字符串。
// 文档含本地图片但没有 Uploader 时返回 ErrMissingCredential；
// 结果为空时返回 ErrEmptyDocument。
func CompileTelegraph(ctx context.Context, path string, opts ...Option) (*Page, error) {
	options := applyOptions(opts...)
	doc, rendered, err := renderFile(path)
	if err != nil {
		return nil, err
	}

	title, body, _ := converter.ExtractTitle(rendered)
	nodes, assets, err := converter.CompileTelegraph(ctx, body, options.converterOptions(doc.BaseDir))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Path, err)
	}
	return &Page{
		Title:  title,
		Nodes:  nodes,
		Assets: assets,
		Source: doc.Path,
	}, nil
}
