package mdpub

import (
	"context"

	"github.com/riverfjs/mdpub/internal/converter"
	"github.com/riverfjs/mdpub/internal/parser"
)

// RenderMarkdown 将 Markdown 渲染为通用 HTML（表格、脚注、定义列表、删除线、属性列表）
func RenderMarkdown(markdown string) (string, error) {
	return parser.Render(markdown)
}

// ReadDocument 读取 Markdown 文件，路径支持 ~ 展开
//
// 文件不存在返回 ErrSourceNotFound，读取失败或不是 UTF-8 返回 ErrSourceRead。
func ReadDocument(path string) (*Document, error) {
	return parser.ReadDocument(path)
}

// ExtractTitle 取出第一个 <h1> 作为标题，返回标题和去掉该标题后的 HTML
func ExtractTitle(html string) (title, rest string, ok bool) {
	return converter.ExtractTitle(html)
}

// SanitizeTelegram 把通用 HTML 清洗为 Telegram HTML
//
// 参数:
//   - html: 通用 HTML（通常来自 RenderMarkdown）
//   - baseDir: 相对图片路径的解析目录
//   - opts: Uploader、RenderConfig 等
//
// 返回:
//   - string: 只含 b/i/u/s/code/pre/blockquote/a/br 的 HTML，再次清洗结果不变
func SanitizeTelegram(ctx context.Context, html, baseDir string, opts ...Option) string {
	return converter.SanitizeTelegram(ctx, html, applyOptions(opts...).converterOptions(baseDir))
}

// renderFile 读取并渲染 Markdown 文件
func renderFile(path string) (*Document, string, error) {
	doc, err := parser.ReadDocument(path)
	if err != nil {
		return nil, "", err
	}
	html, err := parser.Render(doc.Source)
	if err != nil {
		return nil, "", err
	}
	return doc, html, nil
}
