package mdpub

import (
	"github.com/riverfjs/mdpub/internal/converter"
	"github.com/riverfjs/mdpub/internal/types"
)

// 导出类型别名
type (
	Node     = types.Node
	Document = types.Document
	AssetMap = converter.AssetMap
)

// TextNode creates a Telegraph text node.
func TextNode(text string) Node {
	return types.TextNode(text)
}

// Page 是 Telegraph 管线的结果
type Page struct {
	Title  string   // 第一个 <h1> 的纯文本，没有时为空
	Nodes  []Node   // Telegraph content
	Assets AssetMap // 本次上传的本地图片
	Source string   // Markdown 文件绝对路径
}

// PlainText returns the concatenated text of all nodes.
func (p *Page) PlainText() string {
	return types.PlainText(p.Nodes)
}

// TitleOr returns the extracted title, or fallback when the document has none.
func (p *Page) TitleOr(fallback string) string {
	if p.Title == "" {
		return fallback
	}
	return p.Title
}
