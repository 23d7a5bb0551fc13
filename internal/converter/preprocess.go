package converter

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/riverfjs/mdpub/internal/mermaid"
)

const mermaidClass = "language-mermaid"

// ReplaceMermaidBlocks 将 <pre><code class="language-mermaid"> 代码块替换为
// mermaid.ink 渲染的远程图片，返回替换的数量
//
// 替换后的 <img> 是远程图片，两条管线都不会再上传它。
func ReplaceMermaidBlocks(root *html.Node, theme string) int {
	replaced := 0
	for _, pre := range collect(root, atom.Pre) {
		code := mermaidCode(pre)
		if code == nil {
			continue
		}
		src, err := mermaid.InkURL(textContent(code), &mermaid.Config{Theme: theme})
		if err != nil {
			continue
		}
		img := &html.Node{
			Type:     html.ElementNode,
			Data:     "img",
			DataAtom: atom.Img,
			Attr: []html.Attribute{
				{Key: "src", Val: src},
				{Key: "alt", Val: "mermaid"},
			},
		}
		pre.Parent.InsertBefore(img, pre)
		pre.Parent.RemoveChild(pre)
		replaced++
	}
	return replaced
}

// mermaidCode returns the <code class="language-mermaid"> child of pre, if any.
func mermaidCode(pre *html.Node) *html.Node {
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Code {
			continue
		}
		for _, class := range strings.Fields(getAttr(c, "class")) {
			if class == mermaidClass {
				return c
			}
		}
	}
	return nil
}
