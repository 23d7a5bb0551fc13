package converter

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// collect 按文档顺序返回 root 子树中（不含 root）所有 tag 元素的快照，
// 调用方可以在遍历快照时安全地修改树
func collect(root *html.Node, tag atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// documentBody returns the <body> element when the fragment carries one,
// otherwise root itself.
func documentBody(root *html.Node) *html.Node {
	if bodies := collect(root, atom.Body); len(bodies) > 0 {
		return bodies[0]
	}
	return root
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent 拼接所有后代文本节点
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// unwrap 用 n 的子节点原位替换 n
func unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}

func replaceWithText(n *html.Node, text string) {
	if n.Parent == nil {
		return
	}
	n.Parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text}, n)
	n.Parent.RemoveChild(n)
}

func remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// rename changes the element name, keeping attributes and children.
func rename(n *html.Node, tag atom.Atom) {
	n.DataAtom = tag
	n.Data = tag.String()
}

// isRemote reports whether src is an absolute http(s) URL.
func isRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// resolveLocal 将相对图片路径解析到 baseDir 下
func resolveLocal(baseDir, src string) string {
	if unescaped, err := url.PathUnescape(src); err == nil {
		src = unescaped
	}
	src = strings.TrimPrefix(src, "file://")
	if filepath.IsAbs(src) {
		return filepath.Clean(src)
	}
	return filepath.Join(baseDir, filepath.FromSlash(src))
}
