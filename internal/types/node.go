package types

import (
	"encoding/json"
	"fmt"
)

// Node 是 Telegraph 内容树的节点：要么是文本，要么是带 tag 的元素。
//
// JSON 形式与 Telegraph API 一致：文本节点编码为字符串，
// 元素编码为 {"tag": ..., "attrs": {...}, "children": [...]}。
type Node struct {
	Text     string
	Tag      string
	Attrs    map[string]string
	Children []Node
}

type element struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []Node            `json:"children,omitempty"`
}

// TextNode 创建文本节点
func TextNode(text string) Node {
	return Node{Text: text}
}

// IsText reports whether n is a text node.
func (n Node) IsText() bool {
	return n.Tag == ""
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.IsText() {
		return json.Marshal(n.Text)
	}
	return json.Marshal(element{Tag: n.Tag, Attrs: n.Attrs, Children: n.Children})
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		*n = Node{}
		return json.Unmarshal(data, &n.Text)
	}
	var e element
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	if e.Tag == "" {
		return fmt.Errorf("telegraph node: element without tag: %s", data)
	}
	*n = Node{Tag: e.Tag, Attrs: e.Attrs, Children: e.Children}
	return nil
}

// PlainText 返回节点树中的全部文本
func PlainText(nodes []Node) string {
	var out []byte
	var walk func([]Node)
	walk = func(ns []Node) {
		for _, n := range ns {
			if n.IsText() {
				out = append(out, n.Text...)
				continue
			}
			walk(n.Children)
		}
	}
	walk(nodes)
	return string(out)
}
