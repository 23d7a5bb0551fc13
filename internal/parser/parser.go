package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/riverfjs/mdpub/internal/types"
)

var (
	// ErrSourceNotFound Markdown 源文件不存在
	ErrSourceNotFound = errors.New("markdown source not found")
	// ErrSourceRead Markdown 源文件无法读取或不是合法的 UTF-8
	ErrSourceRead = errors.New("markdown source unreadable")
)

// StandardOptions goldmark 扩展配置
//
// 列表遵循 CommonMark 规则：续行必须对齐缩进，有序和无序标记不会合并。
var StandardOptions = []goldmark.Option{
	goldmark.WithExtensions(
		extension.Table,          // 表格
		extension.Strikethrough,  // ~~删除线~~
		extension.DefinitionList, // 定义列表
		extension.Footnote,       // 脚注
		AbbreviationExtension,    // *[HTML]: 缩写定义
	),
	goldmark.WithParserOptions(
		parser.WithAttribute(), // {#id .class} 属性列表
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // 原样保留内嵌 HTML，交给后续清洗
	),
}

var md = goldmark.New(StandardOptions...)

// Render 将 Markdown 渲染为通用 HTML
func Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// ReadDocument 读取 Markdown 文件，路径支持 ~ 展开
func ReadDocument(path string) (*types.Document, error) {
	abs, err := ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceRead, path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, abs)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceRead, abs, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s: invalid UTF-8", ErrSourceRead, abs)
	}
	return &types.Document{
		Path:    abs,
		BaseDir: filepath.Dir(abs),
		Source:  string(data),
	}, nil
}

// ExpandPath 展开 ~ 并返回绝对路径
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Abs(path)
}

// ParseFragment 把 HTML 片段解析到一个合成的 <body> 根节点下
func ParseFragment(src string) (*xhtml.Node, error) {
	root := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(strings.NewReader(src), root)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}
