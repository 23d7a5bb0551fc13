package converter

import (
	"context"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/riverfjs/mdpub/internal/parser"
	"github.com/riverfjs/mdpub/internal/types"
)

// telegraphTag 把元素映射到 Telegraph 节点支持的标签，h1/h2 降级为 h3
func telegraphTag(a atom.Atom) (tag atom.Atom, ok bool) {
	switch a {
	case atom.A, atom.Aside, atom.B, atom.Blockquote, atom.Br, atom.Code,
		atom.Em, atom.Figcaption, atom.Figure, atom.H3, atom.H4, atom.Hr,
		atom.I, atom.Iframe, atom.Img, atom.Li, atom.Ol, atom.P, atom.Pre,
		atom.S, atom.Strong, atom.U, atom.Ul, atom.Video:
		return a, true
	case atom.H1, atom.H2:
		return atom.H3, true
	default:
		return 0, false
	}
}

// telegraphAttrs 按白名单复制非空属性
func telegraphAttrs(tag atom.Atom, n *html.Node) map[string]string {
	var keys []string
	switch tag {
	case atom.A:
		keys = []string{"href", "title"}
	case atom.Iframe, atom.Video:
		keys = []string{"src"}
	default:
		return nil
	}
	var attrs map[string]string
	for _, k := range keys {
		if v := getAttr(n, k); v != "" {
			if attrs == nil {
				attrs = make(map[string]string, len(keys))
			}
			attrs[k] = v
		}
	}
	return attrs
}

// CompileTelegraph 两阶段编译：先上传本地图片得到 AssetMap，再生成节点树
func CompileTelegraph(ctx context.Context, src string, opts Options) ([]types.Node, AssetMap, error) {
	root, err := parser.ParseFragment(src)
	if err != nil {
		return nil, nil, err
	}
	if cfg := opts.config(); cfg.RenderMermaid {
		ReplaceMermaidBlocks(root, cfg.MermaidTheme)
	}

	assets, err := ResolveAssets(ctx, root, opts)
	if err != nil {
		return nil, nil, err
	}
	nodes := CompileNodes(root, assets)
	if len(nodes) == 0 {
		return nil, assets, ErrEmptyDocument
	}
	return nodes, assets, nil
}

// CompileNodes 在只读 AssetMap 的基础上把 HTML 树转换为 Telegraph 节点
func CompileNodes(root *html.Node, assets AssetMap) []types.Node {
	var out []types.Node
	for c := documentBody(root).FirstChild; c != nil; c = c.NextSibling {
		out = append(out, compileNode(c, assets)...)
	}
	return out
}

func compileNode(n *html.Node, assets AssetMap) []types.Node {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return []types.Node{types.TextNode(n.Data)}
	case html.ElementNode:
	default:
		return nil
	}

	var children []types.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, compileNode(c, assets)...)
	}

	tag, ok := telegraphTag(n.DataAtom)
	if !ok || n.Namespace != "" {
		return children
	}

	switch tag {
	case atom.Br, atom.Hr:
		return []types.Node{{Tag: tag.String()}}
	case atom.Img:
		src, ok := imageSource(strings.TrimSpace(getAttr(n, "src")), assets)
		if !ok {
			return nil
		}
		attrs := map[string]string{"src": src}
		for _, k := range []string{"alt", "title"} {
			if v := getAttr(n, k); v != "" {
				attrs[k] = v
			}
		}
		return []types.Node{{Tag: tag.String(), Attrs: attrs}}
	}
	return []types.Node{{Tag: tag.String(), Attrs: telegraphAttrs(tag, n), Children: children}}
}

// imageSource 远程地址原样保留，本地路径只认 AssetMap 中已上传的
func imageSource(src string, assets AssetMap) (string, bool) {
	switch {
	case src == "":
		return "", false
	case isRemote(src):
		return src, true
	default:
		return assets.Lookup(src)
	}
}
