package converter

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/riverfjs/mdpub/internal/buffer"
	"github.com/riverfjs/mdpub/internal/parser"
)

var blankLinesRe = regexp.MustCompile(`\n{3,}`)

// telegramTag 把元素映射到 Telegram HTML 支持的标签
//
// ok 为 false 表示该元素不在白名单中，需要展开（保留子节点）。
func telegramTag(a atom.Atom) (tag atom.Atom, ok bool) {
	switch a {
	case atom.B, atom.I, atom.U, atom.S, atom.Code, atom.Pre,
		atom.Blockquote, atom.A, atom.Br:
		return a, true
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Strong:
		return atom.B, true
	case atom.Em:
		return atom.I, true
	case atom.Strike, atom.Del:
		return atom.S, true
	case atom.Ins:
		return atom.U, true
	default:
		return 0, false
	}
}

// SanitizeTelegram 把通用 HTML 清洗为 Telegram parse_mode=HTML 可接受的 HTML
//
// 本地图片上传失败不会中断处理，只会在原位置留下占位文本。
// 输出是不动点：再次清洗得到相同结果。
func SanitizeTelegram(ctx context.Context, src string, opts Options) string {
	log := opts.logger()
	cfg := opts.config()

	root, err := parser.ParseFragment(src)
	if err != nil {
		log.Warn("HTML 解析失败，按纯文本发送", "error", err)
		return strings.TrimSpace(src)
	}
	if cfg.RenderMermaid {
		if n := ReplaceMermaidBlocks(root, cfg.MermaidTheme); n > 0 {
			log.Debug("mermaid diagrams rendered", "count", n)
		}
	}

	remapTelegramTags(root)
	flattenLists(root)
	rehostTelegramImages(ctx, root, opts)
	filterTelegram(root)

	buf := buffer.New()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		renderTelegram(buf, c)
	}
	out := blankLinesRe.ReplaceAllString(buf.String(), "\n\n")
	return strings.TrimSpace(out)
}

func leadingNewline(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			return false
		}
		if c.Data != "" {
			return c.Data[0] == '\n'
		}
	}
	return false
}

// TextLength 返回 Telegram HTML 中可见文本的 UTF-16 长度
func TextLength(src string) int {
	root, err := parser.ParseFragment(src)
	if err != nil {
		return buffer.UTF16Len(src)
	}
	buf := buffer.New()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		renderTelegram(buf, c)
	}
	return buf.TextLength()
}

func remapTelegramTags(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Namespace == "" {
			if tag, ok := telegramTag(c.DataAtom); ok && tag != c.DataAtom {
				rename(c, tag)
			}
		}
		remapTelegramTags(c)
	}
}

// flattenLists 把每个最外层 ul/ol 替换为逐行的纯文本，嵌套列表并入父级条目
func flattenLists(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol) {
			replaceWithText(c, listText(c))
		} else {
			flattenLists(c)
		}
		c = next
	}
}

func listText(list *html.Node) string {
	var lines []string
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		text := strings.Join(strings.Fields(textContent(li)), " ")
		if list.DataAtom == atom.Ol {
			lines = append(lines, strconv.Itoa(len(lines)+1)+". "+text)
		} else {
			lines = append(lines, "• "+text)
		}
	}
	return strings.Join(lines, "\n")
}

func rehostTelegramImages(ctx context.Context, root *html.Node, opts Options) {
	cfg := opts.config()
	log := opts.logger()

	for _, img := range collect(root, atom.Img) {
		src := strings.TrimSpace(getAttr(img, "src"))
		switch {
		case src == "":
			remove(img)
		case isRemote(src):
			replaceWithText(img, "\n"+src+"\n")
		case opts.Uploader == nil:
			replaceWithText(img, fmt.Sprintf(cfg.LocalImagePlaceholder, src))
		default:
			path := resolveLocal(opts.BaseDir, src)
			u, err := opts.Uploader.Upload(ctx, path)
			if err != nil {
				log.Warn("图片上传失败", "src", src, "error", err)
				replaceWithText(img, fmt.Sprintf(cfg.UploadErrorPlaceholder, err))
				continue
			}
			log.Info("图片已上传", "src", src, "url", u)
			replaceWithText(img, "\n"+u+"\n")
		}
	}
}

// filterTelegram 自底向上处理：先处理子节点，再决定当前元素保留还是展开
func filterTelegram(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		filterTelegram(c)
		switch c.Type {
		case html.ElementNode:
			tag, ok := telegramTag(c.DataAtom)
			if !ok || c.Namespace != "" || tag != c.DataAtom {
				unwrap(c)
				break
			}
			if tag == atom.A {
				href := strings.TrimSpace(getAttr(c, "href"))
				if href == "" {
					unwrap(c)
					break
				}
				c.Attr = []html.Attribute{{Key: "href", Val: href}}
			} else {
				c.Attr = nil
			}
		case html.TextNode:
		default:
			remove(c)
		}
		c = next
	}
}

func renderTelegram(buf *buffer.MarkupBuffer, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.WriteText(n.Data)
	case html.ElementNode:
		if n.DataAtom == atom.Br {
			buf.VoidTag(n.Data)
			return
		}
		if href := getAttr(n, "href"); n.DataAtom == atom.A && href != "" {
			buf.OpenTag(n.Data, "href", href)
		} else {
			buf.OpenTag(n.Data)
		}
		// 解析器会吞掉 <pre> 后紧跟的第一个换行，这里补回一个
		if n.DataAtom == atom.Pre && leadingNewline(n) {
			buf.WriteMarkup("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderTelegram(buf, c)
		}
		buf.CloseTag(n.Data)
	}
}
