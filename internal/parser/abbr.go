package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindAbbreviation is the ast.NodeKind of Abbreviation.
var KindAbbreviation = ast.NewNodeKind("Abbreviation")

// Abbreviation 缩写词，渲染为 <abbr title="...">
type Abbreviation struct {
	ast.BaseInline
	Title []byte
}

// Kind implements ast.Node.
func (n *Abbreviation) Kind() ast.NodeKind {
	return KindAbbreviation
}

// Dump implements ast.Node.
func (n *Abbreviation) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Title": string(n.Title)}, nil)
}

// abbrDefRe 匹配 *[HTML]: Hyper Text Markup Language
var abbrDefRe = regexp.MustCompile(`^[ \t]*\*\[([^\]]+)\]:[ \t]*(.*?)[ \t]*\r?\n?$`)

var abbrKey = parser.NewContextKey()

func abbreviations(pc parser.Context) map[string]string {
	defs, _ := pc.Get(abbrKey).(map[string]string)
	return defs
}

// abbrDefinitionTransformer 从段落中摘除缩写定义行并记入 parser.Context
type abbrDefinitionTransformer struct{}

func (t *abbrDefinitionTransformer) Transform(node *ast.Paragraph, reader text.Reader, pc parser.Context) {
	lines := node.Lines()
	source := reader.Source()
	kept := text.NewSegments()
	found := false

	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		m := abbrDefRe.FindSubmatch(seg.Value(source))
		if m == nil {
			kept.Append(seg)
			continue
		}
		found = true
		defs := abbreviations(pc)
		if defs == nil {
			defs = map[string]string{}
			pc.Set(abbrKey, defs)
		}
		term, title := strings.TrimSpace(string(m[1])), string(m[2])
		if title == "" {
			delete(defs, term)
		} else {
			defs[term] = title
		}
	}
	if !found {
		return
	}

	if kept.Len() == 0 {
		tb := ast.NewTextBlock()
		tb.SetBlankPreviousLines(node.HasBlankPreviousLines())
		node.Parent().ReplaceChild(node.Parent(), node, tb)
		return
	}
	last := kept.Len() - 1
	kept.Set(last, kept.At(last).TrimRightSpace(source))
	node.SetLines(kept)
}

// abbrTransformer 把文本中出现的已定义缩写包进 Abbreviation 节点
type abbrTransformer struct{}

func (t *abbrTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	defs := abbreviations(pc)
	if len(defs) == 0 {
		return
	}
	re := abbrPattern(defs)
	source := reader.Source()

	var texts []*ast.Text
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.CodeSpan, *ast.RawHTML, *ast.AutoLink, *Abbreviation:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if !n.IsRaw() {
				texts = append(texts, n)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, n := range texts {
		splitAbbreviations(n, re, defs, source)
	}
}

// abbrPattern 长词优先，避免 "HTML5" 被 "HTML" 截断
func abbrPattern(defs map[string]string) *regexp.Regexp {
	terms := make([]string, 0, len(defs))
	for term := range defs {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	for i, term := range terms {
		terms[i] = regexp.QuoteMeta(term)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(terms, "|") + `)\b`)
}

func splitAbbreviations(n *ast.Text, re *regexp.Regexp, defs map[string]string, source []byte) {
	seg := n.Segment
	matches := re.FindAllIndex(seg.Value(source), -1)
	if len(matches) == 0 {
		return
	}
	parent := n.Parent()
	pos := seg.Start
	for _, m := range matches {
		start, stop := seg.Start+m[0], seg.Start+m[1]
		if start > pos {
			parent.InsertBefore(parent, n, ast.NewTextSegment(text.NewSegment(pos, start)))
		}
		abbr := &Abbreviation{Title: []byte(defs[string(source[start:stop])])}
		abbr.AppendChild(abbr, ast.NewTextSegment(text.NewSegment(start, stop)))
		parent.InsertBefore(parent, n, abbr)
		pos = stop
	}
	// 余下部分沿用原节点，保留换行标记
	n.Segment = text.NewSegment(pos, seg.Stop)
}

type abbrRenderer struct{}

func (r *abbrRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAbbreviation, r.renderAbbreviation)
}

func (r *abbrRenderer) renderAbbreviation(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<abbr title="`)
		_, _ = w.Write(util.EscapeHTML(node.(*Abbreviation).Title))
		_, _ = w.WriteString(`">`)
	} else {
		_, _ = w.WriteString("</abbr>")
	}
	return ast.WalkContinue, nil
}

type abbreviationExtension struct{}

// AbbreviationExtension 缩写扩展：*[TERM]: 标题 定义行不输出，正文中的 TERM 渲染为 <abbr>
var AbbreviationExtension goldmark.Extender = &abbreviationExtension{}

func (e *abbreviationExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithParagraphTransformers(util.Prioritized(&abbrDefinitionTransformer{}, 200)),
		parser.WithASTTransformers(util.Prioritized(&abbrTransformer{}, 200)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&abbrRenderer{}, 500)),
	)
}
