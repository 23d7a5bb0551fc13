package buffer

import "strings"

// UTF16Len returns the length of text measured in UTF-16 code units.
func UTF16Len(text string) int {
	count := 0
	for _, r := range text {
		if r > 0xFFFF {
			count += 2
		} else {
			count++
		}
	}
	return count
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
	"'", "&#39;",
)

// MarkupBuffer accumulates serialized HTML and tracks the UTF-16 length of
// the visible text written so far.
type MarkupBuffer struct {
	sb         strings.Builder
	textLength int
}

// New creates a new MarkupBuffer.
func New() *MarkupBuffer {
	return &MarkupBuffer{}
}

// WriteText appends escaped text content.
func (b *MarkupBuffer) WriteText(text string) {
	b.sb.WriteString(textEscaper.Replace(text))
	b.textLength += UTF16Len(text)
}

// WriteMarkup appends s verbatim without counting it as visible text.
func (b *MarkupBuffer) WriteMarkup(s string) {
	b.sb.WriteString(s)
}

// OpenTag writes <name k="v" ...>. Attributes are written in the given order.
func (b *MarkupBuffer) OpenTag(name string, attrs ...string) {
	b.sb.WriteByte('<')
	b.sb.WriteString(name)
	for i := 0; i+1 < len(attrs); i += 2 {
		b.sb.WriteByte(' ')
		b.sb.WriteString(attrs[i])
		b.sb.WriteString(`="`)
		b.sb.WriteString(attrEscaper.Replace(attrs[i+1]))
		b.sb.WriteByte('"')
	}
	b.sb.WriteByte('>')
}

// CloseTag writes </name>.
func (b *MarkupBuffer) CloseTag(name string) {
	b.sb.WriteString("</")
	b.sb.WriteString(name)
	b.sb.WriteByte('>')
}

// VoidTag writes a self-closing element such as <br/>.
func (b *MarkupBuffer) VoidTag(name string) {
	b.sb.WriteByte('<')
	b.sb.WriteString(name)
	b.sb.WriteString("/>")
}

// TextLength returns the UTF-16 length of the text written via WriteText.
func (b *MarkupBuffer) TextLength() int {
	return b.textLength
}

// String returns the accumulated markup.
func (b *MarkupBuffer) String() string {
	return b.sb.String()
}

// Reset clears the buffer.
func (b *MarkupBuffer) Reset() {
	b.sb.Reset()
	b.textLength = 0
}
