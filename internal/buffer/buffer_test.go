package buffer

import "testing"

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"Привет", 6},
		{"😀", 2},
		{"a😀b", 4},
	}
	for _, tt := range tests {
		if got := UTF16Len(tt.text); got != tt.want {
			t.Errorf("UTF16Len(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestMarkupBuffer(t *testing.T) {
	b := New()
	b.OpenTag("a", "href", `https://x.com/?a=1&b="2"`)
	b.WriteText("1 < 2 & 3 > 0")
	b.CloseTag("a")
	b.VoidTag("br")

	want := `<a href="https://x.com/?a=1&amp;b=&#34;2&#34;">1 &lt; 2 &amp; 3 &gt; 0</a><br/>`
	if got := b.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := b.TextLength(); got != 13 {
		t.Errorf("TextLength() = %d, want 13", got)
	}

	b.Reset()
	if b.String() != "" || b.TextLength() != 0 {
		t.Errorf("Reset() left %q (%d)", b.String(), b.TextLength())
	}
}

func TestWriteMarkupNotCounted(t *testing.T) {
	b := New()
	b.OpenTag("pre")
	b.WriteMarkup("\n")
	b.WriteText("\nx")
	b.CloseTag("pre")

	if got, want := b.String(), "<pre>\n\nx</pre>"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := b.TextLength(); got != 2 {
		t.Errorf("TextLength() = %d, want 2", got)
	}
}
