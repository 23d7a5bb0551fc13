package converter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"

	"github.com/riverfjs/mdpub/internal/mermaid"
	"github.com/riverfjs/mdpub/internal/parser"
)

func TestReplaceMermaidBlocks(t *testing.T) {
	src := "<p>before</p>\n" +
		"<pre><code class=\"language-mermaid\">graph LR\n  A--&gt;B\n</code></pre>\n" +
		"<pre><code class=\"language-go\">x := 1\n</code></pre>"
	root, err := parser.ParseFragment(src)
	require.NoError(t, err)

	n := ReplaceMermaidBlocks(root, "default")
	assert.Equal(t, 1, n)

	imgs := collect(root, atom.Img)
	require.Len(t, imgs, 1)
	got := getAttr(imgs[0], "src")
	assert.True(t, strings.HasPrefix(got, mermaid.InkBaseURL+"pako:"), got)

	want, err := mermaid.InkURL("graph LR\n  A-->B\n", &mermaid.Config{Theme: "default"})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// 其他语言的代码块保持不变
	assert.Len(t, collect(root, atom.Pre), 1)
}
