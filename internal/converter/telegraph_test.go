package converter

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverfjs/mdpub/internal/parser"
	"github.com/riverfjs/mdpub/internal/types"
)

func compileJSON(t *testing.T, src string, assets AssetMap) string {
	t.Helper()
	root, err := parser.ParseFragment(src)
	require.NoError(t, err)
	data, err := json.Marshal(CompileNodes(root, assets))
	require.NoError(t, err)
	return string(data)
}

func TestCompileNodes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"paragraph", "<p>Hello <b>world</b></p>", `[{"tag":"p","children":["Hello ",{"tag":"b","children":["world"]}]}]`},
		{"whitespace text skipped", "<p>a</p>\n\n<p>b</p>", `[{"tag":"p","children":["a"]},{"tag":"p","children":["b"]}]`},
		{"h1 and h2 become h3", "<h1>A</h1><h2>B</h2><h4>C</h4>", `[{"tag":"h3","children":["A"]},{"tag":"h3","children":["B"]},{"tag":"h4","children":["C"]}]`},
		{"unknown tags spliced", "<div><span>x</span><p>y</p></div>", `["x",{"tag":"p","children":["y"]}]`},
		{"br and hr are leaves", `<p>a<br class="x">b</p><hr id="h">`, `[{"tag":"p","children":["a",{"tag":"br"},"b"]},{"tag":"hr"}]`},
		{
			"link attributes filtered",
			`<a href="https://e.com" title="T" class="c" target="_blank">e</a>`,
			`[{"tag":"a","attrs":{"href":"https://e.com","title":"T"},"children":["e"]}]`,
		},
		{"empty attributes omitted", `<a href="" title="">e</a>`, `[{"tag":"a","children":["e"]}]`},
		{"element without children", "<p></p>", `[{"tag":"p"}]`},
		{"iframe keeps src", `<iframe src="https://youtube.com/embed/x" width="5"></iframe>`, `[{"tag":"iframe","attrs":{"src":"https://youtube.com/embed/x"}}]`},
		{"remote image", `<img src="https://e.com/a.png" alt="A" width="3">`, `[{"tag":"img","attrs":{"alt":"A","src":"https://e.com/a.png"}}]`},
		{"image with only src", `<img src=" https://e.com/b.png ">`, `[{"tag":"img","attrs":{"src":"https://e.com/b.png"}}]`},
		{"image without src dropped", `<p><img alt="x">t</p>`, `[{"tag":"p","children":["t"]}]`},
		{"unresolved local image dropped", `<p><img src="a.png"></p>`, `[{"tag":"p"}]`},
		{
			"lists kept as nodes",
			"<ul>\n<li>a</li>\n<li>b</li>\n</ul>",
			`[{"tag":"ul","children":[{"tag":"li","children":["a"]},{"tag":"li","children":["b"]}]}]`,
		},
		{
			"code block",
			`<pre><code class="language-go">x := 1</code></pre>`,
			`[{"tag":"pre","children":[{"tag":"code","children":["x := 1"]}]}]`,
		},
		{"comments dropped", "<p>a<!-- c -->b</p>", `[{"tag":"p","children":["a","b"]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, compileJSON(t, tt.src, nil))
		})
	}
}

func TestCompileNodesUsesAssetMap(t *testing.T) {
	got := compileJSON(t, `<p><img src="pics/a.png" alt="A"></p>`, AssetMap{"pics/a.png": "https://i.ibb.co/a.png"})
	assert.JSONEq(t, `[{"tag":"p","children":[{"tag":"img","attrs":{"src":"https://i.ibb.co/a.png","alt":"A"}}]}]`, got)
}

var telegraphAllowed = map[string]map[string]bool{
	"a": {"href": true, "title": true}, "aside": {}, "b": {}, "blockquote": {}, "br": {},
	"code": {}, "em": {}, "figcaption": {}, "figure": {}, "h3": {}, "h4": {}, "hr": {},
	"i": {}, "iframe": {"src": true}, "img": {"src": true, "alt": true, "title": true},
	"li": {}, "ol": {}, "p": {}, "pre": {}, "s": {}, "strong": {}, "u": {}, "ul": {},
	"video": {"src": true},
}

func assertTelegraphSchema(t *testing.T, nodes []types.Node) {
	t.Helper()
	for _, n := range nodes {
		if n.IsText() {
			continue
		}
		attrs, ok := telegraphAllowed[n.Tag]
		if !assert.True(t, ok, "unexpected tag %q", n.Tag) {
			continue
		}
		for k := range n.Attrs {
			assert.True(t, attrs[k], "unexpected attribute %q on %q", k, n.Tag)
		}
		if n.Tag == "img" {
			assert.NotEmpty(t, n.Attrs["src"])
		}
		assertTelegraphSchema(t, n.Children)
	}
}

func TestCompileNodesSchema(t *testing.T) {
	src := `<h1 id="t">T</h1><div class="x"><table><thead><tr><th>h</th></tr></thead><tbody><tr><td>1</td></tr></tbody></table>` +
		`<dl><dt>t</dt><dd>d</dd></dl><del>gone</del><sup><a href="#fn:1" class="footnote-ref">1</a></sup>` +
		`<figure><img src="https://e.com/x.png" loading="lazy"><figcaption>cap</figcaption></figure>` +
		`<video src="https://e.com/v.mp4" controls></video><img><img src="local.png"></div>`
	root, err := parser.ParseFragment(src)
	require.NoError(t, err)
	assertTelegraphSchema(t, CompileNodes(root, nil))
}

func TestCompileTelegraph(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o644))

	up := &fakeUploader{}
	opts := quietOptions()
	opts.BaseDir = dir
	opts.Uploader = up

	src := `<p><img src="a.png"><img src="a.png"><img src="missing.png"><img src="https://e.com/r.png"></p>`
	nodes, assets, err := CompileTelegraph(context.Background(), src, opts)
	require.NoError(t, err)

	assert.Equal(t, AssetMap{"a.png": "https://i.ibb.co/a.png"}, assets)
	assert.Equal(t, []string{filepath.Join(dir, "a.png")}, up.calls)

	data, err := json.Marshal(nodes)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"tag":"p","children":[
		{"tag":"img","attrs":{"src":"https://i.ibb.co/a.png"}},
		{"tag":"img","attrs":{"src":"https://i.ibb.co/a.png"}},
		{"tag":"img","attrs":{"src":"https://e.com/r.png"}}
	]}]`, string(data))
}

func TestCompileTelegraphMissingCredential(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o644))

	opts := quietOptions()
	opts.BaseDir = dir

	_, _, err := CompileTelegraph(context.Background(), `<p>x<img src="a.png"></p>`, opts)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestCompileTelegraphMissingFileNeedsNoCredential(t *testing.T) {
	opts := quietOptions()
	opts.BaseDir = t.TempDir()

	nodes, _, err := CompileTelegraph(context.Background(), `<p>x<img src="gone.png"></p>`, opts)
	require.NoError(t, err)
	assert.Equal(t, []types.Node{{Tag: "p", Children: []types.Node{types.TextNode("x")}}}, nodes)
}

func TestCompileTelegraphUploadFailureOmitsImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o644))

	opts := quietOptions()
	opts.BaseDir = dir
	opts.Uploader = &fakeUploader{err: errors.New("boom")}

	nodes, assets, err := CompileTelegraph(context.Background(), `<p>x<img src="a.png"></p>`, opts)
	require.NoError(t, err)
	assert.Empty(t, assets)
	assert.Equal(t, []types.Node{{Tag: "p", Children: []types.Node{types.TextNode("x")}}}, nodes)
}

func TestCompileTelegraphEmpty(t *testing.T) {
	for _, src := range []string{"", "   \n\n ", "<!-- only a comment -->"} {
		_, _, err := CompileTelegraph(context.Background(), src, quietOptions())
		assert.ErrorIs(t, err, ErrEmptyDocument, "input %q", src)
	}
}

func TestCompileTelegraphCancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := quietOptions()
	opts.BaseDir = dir
	opts.Uploader = &fakeUploader{}

	_, _, err := CompileTelegraph(ctx, `<img src="a.png">`, opts)
	assert.ErrorIs(t, err, context.Canceled)
}
