package converter

import (
	"html"
	"regexp"
	"strings"
)

var (
	h1Re          = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	tagRe         = regexp.MustCompile(`<[^>]*>`)
	newlineRunsRe = regexp.MustCompile(`\s*\n\s*`)
)

// ExtractTitle 取出第一个 <h1> 作为标题，返回标题和去掉该标题后的 HTML
//
// 没有 <h1> 时返回 ("", src, false)，src 原样返回。
func ExtractTitle(src string) (title, rest string, ok bool) {
	loc := h1Re.FindStringSubmatchIndex(src)
	if loc == nil {
		return "", src, false
	}
	title = tagRe.ReplaceAllString(src[loc[2]:loc[3]], "")
	title = strings.TrimSpace(html.UnescapeString(title))

	rest = src[:loc[0]] + src[loc[1]:]
	rest = strings.TrimSpace(newlineRunsRe.ReplaceAllString(rest, "\n"))
	return title, rest, true
}
