package converter

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AssetMap 原始 src -> 公开 URL
//
// 由 ResolveAssets 一次性构建，之后只读。
type AssetMap map[string]string

// Lookup returns the public URL for a src as written in the document.
func (m AssetMap) Lookup(src string) (string, bool) {
	u, ok := m[src]
	return u, ok
}

type localAsset struct {
	src  string
	path string
}

// ResolveAssets 按文档顺序上传本地图片（同一 src 只上传一次）
//
// 找不到的文件记录警告并跳过；上传失败记录错误，该 src 保持未解析。
// 存在可上传的本地图片但没有 Uploader 时返回 ErrMissingCredential。
func ResolveAssets(ctx context.Context, root *html.Node, opts Options) (AssetMap, error) {
	log := opts.logger()

	var pending []localAsset
	seen := make(map[string]bool)
	for _, img := range collect(root, atom.Img) {
		src := strings.TrimSpace(getAttr(img, "src"))
		if src == "" || isRemote(src) || seen[src] {
			continue
		}
		seen[src] = true

		path := resolveLocal(opts.BaseDir, src)
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			log.Warn("本地图片不存在，已跳过", "src", src, "path", path)
			continue
		}
		pending = append(pending, localAsset{src: src, path: path})
	}

	assets := make(AssetMap, len(pending))
	if len(pending) == 0 {
		return assets, nil
	}
	if opts.Uploader == nil {
		return nil, fmt.Errorf("%w: %d local image(s) found", ErrMissingCredential, len(pending))
	}

	log.Info("上传本地图片", "count", len(pending))
	for _, a := range pending {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		u, err := opts.Uploader.Upload(ctx, a.path)
		if err != nil {
			log.Error("图片上传失败", "src", a.src, "error", err)
			continue
		}
		log.Info("图片已上传", "src", a.src, "url", u)
		assets[a.src] = u
	}
	return assets, nil
}
