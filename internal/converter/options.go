package converter

import (
	"context"
	"errors"
	"log/slog"

	"github.com/riverfjs/mdpub/internal/types"
)

var (
	// ErrMissingCredential 文档含本地图片但没有配置图床
	ErrMissingCredential = errors.New("local images require IMGBB_API_KEY")
	// ErrEmptyDocument 编译结果为空
	ErrEmptyDocument = errors.New("nothing to publish")
)

// Uploader 把本地文件上传到公开图床并返回可访问的 URL
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Options 单次转换的参数
type Options struct {
	BaseDir  string // 相对图片路径的解析目录
	Uploader Uploader
	Config   *types.RenderConfig
	Logger   *slog.Logger
}

func (o Options) config() *types.RenderConfig {
	if o.Config == nil {
		return types.DefaultRenderConfig()
	}
	return o.Config
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}
