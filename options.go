package mdpub

import (
	"log/slog"

	"github.com/riverfjs/mdpub/internal/converter"
	"github.com/riverfjs/mdpub/internal/imgbb"
)

// Uploader 把本地图片上传到公开图床并返回 URL
type Uploader = converter.Uploader

// ConvertOptions holds options for markdown conversion.
type ConvertOptions struct {
	Uploader Uploader
	Config   *RenderConfig
	Logger   *slog.Logger
}

// Option is a function that configures ConvertOptions.
type Option func(*ConvertOptions)

// WithUploader sets the image host used for local images. nil disables rehosting.
func WithUploader(u Uploader) Option {
	return func(opts *ConvertOptions) {
		opts.Uploader = u
	}
}

// WithImgBBKey rehosts local images on ImgBB. An empty key disables rehosting.
func WithImgBBKey(apiKey string) Option {
	return func(opts *ConvertOptions) {
		if apiKey == "" {
			opts.Uploader = nil
			return
		}
		opts.Uploader = imgbb.NewClient(apiKey, "")
	}
}

// WithConfig sets a custom RenderConfig.
func WithConfig(config *RenderConfig) Option {
	return func(opts *ConvertOptions) {
		opts.Config = config
	}
}

// WithMermaid toggles rendering of ```mermaid blocks as mermaid.ink images.
func WithMermaid(enable bool) Option {
	return func(opts *ConvertOptions) {
		base := opts.Config
		if base == nil {
			base = DefaultConfig()
		}
		cfg := *base
		cfg.RenderMermaid = enable
		opts.Config = &cfg
	}
}

// WithLogger sets the logger for upload progress and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *ConvertOptions) {
		opts.Logger = logger
	}
}

// defaultConvertOptions returns the default conversion options.
func defaultConvertOptions() *ConvertOptions {
	return &ConvertOptions{
		Config: DefaultConfig(),
		Logger: Logger,
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *ConvertOptions {
	options := defaultConvertOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.Config == nil {
		options.Config = DefaultConfig()
	}
	return options
}

func (o *ConvertOptions) converterOptions(baseDir string) converter.Options {
	return converter.Options{
		BaseDir:  baseDir,
		Uploader: o.Uploader,
		Config:   o.Config,
		Logger:   o.Logger,
	}
}
