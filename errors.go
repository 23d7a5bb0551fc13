package mdpub

import (
	"github.com/riverfjs/mdpub/internal/converter"
	"github.com/riverfjs/mdpub/internal/parser"
)

var (
	// ErrSourceNotFound Markdown 文件不存在
	ErrSourceNotFound = parser.ErrSourceNotFound
	// ErrSourceRead Markdown 文件无法读取或不是 UTF-8
	ErrSourceRead = parser.ErrSourceRead
	// ErrMissingCredential 文档含本地图片但没有配置图床（仅 Telegraph）
	ErrMissingCredential = converter.ErrMissingCredential
	// ErrEmptyDocument 没有可发布的内容
	ErrEmptyDocument = converter.ErrEmptyDocument
)
