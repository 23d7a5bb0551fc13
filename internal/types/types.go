package types

// Document 表示一次发布读取到的 Markdown 源文件
type Document struct {
	Path    string // 绝对路径
	BaseDir string // 相对图片路径的解析目录
	Source  string // UTF-8 原文
}

// RenderConfig 渲染配置
type RenderConfig struct {
	// LocalImagePlaceholder 无法重新托管的本地图片的占位文本，%s 为原始 src
	LocalImagePlaceholder string
	// UploadErrorPlaceholder 上传失败时的占位文本，%v 为错误
	UploadErrorPlaceholder string
	// RenderMermaid 是否把 ```mermaid 代码块替换为 mermaid.ink 图片
	RenderMermaid bool
	MermaidTheme  string
}

// DefaultRenderConfig 返回默认渲染配置
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		LocalImagePlaceholder:  "[локальное изображение: %s]",
		UploadErrorPlaceholder: "[Ошибка загрузки изображения: %v]",
		RenderMermaid:          false,
		MermaidTheme:           "default",
	}
}
