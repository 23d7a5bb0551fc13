package mermaid

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// InkBaseURL mermaid.ink 图片渲染服务
const InkBaseURL = "https://mermaid.ink/img/"

// Config Mermaid 配置
type Config struct {
	Theme string `json:"theme"`
}

// DefaultConfig 返回默认 Mermaid 配置
func DefaultConfig() *Config {
	return &Config{
		Theme: "default",
	}
}

// compressToDeflate 使用 DEFLATE 算法压缩数据
func compressToDeflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode 生成图表的 pako 编码（mermaid.live 与 mermaid.ink 共用）
func Encode(diagram string, config *Config) (string, error) {
	if config == nil {
		config = DefaultConfig()
	}
	payload, err := json.Marshal(struct {
		Code    string  `json:"code"`
		Mermaid *Config `json:"mermaid"`
	}{Code: diagram, Mermaid: config})
	if err != nil {
		return "", err
	}
	compressed, err := compressToDeflate(payload)
	if err != nil {
		return "", err
	}
	return "pako:" + base64.URLEncoding.EncodeToString(compressed), nil
}

// InkURL 返回图表的 PNG 图片地址
func InkURL(diagram string, config *Config) (string, error) {
	diagram = strings.TrimSpace(diagram)
	if diagram == "" {
		return "", fmt.Errorf("mermaid: empty diagram")
	}
	if config == nil {
		config = DefaultConfig()
	}
	pako, err := Encode(diagram, config)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("type", "png")
	q.Set("theme", config.Theme)
	return InkBaseURL + pako + "?" + q.Encode(), nil
}
