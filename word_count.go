package mdpub

import (
	"github.com/riverfjs/mdpub/internal/buffer"
	"github.com/riverfjs/mdpub/internal/converter"
)

const (
	// MaxMessageLength Telegram 文本消息上限（UTF-16 code units）
	MaxMessageLength = 4096
	// MaxCaptionLength 图片说明上限（UTF-16 code units）
	MaxCaptionLength = 1024
)

// UTF16Len 返回文本的 UTF-16 code units 数量
func UTF16Len(text string) int {
	return buffer.UTF16Len(text)
}

// TextLength 计算 Telegram HTML 在客户端显示的文本长度
//
// Telegram 的长度限制只统计实体解析后的文本，不包括标签。
func TextLength(html string) int {
	return converter.TextLength(html)
}
