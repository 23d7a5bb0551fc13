// Package imgbb uploads local images to ImgBB and returns their public URLs.
package imgbb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decode support
	_ "image/jpeg" // JPEG decode support
	_ "image/png"  // PNG decode support
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "golang.org/x/image/bmp"  // BMP decode support
	_ "golang.org/x/image/tiff" // TIFF decode support
	_ "golang.org/x/image/webp" // WebP decode support
)

// DefaultEndpoint ImgBB 上传接口
const DefaultEndpoint = "https://api.imgbb.com/1/upload"

// MaxFileSize ImgBB 单文件上限 32 MB
const MaxFileSize = 32 << 20

// UploadError 上传失败：HTTP 非 2xx、响应格式错误或文件不可上传
type UploadError struct {
	Path       string
	StatusCode int
	Message    string
}

func (e *UploadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("imgbb: %s: HTTP %d: %s", filepath.Base(e.Path), e.StatusCode, e.Message)
	}
	return fmt.Sprintf("imgbb: %s: %s", filepath.Base(e.Path), e.Message)
}

// Client ImgBB 客户端，实现 converter.Uploader
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewClient 创建客户端，endpoint 为空时使用 DefaultEndpoint
func NewClient(apiKey, endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload 上传 path 指向的图片，返回公开 URL
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &UploadError{Path: path, Message: err.Error()}
	}
	if len(data) > MaxFileSize {
		return "", &UploadError{Path: path, Message: fmt.Sprintf("file too large (%d bytes)", len(data))}
	}
	format, err := DetectFormat(data)
	if err != nil {
		return "", &UploadError{Path: path, Message: err.Error()}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filepath.Base(path)))
	h.Set("Content-Type", "image/"+format)
	part, err := writer.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	endpoint := c.endpoint + "?" + url.Values{"key": {c.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// url.Error 会带上含 key 的完整地址，只保留底层错误
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return "", &UploadError{Path: path, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &UploadError{Path: path, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &UploadError{Path: path, StatusCode: resp.StatusCode, Message: "malformed response: " + truncate(string(raw), 200)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !out.Success {
		msg := out.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &UploadError{Path: path, StatusCode: resp.StatusCode, Message: msg}
	}
	if out.Data.URL == "" {
		return "", &UploadError{Path: path, StatusCode: resp.StatusCode, Message: "response has no data.url"}
	}
	return out.Data.URL, nil
}

// DetectFormat 通过文件头识别图片格式（png、jpeg、gif、webp、bmp、tiff）
func DetectFormat(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unsupported image format: %w", err)
	}
	return format, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
