// Package telegraph is a small client for the Telegraph API (telegra.ph).
package telegraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/riverfjs/mdpub/internal/types"
)

const (
	// DefaultBaseURL Telegraph API 地址
	DefaultBaseURL = "https://api.telegra.ph"

	// DeletedTitle 被“删除”页面的标题，Telegraph 不支持真正删除
	DeletedTitle = "Deleted"

	// MaxPageListLimit getPageList 单次最多返回 200 条
	MaxPageListLimit = 200

	maxAttempts      = 3
	maxResponseBytes = 10 << 20
)

var floodWaitRe = regexp.MustCompile(`^FLOOD_WAIT_(\d+)$`)

// ErrNoAccessToken 调用需要 access_token 的方法时未配置令牌
var ErrNoAccessToken = errors.New("telegraph: access token is not set")

// Client is a thin HTTP wrapper around the Telegraph API.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger

	// wait sleeps between FLOOD_WAIT retries; replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new Telegraph client. token may be empty for createAccount.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Every(300*time.Millisecond), 3),
		logger:  slog.Default(),
		wait:    sleep,
	}
}

// SetLogger sets the logger used for retry warnings.
func (c *Client) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

// SetToken replaces the access token, e.g. after CreateAccount.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current access token.
func (c *Client) Token() string {
	return c.token
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// do sends a JSON POST request to the given method and decodes the result.
// FLOOD_WAIT_N answers are retried after N seconds, at most maxAttempts times.
func do[T any](ctx context.Context, c *Client, method string, payload any) (*T, error) {
	endpoint := c.baseURL + "/" + method

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("telegraph: marshal %s request: %w", method, err)
	}

	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("telegraph: create %s request: %w", method, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("telegraph: %s request failed: %w", method, err)
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("telegraph: read %s response: %w", method, err)
		}

		var apiResp Response[T]
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return nil, fmt.Errorf("telegraph: decode %s response (HTTP %d): %w", method, resp.StatusCode, err)
		}
		if apiResp.OK {
			return &apiResp.Result, nil
		}

		if m := floodWaitRe.FindStringSubmatch(apiResp.Error); m != nil && attempt < maxAttempts {
			seconds, _ := strconv.Atoi(m[1])
			c.logger.Warn("Telegraph rate limit, retrying", "method", method, "wait_seconds", seconds, "attempt", attempt)
			if err := c.wait(ctx, time.Duration(seconds)*time.Second); err != nil {
				return nil, err
			}
			continue
		}
		return nil, &APIError{Method: method, Description: apiResp.Error}
	}
}

// CreateAccount creates a new account. The returned token is not stored in c.
func (c *Client) CreateAccount(ctx context.Context, shortName, authorName, authorURL string) (*Account, error) {
	return do[Account](ctx, c, "createAccount", CreateAccountRequest{
		ShortName:  shortName,
		AuthorName: authorName,
		AuthorURL:  authorURL,
	})
}

// CreatePage creates a new page.
func (c *Client) CreatePage(ctx context.Context, req PageRequest) (*Page, error) {
	if c.token == "" {
		return nil, ErrNoAccessToken
	}
	req.AccessToken = c.token
	return do[Page](ctx, c, "createPage", req)
}

// EditPage replaces the title and content of an existing page.
func (c *Client) EditPage(ctx context.Context, path string, req PageRequest) (*Page, error) {
	if c.token == "" {
		return nil, ErrNoAccessToken
	}
	req.AccessToken = c.token
	return do[Page](ctx, c, "editPage/"+url.PathEscape(path), req)
}

// GetPage fetches a page, optionally with its content.
func (c *Client) GetPage(ctx context.Context, path string, withContent bool) (*Page, error) {
	return do[Page](ctx, c, "getPage/"+url.PathEscape(path), getPageRequest{ReturnContent: withContent})
}

// GetPageList returns one page of the account's pages, newest first.
func (c *Client) GetPageList(ctx context.Context, offset, limit int) (*PageList, error) {
	if c.token == "" {
		return nil, ErrNoAccessToken
	}
	if limit <= 0 || limit > MaxPageListLimit {
		limit = MaxPageListLimit
	}
	return do[PageList](ctx, c, "getPageList", getPageListRequest{
		AccessToken: c.token,
		Offset:      offset,
		Limit:       limit,
	})
}

// AllPages pages through getPageList until total_count pages are collected.
func (c *Client) AllPages(ctx context.Context, limit int) ([]Page, error) {
	var pages []Page
	for offset := 0; ; {
		list, err := c.GetPageList(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		pages = append(pages, list.Pages...)
		offset += len(list.Pages)
		if len(list.Pages) == 0 || offset >= list.TotalCount {
			return pages, nil
		}
	}
}

// DeletePage overwrites a page with an empty placeholder.
func (c *Client) DeletePage(ctx context.Context, path string) (*Page, error) {
	return c.EditPage(ctx, path, PageRequest{
		Title:   DeletedTitle,
		Content: []types.Node{{Tag: "p", Children: []types.Node{types.TextNode(" ")}}},
	})
}
