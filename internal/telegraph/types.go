package telegraph

import (
	"fmt"

	"github.com/riverfjs/mdpub/internal/types"
)

// Response is the generic Telegraph API response envelope.
type Response[T any] struct {
	OK     bool   `json:"ok"`
	Result T      `json:"result"`
	Error  string `json:"error,omitempty"`
}

// APIError is returned when Telegraph answers with ok=false.
type APIError struct {
	Method      string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegraph: %s: %s", e.Method, e.Description)
}

// Account is a Telegraph account.
type Account struct {
	ShortName   string `json:"short_name"`
	AuthorName  string `json:"author_name"`
	AuthorURL   string `json:"author_url"`
	AccessToken string `json:"access_token,omitempty"`
	AuthURL     string `json:"auth_url,omitempty"`
	PageCount   int    `json:"page_count,omitempty"`
}

// Page is a Telegraph page.
type Page struct {
	Path        string       `json:"path" yaml:"path"`
	URL         string       `json:"url" yaml:"url"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	AuthorName  string       `json:"author_name,omitempty" yaml:"author_name,omitempty"`
	AuthorURL   string       `json:"author_url,omitempty" yaml:"author_url,omitempty"`
	ImageURL    string       `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Content     []types.Node `json:"content,omitempty" yaml:"-"`
	Views       int          `json:"views" yaml:"views"`
	CanEdit     bool         `json:"can_edit,omitempty" yaml:"can_edit,omitempty"`
}

// PageList is the result of getPageList.
type PageList struct {
	TotalCount int    `json:"total_count"`
	Pages      []Page `json:"pages"`
}

// CreateAccountRequest is the request body for createAccount.
type CreateAccountRequest struct {
	ShortName  string `json:"short_name"`
	AuthorName string `json:"author_name,omitempty"`
	AuthorURL  string `json:"author_url,omitempty"`
}

// PageRequest is the request body shared by createPage and editPage.
type PageRequest struct {
	AccessToken   string       `json:"access_token"`
	Title         string       `json:"title"`
	AuthorName    string       `json:"author_name,omitempty"`
	AuthorURL     string       `json:"author_url,omitempty"`
	Content       []types.Node `json:"content"`
	ReturnContent bool         `json:"return_content,omitempty"`
}

type getPageRequest struct {
	ReturnContent bool `json:"return_content,omitempty"`
}

type getPageListRequest struct {
	AccessToken string `json:"access_token"`
	Offset      int    `json:"offset"`
	Limit       int    `json:"limit"`
}
