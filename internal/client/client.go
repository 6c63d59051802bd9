// Package client provides a Go client for the catalog API, including a
// paginator that mirrors the server's cursor contract.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rehabworks/catalog/internal/models"
	"github.com/rehabworks/catalog/internal/pagination"
)

const defaultHTTPTimeout = 10 * time.Second

// APIError is returned for any non-success HTTP status. The message comes
// from the server's error body when it is parseable JSON; otherwise the
// error is reported uniformly by status alone.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog API error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog API error (%d)", e.StatusCode)
}

// Client talks to the catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client with a default HTTP timeout.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

// NewWithHTTPClient creates a client with a caller-supplied http.Client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// ListOptions are the filter and sort parameters of a list request. A zero
// value lists everything in default order.
type ListOptions struct {
	Category string
	Type     string
	Query    string
	Sort     string
	Order    string
	Limit    int
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Category != "" {
		v.Set("category", o.Category)
	}
	if o.Type != "" {
		v.Set("type", o.Type)
	}
	if o.Query != "" {
		v.Set("q", o.Query)
	}
	if o.Sort != "" {
		v.Set("sort", o.Sort)
	}
	if o.Order != "" {
		v.Set("order", o.Order)
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	return v
}

// ListPage is a decoded list response in either mode.
type ListPage struct {
	Mode       string             `json:"mode"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Total      int                `json:"total"`
	Rows       []models.Summary   `json:"rows"`
	HasNext    bool               `json:"hasNext"`
	NextCursor *pagination.Cursor `json:"nextCursor"`
}

// ListOffset fetches a page in offset mode.
func (c *Client) ListOffset(ctx context.Context, opts ListOptions, page int) (*ListPage, error) {
	v := opts.values()
	v.Set("mode", "offset")
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	return c.list(ctx, v)
}

// ListCursor fetches a page in cursor mode. A nil cursor requests the first
// page.
func (c *Client) ListCursor(ctx context.Context, opts ListOptions, cur *pagination.Cursor) (*ListPage, error) {
	v := opts.values()
	v.Set("mode", "cursor")
	if cur != nil {
		v.Set("cursorId", strconv.FormatInt(cur.ID, 10))
		v.Set("cursorCreatedAt", cur.CreatedAt.Format(time.RFC3339Nano))
	}
	return c.list(ctx, v)
}

func (c *Client) list(ctx context.Context, v url.Values) (*ListPage, error) {
	var page ListPage
	endpoint := c.baseURL + "/api/contents?" + v.Encode()
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a full record by id.
func (c *Client) Get(ctx context.Context, id int64) (*models.Content, error) {
	var content models.Content
	endpoint := fmt.Sprintf("%s/api/contents/%d", c.baseURL, id)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// Update patches an article's title and/or content and returns the updated
// record.
func (c *Client) Update(ctx context.Context, id int64, patch models.UpdatePatch) (*models.Content, error) {
	var content models.Content
	endpoint := fmt.Sprintf("%s/api/contents/%d", c.baseURL, id)
	if err := c.doJSON(ctx, http.MethodPut, endpoint, patch, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// Categories fetches the distinct category labels.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	categories := make([]string, 0)
	endpoint := c.baseURL + "/api/categories"
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// doJSON performs a request and decodes the JSON response into out.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, requestBody, out any) error {
	var bodyReader io.Reader
	if requestBody != nil {
		body, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errorResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errorResp) == nil {
			apiErr.Message = errorResp.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
