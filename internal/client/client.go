// Package client talks to the folio REST API. Errors come back as
// *domain.AppError so callers can use domain.IsNotFound and friends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/simp-lee/folio/internal/domain"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// Client is a thin JSON client for /api/v1.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// envelope mirrors the server response body.
type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// New creates a Client for the server at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("client: base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: base + "/api/v1", http: httpClient, token: cfg.Token}, nil
}

// SetToken sets the bearer token sent with admin calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges admin credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Token, error) {
	var token domain.Token
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &token); err != nil {
		return nil, err
	}
	c.SetToken(token.AccessToken)
	return &token, nil
}

// Upload sends r as the multipart "file" field and returns the stored URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("client: build upload: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("client: read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("client: build upload: %w", err)
	}

	var res struct {
		URL string `json:"url"`
	}
	if err := c.send(ctx, http.MethodPost, "/admin/uploads", mw.FormDataContentType(), &buf, &res); err != nil {
		return "", err
	}
	return res.URL, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, target any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("client: encode payload: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, contentType, body, target)
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader, target any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return domain.NewAppError(domain.CodeUnavailable, "network error, please try again", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewAppError(domain.CodeUnavailable, "network error, please try again", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 300 {
		return remoteError(resp.StatusCode, env, decodeErr == nil)
	}
	if decodeErr != nil {
		return fmt.Errorf("client: decode response: %w", decodeErr)
	}
	if target == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("client: decode response data: %w", err)
	}
	return nil
}

func remoteError(status int, env envelope, decoded bool) error {
	message := http.StatusText(status)
	if decoded && env.Message != "" {
		message = env.Message
	}
	appErr := domain.NewAppError(domain.CodeFromHTTPStatus(status), message,
		fmt.Errorf("remote status %d", status))
	if len(env.Errors) > 0 {
		appErr.Fields = env.Errors
	}
	return appErr
}

// ListQuery selects a page of a collection.
type ListQuery struct {
	Page   int
	Limit  int
	Sort   string
	Search string
	Filter map[string]string
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for key, value := range q.Filter {
		v.Set(key, value)
	}
	return v
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
