package webclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/folio-works/portfolio/internal/modules/model"
	"github.com/folio-works/portfolio/internal/modules/serializer"
)

const (
	keyProjects   = "/api/projects"
	keyUser       = "/api/user"
	keyCategories = "/api/categories"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Msg        string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api error %d: %s %v", e.StatusCode, e.Msg, e.Fields)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Msg)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// Client talks to the portfolio API. It keeps the session cookie in a jar, caches reads in
// Cache and invalidates the affected keys before a successful mutation returns.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      *QueryCache
	Logger     *zap.Logger
}

func New(baseURL string, log *zap.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second, Jar: jar},
		Cache:      NewQueryCache(),
		Logger:     log,
	}, nil
}

func projectKey(id string) string { return keyProjects + "/" + id }

func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	return Fetch(ctx, c.Cache, keyProjects, func(ctx context.Context) ([]model.Project, error) {
		var out []model.Project
		err := c.do(ctx, http.MethodGet, keyProjects, nil, &out)
		return out, err
	})
}

func (c *Client) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return Fetch(ctx, c.Cache, projectKey(id), func(ctx context.Context) (*model.Project, error) {
		var out model.Project
		if err := c.do(ctx, http.MethodGet, projectKey(id), nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	return Fetch(ctx, c.Cache, keyCategories, func(ctx context.Context) ([]string, error) {
		var out []string
		err := c.do(ctx, http.MethodGet, keyCategories, nil, &out)
		return out, err
	})
}

// CurrentUser returns ErrUnauthorized (via errors.Is) when no session is active.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	return Fetch(ctx, c.Cache, keyUser, func(ctx context.Context) (*model.User, error) {
		var out model.User
		if err := c.do(ctx, http.MethodGet, keyUser, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func (c *Client) CreateProject(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	var out model.Project
	if err := c.do(ctx, http.MethodPost, keyProjects, in, &out); err != nil {
		return nil, err
	}
	c.Cache.Invalidate(keyProjects)
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, id string, in model.ProjectInput) (*model.Project, error) {
	var out model.Project
	if err := c.do(ctx, http.MethodPatch, projectKey(id), in, &out); err != nil {
		return nil, err
	}
	c.Cache.Invalidate(keyProjects)
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, projectKey(id), nil, nil); err != nil {
		return err
	}
	c.Cache.Invalidate(keyProjects)
	return nil
}

func (c *Client) RecordView(ctx context.Context, id string) (int, error) {
	var out struct {
		Views int `json:"views"`
	}
	if err := c.do(ctx, http.MethodPost, projectKey(id)+"/views", nil, &out); err != nil {
		return 0, err
	}
	c.Cache.Invalidate(keyProjects)
	return out.Views, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*model.User, error) {
	var out model.User
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &out); err != nil {
		return nil, err
	}
	c.Cache.Invalidate(keyUser)
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil); err != nil {
		return err
	}
	c.Cache.Invalidate(keyUser)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := sonic.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Msg: http.StatusText(resp.StatusCode)}
		var env serializer.Response
		if sonic.Unmarshal(raw, &env) == nil && env.Msg != "" {
			apiErr.Msg = env.Msg
			apiErr.Fields = env.Fields
		}
		c.Logger.Debug("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode))
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
