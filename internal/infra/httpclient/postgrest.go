package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/folio-works/portfolio/internal/config"
)

// IncrementViewsFunctionSQL must be installed on the managed database so that view counts are
// incremented atomically instead of with a fetch-modify-write round trip.
const IncrementViewsFunctionSQL = `
create or replace function increment_project_views(project_id text)
returns integer
language sql
as $$
  update projects set views = coalesce(views, 0) + 1
  where id = project_id
  returning views;
$$;`

const (
	PreferReturnRepresentation = "return=representation"
)

// PostgrestClient talks to a managed Postgres backend (Supabase and friends) over its REST gateway.
type PostgrestClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func NewPostgrestClient(cfg *config.Config, log *zap.Logger) *PostgrestClient {
	timeout := time.Duration(cfg.Supabase.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PostgrestClient{
		BaseURL: strings.TrimRight(cfg.Supabase.URL, "/"),
		APIKey:  cfg.Supabase.ServiceRoleKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Logger: log,
	}
}

// APIError is returned for any non-2xx answer from the gateway.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("postgrest request failed with status %d: %s", e.StatusCode, e.Body)
}

// Request describes one call against /rest/v1.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Prefer string
}

// Do sends req and decodes a 2xx JSON answer into out (when out is non-nil).
func (c *PostgrestClient) Do(ctx context.Context, req Request, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.BaseURL, strings.TrimLeft(req.Path, "/"))
	if len(req.Query) > 0 {
		endpoint = endpoint + "?" + req.Query.Encode()
	}

	var reader io.Reader
	if req.Body != nil {
		body, err := sonic.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("apikey", c.APIKey)
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Prefer != "" {
		httpReq.Header.Set("Prefer", req.Prefer)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.Logger.Error("postgrest request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// Eq builds a PostgREST equality filter value.
func Eq(v string) string {
	return "eq." + v
}
