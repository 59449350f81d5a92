// Package api is the gateway to the budget-tracker REST backend. Every call
// goes through a single client that attaches the session token, normalizes
// failures into display-ready messages and decodes the typed response.
package api

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
	"strconv"
	"strings"
	"time"

	"budgetview/internal/session"
)

const defaultTimeout = 15 * time.Second

// Client talks to the backend API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
	logger  *slog.Logger
}

// NewClient creates a gateway client. baseURL is the backend origin without
// the /api prefix, e.g. "https://tracker.example.com".
func NewClient(baseURL string, sess *session.Store, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		session: sess,
		logger:  logger,
	}
}

// Page is the backend's paginated list envelope.
type Page[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}

// ListParams is the paging and ordering every list endpoint accepts. Ordering
// is a field name, prefixed with "-" for descending.
type ListParams struct {
	Page     int
	PageSize int
	Ordering string
}

func (p ListParams) apply(q url.Values) {
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Ordering != "" {
		q.Set("ordering", p.Ordering)
	}
}

// Ping reports whether the backend is reachable. Any HTTP response counts as
// reachable, even an auth rejection; only transport failures do not.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "summary/", nil, nil, nil)
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return nil
	}
	return err
}

// do performs one backend request. path is relative to /api/ and must carry
// the backend's trailing slash. A nil out skips response decoding.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + "/api/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.WarnContext(ctx, "Backend unreachable",
			"method", method,
			"path", path,
			"error", err)
		return connectError()
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "Backend request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return normalizeError(resp.StatusCode, raw)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, path, err)
	}
	return nil
}
