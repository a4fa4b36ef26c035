package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trippal/admin-console/internal/config"
	"github.com/trippal/admin-console/internal/observability"
	"github.com/trippal/admin-console/pkg/util"
)

// TokenSource supplies the bearer token for outbound requests. It is
// consulted fresh on every call, never cached at client construction,
// so a login or logout is visible to the very next request.
type TokenSource interface {
	Access() string
}

// staticToken satisfies TokenSource with a fixed value. Used while an
// authentication transaction holds staged, not-yet-persisted tokens.
type staticToken string

func (t staticToken) Access() string { return string(t) }

// Client dispatches JSON requests against the configured API root.
// A 401 is surfaced to the caller unchanged: no automatic retry and
// no token refresh happens here.
type Client struct {
	baseURL string
	timeout time.Duration
	httpc   *http.Client
	tokens  TokenSource
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewClient builds a client for the configured base URL.
func NewClient(cfg config.APIConfig, tokens TokenSource, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.RequestTimeout(),
		httpc:   &http.Client{},
		tokens:  tokens,
		logger:  logger,
	}
}

// WithToken returns a copy of the client that authenticates with the
// given token instead of the persisted one.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.tokens = staticToken(token)
	return &clone
}

// WithMetrics returns a copy of the client that records per-endpoint
// request and error counters.
func (c *Client) WithMetrics(metrics *observability.Metrics) *Client {
	clone := *c
	clone.metrics = metrics
	return &clone
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorBody is the structured error envelope the backend uses.
type errorBody struct {
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// doMultipart issues a multipart/form-data request with a single file
// field. Used by the avatar upload endpoint only.
func (c *Client) doMultipart(ctx context.Context, method, path, field, fileName, contentType string, data []byte, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	// Bearer token read at call time, not at client construction.
	if token := c.tokens.Access(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
	defer cancel()
	req = req.WithContext(ctx)

	requestID := uuid.NewString()
	started := time.Now()

	resp, err := c.httpc.Do(req)
	if err != nil {
		clientErr := util.ToClientError(err)
		c.metrics.RecordError(req.URL.Path, req.Method, string(clientErr.Kind))
		c.logger.Warn("request failed",
			zap.String("request_id", requestID),
			zap.String("method", req.Method),
			zap.String("url", req.URL.Path),
			zap.String("kind", string(clientErr.Kind)),
			zap.Duration("elapsed", time.Since(started)),
		)
		return clientErr
	}
	defer resp.Body.Close()

	c.metrics.RecordRequest(req.URL.Path, req.Method, resp.StatusCode, time.Since(started))
	c.logger.Debug("request complete",
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("url", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode >= 400 {
		detail := extractDetail(resp.Body)
		if resp.StatusCode == http.StatusUnauthorized {
			return util.NewAuthError(detail)
		}
		return util.NewServerError(resp.StatusCode, detail)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return util.NewServerError(resp.StatusCode, "malformed response body")
	}
	return nil
}

// extractDetail pulls the message out of a structured error body,
// returning "" when the body is not the expected envelope.
func extractDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil {
		return ""
	}
	var envelope errorBody
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	return envelope.Detail
}
