package logoapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"logoobjects/internal/core/apperror"
	appctx "logoobjects/internal/core/context"
	"logoobjects/pkg/logger"
)

var tracer = otel.Tracer("logoobjects/logoapi")

// Client performs authenticated requests against the Logo Objects API.
// It satisfies domain.Requester and is safe for concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	tokens *TokenSource
	log    *logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request logging.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a Client for cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("logoapi")

	if cfg.Username != "" {
		c.tokens = NewTokenSource(cfg, c.http)
	}
	return c, nil
}

// Ping verifies the endpoint is reachable and the credentials are accepted.
func (c *Client) Ping(ctx context.Context) error {
	if c.tokens == nil {
		return nil
	}
	_, err := c.tokens.Token(ctx)
	return err
}

// Do sends one request. path is relative to BaseURL and may carry a query
// string. A 401 invalidates the cached token and the request is retried once.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	payload, contentType, err := encodeBody(body)
	if err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "logoapi "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", pathOnly(path)),
		))
	defer span.End()

	start := time.Now()
	resp, err := c.send(ctx, method, path, payload, contentType)
	if err == nil && resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		resp.Body.Close()
		c.tokens.Invalidate()
		c.log.WithContext(ctx).Debugw("token rejected, retrying", "method", method, "path", path)
		resp, err = c.send(ctx, method, path, payload, contentType)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.WithContext(ctx).Warnw("logo api request failed",
			"method", method, "path", path, "error", err, "duration_ms", time.Since(start).Milliseconds())
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewTransport(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.log.WithContext(ctx).Debugw("logo api request",
		"method", method, "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		appErr := readRemoteError(resp)
		span.SetStatus(codes.Error, appErr.Message)
		if resp.StatusCode >= http.StatusInternalServerError {
			c.log.WithContext(ctx).Warnw("logo api error response",
				"method", method, "path", path, "status", resp.StatusCode, "message", appErr.Message)
		}
		return appErr
	}

	reader, err := decodeBody(resp)
	if err != nil {
		return apperror.NewTransport(err)
	}
	defer reader.Close()

	if err := decodeInto(reader, out); err != nil {
		return apperror.NewTransport(fmt.Errorf("decode %s %s response: %w", method, pathOnly(path), err))
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, contentType string) (*http.Response, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), bodyReader)
	if err != nil {
		return nil, apperror.NewValidation("invalid request").WithCause(err).WithDetail("path", path)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", acceptEncoding)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if requestID := appctx.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.http.Do(req)
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.cfg.root() + path
}

func pathOnly(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
