package remote

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fjord-cli/fjord/internal/log"
)

const defaultTimeout = 60 * time.Second

// Doer abstracts the ability to execute HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// LoggingClient wraps a Doer and writes every request and response at
// trace level, redacting credentials.
type LoggingClient struct {
	wrapped Doer
	logger  *slog.Logger
}

// NewLoggingClient wraps client, or a default http.Client when client is nil.
func NewLoggingClient(client Doer, logger *slog.Logger) *LoggingClient {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LoggingClient{wrapped: client, logger: logger}
}

func (c *LoggingClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if !c.logger.Enabled(ctx, log.LevelTrace) {
		return c.wrapped.Do(req)
	}

	start := time.Now()
	c.logRequest(req)

	resp, err := c.wrapped.Do(req)
	duration := time.Since(start)
	if err != nil {
		attrs := append(log.FetchLogContextAttrs(ctx),
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		c.logger.LogAttrs(ctx, log.LevelTrace, "HTTP request failed", attrs...)
		return nil, err
	}

	c.logResponse(req, resp, duration)
	return resp, nil
}

func (c *LoggingClient) logRequest(req *http.Request) {
	attrs := append(log.FetchLogContextAttrs(req.Context()),
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Any("headers", redactHeaders(req.Header, "authorization")),
	)
	c.logger.LogAttrs(req.Context(), log.LevelTrace, "HTTP request", attrs...)
}

func (c *LoggingClient) logResponse(req *http.Request, resp *http.Response, duration time.Duration) {
	attrs := append(log.FetchLogContextAttrs(req.Context()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
		slog.Any("headers", redactHeaders(resp.Header, "set-cookie")),
	)
	if resp.ContentLength > 0 {
		attrs = append(attrs, slog.Int64("content_length", resp.ContentLength))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if body, err := peekBody(resp); err == nil && body != "" {
			const maxLen = 1000
			if len(body) > maxLen {
				body = fmt.Sprintf("%s... [truncated, total %d bytes]", body[:maxLen], len(body))
			}
			attrs = append(attrs, slog.String("error_body", body))
		}
	}

	c.logger.LogAttrs(req.Context(), log.LevelTrace, "HTTP response", attrs...)
}

func redactHeaders(h http.Header, sensitive string) map[string]string {
	headers := make(map[string]string, len(h))
	for k, v := range h {
		key := strings.ToLower(k)
		if key == sensitive || strings.Contains(key, "token") {
			headers[k] = "[REDACTED]"
			continue
		}
		headers[k] = strings.Join(v, ", ")
	}
	return headers
}

// peekBody reads the body and puts an identical reader back in its place.
func peekBody(resp *http.Response) (string, error) {
	if resp.Body == nil {
		return "", nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	resp.Body = io.NopCloser(bytes.NewReader(b))
	return string(b), nil
}
