package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fjord-cli/fjord/internal/dashboard"
	apperr "github.com/fjord-cli/fjord/internal/err"
	"github.com/fjord-cli/fjord/internal/log"
	"github.com/fjord-cli/fjord/internal/meta"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	// Token is sent verbatim in the Authorization header.
	Token string
	// PageInterval overrides the per-kind pause between page requests when
	// positive.
	PageInterval time.Duration
	HTTPClient   Doer
	Logger       *slog.Logger
}

// Client fetches complete item lists from the paginated API. It keeps no
// items between calls.
type Client struct {
	baseURL      string
	token        string
	pageInterval time.Duration
	doer         Doer
	logger       *slog.Logger
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, &apperr.ConfigurationError{Err: fmt.Errorf("base URL cannot be empty")}
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, &apperr.ConfigurationError{Err: fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:      base,
		token:        strings.TrimSpace(opts.Token),
		pageInterval: opts.PageInterval,
		doer:         NewLoggingClient(opts.HTTPClient, logger),
		logger:       logger,
	}, nil
}

func (c *Client) interval(kind dashboard.Kind) time.Duration {
	if c.pageInterval > 0 {
		return c.pageInterval
	}
	return kind.PageInterval()
}

// Fetch requests pages 1, 2, 3, ... of kind's resource until a page comes
// back empty and returns every item in server order. Any failure discards
// what was fetched so far.
func (c *Client) Fetch(ctx context.Context, kind dashboard.Kind) ([]dashboard.Item, error) {
	if c.token == "" {
		return nil, &apperr.AuthMissingError{Source: meta.TokenEnvVar}
	}

	ctx = log.WithFetchLogContext(ctx, log.FetchLogContext{
		Resource:  kind.Resource(),
		RequestID: uuid.NewString(),
	})
	interval := c.interval(kind)

	var items []dashboard.Item
	for page := 1; ; page++ {
		if page > 1 {
			if err := pause(ctx, interval); err != nil {
				return nil, &apperr.TransportError{Resource: kind.Resource(), Page: page, Err: err}
			}
		}

		pageCtx := log.WithFetchLogContext(ctx, log.FetchLogContext{Page: page})
		batch, err := c.fetchPage(pageCtx, kind, page)
		if err != nil {
			c.logger.LogAttrs(pageCtx, slog.LevelDebug, "page fetch failed",
				append(log.FetchLogContextAttrs(pageCtx), slog.String("error", err.Error()))...)
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		items = append(items, batch...)
	}

	c.logger.LogAttrs(ctx, slog.LevelDebug, "fetch complete",
		append(log.FetchLogContextAttrs(ctx), slog.Int("items", len(items)))...)
	return items, nil
}

// pause blocks for a full d from now, so the gap between pages does not
// shrink when a response is slow. It returns early with ctx's error.
func pause(ctx context.Context, d time.Duration) error {
	limiter := rate.NewLimiter(rate.Every(d), 1)
	limiter.Allow()
	return limiter.Wait(ctx)
}

func (c *Client) pageURL(kind dashboard.Kind, page int) string {
	return c.baseURL + "/" + kind.Resource() + ".json?page=" + strconv.Itoa(page)
}

func (c *Client) fetchPage(ctx context.Context, kind dashboard.Kind, page int) ([]dashboard.Item, error) {
	transportErr := func(status int, err error) error {
		return &apperr.TransportError{Resource: kind.Resource(), Page: page, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(kind, page), nil)
	if err != nil {
		return nil, transportErr(0, err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, transportErr(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, transportErr(resp.StatusCode, fmt.Errorf("%s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportErr(0, err)
	}

	items, err := decodePage(kind, body)
	if err != nil {
		return nil, &apperr.DecodeError{Resource: kind.Resource(), Page: page, Err: err}
	}
	return items, nil
}
