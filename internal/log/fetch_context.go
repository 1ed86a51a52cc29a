package log

import (
	"context"
	"log/slog"
	"strings"
)

type fetchLogContextKey struct{}

// FetchLogContext carries the metadata emitted with every page request log.
type FetchLogContext struct {
	Command   string
	Tab       string
	Resource  string
	RequestID string
	Page      int
}

// WithFetchLogContext merges the non-empty fields of update into ctx.
func WithFetchLogContext(ctx context.Context, update FetchLogContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	current := FetchLogContextFromContext(ctx)
	mergeString(&current.Command, update.Command)
	mergeString(&current.Tab, update.Tab)
	mergeString(&current.Resource, update.Resource)
	mergeString(&current.RequestID, update.RequestID)
	if update.Page > 0 {
		current.Page = update.Page
	}

	return context.WithValue(ctx, fetchLogContextKey{}, current)
}

// FetchLogContextFromContext extracts fetch logging metadata from ctx.
func FetchLogContextFromContext(ctx context.Context) FetchLogContext {
	if ctx == nil {
		return FetchLogContext{}
	}
	if value, ok := ctx.Value(fetchLogContextKey{}).(FetchLogContext); ok {
		return value
	}
	return FetchLogContext{}
}

// FetchLogContextAttrs converts the context metadata to slog attributes.
func FetchLogContextAttrs(ctx context.Context) []slog.Attr {
	meta := FetchLogContextFromContext(ctx)
	attrs := make([]slog.Attr, 0, 5)

	appendString(&attrs, "command", meta.Command)
	appendString(&attrs, "tab", meta.Tab)
	appendString(&attrs, "resource", meta.Resource)
	appendString(&attrs, "request_id", meta.RequestID)
	if meta.Page > 0 {
		attrs = append(attrs, slog.Int("page", meta.Page))
	}

	return attrs
}

func mergeString(target *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*target = trimmed
	}
}

func appendString(attrs *[]slog.Attr, key, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*attrs = append(*attrs, slog.String(key, trimmed))
	}
}
