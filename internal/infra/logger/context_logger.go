package logger

import (
	"context"
	"log/slog"
)

type ContextKey string

const (
	// Business context keys carried through fetch and chat pipelines.
	SessionIDKey ContextKey = "pulse.session.id"
	ChannelKey   ContextKey = "pulse.channel"
	FetchDateKey ContextKey = "pulse.fetch.date"
	PipelineKey  ContextKey = "pulse.pipeline"
)

// ContextLogger attaches request-scoped business context to log records.
type ContextLogger struct {
	logger      *slog.Logger
	serviceName string
}

func NewContextLogger(base *slog.Logger, serviceName string) *ContextLogger {
	return &ContextLogger{
		logger:      base,
		serviceName: serviceName,
	}
}

// WithContext returns a logger with context values extracted and added as fields
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger.With("service", cl.serviceName)

	var fields []any

	if sessionID := ctx.Value(SessionIDKey); sessionID != nil {
		fields = append(fields, string(SessionIDKey), sessionID)
	}
	if channel := ctx.Value(ChannelKey); channel != nil {
		fields = append(fields, string(ChannelKey), channel)
	}
	if date := ctx.Value(FetchDateKey); date != nil {
		fields = append(fields, string(FetchDateKey), date)
	}
	if pipeline := ctx.Value(PipelineKey); pipeline != nil {
		fields = append(fields, string(PipelineKey), pipeline)
	}

	if len(fields) > 0 {
		logger = logger.With(fields...)
	}

	return logger
}

// WithSessionID adds the feed session id to context for observability.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// WithChannel adds the channel handle to context for observability.
func WithChannel(ctx context.Context, channel string) context.Context {
	return context.WithValue(ctx, ChannelKey, channel)
}

// WithFetchDate adds the fetch date bucket to context for observability.
func WithFetchDate(ctx context.Context, date string) context.Context {
	return context.WithValue(ctx, FetchDateKey, date)
}

// WithPipeline adds the processing pipeline name to context for observability.
func WithPipeline(ctx context.Context, pipeline string) context.Context {
	return context.WithValue(ctx, PipelineKey, pipeline)
}
