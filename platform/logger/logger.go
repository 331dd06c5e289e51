// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// CampaignIDKey is the context key for campaign ID
	CampaignIDKey contextKey = "campaign_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports request_id and campaign_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = newLogger.WithRequestID(requestID)
	}

	if campaignID, ok := ctx.Value(CampaignIDKey).(string); ok && campaignID != "" {
		newLogger = newLogger.WithCampaignID(campaignID)
	}

	return newLogger
}

// WithRequestID returns a logger with request ID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("request_id", requestID)),
	}
}

// WithCampaignID returns a logger with campaign ID
func (l *Logger) WithCampaignID(campaignID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("campaign_id", campaignID)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// StageEvent logs a pipeline stage transition for a campaign.
func (l *Logger) StageEvent(campaignID, stage, step string) {
	l.Info("pipeline_stage",
		slog.String("campaign_id", campaignID),
		slog.String("stage", stage),
		slog.String("step", step),
	)
}

// StageError logs a recoverable pipeline stage failure.
func (l *Logger) StageError(campaignID, stage string, err error) {
	l.Error("pipeline_stage_error",
		slog.String("campaign_id", campaignID),
		slog.String("stage", stage),
		slog.String("error", err.Error()),
	)
}

// MailError logs a mail transport failure.
func (l *Logger) MailError(operation, recipient string, err error) {
	l.Error("mail_error",
		slog.String("operation", operation),
		slog.String("recipient", recipient),
		slog.String("error", err.Error()),
	)
}

// StoreError logs an engagement or artifact store failure.
func (l *Logger) StoreError(operation string, err error) {
	l.Error("store_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
