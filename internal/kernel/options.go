package kernel

import (
	"context"
	"io"
	"log/slog"
	"time"
)

const (
	defaultMaxLines        = 200
	defaultRefreshInterval = 100 * time.Millisecond
)

// config stores resolved console settings after option application.
type config struct {
	maxLines        int
	refreshInterval time.Duration
	hostLogLevel    slog.Leveler
	logger          *slog.Logger
	onDiagnostic    func(context.Context, string, error)
}

// Option mutates kernel construction configuration.
type Option func(*config)

// defaultConfig returns the settings used when no option overrides them.
func defaultConfig() config {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return config{
		maxLines:        defaultMaxLines,
		refreshInterval: defaultRefreshInterval,
		hostLogLevel:    slog.LevelInfo,
		logger:          logger,
		onDiagnostic: func(ctx context.Context, scope string, err error) {
			logger.WarnContext(ctx, "console diagnostic", "scope", scope, "error", err)
		},
	}
}

// WithMaxLines configures the log buffer capacity. It is fixed for the kernel lifetime.
func WithMaxLines(maxLines int) Option {
	return func(cfg *config) {
		if maxLines > 0 {
			cfg.maxLines = maxLines
		}
	}
}

// WithRefreshInterval configures the exposed field refresh cadence.
func WithRefreshInterval(interval time.Duration) Option {
	return func(cfg *config) {
		if interval > 0 {
			cfg.refreshInterval = interval
		}
	}
}

// WithHostLogLevel configures the minimum level of host log records shown in the console.
func WithHostLogLevel(level slog.Leveler) Option {
	return func(cfg *config) {
		if level != nil {
			cfg.hostLogLevel = level
		}
	}
}

// WithLogger configures the logger used for kernel diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			return
		}

		cfg.logger = logger
		cfg.onDiagnostic = func(ctx context.Context, scope string, err error) {
			logger.WarnContext(ctx, "console diagnostic", "scope", scope, "error", err)
		}
	}
}

// WithDiagnosticHandler configures where scan diagnostics are reported besides the console log.
func WithDiagnosticHandler(handler func(context.Context, string, error)) Option {
	return func(cfg *config) {
		if handler != nil {
			cfg.onDiagnostic = handler
		}
	}
}
