package driver

import (
	"context"
	"fmt"
	"log/slog"

	"ex-console/internal/driver/frontend"
	"ex-console/internal/driver/line"
	"ex-console/internal/driver/tui"
	"ex-console/pkg/console"
)

// NewBuiltinRegistry constructs the frontend registry with all built-in frontends.
func NewBuiltinRegistry() (*Registry, error) {
	return NewRegistry([]Descriptor{
		{
			Type: tui.FrontendType,
			Builder: func(
				ctx context.Context,
				host console.Host,
				settings frontend.Settings,
				logger *slog.Logger,
			) (frontend.Frontend, error) {
				built, err := tui.New(ctx, host, settings, logger)
				if err != nil {
					return nil, fmt.Errorf("build tui frontend: %w", err)
				}

				return built, nil
			},
		},
		{
			Type: line.FrontendType,
			Builder: func(
				_ context.Context,
				host console.Host,
				settings frontend.Settings,
				logger *slog.Logger,
			) (frontend.Frontend, error) {
				built, err := line.New(host, settings, logger)
				if err != nil {
					return nil, fmt.Errorf("build line frontend: %w", err)
				}

				return built, nil
			},
		},
	})
}
