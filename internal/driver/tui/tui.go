// Package tui implements the full-screen console frontend on bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ex-console/internal/driver/frontend"
	"ex-console/pkg/console"
)

// FrontendType is the configuration token of this frontend.
const FrontendType = "tui"

// Frontend runs the console window as a bubbletea program.
type Frontend struct {
	host     console.Host
	settings frontend.Settings
	logger   *slog.Logger
	queue    *frontend.LineQueue
	window   *windowState
}

// New creates a TUI frontend and registers the window with host.
//
// The window commands and fields become visible on the host's next rescan.
func New(ctx context.Context, host console.Host, settings frontend.Settings, logger *slog.Logger) (*Frontend, error) {
	if host == nil {
		return nil, fmt.Errorf("new tui frontend: nil host")
	}
	if logger == nil {
		logger = slog.Default()
	}

	window := &windowState{Showing: true, TabIndex: tabConsole}
	if err := host.RegisterModule(ctx, windowModule{}); err != nil {
		return nil, fmt.Errorf("new tui frontend: %w", err)
	}
	if err := host.Entities().Track(windowCapability, window); err != nil {
		return nil, fmt.Errorf("new tui frontend: %w", err)
	}

	return &Frontend{
		host:     host,
		settings: settings.Normalized(),
		logger:   logger,
		queue:    frontend.NewLineQueue(),
		window:   window,
	}, nil
}

// Name returns the frontend type token.
func (f *Frontend) Name() string {
	return FrontendType
}

// LogHandler returns a goroutine-safe handler feeding the console.
func (f *Frontend) LogHandler() slog.Handler {
	return f.queue.Handler(f.settings.HostLogLevel)
}

// Run blocks until the operator quits or ctx is canceled.
func (f *Frontend) Run(ctx context.Context) error {
	output := f.settings.Output
	if output == nil {
		output = os.Stdout
	}

	options := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(output)}
	if f.settings.Input != nil {
		options = append(options, tea.WithInput(f.settings.Input))
	}
	if f.settings.AltScreen {
		options = append(options, tea.WithAltScreen())
	}

	program := tea.NewProgram(f.newModel(ctx, lipgloss.NewRenderer(output)), options...)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		f.logger.ErrorContext(ctx, "tui stopped", "error", err)
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}

func (f *Frontend) newModel(ctx context.Context, renderer *lipgloss.Renderer) *model {
	return newModel(ctx, f.host, f.window, f.queue, f.settings.TickInterval, renderer)
}

var _ frontend.Frontend = (*Frontend)(nil)
