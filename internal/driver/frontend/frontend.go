// Package frontend holds the contracts and helpers shared by console frontends.
package frontend

import (
	"context"
	"io"
	"log/slog"
	"time"
)

const defaultTickInterval = 50 * time.Millisecond

// Frontend presents a console host to an operator until ctx ends or the
// operator quits.
type Frontend interface {
	// Name returns the frontend type token.
	Name() string
	// Run blocks while the frontend drives the host loop.
	Run(ctx context.Context) error
	// LogHandler returns a handler that may be used from any goroutine; its
	// records reach the console on the frontend's loop.
	LogHandler() slog.Handler
}

// Settings configures one frontend instance.
type Settings struct {
	// Input is the operator input stream.
	Input io.Reader
	// Output is the terminal the frontend renders to.
	Output io.Writer
	// HostLogLevel is the minimum level of records accepted by LogHandler.
	HostLogLevel slog.Leveler
	// TickInterval is the host loop cadence.
	TickInterval time.Duration
	// AltScreen renders full-screen frontends on the alternate screen.
	AltScreen bool
}

// Normalized fills defaults for unset settings.
func (s Settings) Normalized() Settings {
	if s.HostLogLevel == nil {
		s.HostLogLevel = slog.LevelInfo
	}
	if s.TickInterval <= 0 {
		s.TickInterval = defaultTickInterval
	}

	return s
}
