// Package line implements a line-oriented console frontend for plain terminals
// and pipes.
package line

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"ex-console/internal/driver/frontend"
	"ex-console/pkg/console"
)

// FrontendType is the configuration token of this frontend.
const FrontendType = "line"

// Frontend reads one command per input line and prints new console lines.
//
// Input is read on its own goroutine; every host call happens on the Run loop.
type Frontend struct {
	host     console.Host
	settings frontend.Settings
	logger   *slog.Logger
	queue    *frontend.LineQueue
	renderer *lipgloss.Renderer

	lastSequence uint64
}

// New creates a line frontend bound to host.
func New(host console.Host, settings frontend.Settings, logger *slog.Logger) (*Frontend, error) {
	if host == nil {
		return nil, fmt.Errorf("new line frontend: nil host")
	}
	settings = settings.Normalized()
	if settings.Input == nil {
		settings.Input = os.Stdin
	}
	if settings.Output == nil {
		settings.Output = os.Stdout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Frontend{
		host:     host,
		settings: settings,
		logger:   logger,
		queue:    frontend.NewLineQueue(),
		renderer: lipgloss.NewRenderer(settings.Output),
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

// Run drives the host loop until input ends or ctx is canceled.
func (f *Frontend) Run(ctx context.Context) error {
	readCtx, cancelRead := context.WithCancel(ctx)
	defer cancelRead()

	lines := make(chan string)
	readDone := make(chan error, 1)
	go f.readLines(readCtx, lines, readDone)

	ticker := time.NewTicker(f.settings.TickInterval)
	defer ticker.Stop()

	f.flush()
	for {
		select {
		case <-ctx.Done():
			return nil
		case text := <-lines:
			f.drainQueue()
			f.host.Execute(ctx, text)
			f.flush()
		case err := <-readDone:
			f.drainQueue()
			f.flush()
			if err != nil {
				return fmt.Errorf("read console input: %w", err)
			}
			return nil
		case now := <-ticker.C:
			f.drainQueue()
			f.host.Tick(ctx, now)
			f.flush()
		case <-f.queue.Notify():
			f.drainQueue()
			f.flush()
		}
	}
}

// readLines forwards input lines until EOF, a read error, or cancellation.
func (f *Frontend) readLines(ctx context.Context, lines chan<- string, done chan<- error) {
	scanner := bufio.NewScanner(f.settings.Input)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			done <- nil
			return
		}
	}
	done <- scanner.Err()
}

func (f *Frontend) drainQueue() {
	for _, text := range f.queue.Drain() {
		f.host.Print(text)
	}
}

// flush prints every line appended since the previous flush.
func (f *Frontend) flush() {
	if f.host.LastSequence() == f.lastSequence {
		return
	}
	for _, entry := range f.host.Lines() {
		if entry.Sequence <= f.lastSequence {
			continue
		}
		if _, err := fmt.Fprintln(f.settings.Output, frontend.RenderMarkup(f.renderer, entry.Text)); err != nil {
			f.logger.Error("console output failed", "frontend", FrontendType, "error", err)
			break
		}
	}
	f.lastSequence = f.host.LastSequence()
}

var _ frontend.Frontend = (*Frontend)(nil)
