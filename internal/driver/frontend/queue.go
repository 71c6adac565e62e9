package frontend

import (
	"log/slog"
	"sync"

	"ex-console/internal/kernel"
)

// LineQueue collects console lines produced off the frontend loop.
//
// Push is safe from any goroutine, including the loop itself; the loop
// appends drained lines to the host.
type LineQueue struct {
	mu      sync.Mutex
	pending []string
	notify  chan struct{}
}

// NewLineQueue creates an empty queue.
func NewLineQueue() *LineQueue {
	return &LineQueue{notify: make(chan struct{}, 1)}
}

// Push enqueues one formatted line and wakes the loop.
func (q *LineQueue) Push(text string) {
	q.mu.Lock()
	q.pending = append(q.pending, text)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Drain returns and removes every pending line in push order.
func (q *LineQueue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	drained := q.pending
	q.pending = nil

	return drained
}

// Notify is signalled after Push; one signal may cover several lines.
func (q *LineQueue) Notify() <-chan struct{} {
	return q.notify
}

// Handler returns a HOST-tagged log handler feeding this queue.
func (q *LineQueue) Handler(level slog.Leveler) slog.Handler {
	return kernel.NewHostLogHandler(q.Push, level)
}
