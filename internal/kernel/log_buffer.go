package kernel

import (
	"ex-console/pkg/console"
)

// LogBuffer is a fixed-capacity ring of formatted log lines with FIFO eviction.
type LogBuffer struct {
	lines    []console.LogLine
	head     int
	size     int
	sequence uint64
}

// NewLogBuffer creates an empty buffer holding at most maxLines lines.
func NewLogBuffer(maxLines int) *LogBuffer {
	if maxLines <= 0 {
		maxLines = defaultMaxLines
	}

	return &LogBuffer{
		lines: make([]console.LogLine, maxLines),
	}
}

// Append stores one line, evicting the oldest line when full.
func (b *LogBuffer) Append(text string) console.LogLine {
	b.sequence++
	line := console.LogLine{Text: text, Sequence: b.sequence}

	capacity := len(b.lines)
	if b.size < capacity {
		b.lines[(b.head+b.size)%capacity] = line
		b.size++
		return line
	}

	b.lines[b.head] = line
	b.head = (b.head + 1) % capacity

	return line
}

// Snapshot returns the buffered lines in insertion order.
func (b *LogBuffer) Snapshot() []console.LogLine {
	snapshot := make([]console.LogLine, 0, b.size)
	for offset := 0; offset < b.size; offset++ {
		snapshot = append(snapshot, b.lines[(b.head+offset)%len(b.lines)])
	}

	return snapshot
}

// Clear drops every line; sequences keep increasing afterwards.
func (b *LogBuffer) Clear() {
	for index := range b.lines {
		b.lines[index] = console.LogLine{}
	}
	b.head = 0
	b.size = 0
}

// Len returns the number of buffered lines.
func (b *LogBuffer) Len() int {
	return b.size
}

// MaxLines returns the fixed capacity.
func (b *LogBuffer) MaxLines() int {
	return len(b.lines)
}

// LastSequence returns the sequence of the newest line ever appended.
func (b *LogBuffer) LastSequence() uint64 {
	return b.sequence
}
