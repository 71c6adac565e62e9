package console

import (
	"fmt"
	"strings"
)

// Level classifies one console log line.
type Level int

const (
	// LevelLog is ordinary output.
	LevelLog Level = iota
	// LevelWarning flags suspicious but recoverable conditions.
	LevelWarning
	// LevelError reports failed operations.
	LevelError
	// LevelException reports recovered panics.
	LevelException
	// LevelAssert reports failed host assertions.
	LevelAssert
)

// String returns the upper-case label used in the line prefix.
func (l Level) String() string {
	switch l {
	case LevelLog:
		return "LOG"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelException:
		return "EXCEPTION"
	case LevelAssert:
		return "ASSERT"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// Color returns the colour used for the level label and message.
func (l Level) Color() Color {
	switch l {
	case LevelWarning:
		return ColorWarning
	case LevelError, LevelException:
		return ColorError
	default:
		return ColorLog
	}
}

// Tag is a short source label prefixed to a log line.
type Tag struct {
	// Label is the bracketed text.
	Label string
	// Color is the label colour.
	Color Color
}

var (
	// ConsoleTag marks lines produced by the console itself.
	ConsoleTag = Tag{Label: "CONSOLE", Color: RGB(0, 165, 255)}
	// HostTag marks lines fed from the host's logging facility.
	HostTag = Tag{Label: "HOST", Color: RGB(180, 0, 255)}
)

// LogLine is one buffered console line.
type LogLine struct {
	// Text is the pre-formatted line including colour markup.
	Text string
	// Sequence is the monotonic insertion number.
	Sequence uint64
}

// FormatLine renders `[TAG][LEVEL]: message` with colour markup.
//
// tag may be nil for untagged lines.
func FormatLine(tag *Tag, level Level, message string) string {
	var builder strings.Builder
	if tag != nil && tag.Label != "" {
		builder.WriteString("[" + Colored(tag.Label, tag.Color) + "]")
	}
	builder.WriteString("[" + Colored(level.String(), level.Color()) + "]: ")
	builder.WriteString(Colored(message, level.Color()))

	return builder.String()
}

// FormatInput renders the echo line written before an input is processed.
func FormatInput(input string) string {
	return "> " + Colored(input, ColorInput)
}

// ObjectPrefix prefixes a message with the emitting object's type and name.
func ObjectPrefix(owner any, name string) string {
	return Colored(fmt.Sprintf("%T:%s", owner, name), ColorObject) + Colored(" > ", ColorLog)
}
