package console

import (
	"fmt"
	"regexp"
	"strings"
)

// Color is a `#RRGGBB` colour understood by the rendering layer.
type Color string

const (
	// ColorLog is used for ordinary output.
	ColorLog Color = "#FFFFFF"
	// ColorWarning is used for warnings.
	ColorWarning Color = "#FFEB04"
	// ColorError is used for errors and exceptions.
	ColorError Color = "#FF0000"
	// ColorObject is used for object prefixes.
	ColorObject Color = "#00FF00"
	// ColorInput is used for echoed input.
	ColorInput Color = "#00FFFF"
	// ColorHighlight is used for emphasis in help output.
	ColorHighlight Color = "#00FF00"
	// ColorValue is used for exposed field values.
	ColorValue Color = "#FF00FF"
)

// RGB builds a colour from 0-255 channels.
func RGB(r, g, b uint8) Color {
	return Color(fmt.Sprintf("#%02X%02X%02X", r, g, b))
}

// Colored wraps text in colour markup.
func Colored(text string, color Color) string {
	if color == "" {
		return text
	}

	return "<color=" + string(color) + ">" + text + "</color>"
}

var markupToken = regexp.MustCompile(`<color=(#[0-9A-Fa-f]{6})>|</color>`)

// Span is a run of text sharing one colour; Color is empty for uncoloured text.
type Span struct {
	Text  string
	Color Color
}

// ParseMarkup splits marked-up text into coloured spans. Nested colours apply
// innermost-first; unbalanced closing tags are ignored.
func ParseMarkup(text string) []Span {
	spans := make([]Span, 0, 4)
	stack := make([]Color, 0, 2)
	current := func() Color {
		if len(stack) == 0 {
			return ""
		}
		return stack[len(stack)-1]
	}
	emit := func(segment string) {
		if segment == "" {
			return
		}
		color := current()
		if last := len(spans) - 1; last >= 0 && spans[last].Color == color {
			spans[last].Text += segment
			return
		}
		spans = append(spans, Span{Text: segment, Color: color})
	}

	cursor := 0
	for _, match := range markupToken.FindAllStringSubmatchIndex(text, -1) {
		emit(text[cursor:match[0]])
		if match[2] >= 0 {
			stack = append(stack, Color(strings.ToUpper(text[match[2]:match[3]])))
		} else if len(stack) > 0 {
			stack = stack[:len(stack)-1]
		}
		cursor = match[1]
	}
	emit(text[cursor:])

	return spans
}

// StripMarkup removes colour markup.
func StripMarkup(text string) string {
	return markupToken.ReplaceAllString(text, "")
}
