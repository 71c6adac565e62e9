package frontend

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ex-console/pkg/console"
)

// RenderMarkup converts console colour markup into terminal styling for renderer.
func RenderMarkup(renderer *lipgloss.Renderer, text string) string {
	var builder strings.Builder
	for _, span := range console.ParseMarkup(text) {
		if span.Color == "" {
			builder.WriteString(span.Text)
			continue
		}
		style := renderer.NewStyle().Foreground(lipgloss.Color(string(span.Color)))
		builder.WriteString(style.Render(span.Text))
	}

	return builder.String()
}
