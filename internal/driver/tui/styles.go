package tui

import (
	"github.com/charmbracelet/lipgloss"

	"ex-console/pkg/console"
)

type styles struct {
	tab                 lipgloss.Style
	activeTab           lipgloss.Style
	help                lipgloss.Style
	hidden              lipgloss.Style
	suggestion          lipgloss.Style
	selectedSuggestion  lipgloss.Style
	owner               lipgloss.Style
	ownerID             lipgloss.Style
	fieldName           lipgloss.Style
	fieldType           lipgloss.Style
	fieldValue          lipgloss.Style
	quickAction         lipgloss.Style
	selectedQuickAction lipgloss.Style
}

func newStyles(renderer *lipgloss.Renderer) styles {
	accent := lipgloss.Color(string(console.ConsoleTag.Color))
	muted := lipgloss.Color("#808080")

	return styles{
		tab:                 renderer.NewStyle().Padding(0, 1).Foreground(muted),
		activeTab:           renderer.NewStyle().Padding(0, 1).Bold(true).Foreground(accent).Underline(true),
		help:                renderer.NewStyle().Foreground(muted),
		hidden:              renderer.NewStyle().Italic(true).Foreground(muted),
		suggestion:          renderer.NewStyle().Foreground(lipgloss.Color(string(console.ColorLog))),
		selectedSuggestion:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(string(console.ColorHighlight))),
		owner:               renderer.NewStyle().Bold(true).Foreground(accent),
		ownerID:             renderer.NewStyle().Foreground(muted),
		fieldName:           renderer.NewStyle().Foreground(lipgloss.Color(string(console.ColorLog))),
		fieldType:           renderer.NewStyle().Foreground(muted),
		fieldValue:          renderer.NewStyle().Foreground(lipgloss.Color(string(console.ColorValue))),
		quickAction:         renderer.NewStyle().Foreground(lipgloss.Color(string(console.ColorLog))),
		selectedQuickAction: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(string(console.ColorHighlight))),
	}
}
