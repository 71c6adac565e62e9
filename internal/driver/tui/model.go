package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ex-console/internal/driver/frontend"
	"ex-console/pkg/console"
)

const (
	tabConsole = iota
	tabFields
	tabQuickActions
)

var tabTitles = []string{"Console", "Exposed Fields", "Quick Actions"}

const (
	defaultWidth   = 80
	defaultHeight  = 24
	maxSuggestions = 5
	chromeLines    = 3
)

type tickMsg time.Time

// model is the bubbletea model of the console window.
type model struct {
	ctx      context.Context
	host     console.Host
	window   *windowState
	queue    *frontend.LineQueue
	interval time.Duration
	renderer *lipgloss.Renderer
	styles   styles
	keys     keyMap

	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int

	lastSequence uint64
	lineCount    int
	quickCursor  int
}

func newModel(
	ctx context.Context,
	host console.Host,
	window *windowState,
	queue *frontend.LineQueue,
	interval time.Duration,
	renderer *lipgloss.Renderer,
) *model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "type a command"
	input.Focus()

	m := &model{
		ctx:      ctx,
		host:     host,
		window:   window,
		queue:    queue,
		interval: interval,
		renderer: renderer,
		styles:   newStyles(renderer),
		keys:     defaultKeyMap(),
		input:    input,
	}
	m.resize(defaultWidth, defaultHeight)

	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick())
}

func (m *model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(now time.Time) tea.Msg {
		return tickMsg(now)
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tickMsg:
		for _, text := range m.queue.Drain() {
			m.host.Print(text)
		}
		m.host.Tick(m.ctx, time.Time(msg))
		m.syncViewport(false)
		return m, m.tick()
	}

	var inputCmd, viewportCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, viewportCmd = m.viewport.Update(msg)

	return m, tea.Batch(inputCmd, viewportCmd)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.window.Showing = !m.window.Showing
		return nil
	}
	if !m.window.Showing {
		return nil
	}
	if key.Matches(msg, m.keys.NextTab) {
		m.window.TabIndex = (m.currentTab() + 1) % len(tabTitles)
		return nil
	}

	switch m.currentTab() {
	case tabConsole:
		return m.handleConsoleKey(msg)
	case tabQuickActions:
		m.handleQuickActionKey(msg)
	}

	return nil
}

func (m *model) handleConsoleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.host.AdvanceSuggestion(-1)
	case key.Matches(msg, m.keys.Down):
		m.host.AdvanceSuggestion(1)
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height/2)
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height/2)
	case key.Matches(msg, m.keys.Complete):
		suggestion, ok := m.host.SelectedSuggestion()
		if !ok {
			return nil
		}
		m.input.SetValue(suggestion.CommandName + " ")
		m.input.CursorEnd()
		m.host.Suggest(m.input.Value())
	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		m.input.Reset()
		m.host.Suggest("")
		m.host.Execute(m.ctx, text)
		m.syncViewport(true)
	default:
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.host.Suggest(m.input.Value())
		}
		return cmd
	}

	return nil
}

func (m *model) handleQuickActionKey(msg tea.KeyMsg) {
	actions := m.host.Commands().ListQuickActions()
	if len(actions) == 0 {
		return
	}
	m.quickCursor = min(m.quickCursor, len(actions)-1)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.quickCursor = (m.quickCursor - 1 + len(actions)) % len(actions)
	case key.Matches(msg, m.keys.Down):
		m.quickCursor = (m.quickCursor + 1) % len(actions)
	case key.Matches(msg, m.keys.Submit):
		m.host.Execute(m.ctx, actions[m.quickCursor].CommandText)
		m.window.TabIndex = tabConsole
		m.syncViewport(true)
	}
}

func (m *model) currentTab() int {
	if m.window.TabIndex < 0 || m.window.TabIndex >= len(tabTitles) {
		return tabConsole
	}

	return m.window.TabIndex
}

func (m *model) resize(width int, height int) {
	m.width = width
	m.height = height
	viewportHeight := max(1, height-chromeLines-maxSuggestions)

	m.viewport = viewport.New(width, viewportHeight)
	m.input.Width = max(1, width-len(m.input.Prompt)-1)
	m.lineCount = -1
	m.syncViewport(true)
}

// syncViewport re-renders the log when lines were appended or cleared.
func (m *model) syncViewport(toBottom bool) {
	lines := m.host.Lines()
	sequence := m.host.LastSequence()
	if sequence == m.lastSequence && len(lines) == m.lineCount && !toBottom {
		return
	}
	atBottom := m.viewport.AtBottom()

	rendered := make([]string, 0, len(lines))
	for _, entry := range lines {
		rendered = append(rendered, frontend.RenderMarkup(m.renderer, entry.Text))
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
	if toBottom || atBottom {
		m.viewport.GotoBottom()
	}
	m.lastSequence = sequence
	m.lineCount = len(lines)
}

func (m *model) View() string {
	if !m.window.Showing {
		return m.styles.hidden.Render("Console hidden. Press F12 to show.") + "\n"
	}

	var body string
	switch m.currentTab() {
	case tabFields:
		body = m.fieldsView()
	case tabQuickActions:
		body = m.quickActionsView()
	default:
		body = m.consoleView()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.tabsView(),
		body,
		m.styles.help.Render(m.keys.helpLine()),
	)
}

func (m *model) tabsView() string {
	tabs := make([]string, 0, len(tabTitles))
	for index, title := range tabTitles {
		style := m.styles.tab
		if index == m.currentTab() {
			style = m.styles.activeTab
		}
		tabs = append(tabs, style.Render(title))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *model) consoleView() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewport.View(),
		m.suggestionsView(),
		m.input.View(),
	)
}

// suggestionsView renders a window of candidates around the selection.
func (m *model) suggestionsView() string {
	state := m.host.Suggestions()
	if len(state.Candidates) == 0 {
		return ""
	}

	start := 0
	if state.SelectedIndex >= maxSuggestions {
		start = state.SelectedIndex - maxSuggestions + 1
	}
	end := min(len(state.Candidates), start+maxSuggestions)

	rows := make([]string, 0, end-start)
	for index := start; index < end; index++ {
		signature := state.Candidates[index].RenderedSignature
		if index == state.SelectedIndex {
			rows = append(rows, m.styles.selectedSuggestion.Render("▸ "+signature))
			continue
		}
		rows = append(rows, m.styles.suggestion.Render("  "+signature))
	}

	return strings.Join(rows, "\n")
}

func (m *model) fieldsView() string {
	fields := m.host.Fields()
	owners := fields.ListOwners()
	if len(owners) == 0 {
		return m.styles.hidden.Render("No exposed fields.")
	}

	rows := make([]string, 0, len(owners)*2)
	for _, ownerID := range owners {
		rows = append(rows, m.styles.owner.Render(fields.OwnerLabel(ownerID))+" "+m.styles.ownerID.Render(ownerID))
		for _, record := range fields.ListFieldsFor(ownerID) {
			rows = append(rows, fmt.Sprintf(
				"  %s %s = %s",
				m.styles.fieldName.Render(record.FieldName),
				m.styles.fieldType.Render("("+record.FieldType+")"),
				m.styles.fieldValue.Render(record.CachedValueText),
			))
		}
	}

	return strings.Join(rows, "\n")
}

func (m *model) quickActionsView() string {
	actions := m.host.Commands().ListQuickActions()
	if len(actions) == 0 {
		return m.styles.hidden.Render("No quick actions.")
	}

	rows := make([]string, 0, len(actions))
	for index, action := range actions {
		if index == m.quickCursor {
			rows = append(rows, m.styles.selectedQuickAction.Render("▸ "+action.Label))
			continue
		}
		rows = append(rows, m.styles.quickAction.Render("  "+action.Label))
	}

	return strings.Join(rows, "\n")
}
