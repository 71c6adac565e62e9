package kernel

import (
	"slices"
	"strings"
	"unicode"

	"ex-console/pkg/console"
)

// SuggestionEngine produces prefix matches for partially typed input.
type SuggestionEngine struct {
	registry *CommandRegistry
	state    console.SuggestionState
}

// NewSuggestionEngine creates an engine reading from registry.
func NewSuggestionEngine(registry *CommandRegistry) *SuggestionEngine {
	return &SuggestionEngine{registry: registry}
}

// Update recomputes candidates for partial. The cursor resets whenever the
// candidate list changes; empty input clears the list. Names are compared
// with the same folding as command resolution, and input containing
// whitespace already names arguments so it matches nothing.
func (e *SuggestionEngine) Update(partial string) console.SuggestionState {
	if partial == "" {
		e.state = console.SuggestionState{}
		return e.State()
	}

	candidates := make([]console.Suggestion, 0)
	if strings.IndexFunc(partial, unicode.IsSpace) < 0 {
		candidates = e.matching(console.NormalizeName(partial))
	}

	if !slices.Equal(candidates, e.state.Candidates) {
		e.state = console.SuggestionState{Candidates: candidates}
	}

	return e.State()
}

func (e *SuggestionEngine) matching(prefix string) []console.Suggestion {
	candidates := make([]console.Suggestion, 0)
	for _, command := range e.registry.ListAll() {
		name := console.NormalizeName(command.Name)
		if !strings.HasPrefix(name, prefix) || name == prefix {
			continue
		}
		for index := range command.Signatures {
			candidates = append(candidates, console.Suggestion{
				CommandName:       command.Name,
				RenderedSignature: command.RenderSignature(index),
			})
		}
	}

	return candidates
}

// Advance moves the cursor by delta with wraparound; a no-op without candidates.
func (e *SuggestionEngine) Advance(delta int) console.SuggestionState {
	count := len(e.state.Candidates)
	if count == 0 {
		e.state.SelectedIndex = 0
		return e.State()
	}
	e.state.SelectedIndex = ((e.state.SelectedIndex+delta)%count + count) % count

	return e.State()
}

// Selected returns the highlighted candidate.
func (e *SuggestionEngine) Selected() (console.Suggestion, bool) {
	return e.state.Selected()
}

// State returns a copy of the current suggestion state.
func (e *SuggestionEngine) State() console.SuggestionState {
	return console.SuggestionState{
		Candidates:    append([]console.Suggestion(nil), e.state.Candidates...),
		SelectedIndex: e.state.SelectedIndex,
	}
}
