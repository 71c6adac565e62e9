package console

// Suggestion is one completion candidate.
type Suggestion struct {
	// CommandName is inserted into the input when the suggestion is accepted.
	CommandName string
	// RenderedSignature is the name followed by the overload's parameter list.
	RenderedSignature string
}

// SuggestionState is the candidate list and cursor shown to the operator.
type SuggestionState struct {
	// Candidates are ordered by command registration, then overload order.
	Candidates []Suggestion
	// SelectedIndex is always within Candidates, or 0 when empty.
	SelectedIndex int
}

// Selected returns the highlighted candidate.
func (s SuggestionState) Selected() (Suggestion, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Candidates) {
		return Suggestion{}, false
	}

	return s.Candidates[s.SelectedIndex], true
}
