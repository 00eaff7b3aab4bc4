package tui

// FocusTarget represents which panel currently has focus.
type FocusTarget int

const (
	// FocusList focuses the annotation list.
	FocusList FocusTarget = iota
	// FocusCanvas focuses the drawing canvas.
	FocusCanvas
	// FocusNotes focuses the session notes.
	FocusNotes
)

// String returns the panel name shown in the mode indicator.
func (f FocusTarget) String() string {
	switch f {
	case FocusCanvas:
		return "Canvas"
	case FocusNotes:
		return "Notes"
	}
	return "List"
}

// next returns the panel after f. The notes panel is skipped when hidden.
func (f FocusTarget) next(showNotes bool) FocusTarget {
	switch f {
	case FocusList:
		return FocusCanvas
	case FocusCanvas:
		if showNotes {
			return FocusNotes
		}
	}
	return FocusList
}
