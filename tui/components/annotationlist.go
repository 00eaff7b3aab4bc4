package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/pkg/timeutil"
	"github.com/user/studio-review/tui/styles"
)

// AnnotationListState holds the state for the annotation list component.
type AnnotationListState struct {
	// Items are the annotations in store order
	Items []annotation.Annotation
	// SelectedIndex is the currently selected item index
	SelectedIndex int
	// ScrollOffset is the first visible row
	ScrollOffset int
}

// AnnotationList renders the annotations as a table: number, start, end,
// and name. Rows visible at currentTime are marked with ●.
// The list scrolls to keep the selection within height rows.
func AnnotationList(state AnnotationListState, width, height int, currentTime float64) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(styles.Lavender).
		Bold(true).
		Underline(true)

	rows := max(height-1, 1)
	const numWidth, timeWidth = 4, 9
	nameWidth := max(width-numWidth-2*timeWidth-5, 6)

	header := fmt.Sprintf(" %-*s %-*s %-*s %s", numWidth, "#", timeWidth, "Start", timeWidth, "End", "Name")
	lines := []string{headerStyle.Render(ansi.Truncate(header, width, ""))}

	if len(state.Items) == 0 {
		lines = append(lines, styles.DimText.Render(" No annotations yet. Press a to draw."))
		return strings.Join(lines, "\n")
	}

	state.ClampScroll(rows)
	for row := 0; row < rows; row++ {
		i := state.ScrollOffset + row
		if i >= len(state.Items) {
			break
		}
		a := state.Items[i]
		lines = append(lines, renderAnnotationRow(a, i, i == state.SelectedIndex, a.VisibleAt(currentTime), numWidth, timeWidth, nameWidth, width))
	}
	return strings.Join(lines, "\n")
}

func renderAnnotationRow(a annotation.Annotation, i int, selected, visible bool, numWidth, timeWidth, nameWidth, fullWidth int) string {
	mark := " "
	if visible {
		mark = "●"
	}
	end := "open"
	if a.EndTime != nil {
		end = timeutil.FormatClock(*a.EndTime)
	}
	content := fmt.Sprintf("%s%-*d %-*s %-*s %s",
		mark,
		numWidth, i+1,
		timeWidth, timeutil.FormatClock(a.StartTime),
		timeWidth, end,
		ansi.Truncate(a.DisplayName(i+1), nameWidth, "…"))

	lineStyle := lipgloss.NewStyle().Foreground(styles.LightLavender).Width(fullWidth)
	if selected {
		lineStyle = styles.Highlight.Width(fullWidth)
	}
	return lineStyle.Render(ansi.Truncate(content, fullWidth, ""))
}

// ClampScroll keeps the selection within rows visible rows.
func (s *AnnotationListState) ClampScroll(rows int) {
	if s.SelectedIndex < s.ScrollOffset {
		s.ScrollOffset = s.SelectedIndex
	} else if s.SelectedIndex >= s.ScrollOffset+rows {
		s.ScrollOffset = s.SelectedIndex - rows + 1
	}
	s.ScrollOffset = max(0, min(s.ScrollOffset, len(s.Items)-rows))
}

// SetItems replaces the list, keeping the selection in range.
func (s *AnnotationListState) SetItems(items []annotation.Annotation) {
	s.Items = items
	s.SelectedIndex = max(0, min(s.SelectedIndex, len(items)-1))
}

// Select moves the selection to the annotation with id. Unknown ids are ignored.
func (s *AnnotationListState) Select(id string) {
	for i, a := range s.Items {
		if a.ID == id {
			s.SelectedIndex = i
			return
		}
	}
}

// MoveUp moves the selection up in the list.
func (s *AnnotationListState) MoveUp() {
	if s.SelectedIndex > 0 {
		s.SelectedIndex--
	}
}

// MoveDown moves the selection down in the list.
func (s *AnnotationListState) MoveDown() {
	if s.SelectedIndex < len(s.Items)-1 {
		s.SelectedIndex++
	}
}

// GetSelectedItem returns the currently selected item, or nil if list is empty.
func (s *AnnotationListState) GetSelectedItem() *annotation.Annotation {
	if len(s.Items) == 0 || s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Items) {
		return nil
	}
	return &s.Items[s.SelectedIndex]
}
