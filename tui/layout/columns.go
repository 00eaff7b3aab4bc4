package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/studio-review/tui/styles"
)

// Responsive layout constants.
const (
	MinTerminalWidth   = 80  // minimum terminal width for multi-column layout
	NotesHideThreshold = 100 // below this width, the notes column is hidden
	ListMinWidth       = 28  // the annotation list never gets narrower than this
	NotesMinWidth      = 30
)

// Columns holds the widths of the three panels. Notes is 0 when hidden.
type Columns struct {
	List   int
	Canvas int
	Notes  int
}

// ShowNotes reports whether the notes column is visible.
func (c Columns) ShowNotes() bool { return c.Notes > 0 }

// Widths returns the visible widths in display order.
func (c Columns) Widths() []int {
	if c.ShowNotes() {
		return []int{c.List, c.Canvas, c.Notes}
	}
	return []int{c.List, c.Canvas}
}

// CanvasLeft is the terminal column the canvas panel starts at.
func (c Columns) CanvasLeft() int {
	return c.List + 1
}

// ComputeColumnWidths calculates responsive column widths based on terminal width.
// At >=140 width the side panels take a quarter each and the canvas the rest.
// From NotesHideThreshold up they shrink to their minimums. Below it the
// notes column is hidden and the list keeps its minimum.
func ComputeColumnWidths(termWidth int) Columns {
	if termWidth < NotesHideThreshold {
		// Two-column layout: 1 border character
		usable := termWidth - 1
		list := min(ListMinWidth, usable/2)
		return Columns{List: list, Canvas: usable - list}
	}

	// Three-column layout: account for 2 border characters
	usable := termWidth - 2
	side := max(usable/4, ListMinWidth)
	if termWidth < 140 {
		return Columns{List: ListMinWidth, Notes: NotesMinWidth, Canvas: usable - ListMinWidth - NotesMinWidth}
	}
	return Columns{List: side, Notes: side, Canvas: usable - 2*side}
}

// JoinColumns joins pre-rendered column strings side by side with purple border separators.
// Each column is normalized to the given height and padded to its width.
func JoinColumns(columns []string, widths []int, height int) string {
	borderStr := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render("│")

	// Split each column into lines and normalize to height
	colLines := make([][]string, len(columns))
	for i, col := range columns {
		colLines[i] = fitHeight(strings.Split(col, "\n"), height)
	}

	rows := make([]string, 0, height)
	for row := 0; row < height; row++ {
		parts := make([]string, 0, len(colLines))
		for i, lines := range colLines {
			parts = append(parts, PadToWidth(lines[row], widths[i]))
		}
		rows = append(rows, strings.Join(parts, borderStr))
	}

	return strings.Join(rows, "\n")
}
