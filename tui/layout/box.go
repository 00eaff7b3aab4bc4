package layout

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/studio-review/tui/styles"
)

// Container fits content into an exact Width x Height cell box. Content
// cut off at the bottom is replaced by a count of the hidden lines.
type Container struct {
	Width  int
	Height int
}

// Render returns content as exactly Height lines of Width cells.
func (c Container) Render(content string) string {
	if c.Height <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if hidden := len(lines) - c.Height; hidden > 0 {
		lines = lines[:c.Height]
		more := fmt.Sprintf("↓ %d more", hidden+1)
		lines[c.Height-1] = lipgloss.NewStyle().Foreground(styles.Purple).Render(more)
	}
	lines = fitHeight(lines, c.Height)
	for i, line := range lines {
		lines[i] = PadToWidth(line, c.Width)
	}
	return strings.Join(lines, "\n")
}

// PadToWidth cuts or pads s to exactly width cells. Styled text and wide
// runes are measured by their display width.
func PadToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w > width {
		s = ansi.Truncate(s, width, "")
		w = lipgloss.Width(s)
	}
	return s + strings.Repeat(" ", max(width-w, 0))
}

func fitHeight(lines []string, height int) []string {
	if len(lines) > height {
		return lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}
