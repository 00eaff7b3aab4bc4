package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/studio-review/tui/styles"
)

// ModeIndicator renders the mode indicator showing current focus and input mode.
// focusName is one of "List", "Canvas", "Notes".
// mode is one of "Normal", "Annotate", "Command", "Edit".
func ModeIndicator(focusName, mode string, width int) string {
	textStyle := lipgloss.NewStyle().Foreground(styles.LightLavender)
	modeStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)

	left := " Focus: " + focusName
	right := mode + " "

	innerW := width - 2
	pad := max(innerW-lipgloss.Width(left)-lipgloss.Width(right), 1)

	line := textStyle.Render(left+strings.Repeat(" ", pad)) + modeStyle.Render(right)
	return RenderInfoBox("Mode", []string{line}, width, false)
}
