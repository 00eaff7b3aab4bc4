package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/studio-review/tui/styles"
)

// HelpOverlay renders the help overlay showing all keybindings, one section
// per control group, centred in a width×height area.
func HelpOverlay(groups []ControlGroup, width, height int) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Padding(0, 1)

	groupHeaderStyle := lipgloss.NewStyle().
		Foreground(styles.Pink).
		Bold(true).
		MarginTop(1)

	keyWidth := 8
	for _, g := range groups {
		for _, sg := range g.SubGroups {
			for _, c := range sg {
				keyWidth = max(keyWidth, lipgloss.Width(c.Shortcut)+2)
			}
		}
	}
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Lavender).
		Bold(true).
		Width(keyWidth)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.LightLavender)

	var lines []string
	lines = append(lines, titleStyle.Render("Keybindings"))
	lines = append(lines, "")

	for _, group := range groups {
		lines = append(lines, groupHeaderStyle.Render(group.Name))
		for _, sg := range group.SubGroups {
			for _, c := range sg {
				lines = append(lines, "  "+keyStyle.Render(c.Shortcut)+descStyle.Render(c.Name))
			}
		}
	}

	lines = append(lines, "")
	footerStyle := lipgloss.NewStyle().
		Foreground(styles.Lavender).
		Italic(true)
	lines = append(lines, footerStyle.Render("Press any key to close"))

	content := strings.Join(lines, "\n")

	contentLines := strings.Split(content, "\n")
	contentWidth := 0
	for _, line := range contentLines {
		contentWidth = max(contentWidth, lipgloss.Width(line))
	}

	// Border plus padding on each side.
	paddedWidth := contentWidth + 6
	paddedHeight := len(contentLines) + 4

	marginLeft := max((width-paddedWidth)/2, 0)
	marginTop := max((height-paddedHeight)/2, 0)

	panelStyle := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BrightPurple).
		Padding(1, 2)

	positionedStyle := lipgloss.NewStyle().
		MarginLeft(marginLeft).
		MarginTop(marginTop)

	return positionedStyle.Render(panelStyle.Render(content))
}
