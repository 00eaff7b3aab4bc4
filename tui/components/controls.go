// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/studio-review/tui/styles"
)

// Control represents a single control with its display info.
type Control struct {
	Name     string
	Shortcut string
}

// ControlGroup represents a group of related controls with sub-group support.
// SubGroups allows the renderer to place horizontal dividers between sub-groups.
type ControlGroup struct {
	Name      string
	SubGroups [][]Control
}

// Controls converts key bindings to controls, skipping disabled ones.
func Controls(bindings ...key.Binding) []Control {
	out := make([]Control, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		out = append(out, Control{Name: h.Desc, Shortcut: h.Key})
	}
	return out
}

// RenderInfoBox renders a generic bordered box with a tab-style header and content lines.
// Content lines are rendered as-is (caller handles styling) and truncated to
// the box. A focused box gets a bright border.
func RenderInfoBox(title string, contentLines []string, width int, focused bool) string {
	if width < 4 {
		return ""
	}
	innerWidth := width - 2

	borderColor := styles.Purple
	if focused {
		borderColor = styles.BrightPurple
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	headerStyle := lipgloss.NewStyle().Foreground(styles.Pink).Bold(true)

	// Tab header: ╭─ Title ─────╮
	headerText := headerStyle.Render(" " + title + " ")
	fillWidth := max(innerWidth-1-lipgloss.Width(headerText), 0)
	topLine := borderStyle.Render("╭─") + headerText + borderStyle.Render(strings.Repeat("─", fillWidth)+"╮")
	if lipgloss.Width(topLine) > width {
		topLine = ansi.Truncate(topLine, width-1, "") + borderStyle.Render("╮")
	}

	renderedLines := make([]string, 0, len(contentLines)+2)
	renderedLines = append(renderedLines, topLine)
	for _, line := range contentLines {
		if lipgloss.Width(line) > innerWidth {
			line = ansi.Truncate(line, innerWidth, "")
		}
		pad := innerWidth - lipgloss.Width(line)
		renderedLines = append(renderedLines, borderStyle.Render("│")+line+strings.Repeat(" ", pad)+borderStyle.Render("│"))
	}

	// Bottom border: ╰──────────────╯
	renderedLines = append(renderedLines, borderStyle.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))

	return strings.Join(renderedLines, "\n")
}

// RenderControlBox renders a control group inside a bordered box with tab header
// and horizontal dividers between sub-groups:
//
//	 ┌──────────┐
//	┌┤ Playback ├┐
//	│└──────────┘└────────────┐
//	│ Play    [ Space ]       │
//	├─────────────────────────┤
//	│ Frame - [ , ]           │
//	└─────────────────────────┘
func RenderControlBox(group ControlGroup, width int) string {
	if width < 6 {
		return ""
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Purple)
	headerStyle := lipgloss.NewStyle().Foreground(styles.Pink).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(styles.LightLavender)
	shortcutStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)

	innerW := width - 2
	tabLabel := " " + group.Name + " "
	tabW := lipgloss.Width(tabLabel)
	remainW := max(innerW-tabW-3, 0)

	lines := []string{
		" " + borderStyle.Render("┌"+strings.Repeat("─", tabW)+"┐"),
		borderStyle.Render("┌┤") + headerStyle.Render(tabLabel) + borderStyle.Render("├┐"),
		borderStyle.Render("│└" + strings.Repeat("─", tabW) + "┘└" + strings.Repeat("─", remainW) + "┐"),
	}

	maxNameW := 0
	for _, sg := range group.SubGroups {
		for _, c := range sg {
			maxNameW = max(maxNameW, lipgloss.Width(c.Name))
		}
	}

	for si, subGroup := range group.SubGroups {
		for _, c := range subGroup {
			content := nameStyle.Render(fmt.Sprintf("%-*s", maxNameW, c.Name)) + "  " +
				shortcutStyle.Render("[ "+c.Shortcut+" ]")
			padRight := max(innerW-2-lipgloss.Width(content), 0)
			row := borderStyle.Render("│") + " " + content + strings.Repeat(" ", padRight) + " " + borderStyle.Render("│")
			if lipgloss.Width(row) > width {
				row = ansi.Truncate(row, width, "")
			}
			lines = append(lines, row)
		}
		if si < len(group.SubGroups)-1 {
			lines = append(lines, borderStyle.Render("├"+strings.Repeat("─", innerW)+"┤"))
		}
	}

	lines = append(lines, borderStyle.Render("└"+strings.Repeat("─", innerW)+"┘"))
	return strings.Join(lines, "\n")
}

// ControlsDisplay renders controls as a single hint bar, Name [Shortcut],
// truncated to width.
func ControlsDisplay(controls []Control, width int) string {
	shortcutStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(styles.LightLavender)

	parts := make([]string, 0, len(controls))
	for _, c := range controls {
		parts = append(parts, nameStyle.Render(c.Name)+" "+shortcutStyle.Render("["+c.Shortcut+"]"))
	}
	bar := " " + strings.Join(parts, "  ")
	if lipgloss.Width(bar) > width {
		bar = ansi.Truncate(bar, width, "…")
	}

	return lipgloss.NewStyle().
		Background(styles.DeepPurple).
		Width(width).
		Render(bar)
}
