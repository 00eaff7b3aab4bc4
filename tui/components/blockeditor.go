package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/studio-review/blocks"
	"github.com/user/studio-review/tui/styles"
)

// BlockEditorState is the notes document as the panel shows it.
type BlockEditorState struct {
	Blocks  []blocks.Block
	FocusID string
	Menu    blocks.Menu
	// Dragging is the id of the block being moved, if any.
	Dragging string
	// Editing is set while the focused block takes keyboard input; Input is
	// then drawn in place of its content.
	Editing bool
	Input   string
}

// BlockPrefix is the marker drawn before a block: heading hashes, list
// bullets and numbers, checkboxes, the quote bar.
func BlockPrefix(list []blocks.Block, i int) string {
	b := list[i]
	switch b.Type {
	case blocks.Heading1:
		return "# "
	case blocks.Heading2:
		return "## "
	case blocks.Heading3:
		return "### "
	case blocks.BulletList:
		return "• "
	case blocks.NumberedList:
		return fmt.Sprintf("%d. ", blocks.ListNumber(list, i))
	case blocks.CheckList:
		if b.Checked {
			return "[x] "
		}
		return "[ ] "
	case blocks.Quote:
		return "│ "
	case blocks.Code:
		return "` "
	}
	return ""
}

func blockStyle(b blocks.Block) lipgloss.Style {
	switch b.Type {
	case blocks.Heading1:
		return lipgloss.NewStyle().Foreground(styles.Pink).Bold(true).Underline(true)
	case blocks.Heading2:
		return lipgloss.NewStyle().Foreground(styles.Pink).Bold(true)
	case blocks.Heading3:
		return lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	case blocks.Quote:
		return lipgloss.NewStyle().Foreground(styles.Lavender).Italic(true)
	case blocks.Code:
		return lipgloss.NewStyle().Foreground(styles.Cyan)
	case blocks.CheckList:
		if b.Checked {
			return lipgloss.NewStyle().Foreground(styles.Purple).Strikethrough(true)
		}
	}
	return styles.PrimaryText
}

// BlockEditor renders the document with the slash palette under the block
// it was opened on. Rows scroll to keep the focused block within height.
func BlockEditor(state BlockEditorState, width, height int) string {
	var lines []string
	focusLine := 0
	for i, b := range state.Blocks {
		focused := b.ID == state.FocusID
		if focused {
			focusLine = len(lines)
		}
		lines = append(lines, renderBlock(state, i, focused, width))
		if state.Menu.Open && state.Menu.BlockID == b.ID {
			lines = append(lines, renderMenu(state.Menu, width)...)
		}
	}

	if height > 0 && len(lines) > height {
		start := max(0, min(focusLine-height/2, len(lines)-height))
		lines = lines[start : start+height]
	}
	return strings.Join(lines, "\n")
}

func renderBlock(state BlockEditorState, i int, focused bool, width int) string {
	b := state.Blocks[i]
	gutter := "  "
	switch {
	case b.ID == state.Dragging:
		gutter = styles.Key.Render("↕ ")
	case focused:
		gutter = styles.Key.Render("▸ ")
	}

	if b.Type == blocks.Divider {
		rule := lipgloss.NewStyle().Foreground(styles.Purple).Render(strings.Repeat("─", max(width-2, 1)))
		return gutter + rule
	}

	prefix := BlockPrefix(state.Blocks, i)
	prefixStyle := lipgloss.NewStyle().Foreground(styles.Cyan)

	var body string
	switch {
	case focused && state.Editing:
		body = state.Input
	case b.Content == "" && focused:
		body = styles.DimText.Render(b.Type.Placeholder())
	default:
		body = blockStyle(b).Render(b.Content)
	}
	return ansi.Truncate(gutter+prefixStyle.Render(prefix)+body, width, "…")
}

func renderMenu(menu blocks.Menu, width int) []string {
	boxStyle := lipgloss.NewStyle().Foreground(styles.Purple)
	if len(menu.Commands) == 0 {
		return []string{boxStyle.Render("    ┆ ") + styles.DimText.Render("No matching blocks")}
	}
	out := make([]string, 0, len(menu.Commands))
	for i, c := range menu.Commands {
		row := fmt.Sprintf("%-14s %s", c.Label, c.Description)
		st := styles.SecondaryText
		if i == menu.Index {
			st = styles.Highlight
		}
		out = append(out, ansi.Truncate(boxStyle.Render("    ┆ ")+st.Render(row), width, "…"))
	}
	return out
}
