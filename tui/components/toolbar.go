package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/studio-review/drawing"
	"github.com/user/studio-review/geom"
	"github.com/user/studio-review/tui/styles"
)

// ToolbarState is the drawing toolbar shown above the canvas.
type ToolbarState struct {
	Enabled     bool
	Tool        drawing.Tool
	Color       geom.Color
	StrokeWidth int
	FontSize    float64
	// Playing disables drawing until playback is paused.
	Playing bool
}

// Toolbar renders the numbered tools, the colour swatches, and the stroke
// and font settings on a single line.
func Toolbar(state ToolbarState, width int) string {
	if !state.Enabled {
		return styles.DimText.Render(ansi.Truncate(" Annotation mode off · press a to draw", width, "…"))
	}

	toolStyle := lipgloss.NewStyle().Foreground(styles.Lavender)
	numStyle := lipgloss.NewStyle().Foreground(styles.Cyan)

	parts := make([]string, 0, len(drawing.Tools)+4)
	for i, t := range drawing.Tools {
		label := numStyle.Render(fmt.Sprint(i+1)) + toolStyle.Render(t.Label())
		if t == state.Tool {
			label = styles.Highlight.Render(fmt.Sprintf("%d%s", i+1, t.Label()))
		}
		parts = append(parts, label)
	}

	var swatches strings.Builder
	for _, c := range geom.Palette {
		mark := "○"
		if c == state.Color {
			mark = "●"
		}
		swatches.WriteString(lipgloss.NewStyle().Foreground(styles.ShapeColor(c)).Render(mark))
	}
	parts = append(parts, swatches.String())
	parts = append(parts, styles.SecondaryText.Render(fmt.Sprintf("%dpx", state.StrokeWidth)))
	if state.Tool == drawing.ToolText {
		parts = append(parts, styles.SecondaryText.Render(fmt.Sprintf("font %gpx", state.FontSize)))
	}
	if state.Playing && state.Tool != drawing.ToolSelect {
		parts = append(parts, styles.Warning.Render("pause to draw"))
	}

	return ansi.Truncate(" "+strings.Join(parts, " "), width, "…")
}
