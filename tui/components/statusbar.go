// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/studio-review/drawing"
	"github.com/user/studio-review/geom"
	"github.com/user/studio-review/pkg/timeutil"
	"github.com/user/studio-review/tui/styles"
)

// StatusBarState holds the current playback state for the status bar.
type StatusBarState struct {
	// Playing indicates if playback is running
	Playing bool
	// Muted indicates if audio is muted
	Muted bool
	// TimePos is the current playback position in seconds
	TimePos float64
	// Duration is the total video duration in seconds
	Duration float64
	// Rate is the playback rate
	Rate float64
	// FPS is the detected frame rate used for frame stepping
	FPS int
	// StepSize is the current seek step size in seconds
	StepSize float64
	// Fullscreen mirrors the player window
	Fullscreen bool
	// Analyzing is set while the filmstrip is being generated
	Analyzing bool
	// OverlayEnabled indicates if annotations are drawn on the mpv OSD
	OverlayEnabled bool
	// Annotating indicates if annotation mode is on
	Annotating bool
	// Tool and Color are the active drawing settings
	Tool  drawing.Tool
	Color geom.Color
}

// StatusBar renders the status bar component.
// The left side shows play state and time, the right side the rate, frame
// rate, step size and mode flags.
func StatusBar(state StatusBarState, width int) string {
	leftContent := fmt.Sprintf(" %s %s / %s", playIcon(state.Playing),
		timeutil.FormatPrecise(state.TimePos), timeutil.FormatTime(state.Duration))

	flags := []string{
		formatRate(state.Rate),
		fmt.Sprintf("%dfps", state.FPS),
		"Step: " + formatStepSize(state.StepSize),
	}
	if state.Muted {
		flags = append(flags, "🔇")
	}
	if state.Fullscreen {
		flags = append(flags, "⛶")
	}
	if state.Analyzing {
		flags = append(flags, "analyzing…")
	}
	if state.OverlayEnabled {
		flags = append(flags, "📺")
	}
	rightContent := strings.Join(flags, "  ") + " "

	if state.Annotating {
		swatch := lipgloss.NewStyle().Foreground(styles.ShapeColor(state.Color)).Render("●")
		leftContent += "  ✎ " + state.Tool.Label() + " " + swatch
	}

	// Calculate padding between left and right content
	padding := max(width-lipgloss.Width(leftContent)-lipgloss.Width(rightContent), 0)
	content := leftContent + strings.Repeat(" ", padding) + rightContent

	statusBarStyle := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Foreground(styles.LightLavender).
		Bold(true).
		Width(width)

	return statusBarStyle.Render(content)
}

func playIcon(playing bool) string {
	if playing {
		return "▶"
	}
	return "⏸"
}

// formatRate formats a playback rate as "1x", "0.25x".
func formatRate(rate float64) string {
	if rate <= 0 {
		rate = 1
	}
	return strconv.FormatFloat(rate, 'f', -1, 64) + "x"
}

// formatStepSize formats the step size for display.
// Shows decimal for values less than 1, otherwise whole number.
func formatStepSize(stepSize float64) string {
	if stepSize < 1 {
		return fmt.Sprintf("%.1fs", stepSize)
	}
	return fmt.Sprintf("%.0fs", stepSize)
}
