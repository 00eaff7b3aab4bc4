package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/studio-review/tui/styles"
)

// JobProgressState holds the state for the background job display.
type JobProgressState struct {
	Active    bool
	Total     int
	Completed int
	Errors    int
	// Current describes the job being processed, e.g. "clip 3 → out.mp4".
	Current string
	// LastError is the message of the most recent failure.
	LastError string
}

// JobProgress renders a bordered info box with a progress bar, a job
// counter, and the current job or completion message.
func JobProgress(state JobProgressState, width int) string {
	if !state.Active || width < 10 {
		return ""
	}

	greenStyle := lipgloss.NewStyle().Foreground(styles.Green)
	amberStyle := lipgloss.NewStyle().Foreground(styles.Amber)
	redStyle := lipgloss.NewStyle().Foreground(styles.Red)
	textStyle := lipgloss.NewStyle().Foreground(styles.LightLavender)

	// Inner width for content (box border = 2, plus 1 space padding each side)
	innerW := max(width-4, 6)

	var pct int
	if state.Total > 0 {
		pct = state.Completed * 100 / state.Total
	}

	// Bar width: innerW minus " XXX%" label (5 chars) minus 1 space padding
	barWidth := max(innerW-6, 4)
	filled := 0
	if state.Total > 0 {
		filled = min(barWidth*state.Completed/state.Total, barWidth)
	}

	bar := greenStyle.Render(strings.Repeat("█", filled)) + amberStyle.Render(strings.Repeat("░", barWidth-filled))
	lines := []string{" " + bar + textStyle.Render(fmt.Sprintf(" %3d%%", pct))}

	counter := fmt.Sprintf(" %d/%d jobs", state.Completed, state.Total)
	if state.Errors > 0 {
		counter += "  " + redStyle.Render(fmt.Sprintf("%d failed", state.Errors))
	}
	lines = append(lines, textStyle.Render(counter))

	maxW := innerW - 2
	switch {
	case state.Completed == state.Total && state.Total > 0:
		lines = append(lines, " "+greenStyle.Render("All jobs done"))
	case state.Current != "":
		lines = append(lines, " "+textStyle.Render(ansi.Truncate(state.Current, maxW, "...")))
	}
	if state.LastError != "" {
		lines = append(lines, " "+redStyle.Render(ansi.Truncate(state.LastError, maxW, "...")))
	}

	return RenderInfoBox("Jobs", lines, width, false)
}
