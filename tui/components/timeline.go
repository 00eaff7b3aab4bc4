package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/pkg/timeutil"
	"github.com/user/studio-review/tui/styles"
)

const (
	// TimelineHeight is the number of lines Timeline renders.
	TimelineHeight = 6
	// TimelineBarRow is the line of the scrub bar within the timeline.
	TimelineBarRow = 2
)

// TimelineState is what the scrub bar shows.
type TimelineState struct {
	TimePos  float64
	Duration float64
	// HoverTime is the position under the pointer, if any.
	HoverTime *float64
	// Annotations are drawn as markers spanning their visible range.
	Annotations []annotation.Annotation
	// Selected is the index of the highlighted annotation, -1 for none.
	Selected int
	// Thumbnails is the filmstrip size, shown in the header.
	Thumbnails int
}

// TimelineBar returns the column the scrub bar starts at and its width, for
// a timeline of the given total width.
func TimelineBar(duration float64, width int) (left, barWidth int) {
	// Inner width = width - 4 (2 border chars + 2 padding spaces)
	innerWidth := max(width-4, 10)
	barWidth = max(innerWidth-timeDisplayWidth(duration)-2, 10)
	return 2, barWidth
}

// TimelinePercent maps a column of the timeline to a fraction of the bar.
// Columns left or right of the bar clamp to the ends; ok is false when the
// bar has no width.
func TimelinePercent(x int, duration float64, width int) (p float64, ok bool) {
	left, barWidth := TimelineBar(duration, width)
	if barWidth < 2 {
		return 0, false
	}
	p = float64(x-left) / float64(barWidth-1)
	return math.Max(0, math.Min(1, p)), true
}

// timeDisplayWidth sizes the time label from the duration alone so the bar
// does not move while playing.
func timeDisplayWidth(duration float64) int {
	d := timeutil.FormatTime(duration)
	return lipgloss.Width(fmt.Sprintf(" %s / %s", d, d))
}

// barPos maps t to a cell of a bar barWidth wide.
func barPos(t, duration float64, barWidth int) int {
	if !(duration > 0) {
		return 0
	}
	pos := int(math.Round(float64(barWidth-1) * t / duration))
	return max(0, min(barWidth-1, pos))
}

// Timeline renders a progress bar with annotation markers in a bordered container.
// Each annotation shows a ◆ at its start and a band up to its end time.
// Total output height is TimelineHeight lines.
func Timeline(state TimelineState, width int) string {
	if width < 20 {
		return ""
	}

	filledStyle := lipgloss.NewStyle().Foreground(styles.BrightPurple)
	unfilledStyle := lipgloss.NewStyle().Foreground(styles.Purple)
	timeStyle := lipgloss.NewStyle().Foreground(styles.LightLavender).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(styles.Cyan)
	selectedStyle := lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	posStyle := lipgloss.NewStyle().Foreground(styles.Pink).Bold(true)
	hoverStyle := lipgloss.NewStyle().Foreground(styles.Lavender)

	_, barWidth := TimelineBar(state.Duration, width)
	fillPos := barPos(state.TimePos, state.Duration, barWidth)

	// Cell roles: 0 plain, 1 span body, 2 start marker. Selected wins.
	roles := make([]int, barWidth)
	selected := make([]bool, barWidth)
	if state.Duration > 0 {
		for i, a := range state.Annotations {
			start := barPos(a.StartTime, state.Duration, barWidth)
			end := start
			if a.EndTime != nil {
				end = barPos(*a.EndTime, state.Duration, barWidth)
			}
			for c := start; c <= end; c++ {
				if c == start {
					roles[c] = 2
				} else if roles[c] == 0 {
					roles[c] = 1
				}
				if i == state.Selected {
					selected[c] = true
				}
			}
		}
	}

	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		switch {
		case roles[i] == 2:
			st := markerStyle
			if selected[i] {
				st = selectedStyle
			}
			bar.WriteString(st.Render("◆"))
		case roles[i] == 1:
			st := markerStyle
			if selected[i] {
				st = selectedStyle
			}
			bar.WriteString(st.Render("═"))
		case i < fillPos:
			bar.WriteString(filledStyle.Render("━"))
		case i == fillPos:
			bar.WriteString(posStyle.Render("╸"))
		default:
			bar.WriteString(unfilledStyle.Render("─"))
		}
	}

	timeDisplay := fmt.Sprintf(" %s / %s", timeutil.FormatTime(state.TimePos), timeutil.FormatTime(state.Duration))
	timeDisplay += strings.Repeat(" ", max(timeDisplayWidth(state.Duration)-lipgloss.Width(timeDisplay), 0))
	barLine := " " + bar.String() + " " + timeStyle.Render(timeDisplay)

	// Position indicator line, with the hover position when there is one.
	hoverPos := -1
	if state.HoverTime != nil {
		hoverPos = barPos(*state.HoverTime, state.Duration, barWidth)
	}
	var indicator strings.Builder
	indicator.WriteString(" ")
	for i := 0; i < barWidth; i++ {
		switch i {
		case fillPos:
			indicator.WriteString(posStyle.Render("▲"))
		case hoverPos:
			indicator.WriteString(hoverStyle.Render("△"))
		default:
			indicator.WriteString(" ")
		}
	}
	if state.HoverTime != nil {
		indicator.WriteString(" " + hoverStyle.Render(timeutil.FormatPrecise(*state.HoverTime)))
	}

	title := "Timeline"
	if state.Thumbnails > 0 {
		title = fmt.Sprintf("Timeline · %d thumbs", state.Thumbnails)
	}
	box := RenderInfoBox(title, []string{"", barLine, indicator.String(), ""}, width, false)
	return box
}
