package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/studio-review/pkg/timeutil"
	"github.com/user/studio-review/tui/styles"
)

// RenderMiniPlayer renders a bordered mini player card showing playback status,
// used when the terminal is too narrow for the panels.
// When fixedWidth > 0, the card uses that exact width instead of auto-sizing.
// When showWarning is true, a warning line is shown (e.g. for disconnected state).
func RenderMiniPlayer(state StatusBarState, fixedWidth int, showWarning bool) string {
	contentStyle := lipgloss.NewStyle().Foreground(styles.LightLavender)

	contentLines := []string{
		contentStyle.Render(fmt.Sprintf(" %s  %s  %dfps", playIcon(state.Playing), formatRate(state.Rate), state.FPS)),
		contentStyle.Render(fmt.Sprintf(" %s / %s", timeutil.FormatPrecise(state.TimePos), timeutil.FormatTime(state.Duration))),
	}
	if state.Muted {
		contentLines = append(contentLines, contentStyle.Render(" MUTED"))
	}
	if showWarning {
		warnStyle := lipgloss.NewStyle().Foreground(styles.Red)
		contentLines = append(contentLines, warnStyle.Render(" ! Not connected"))
	}

	cardWidth := fixedWidth
	if cardWidth <= 0 {
		// Auto-size: widest line + border padding
		maxW := lipgloss.Width(" Playback ") + 3
		for _, line := range contentLines {
			maxW = max(maxW, lipgloss.Width(line)+2)
		}
		cardWidth = maxW + 2
	}

	return RenderInfoBox("Playback", contentLines, cardWidth, false)
}
