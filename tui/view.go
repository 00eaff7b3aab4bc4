package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/studio-review/geom"
	"github.com/user/studio-review/pkg/timeutil"
	"github.com/user/studio-review/player"
	"github.com/user/studio-review/tui/components"
	"github.com/user/studio-review/tui/layout"
	"github.com/user/studio-review/tui/styles"
)

const (
	// statusHeight is the status bar above the columns.
	statusHeight = 1
	// footerHeight is the controls bar plus the command line.
	footerHeight = 2
	// toolbarHeight is the drawing toolbar above the canvas box.
	toolbarHeight = 1
	// detailHeight is the selected-annotation box under the list.
	detailHeight = 6
)

// screen is the geometry of the main view, shared by rendering and mouse
// hit testing.
type screen struct {
	cols      layout.Columns
	colHeight int
	// canvas is the cell area shapes are drawn in.
	canvas geom.Surface
	// timelineTop is the first row of the timeline box.
	timelineTop int
}

func (m *Model) columns() layout.Columns {
	return layout.ComputeColumnWidths(m.width)
}

func (m *Model) screen() screen {
	cols := m.columns()
	colHeight := max(m.height-statusHeight-components.TimelineHeight-footerHeight, 5)
	// Toolbar, then the box top border.
	canvasTop := statusHeight + toolbarHeight + 1
	return screen{
		cols:      cols,
		colHeight: colHeight,
		canvas: geom.Surface{
			Left:   float64(cols.CanvasLeft() + 1),
			Top:    float64(canvasTop),
			Width:  float64(max(cols.Canvas-2, 1)),
			Height: float64(max(colHeight-toolbarHeight-2, 1)),
		},
		timelineTop: statusHeight + colHeight,
	}
}

// onCanvas reports whether cell x, y is inside the canvas.
func (s screen) onCanvas(x, y int) bool {
	fx, fy := float64(x), float64(y)
	return fx >= s.canvas.Left && fx < s.canvas.Left+s.canvas.Width &&
		fy >= s.canvas.Top && fy < s.canvas.Top+s.canvas.Height
}

// onTimeline reports whether row y is one of the scrub bar rows.
func (s screen) onTimeline(y int) bool {
	row := y - s.timelineTop
	return row >= components.TimelineBarRow-1 && row <= components.TimelineBarRow+1
}

func (m *Model) mode() string {
	switch {
	case m.commandInput.Active:
		return "Command"
	case m.editing:
		return "Edit"
	case m.draw.Enabled():
		return "Annotate"
	}
	return "Normal"
}

func (m *Model) statusBarState(st player.State) components.StatusBarState {
	opts := m.draw.Options()
	return components.StatusBarState{
		Playing:        st.IsPlaying,
		Muted:          st.IsMuted,
		TimePos:        st.CurrentTime,
		Duration:       st.Duration,
		Rate:           st.PlaybackRate,
		FPS:            st.FPS,
		StepSize:       m.stepSize,
		Fullscreen:     st.Fullscreen,
		Analyzing:      st.Analyzing,
		OverlayEnabled: m.overlayEnabled,
		Annotating:     m.draw.Enabled(),
		Tool:           opts.Tool,
		Color:          opts.Color,
	}
}

// View renders the current state of the model as a string.
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return components.HelpOverlay(m.keys.groups(), m.width, m.height)
	}

	st := m.ctrl.State()
	statusBar := components.StatusBar(m.statusBarState(st), m.width)

	if m.form != nil {
		hints := components.ControlsDisplay([]components.Control{
			{Name: "Next", Shortcut: "Enter"},
			{Name: "Cancel", Shortcut: "Esc"},
		}, m.width)
		body := layout.Container{Width: m.width, Height: max(m.height-2, 1)}.Render(m.form.View())
		return statusBar + "\n" + hints + "\n" + body
	}

	if m.width < layout.MinTerminalWidth {
		warningStyle := lipgloss.NewStyle().
			Foreground(styles.Pink).
			Bold(true)
		hintStyle := lipgloss.NewStyle().
			Foreground(styles.Lavender).
			Italic(true)
		return components.RenderMiniPlayer(m.statusBarState(st), 0, m.opts.Events == nil) + "\n" +
			warningStyle.Render(fmt.Sprintf("Terminal too narrow (%d cols)", m.width)) + "\n" +
			hintStyle.Render(fmt.Sprintf("Minimum width: %d columns", layout.MinTerminalWidth)) + "\n" +
			hintStyle.Render("Please resize your terminal.")
	}

	sc := m.screen()
	cols := []string{
		m.renderListColumn(sc.cols.List, sc.colHeight),
		m.renderCanvasColumn(st, sc),
	}
	if sc.cols.ShowNotes() {
		cols = append(cols, m.renderNotesColumn(sc.cols.Notes, sc.colHeight))
	}
	columnsView := layout.JoinColumns(cols, sc.cols.Widths(), sc.colHeight)

	timeline := components.Timeline(components.TimelineState{
		TimePos:     st.CurrentTime,
		Duration:    st.Duration,
		HoverTime:   st.HoverTime,
		Annotations: m.list.Items,
		Selected:    m.list.SelectedIndex,
		Thumbnails:  len(m.ctrl.Thumbnails()),
	}, m.width)

	controls := components.ControlsDisplay(m.keys.hints(m.focus, m.editing), m.width)
	commandInput := components.CommandInput(m.commandInput, m.width)

	return statusBar + "\n" + columnsView + "\n" + timeline + "\n" + controls + "\n" + commandInput
}

// renderListColumn renders the annotation list, the hover thumbnail while
// the pointer is over the timeline, and the selected annotation's details.
func (m *Model) renderListColumn(width, height int) string {
	var lines []string

	var preview []string
	if m.hoverThumb != nil {
		preview = strings.Split(components.ThumbnailPreview(m.hoverThumb.URL, m.hoverThumb.Time, width), "\n")
	}
	var detail []string
	if a := m.list.GetSelectedItem(); a != nil && height-len(preview) >= 16 {
		detail = strings.Split(m.renderDetail(width), "\n")
	}

	// Reduce height by 2 for InfoBox top+bottom border lines
	innerHeight := max(height-len(preview)-len(detail)-2, 3)
	// One row goes to the table header.
	m.list.ClampScroll(innerHeight - 1)
	list := components.AnnotationList(m.list, width-2, innerHeight, m.ctrl.CurrentTime())
	title := fmt.Sprintf("Annotations (%d)", len(m.list.Items))
	lines = append(lines, strings.Split(components.RenderInfoBox(title, strings.Split(list, "\n"), width, m.focus == FocusList), "\n")...)
	lines = append(lines, detail...)
	lines = append(lines, preview...)

	return layout.Container{Width: width, Height: height}.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderDetail(width int) string {
	a := m.list.GetSelectedItem()
	n := m.list.SelectedIndex + 1
	detailStyle := lipgloss.NewStyle().Foreground(styles.LightLavender)
	dimStyle := lipgloss.NewStyle().Foreground(styles.Lavender)

	end := "end of video"
	if a.EndTime != nil {
		end = timeutil.FormatPrecise(*a.EndTime)
	}
	contentLines := []string{
		detailStyle.Render(" " + a.DisplayName(n)),
		dimStyle.Render(fmt.Sprintf(" %s → %s", timeutil.FormatPrecise(a.StartTime), end)),
		dimStyle.Render(fmt.Sprintf(" %d shape(s), %s", len(a.Shapes), a.CreatedAt.Local().Format("15:04:05"))),
		"",
	}
	return components.RenderInfoBox("Selected", contentLines[:detailHeight-2], width, false)
}

// renderCanvasColumn renders the toolbar and the canvas box.
func (m *Model) renderCanvasColumn(st player.State, sc screen) string {
	width := sc.cols.Canvas
	opts := m.draw.Options()
	toolbar := components.Toolbar(components.ToolbarState{
		Enabled:     m.draw.Enabled(),
		Tool:        opts.Tool,
		Color:       opts.Color,
		StrokeWidth: opts.StrokeWidth,
		FontSize:    opts.FontSize,
		Playing:     st.IsPlaying,
	}, width)

	selected := map[string]bool{}
	if a := m.list.GetSelectedItem(); a != nil {
		for _, s := range a.Shapes {
			selected[s.Base().ID] = true
		}
	}
	canvas := components.Canvas(components.CanvasState{
		Items:    m.frameItems(),
		Selected: selected,
	}, int(sc.canvas.Width), int(sc.canvas.Height))

	title := "Canvas · " + timeutil.FormatPrecise(st.CurrentTime)
	box := components.RenderInfoBox(title, strings.Split(canvas, "\n"), width, m.focus == FocusCanvas)
	return toolbar + "\n" + box
}

// renderNotesColumn renders the mode indicator, job progress, and notes.
func (m *Model) renderNotesColumn(width, height int) string {
	var lines []string
	lines = append(lines, strings.Split(components.ModeIndicator(m.focus.String(), m.mode(), width), "\n")...)
	if m.jobs.Active {
		lines = append(lines, strings.Split(components.JobProgress(m.jobs, width), "\n")...)
	}

	innerHeight := max(height-len(lines)-2, 3)
	editor := components.BlockEditor(components.BlockEditorState{
		Blocks:   m.notes.Blocks(),
		FocusID:  m.notes.FocusID(),
		Menu:     m.notes.Menu(),
		Dragging: m.notes.Dragging(),
		Editing:  m.editing,
		Input:    m.noteInput.View(),
	}, width-2, innerHeight)
	lines = append(lines, strings.Split(components.RenderInfoBox("Notes", strings.Split(editor, "\n"), width, m.focus == FocusNotes), "\n")...)

	return layout.Container{Width: width, Height: height}.Render(strings.Join(lines, "\n"))
}
