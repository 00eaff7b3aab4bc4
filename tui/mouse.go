package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/studio-review/drawing"
	"github.com/user/studio-review/tui/components"
)

// listFirstRow is the screen row of the first list entry: status bar, box
// border, table header.
const listFirstRow = statusHeight + 2

func isLeftPress(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft
}

// handleMouse routes pointer events. A gesture or scrub in progress keeps
// the pointer until release; otherwise the event goes to the panel under it.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	sc := m.screen()
	switch {
	case m.scrubbing:
		return m.scrub(msg)
	case m.pointerDown:
		return m.canvasGesture(msg, sc)
	}

	if sc.onTimeline(msg.Y) {
		return m.timelineMouse(msg)
	}
	m.leaveTimeline()

	if sc.onCanvas(msg.X, msg.Y) {
		return m.canvasPress(msg, sc)
	}

	switch {
	case msg.X < sc.cols.List:
		return m.listMouse(msg)
	case isLeftPress(msg) && msg.Y > statusHeight && msg.Y < statusHeight+sc.colHeight:
		if sc.cols.ShowNotes() && msg.X > sc.cols.CanvasLeft()+sc.cols.Canvas {
			m.focus = FocusNotes
		} else {
			m.focus = FocusCanvas
		}
	}
	return nil
}

// percentAt maps column x to a fraction of the scrub bar.
func (m *Model) percentAt(x int) (float64, bool) {
	return components.TimelinePercent(x, m.ctrl.State().Duration, m.width)
}

// timelineMouse hovers the timeline, showing the nearest thumbnail, and
// starts a scrub on press.
func (m *Model) timelineMouse(msg tea.MouseMsg) tea.Cmd {
	p, ok := m.percentAt(msg.X)
	if !ok {
		return nil
	}
	m.hovering = true
	m.ctrl.SetHovering(true)
	m.hover(p)

	if isLeftPress(msg) {
		m.scrubbing = true
		m.ctrl.SetScrubbing(true)
		return m.seekPercent(p)
	}
	return nil
}

func (m *Model) hover(p float64) {
	if thumb, ok := m.ctrl.Hover(p); ok {
		m.hoverThumb = &thumb
	} else {
		m.hoverThumb = nil
	}
}

// leaveTimeline drops the hover state once the pointer moves off the bar.
func (m *Model) leaveTimeline() {
	if !m.hovering {
		return
	}
	m.hovering = false
	m.hoverThumb = nil
	m.ctrl.ClearHover()
	m.ctrl.SetHovering(false)
}

// scrub follows the pointer while the button is held anywhere on screen.
func (m *Model) scrub(msg tea.MouseMsg) tea.Cmd {
	p, ok := m.percentAt(msg.X)
	if !ok {
		return nil
	}
	switch msg.Action {
	case tea.MouseActionMotion:
		m.hover(p)
		return m.seekPercent(p)
	case tea.MouseActionRelease:
		m.scrubbing = false
		m.ctrl.SetScrubbing(false)
		return m.seekPercent(p)
	}
	return nil
}

func (m *Model) seekPercent(p float64) tea.Cmd {
	ctx, cancel := context.WithTimeout(m.ctx, ipcTimeout)
	defer cancel()
	return m.check(m.ctrl.SeekPercent(ctx, p))
}

// canvasPress starts a gesture, or selects in select mode. The text tool
// asks for its text first.
func (m *Model) canvasPress(msg tea.MouseMsg, sc screen) tea.Cmd {
	if !isLeftPress(msg) {
		return nil
	}
	m.focus = FocusCanvas
	if !m.draw.Enabled() {
		return nil
	}
	opts := m.draw.Options()
	if opts.Tool == drawing.ToolText && m.draw.PendingText() == "" {
		return m.openTextForm()
	}
	x, y := float64(msg.X)+0.5, float64(msg.Y)+0.5
	if !m.draw.PointerDown(x, y, sc.canvas) {
		if opts.Tool != drawing.ToolSelect && m.ctrl.IsPlaying() {
			return m.setResult("Pause the video to draw", true)
		}
		m.refresh()
		return nil
	}
	m.pointerDown = m.draw.State() == drawing.Drawing
	m.refresh()
	return nil
}

// canvasGesture extends or finishes the gesture. Leaving the canvas with
// the button held abandons it.
func (m *Model) canvasGesture(msg tea.MouseMsg, sc screen) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionMotion:
		if !sc.onCanvas(msg.X, msg.Y) {
			m.draw.PointerLeave()
			m.pointerDown = false
			m.refresh()
			return m.setResult("Drawing cancelled", false)
		}
		m.draw.PointerMove(float64(msg.X)+0.5, float64(msg.Y)+0.5, sc.canvas)
		m.updateOverlay()
	case tea.MouseActionRelease:
		m.pointerDown = false
		a, ok := m.draw.PointerUp()
		m.refresh()
		if ok {
			m.list.Select(a.ID)
			return m.setResult("Added "+a.DisplayName(m.store.Len()), false)
		}
	}
	return nil
}

// listMouse selects the clicked row and scrolls with the wheel.
func (m *Model) listMouse(msg tea.MouseMsg) tea.Cmd {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.list.MoveUp()
	case msg.Button == tea.MouseButtonWheelDown:
		m.list.MoveDown()
	case isLeftPress(msg):
		m.focus = FocusList
		if i := msg.Y - listFirstRow + m.list.ScrollOffset; msg.Y >= listFirstRow && i < len(m.list.Items) {
			m.list.SelectedIndex = i
		}
	}
	return nil
}
