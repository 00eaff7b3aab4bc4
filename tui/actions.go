package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/db"
	"github.com/user/studio-review/drawing"
	"github.com/user/studio-review/geom"
	"github.com/user/studio-review/pkg/timeutil"
	"github.com/user/studio-review/player"
	"github.com/user/studio-review/tui/forms"
)

// captureTimeout bounds a freeze-frame capture.
const captureTimeout = 15 * time.Second

// freezeDoneMsg reports a finished freeze-frame capture.
type freezeDoneMsg struct {
	frame player.Freeze
	err   error
}

// filmstripDoneMsg reports a finished live filmstrip analysis.
type filmstripDoneMsg struct{ err error }

func formatRate(rate float64) string {
	return fmt.Sprintf("Speed %gx", rate)
}

// nextColor returns the palette entry after c, wrapping.
func nextColor(c geom.Color) geom.Color {
	i := slices.Index(geom.Palette, c)
	return geom.Palette[(i+1)%len(geom.Palette)]
}

// nextStrokeWidth returns the offered width after w, wrapping.
func nextStrokeWidth(w int) int {
	i := slices.Index(drawing.StrokeWidths, w)
	return drawing.StrokeWidths[(i+1)%len(drawing.StrokeWidths)]
}

// freezeFrame captures the current frame in the background. Saving it is
// the controller's OnFreezeFrame callback's job.
func (m *Model) freezeFrame() tea.Cmd {
	ctx := m.ctx
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, captureTimeout)
		defer cancel()
		f, err := ctrl.FreezeFrame(ctx)
		return freezeDoneMsg{frame: f, err: err}
	}
}

func (m *Model) handleFreezeDone(msg freezeDoneMsg) tea.Cmd {
	if msg.err != nil {
		return m.check(fmt.Errorf("freeze frame: %w", msg.err))
	}
	return m.setResult(fmt.Sprintf("Freeze Frame - %s saved (%dx%d)",
		timeutil.FormatClock(msg.frame.Time), msg.frame.Width, msg.frame.Height), false)
}

// startFilmstrip runs frame-rate detection and thumbnail capture against
// the live player.
func (m *Model) startFilmstrip() tea.Cmd {
	if m.ctrl.State().Analyzing {
		return m.setResult("Filmstrip is already being generated", false)
	}
	ctx := m.ctx
	ctrl := m.ctrl
	return tea.Batch(
		m.setResult("Generating filmstrip...", false),
		func() tea.Msg { return filmstripDoneMsg{err: ctrl.Load(ctx)} },
	)
}

func (m *Model) handleFilmstripDone(msg filmstripDoneMsg) tea.Cmd {
	if errors.Is(msg.err, player.ErrStale) {
		return nil
	}
	if msg.err != nil {
		return m.setError(fmt.Errorf("filmstrip: %w", msg.err))
	}
	thumbs := m.ctrl.Thumbnails()
	st := m.ctrl.State()
	if m.opts.DB != nil && m.opts.Video != nil {
		if err := db.ReplaceThumbnails(m.opts.DB, m.opts.Video.ID, thumbs); err != nil {
			return m.setError(err)
		}
		if err := db.UpdateVideoMetadata(m.opts.DB, m.opts.Video.ID, st.Duration, st.FPS); err != nil {
			return m.setError(err)
		}
	}
	return m.setResult(fmt.Sprintf("Filmstrip: %d thumbnails at %dfps", len(thumbs), st.FPS), false)
}

// pickTool selects the i-th toolbar tool, turning annotation mode on.
func (m *Model) pickTool(i int) tea.Cmd {
	if i < 0 || i >= len(drawing.Tools) {
		return nil
	}
	return m.setTool(drawing.Tools[i])
}

func (m *Model) setTool(t drawing.Tool) tea.Cmd {
	if !m.draw.Enabled() {
		m.draw.SetEnabled(true)
	}
	m.draw.SetTool(t)
	m.focus = FocusCanvas
	if t == drawing.ToolText {
		return m.openTextForm()
	}
	return nil
}

// jumpToSelected pauses and seeks to the start of the selected annotation.
func (m *Model) jumpToSelected(ctx context.Context) tea.Cmd {
	a := m.list.GetSelectedItem()
	if a == nil {
		return nil
	}
	if err := m.ctrl.Pause(ctx); err != nil {
		return m.check(err)
	}
	return m.check(m.ctrl.Seek(ctx, a.StartTime))
}

// toggleEnd ends the selected annotation at the current time, or reopens it.
func (m *Model) toggleEnd() tea.Cmd {
	a := m.list.GetSelectedItem()
	if a == nil {
		return m.setResult("No annotation selected", true)
	}
	t := m.ctrl.CurrentTime()
	if err := m.store.ToggleEnd(a.ID, t); err != nil {
		if errors.Is(err, annotation.ErrEndBeforeStart) {
			return m.setResult("End time is before the start", true)
		}
		return m.setError(err)
	}
	m.refresh()
	if a.EndTime == nil {
		return m.setResult("Ends at "+timeutil.FormatPrecise(t), false)
	}
	return m.setResult("Reopened, shown until the end", false)
}

// queueClip queues an ffmpeg export of the selected annotation's range.
func (m *Model) queueClip() tea.Cmd {
	a := m.list.GetSelectedItem()
	if a == nil {
		return m.setResult("No annotation selected", true)
	}
	return m.enqueue(db.JobClip, a.ID, "clip "+a.DisplayName(m.list.SelectedIndex+1))
}

// deleteSelected removes the canvas selection when the canvas has focus,
// otherwise the annotation selected in the list.
func (m *Model) deleteSelected() tea.Cmd {
	if m.focus == FocusCanvas && m.draw.Key(drawing.KeyDelete) {
		m.refresh()
		return m.setResult("Annotation deleted", false)
	}
	a := m.list.GetSelectedItem()
	if a == nil {
		return nil
	}
	name := a.DisplayName(m.list.SelectedIndex + 1)
	if m.store.Delete(a.ID) {
		m.refresh()
		return m.setResult(name+" deleted", false)
	}
	return nil
}

func (m *Model) openForm(kind formKind, f *huh.Form) tea.Cmd {
	m.formKind = kind
	m.form = f.WithWidth(min(max(m.width-4, 20), 72)).WithShowHelp(true)
	return m.form.Init()
}

func (m *Model) closeForm() {
	m.form = nil
	m.formKind = formNone
}

func (m *Model) openLabelForm() tea.Cmd {
	a := m.list.GetSelectedItem()
	if a == nil {
		return m.setResult("No annotation selected", true)
	}
	m.labelID = a.ID
	m.labelResult = forms.NewLabelResult(*a)
	return m.openForm(formLabel, forms.NewLabelForm(*a, m.list.SelectedIndex+1, &m.labelResult))
}

func (m *Model) openTextForm() tea.Cmd {
	m.textContent = m.draw.PendingText()
	return m.openForm(formText, forms.NewTextForm(&m.textContent))
}

func (m *Model) openClearForm() tea.Cmd {
	n := m.store.Len()
	if n == 0 {
		return m.setResult("Nothing to clear", false)
	}
	m.confirm = false
	return m.openForm(formClear, forms.NewConfirmClearForm(n, &m.confirm))
}

// updateForm forwards msg to the open form and acts on its completion.
// Esc cancels the form.
func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return m.cancelForm()
	}
	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return tea.Batch(cmd, m.submitForm())
	case huh.StateAborted:
		return tea.Batch(cmd, m.cancelForm())
	}
	return cmd
}

func (m *Model) cancelForm() tea.Cmd {
	switch m.formKind {
	case formText:
		if strings.TrimSpace(m.textContent) != "" && m.textContent != m.draw.PendingText() {
			m.confirm = false
			return m.openForm(formDiscardText, forms.NewConfirmDiscardForm(&m.confirm))
		}
	case formDiscardText:
		// "No, go back"
		return m.openForm(formText, forms.NewTextForm(&m.textContent))
	}
	m.closeForm()
	return nil
}

func (m *Model) submitForm() tea.Cmd {
	kind := m.formKind
	m.closeForm()

	switch kind {
	case formLabel:
		m.store.SetLabel(m.labelID, strings.TrimSpace(m.labelResult.Label))
		end, err := m.labelResult.EndTime()
		if err != nil {
			return m.setError(err)
		}
		if err := m.store.SetEndTime(m.labelID, end); err != nil {
			return m.setError(err)
		}
		m.refresh()
		return m.setResult("Annotation updated", false)

	case formText:
		m.draw.SetText(strings.TrimSpace(m.textContent))
		return m.setResult("Click the canvas to place the text", false)

	case formDiscardText:
		if !m.confirm {
			return m.openForm(formText, forms.NewTextForm(&m.textContent))
		}
		m.textContent = ""
		return nil

	case formClear:
		if !m.confirm {
			return nil
		}
		n := m.store.Len()
		m.store.Clear()
		m.refresh()
		return m.setResult(fmt.Sprintf("Cleared %d annotation(s)", n), false)
	}
	return nil
}
