package tui

import (
	"context"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/blocks"
	"github.com/user/studio-review/drawing"
	"github.com/user/studio-review/geom"
	"github.com/user/studio-review/player"
	"github.com/user/studio-review/tui/components"
)

type fakeMedia struct {
	mu     sync.Mutex
	pos    float64
	paused bool
}

func (f *fakeMedia) Position(context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos, nil
}

func (f *fakeMedia) Paused(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused, nil
}

func (f *fakeMedia) Play(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = false
	return nil
}

func (f *fakeMedia) Pause(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = true
	return nil
}

func (f *fakeMedia) Seek(_ context.Context, t float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pos = t
	return nil
}

func (f *fakeMedia) Duration(context.Context) (float64, error) { return 60, nil }
func (f *fakeMedia) Muted(context.Context) (bool, error) { return false, nil }
func (f *fakeMedia) SetMuted(context.Context, bool) error { return nil }
func (f *fakeMedia) SetVolume(context.Context, float64) error { return nil }
func (f *fakeMedia) SetSpeed(context.Context, float64) error { return nil }

type fakeOverlay struct {
	shown  []string
	hidden int
}

func (o *fakeOverlay) OSDSize(context.Context) (float64, float64, error) { return 1280, 720, nil }

func (o *fakeOverlay) ShowOverlay(_ context.Context, _ int, ass string, _, _ float64) error {
	o.shown = append(o.shown, ass)
	return nil
}

func (o *fakeOverlay) HideOverlay(context.Context, int) error {
	o.hidden++
	return nil
}

func newTestModel(t *testing.T) (*Model, *fakeOverlay) {
	t.Helper()
	store := annotation.NewStore(nil, nil)
	ctrl := player.NewController(&fakeMedia{paused: true}, player.Options{})
	t.Cleanup(ctrl.Close)
	ctrl.HandleEvent(player.Event{Kind: player.EventLoadedMetadata, Duration: 60})

	overlay := &fakeOverlay{}
	m := NewModel(context.Background(), Options{
		Player:  ctrl,
		Store:   store,
		Drawing: drawing.New(store, ctrl, drawing.DefaultOptions(), nil),
		Notes:   blocks.NewEditor(nil, nil, nil),
		Overlay: overlay,
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, overlay
}

func typeKeys(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func mouse(m *Model, x, y int, action tea.MouseAction) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

func addLine(t *testing.T, m *Model, start float64) annotation.Annotation {
	t.Helper()
	a := annotation.New(start, geom.Line{
		Style: geom.Style{ID: fmt.Sprintf("line-%g", start), Color: geom.Red, StrokeWidth: 3},
		Start: geom.Point{X: 10, Y: 10},
		End:   geom.Point{X: 60, Y: 60},
	})
	if err := m.store.Add(a); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	m.refresh()
	return a
}

func TestFocusNext(t *testing.T) {
	tests := []struct {
		from      FocusTarget
		showNotes bool
		want      FocusTarget
	}{
		{FocusList, true, FocusCanvas},
		{FocusCanvas, true, FocusNotes},
		{FocusNotes, true, FocusList},
		{FocusCanvas, false, FocusList},
	}
	for _, tt := range tests {
		if got := tt.from.next(tt.showNotes); got != tt.want {
			t.Errorf("%v.next(%v) = %v, want %v", tt.from, tt.showNotes, got, tt.want)
		}
	}
}

func TestStepSizeKeys(t *testing.T) {
	m, _ := newTestModel(t)
	typeKeys(m, "<")
	if m.stepSize != 2 {
		t.Errorf("stepSize after < = %v, want 2", m.stepSize)
	}
	typeKeys(m, ">>>>>>>>")
	if m.stepSize != stepSizes[len(stepSizes)-1] {
		t.Errorf("stepSize after many > = %v, want %v", m.stepSize, stepSizes[len(stepSizes)-1])
	}

	m.stepSize = 3
	if got := m.findStepSizeIndex(); stepSizes[got] != 2 {
		t.Errorf("findStepSizeIndex(3) = %v, want the index of 2", stepSizes[got])
	}
}

func TestTabCyclesFocus(t *testing.T) {
	m, _ := newTestModel(t)
	want := []FocusTarget{FocusCanvas, FocusNotes, FocusList}
	for _, w := range want {
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.focus != w {
			t.Errorf("focus = %v, want %v", m.focus, w)
		}
	}
}

func TestDrawOnCanvas(t *testing.T) {
	m, overlay := newTestModel(t)
	typeKeys(m, "a")
	if !m.draw.Enabled() {
		t.Fatal("annotation mode not enabled")
	}

	sc := m.screen()
	x, y := int(sc.canvas.Left)+2, int(sc.canvas.Top)+2
	mouse(m, x, y, tea.MouseActionPress)
	if !m.pointerDown {
		t.Fatal("press on the canvas did not start a gesture")
	}
	mouse(m, x+20, y+5, tea.MouseActionMotion)
	mouse(m, x+20, y+5, tea.MouseActionRelease)

	if got := m.store.Len(); got != 1 {
		t.Fatalf("store.Len() = %d, want 1", got)
	}
	if m.pointerDown {
		t.Error("pointerDown still set after release")
	}
	if a := m.list.GetSelectedItem(); a == nil || a.ID != m.store.All()[0].ID {
		t.Errorf("new annotation not selected")
	}
	if len(overlay.shown) == 0 || overlay.shown[len(overlay.shown)-1] == "" {
		t.Errorf("overlay not redrawn with the new shape: %q", overlay.shown)
	}
}

func TestDragOffCanvasAbandonsGesture(t *testing.T) {
	m, _ := newTestModel(t)
	typeKeys(m, "a")
	sc := m.screen()
	x, y := int(sc.canvas.Left)+2, int(sc.canvas.Top)+2
	mouse(m, x, y, tea.MouseActionPress)
	mouse(m, 0, y, tea.MouseActionMotion)
	mouse(m, 0, y, tea.MouseActionRelease)

	if got := m.store.Len(); got != 0 {
		t.Errorf("store.Len() = %d, want 0", got)
	}
	if m.draw.State() != drawing.Idle {
		t.Errorf("draw.State() = %v, want idle", m.draw.State())
	}
}

func TestDrawWhilePlaying(t *testing.T) {
	m, _ := newTestModel(t)
	typeKeys(m, "a ")
	if !m.ctrl.IsPlaying() {
		t.Fatal("space did not start playback")
	}
	sc := m.screen()
	mouse(m, int(sc.canvas.Left)+2, int(sc.canvas.Top)+2, tea.MouseActionPress)
	if m.pointerDown {
		t.Error("gesture started while playing")
	}
	if !m.commandInput.IsError || m.commandInput.Result == "" {
		t.Errorf("result = %q, want a pause warning", m.commandInput.Result)
	}
}

func TestTimelineScrub(t *testing.T) {
	m, _ := newTestModel(t)
	sc := m.screen()
	y := sc.timelineTop + components.TimelineBarRow
	left, bar := components.TimelineBar(60, m.width)

	mouse(m, left+bar-1, y, tea.MouseActionMotion)
	if m.ctrl.State().HoverTime == nil {
		t.Fatal("hovering the timeline did not set HoverTime")
	}

	mouse(m, left+bar-1, y, tea.MouseActionPress)
	if !m.scrubbing {
		t.Fatal("press on the timeline did not start scrubbing")
	}
	if got := m.ctrl.CurrentTime(); got != 60 {
		t.Errorf("CurrentTime() = %v, want 60", got)
	}
	// The drag keeps scrubbing even off the bar.
	mouse(m, left, 0, tea.MouseActionMotion)
	if got := m.ctrl.CurrentTime(); got != 0 {
		t.Errorf("CurrentTime() = %v, want 0", got)
	}
	mouse(m, left, 0, tea.MouseActionRelease)
	if m.scrubbing {
		t.Error("still scrubbing after release")
	}

	mouse(m, int(sc.canvas.Left)+2, int(sc.canvas.Top)+2, tea.MouseActionMotion)
	if m.ctrl.State().HoverTime != nil || m.hoverThumb != nil {
		t.Error("hover state kept after leaving the timeline")
	}
}

func TestListClickSelects(t *testing.T) {
	m, _ := newTestModel(t)
	for i := range 3 {
		addLine(t, m, float64(i))
	}
	m.focus = FocusCanvas
	mouse(m, 2, listFirstRow+1, tea.MouseActionPress)
	if m.focus != FocusList {
		t.Errorf("focus = %v, want List", m.focus)
	}
	if m.list.SelectedIndex != 1 {
		t.Errorf("SelectedIndex = %d, want 1", m.list.SelectedIndex)
	}
}

func TestCommandLine(t *testing.T) {
	m, _ := newTestModel(t)
	typeKeys(m, ":seek 0:15")
	if !m.commandInput.Active {
		t.Fatal("':' did not open the command line")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.commandInput.Active {
		t.Error("command line still active after enter")
	}
	if got := m.ctrl.CurrentTime(); got != 15 {
		t.Errorf("CurrentTime() = %v, want 15", got)
	}
}

func TestExecuteCommand(t *testing.T) {
	m, _ := newTestModel(t)
	addLine(t, m, 20)
	addLine(t, m, 30)

	tests := []struct {
		line    string
		wantErr bool
		check   func() bool
	}{
		{"goto 2", false, func() bool { return m.list.SelectedIndex == 1 && m.ctrl.CurrentTime() == 30 }},
		{"label Ruck entry", false, func() bool { return m.list.GetSelectedItem().Label == "Ruck entry" }},
		{"end 0:40", false, func() bool { e := m.list.GetSelectedItem().EndTime; return e != nil && *e == 40 }},
		{"end 0:10", true, func() bool { return *m.list.GetSelectedItem().EndTime == 40 }},
		{"end none", false, func() bool { return m.list.GetSelectedItem().EndTime == nil }},
		{"step 2.5", false, func() bool { return m.stepSize == 2.5 }},
		{"step -1", true, func() bool { return m.stepSize == 2.5 }},
		{"tool line", false, func() bool { return m.draw.Options().Tool == drawing.ToolLine && m.draw.Enabled() }},
		{"color blue", false, func() bool { return m.draw.Options().Color == geom.Blue }},
		{"color teal", true, func() bool { return m.draw.Options().Color == geom.Blue }},
		{"block h1", false, func() bool { b, _ := m.notes.Focused(); return b.Type == blocks.Heading1 }},
		{"goto 9", true, func() bool { return m.list.SelectedIndex == 1 }},
		{"export out.json", true, func() bool { return true }},
		{"frobnicate", true, func() bool { return true }},
		{"undo", false, func() bool { return m.store.Len() == 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, _, err := m.executeCommand(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("executeCommand(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if !tt.check() {
				t.Errorf("executeCommand(%q) did not take effect", tt.line)
			}
		})
	}
}

func TestNoteEditing(t *testing.T) {
	m, _ := newTestModel(t)
	m.focus = FocusNotes
	typeKeys(m, "i")
	if !m.editing {
		t.Fatal("i did not start editing the focused block")
	}
	typeKeys(m, "Warm-up")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing {
		t.Error("esc did not stop editing")
	}
	b, _ := m.notes.Focused()
	if b.Content != "Warm-up" {
		t.Errorf("block content = %q, want %q", b.Content, "Warm-up")
	}

	typeKeys(m, "t")
	if b, _ := m.notes.Focused(); b.Type != blocks.Paragraph {
		t.Errorf("t on a paragraph changed it to %v", b.Type)
	}
}

func TestClearFormCancel(t *testing.T) {
	m, _ := newTestModel(t)
	addLine(t, m, 1)
	typeKeys(m, "C")
	if m.form == nil || m.formKind != formClear {
		t.Fatal("C did not open the clear confirmation")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.form != nil {
		t.Error("esc did not close the form")
	}
	if m.store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", m.store.Len())
	}
}

func TestToggleOverlay(t *testing.T) {
	m, overlay := newTestModel(t)
	typeKeys(m, "o")
	if m.overlayEnabled || overlay.hidden != 1 {
		t.Errorf("overlay enabled = %v, hidden %d times, want off and hidden once", m.overlayEnabled, overlay.hidden)
	}
	addLine(t, m, 0)
	n := len(overlay.shown)
	typeKeys(m, "o")
	if !m.overlayEnabled || len(overlay.shown) != n+1 {
		t.Errorf("overlay enabled = %v, shown %d more times, want on and shown once", m.overlayEnabled, len(overlay.shown)-n)
	}
}

func TestHelpAndQuit(t *testing.T) {
	m, _ := newTestModel(t)
	typeKeys(m, "?")
	if !m.showHelp {
		t.Fatal("? did not show help")
	}
	typeKeys(m, "x")
	if m.showHelp {
		t.Error("a key did not dismiss help")
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil || !m.quitting {
		t.Error("q did not quit")
	}
}
