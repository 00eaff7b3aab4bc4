package drawing

import (
	"math"
	"testing"

	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/geom"
)

type fakePlayback struct {
	time    float64
	playing bool
}

func (f *fakePlayback) CurrentTime() float64 { return f.time }
func (f *fakePlayback) IsPlaying() bool      { return f.playing }

// surf is 1000x500 at the origin, so a device point (x*10, y*5) is (x%, y%).
var surf = geom.Surface{Width: 1000, Height: 500}

func newMachine(tool Tool, at float64) (*Machine, *annotation.Store, *fakePlayback) {
	store := annotation.NewStore(nil, nil)
	pb := &fakePlayback{time: at}
	m := New(store, pb, Options{Tool: tool}, nil)
	m.SetEnabled(true)
	return m, store, pb
}

func near(a, b geom.Point) bool {
	return a.Distance(b) < 1e-9
}

func drag(m *Machine, pts ...geom.Point) (annotation.Annotation, bool) {
	m.PointerDown(pts[0].X*10, pts[0].Y*5, surf)
	for _, p := range pts[1:] {
		m.PointerMove(p.X*10, p.Y*5, surf)
	}
	return m.PointerUp()
}

func TestMachine_CircleCommit(t *testing.T) {
	m, store, _ := newMachine(ToolCircle, 5.0)

	if _, ok := drag(m, geom.Point{X: 10, Y: 10}, geom.Point{X: 30, Y: 10}); !ok {
		t.Fatal("PointerUp() did not commit")
	}
	all := store.All()
	if len(all) != 1 {
		t.Fatalf("store has %d annotations, want 1", len(all))
	}
	a := all[0]
	if a.StartTime != 5.0 {
		t.Errorf("StartTime = %v, want 5", a.StartTime)
	}
	if a.EndTime != nil {
		t.Errorf("EndTime = %v, want nil", *a.EndTime)
	}
	if len(a.Shapes) != 1 {
		t.Fatalf("shapes = %d, want 1", len(a.Shapes))
	}
	c, ok := a.Shapes[0].(geom.Circle)
	if !ok {
		t.Fatalf("shape = %T, want geom.Circle", a.Shapes[0])
	}
	if !near(c.Center, geom.Point{X: 10, Y: 10}) {
		t.Errorf("Center = %v, want {10 10}", c.Center)
	}
	if math.Abs(c.Radius-20) > 1e-9 {
		t.Errorf("Radius = %v, want 20", c.Radius)
	}
	if c.Color != geom.Yellow || c.StrokeWidth != 3 {
		t.Errorf("style = %v/%d, want yellow/3", c.Color, c.StrokeWidth)
	}
	if m.State() != Idle {
		t.Errorf("State() = %v, want idle", m.State())
	}
}

func TestMachine_MinimumSizeRejection(t *testing.T) {
	tests := []struct {
		name string
		tool Tool
		pts  []geom.Point
		want bool
	}{
		{"circle click", ToolCircle, []geom.Point{{X: 10, Y: 10}, {X: 10.5, Y: 10.5}}, false},
		{"circle just under one", ToolCircle, []geom.Point{{X: 10, Y: 10}, {X: 10.9, Y: 10}}, false},
		{"arrow short", ToolArrow, []geom.Point{{X: 50, Y: 50}, {X: 50.6, Y: 50.6}}, false},
		{"arrow long", ToolArrow, []geom.Point{{X: 50, Y: 50}, {X: 60, Y: 50}}, true},
		{"line short", ToolLine, []geom.Point{{X: 0, Y: 0}, {X: 0.7, Y: 0.7}}, false},
		{"line long", ToolLine, []geom.Point{{X: 0, Y: 0}, {X: 2, Y: 0}}, true},
		{"rect flat", ToolRectangle, []geom.Point{{X: 10, Y: 10}, {X: 40, Y: 10.5}}, false},
		{"rect thin", ToolRectangle, []geom.Point{{X: 10, Y: 10}, {X: 10.5, Y: 40}}, false},
		{"rect ok reversed", ToolRectangle, []geom.Point{{X: 40, Y: 40}, {X: 10, Y: 10}}, true},
		{"freehand two points", ToolFreehand, []geom.Point{{X: 1, Y: 1}, {X: 5, Y: 5}}, false},
		{"freehand three points", ToolFreehand, []geom.Point{{X: 1, Y: 1}, {X: 5, Y: 5}, {X: 9, Y: 2}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store, _ := newMachine(tt.tool, 1)
			_, ok := drag(m, tt.pts...)
			if ok != tt.want {
				t.Errorf("committed = %v, want %v", ok, tt.want)
			}
			wantLen := 0
			if tt.want {
				wantLen = 1
			}
			if store.Len() != wantLen {
				t.Errorf("store.Len() = %d, want %d", store.Len(), wantLen)
			}
		})
	}
}

func TestMachine_RectangleNormalized(t *testing.T) {
	m, store, _ := newMachine(ToolRectangle, 0)
	drag(m, geom.Point{X: 40, Y: 30}, geom.Point{X: 10, Y: 20})
	r, ok := store.All()[0].Shapes[0].(geom.Rectangle)
	if !ok {
		t.Fatalf("shape = %T", store.All()[0].Shapes[0])
	}
	if !near(r.TopLeft, geom.Point{X: 10, Y: 20}) || math.Abs(r.Width-30) > 1e-9 || math.Abs(r.Height-10) > 1e-9 {
		t.Errorf("rect = %+v", r)
	}
}

func TestMachine_NoDrawingWhilePlaying(t *testing.T) {
	m, store, pb := newMachine(ToolLine, 0)
	pb.playing = true
	if m.PointerDown(100, 100, surf) {
		t.Error("PointerDown() started a gesture while playing")
	}
	m.PointerMove(500, 100, surf)
	if _, ok := m.PointerUp(); ok || store.Len() != 0 {
		t.Error("committed while playing")
	}
}

func TestMachine_DisabledAndSelectDoNotDraw(t *testing.T) {
	m, _, _ := newMachine(ToolLine, 0)
	m.SetEnabled(false)
	if m.PointerDown(0, 0, surf) {
		t.Error("PointerDown() drew while disabled")
	}
	m.SetEnabled(true)
	m.SetTool(ToolSelect)
	m.PointerDown(0, 0, surf)
	if m.State() != Idle {
		t.Error("select tool entered drawing state")
	}
}

func TestMachine_AbortOnLeaveAndEscape(t *testing.T) {
	m, store, _ := newMachine(ToolArrow, 0)

	m.PointerDown(100, 100, surf)
	m.PointerMove(600, 300, surf)
	m.PointerLeave()
	if _, ok := m.PointerUp(); ok {
		t.Error("PointerUp() after leave committed")
	}

	m.PointerDown(100, 100, surf)
	m.PointerMove(600, 300, surf)
	if !m.Key(KeyEscape) {
		t.Error("Key(Escape) not consumed during gesture")
	}
	if _, ok := m.PointerUp(); ok {
		t.Error("PointerUp() after escape committed")
	}
	if store.Len() != 0 {
		t.Errorf("store.Len() = %d, want 0", store.Len())
	}
}

func TestMachine_PreviewTracksGesture(t *testing.T) {
	m, _, _ := newMachine(ToolFreehand, 0)
	if _, ok := m.Preview(); ok {
		t.Error("Preview() while idle")
	}
	m.PointerDown(100, 100, surf)
	if _, ok := m.Preview(); ok {
		t.Error("freehand preview with one point")
	}
	m.PointerMove(200, 100, surf)
	s, ok := m.Preview()
	if !ok {
		t.Fatal("no preview after two points")
	}
	if f := s.(geom.Freehand); len(f.Points) != 2 {
		t.Errorf("preview points = %d, want 2", len(f.Points))
	}
}

func TestMachine_SelectAndDelete(t *testing.T) {
	m, store, pb := newMachine(ToolLine, 2)
	line, ok := drag(m, geom.Point{X: 10, Y: 50}, geom.Point{X: 90, Y: 50})
	if !ok {
		t.Fatal("line not committed")
	}
	m.SetTool(ToolSelect)

	if m.PointerDown(500, 10, surf) {
		t.Error("selected something on empty space")
	}
	if !m.PointerDown(500, 250, surf) {
		t.Fatal("click on line did not select")
	}
	if m.Selected() != line.ID {
		t.Errorf("Selected() = %q, want %q", m.Selected(), line.ID)
	}
	if !m.Key(KeyEscape) || m.Selected() != "" {
		t.Error("Escape did not clear selection")
	}

	pb.time = 1
	if m.PointerDown(500, 250, surf) {
		t.Error("selected an annotation that is not visible yet")
	}
	pb.time = 3
	m.PointerDown(500, 250, surf)
	if !m.Key(KeyDelete) {
		t.Error("Delete not consumed")
	}
	if store.Len() != 0 {
		t.Errorf("store.Len() = %d, want 0", store.Len())
	}
	if m.Key(KeyBackspace) {
		t.Error("Backspace consumed with nothing selected")
	}
}

func TestMachine_TextTool(t *testing.T) {
	m, store, _ := newMachine(ToolText, 0)
	m.PointerDown(100, 100, surf)
	if _, ok := m.PointerUp(); ok {
		t.Error("committed empty text")
	}
	m.SetText("Hips low")
	m.PointerDown(100, 100, surf)
	a, ok := m.PointerUp()
	if !ok {
		t.Fatal("text not committed")
	}
	txt := a.Shapes[0].(geom.Text)
	if txt.Content != "Hips low" || !near(txt.Position, geom.Point{X: 10, Y: 20}) || txt.FontSize != 16 {
		t.Errorf("text = %+v", txt)
	}
	if m.PendingText() != "" {
		t.Errorf("PendingText() = %q, want empty after commit", m.PendingText())
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d", store.Len())
	}
}

func TestMachine_SurfaceResizeBetweenEvents(t *testing.T) {
	m, store, _ := newMachine(ToolLine, 0)
	small := geom.Surface{Width: 100, Height: 100}
	big := geom.Surface{Left: 50, Top: 50, Width: 400, Height: 400}
	m.PointerDown(10, 10, small)
	m.PointerMove(50+400*0.5, 50+400*0.5, big)
	m.PointerUp()
	l := store.All()[0].Shapes[0].(geom.Line)
	if !near(l.Start, geom.Point{X: 10, Y: 10}) || !near(l.End, geom.Point{X: 50, Y: 50}) {
		t.Errorf("line = %v -> %v", l.Start, l.End)
	}
}
