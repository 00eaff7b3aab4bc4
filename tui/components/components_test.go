package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/blocks"
	"github.com/user/studio-review/geom"
	"github.com/user/studio-review/render"
)

func TestTimelinePercent(t *testing.T) {
	left, bar := TimelineBar(60, 80)
	tests := []struct {
		name string
		x    int
		want float64
	}{
		{"bar start", left, 0},
		{"bar end", left + bar - 1, 1},
		{"left of bar", 0, 0},
		{"right of bar", 200, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TimelinePercent(tt.x, 60, 80)
			if !ok {
				t.Fatalf("TimelinePercent(%d) not ok", tt.x)
			}
			if got != tt.want {
				t.Errorf("TimelinePercent(%d) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}

	mid, _ := TimelinePercent(left+(bar-1)/2, 60, 80)
	if mid <= 0.4 || mid >= 0.6 {
		t.Errorf("TimelinePercent(middle) = %v, want about 0.5", mid)
	}
}

func listOf(n int) []annotation.Annotation {
	items := make([]annotation.Annotation, n)
	for i := range items {
		items[i] = annotation.New(float64(i))
	}
	return items
}

func TestClampScroll(t *testing.T) {
	tests := []struct {
		name             string
		items            int
		selected, offset int
		rows             int
		wantOffset       int
	}{
		{"fits", 3, 2, 0, 5, 0},
		{"selection below view", 20, 12, 0, 5, 8},
		{"selection above view", 20, 2, 8, 5, 2},
		{"offset past the end", 10, 9, 9, 5, 5},
		{"visible selection keeps offset", 20, 6, 4, 5, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := AnnotationListState{Items: listOf(tt.items), SelectedIndex: tt.selected, ScrollOffset: tt.offset}
			s.ClampScroll(tt.rows)
			if s.ScrollOffset != tt.wantOffset {
				t.Errorf("ScrollOffset = %d, want %d", s.ScrollOffset, tt.wantOffset)
			}
		})
	}
}

func TestAnnotationListSelection(t *testing.T) {
	items := listOf(3)
	var s AnnotationListState
	s.SetItems(items)

	s.Select(items[2].ID)
	if s.SelectedIndex != 2 {
		t.Errorf("SelectedIndex = %d, want 2", s.SelectedIndex)
	}
	s.MoveDown()
	if s.SelectedIndex != 2 {
		t.Errorf("MoveDown at end: SelectedIndex = %d, want 2", s.SelectedIndex)
	}
	s.SetItems(items[:1])
	if got := s.GetSelectedItem(); got == nil || got.ID != items[0].ID {
		t.Errorf("GetSelectedItem after shrink = %v, want first item", got)
	}
	s.SetItems(nil)
	if got := s.GetSelectedItem(); got != nil {
		t.Errorf("GetSelectedItem on empty list = %v, want nil", got)
	}
}

func canvasRows(state CanvasState, w, h int) []string {
	return strings.Split(ansi.Strip(Canvas(state, w, h)), "\n")
}

func TestCanvasLine(t *testing.T) {
	line := geom.Line{Style: geom.Style{ID: "l", Color: geom.Red}, Start: geom.Point{X: 0, Y: 50}, End: geom.Point{X: 99, Y: 50}}
	rows := canvasRows(CanvasState{Items: []render.Item{{Shape: line}}}, 10, 5)
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	for y, row := range rows {
		want := strings.Repeat(" ", 10)
		if y == 2 {
			want = strings.Repeat("•", 10)
		}
		if row != want {
			t.Errorf("row %d = %q, want %q", y, row, want)
		}
	}
}

func TestCanvasTextAndPreview(t *testing.T) {
	text := geom.Text{Style: geom.Style{ID: "t", Color: geom.White}, Position: geom.Point{X: 0, Y: 0}, Content: "hi"}
	dot := geom.Freehand{Style: geom.Style{ID: "p", Color: geom.Blue}, Points: []geom.Point{{X: 95, Y: 95}}}
	rows := canvasRows(CanvasState{Items: []render.Item{{Shape: text}, {Shape: dot, Preview: true}}}, 4, 2)

	if rows[0] != "hi  " {
		t.Errorf("row 0 = %q, want %q", rows[0], "hi  ")
	}
	if rows[1] != "   ·" {
		t.Errorf("row 1 = %q, want %q", rows[1], "   ·")
	}
}

func TestCanvasEmpty(t *testing.T) {
	if got := Canvas(CanvasState{}, 0, 3); got != "" {
		t.Errorf("Canvas with no width = %q, want empty", got)
	}
}

func TestBlockPrefix(t *testing.T) {
	list := []blocks.Block{
		{Type: blocks.Heading2},
		{Type: blocks.NumberedList},
		{Type: blocks.NumberedList},
		{Type: blocks.Paragraph},
		{Type: blocks.NumberedList},
		{Type: blocks.CheckList, Checked: true},
		{Type: blocks.CheckList},
		{Type: blocks.Quote},
	}
	want := []string{"## ", "1. ", "2. ", "", "1. ", "[x] ", "[ ] ", "│ "}
	for i, w := range want {
		if got := BlockPrefix(list, i); got != w {
			t.Errorf("BlockPrefix(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestCommandInputRunes(t *testing.T) {
	var s CommandInputState
	for _, r := range "labél" {
		s.InsertChar(r)
	}
	s.MoveCursorLeft()
	s.Backspace()
	if got := s.Input(); got != "labl" {
		t.Errorf("Input() = %q, want %q", got, "labl")
	}
	s.InsertChar('ü')
	if got := s.Input(); got != "labül" {
		t.Errorf("Input() = %q, want %q", got, "labül")
	}
	s.Delete()
	if got := s.Input(); got != "labü" {
		t.Errorf("Input() after Delete = %q, want %q", got, "labü")
	}
	if got := s.GetCommand(); got != "labü" || s.Input() != "" || s.Active {
		t.Errorf("GetCommand() = %q, leaving %q active=%v", got, s.Input(), s.Active)
	}
}
