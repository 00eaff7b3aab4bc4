package layout

import "testing"

func TestComputeColumnWidths(t *testing.T) {
	tests := []struct {
		name  string
		width int
		want  Columns
	}{
		{"two columns", 90, Columns{List: 28, Canvas: 61}},
		{"narrow two columns", 40, Columns{List: 19, Canvas: 20}},
		{"minimum side panels", 120, Columns{List: 28, Canvas: 60, Notes: 30}},
		{"quarter side panels", 202, Columns{List: 50, Canvas: 100, Notes: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeColumnWidths(tt.width)
			if got != tt.want {
				t.Errorf("ComputeColumnWidths(%d) = %+v, want %+v", tt.width, got, tt.want)
			}
			sum := len(got.Widths()) - 1
			for _, w := range got.Widths() {
				sum += w
			}
			if sum != tt.width {
				t.Errorf("columns and borders take %d cells, want %d", sum, tt.width)
			}
		})
	}
}

func TestColumnsNotesHidden(t *testing.T) {
	c := ComputeColumnWidths(NotesHideThreshold - 1)
	if c.ShowNotes() {
		t.Errorf("notes shown at width %d", NotesHideThreshold-1)
	}
	if got := len(c.Widths()); got != 2 {
		t.Errorf("len(Widths()) = %d, want 2", got)
	}
	if got := c.CanvasLeft(); got != c.List+1 {
		t.Errorf("CanvasLeft() = %d, want %d", got, c.List+1)
	}
}
