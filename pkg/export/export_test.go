package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/geom"
)

func TestBuildClipPath(t *testing.T) {
	got := BuildClipPath("/footage/match day.mp4", "Line out: 2", 3725.9)
	want := filepath.Join("/footage", "clips", "match day", "010205-Line_out__2.mp4")
	if got != want {
		t.Errorf("BuildClipPath() = %q, want %q", got, want)
	}
}

func TestEffectiveEnd(t *testing.T) {
	tests := []struct {
		start, end, want float64
	}{
		{10, 0, 14},
		{10, 12, 14},
		{10, 20, 20},
	}
	for _, tt := range tests {
		if got := EffectiveEnd(tt.start, tt.end); got != tt.want {
			t.Errorf("EffectiveEnd(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestClipBounds(t *testing.T) {
	tests := []struct {
		name       string
		a          annotation.Annotation
		duration   float64
		start, end float64
	}{
		{"open", annotation.Annotation{StartTime: 5}, 100, 5, 15},
		{"bounded", annotation.Annotation{StartTime: 5, EndTime: annotation.Seconds(30)}, 100, 5, 30},
		{"short", annotation.Annotation{StartTime: 5, EndTime: annotation.Seconds(5)}, 100, 5, 9},
		{"clamped", annotation.Annotation{StartTime: 95}, 100, 95, 100},
		{"unknown duration", annotation.Annotation{StartTime: 95}, 0, 95, 105},
	}
	for _, tt := range tests {
		start, end := ClipBounds(tt.a, tt.duration)
		if start != tt.start || end != tt.end {
			t.Errorf("%s: ClipBounds() = %v, %v, want %v, %v", tt.name, start, end, tt.start, tt.end)
		}
	}
}

func TestFfmpegArgs(t *testing.T) {
	copyArgs := ffmpegArgs("in.mp4", 1, 5, "out.mp4", "")
	if !reflect.DeepEqual(copyArgs, []string{"-y", "-ss", "1.000", "-i", "in.mp4", "-t", "4.000", "-c", "copy", "out.mp4"}) {
		t.Errorf("ffmpegArgs(no subs) = %v", copyArgs)
	}
	burn := strings.Join(ffmpegArgs("in.mp4", 1, 5, "out.mp4", `/tmp/a:b.ass`), " ")
	if !strings.Contains(burn, `-vf ass=/tmp/a\:b.ass`) || !strings.Contains(burn, "libx264") {
		t.Errorf("ffmpegArgs(subs) = %s", burn)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{".yml", FormatYAML},
		{"YAML", FormatYAML},
		{"md", FormatMarkdown},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := FormatFromPath("notes.txt"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("FormatFromPath(.txt) error = %v, want ErrUnknownFormat", err)
	}
}

func sampleList() []annotation.Annotation {
	st := geom.Style{ID: "s1", Color: geom.Blue, StrokeWidth: 4}
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []annotation.Annotation{
		{ID: "a1", Label: "Ruck | entry", StartTime: 3.5, EndTime: annotation.Seconds(7), CreatedAt: created, Shapes: geom.Shapes{
			geom.Circle{Style: st, Center: geom.Point{X: 40, Y: 50}, Radius: 8},
			geom.Text{Style: st, Position: geom.Point{X: 10, Y: 90}, Content: "hold", FontSize: 16},
		}},
		{ID: "a2", StartTime: 61, CreatedAt: created, Shapes: geom.Shapes{
			geom.Freehand{Style: st, Points: []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 3}, {X: 4, Y: 4}}},
			geom.Rectangle{Style: st, TopLeft: geom.Point{X: 5, Y: 5}, Width: 10, Height: 20},
			geom.Arrow{Style: st, Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 9, Y: 9}},
		}},
	}
}

func TestSessionRoundTrip(t *testing.T) {
	list := sampleList()
	s := NewSession("/footage/match.mp4", 120, list, "# Notes")
	for _, f := range []Format{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		if err := Write(&buf, s, f); err != nil {
			t.Fatalf("Write(%s) error = %v", f, err)
		}
		back, err := Read(&buf, f)
		if err != nil {
			t.Fatalf("Read(%s) error = %v", f, err)
		}
		got, err := back.AnnotationList()
		if err != nil {
			t.Fatalf("AnnotationList(%s) error = %v", f, err)
		}
		if !reflect.DeepEqual(got, list) {
			t.Errorf("%s round trip = %+v, want %+v", f, got, list)
		}
		if back.Notes != "# Notes" || back.Video != s.Video {
			t.Errorf("%s round trip session = %+v", f, back)
		}
	}
	if _, err := Read(strings.NewReader(""), FormatMarkdown); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Read(markdown) error = %v, want ErrUnknownFormat", err)
	}
}

func TestAnnotationListRejectsBadShapes(t *testing.T) {
	s := Session{Annotations: []Annotation{{ID: "x", Shapes: []Shape{{Type: "hexagon", Color: geom.Red}}}}}
	if _, err := s.AnnotationList(); err == nil {
		t.Error("AnnotationList(unknown type) error = nil")
	}
	s.Annotations[0].Shapes[0] = Shape{Type: geom.KindLine, Color: "purple"}
	if _, err := s.AnnotationList(); err == nil {
		t.Error("AnnotationList(bad color) error = nil")
	}
}

func TestMarkdown(t *testing.T) {
	s := NewSession("/footage/match.mp4", 125, sampleList(), "- [ ] review line outs")
	s.FreezeFrames = []Frame{{Title: "Freeze Frame - 0:03", Time: 3.5}}
	got := Markdown(s)
	for _, want := range []string{
		"# Review: match.mp4",
		"Duration: 2:05",
		`| 1 | Ruck \| entry | 0:03.500 | 0:07.000 | circle, text |`,
		"| 2 | Annotation 2 | 1:01.000 | open | freehand, rectangle, arrow |",
		"- Freeze Frame - 0:03 (0:03.500)",
		"## Notes\n\n- [ ] review line outs\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Markdown() missing %q in:\n%s", want, got)
		}
	}

	empty := Markdown(NewSession("x.mp4", 0, nil, ""))
	if !strings.Contains(empty, "No annotations.") || strings.Contains(empty, "## Notes") {
		t.Errorf("Markdown(empty) = %q", empty)
	}
}

func TestWriteSVGs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "svg")
	paths, err := WriteSVGs(dir, sampleList(), 640, 360)
	if err != nil {
		t.Fatalf("WriteSVGs() error = %v", err)
	}
	want := []string{filepath.Join(dir, "01-Ruck___entry.svg"), filepath.Join(dir, "02-Annotation_2.svg")}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("WriteSVGs() = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<svg") || !strings.Contains(string(data), "<ellipse") {
		t.Errorf("svg = %s", data)
	}
}
