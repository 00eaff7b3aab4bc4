package render

import (
	"strings"
	"testing"

	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/geom"
)

var yellow = geom.Style{ID: "s", Color: geom.Yellow, StrokeWidth: 3}

func TestFrameSelectsVisible(t *testing.T) {
	c := geom.Circle{Style: yellow, Center: geom.Point{X: 10, Y: 10}, Radius: 20}
	l := geom.Line{Style: yellow, Start: geom.Point{}, End: geom.Point{X: 50, Y: 50}}
	list := []annotation.Annotation{
		{ID: "a", StartTime: 0, EndTime: annotation.Seconds(2), Shapes: []geom.Shape{c}},
		{ID: "b", StartTime: 1, Shapes: []geom.Shape{l}},
	}

	tests := []struct {
		t       float64
		preview geom.Shape
		want    int
	}{
		{0.5, nil, 1},
		{1.5, nil, 2},
		{3, nil, 1},
		{3, c, 2},
	}
	for _, tt := range tests {
		items := Frame(list, tt.t, tt.preview)
		if len(items) != tt.want {
			t.Errorf("Frame(t=%v) = %d items, want %d", tt.t, len(items), tt.want)
		}
		if tt.preview != nil && !items[len(items)-1].Preview {
			t.Errorf("Frame(t=%v) last item not marked preview", tt.t)
		}
	}
}

func TestSVG(t *testing.T) {
	items := Shapes([]geom.Shape{
		geom.Circle{Style: yellow, Center: geom.Point{X: 10, Y: 10}, Radius: 20},
		geom.RectFromCorners(yellow, geom.Point{X: 50, Y: 50}, geom.Point{X: 40, Y: 40}),
		geom.Text{Style: yellow, Position: geom.Point{X: 50, Y: 50}, Content: "<ruck & maul>", FontSize: 16},
	})
	items = append(items, Item{Shape: geom.Line{Style: yellow, End: geom.Point{X: 10, Y: 10}}, Preview: true})

	out := SVG(items, 1000, 500)
	for _, want := range []string{
		`width="1000" height="500"`,
		`<ellipse cx="100" cy="50" rx="200" ry="100" fill="none" stroke="#eab308" stroke-width="3"`,
		`<rect x="400" y="200" width="100" height="50"`,
		`&lt;ruck &amp; maul&gt;`,
		`<g opacity="0.6" stroke-dasharray="5,5"><line x1="0" y1="0" x2="100" y2="50"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG() missing %q in:\n%s", want, out)
		}
	}
}

func TestASS(t *testing.T) {
	items := Shapes([]geom.Shape{
		geom.Circle{Style: yellow, Center: geom.Point{X: 10, Y: 10}, Radius: 20},
		geom.Line{Style: yellow, End: geom.Point{X: 50, Y: 50}},
		geom.Arrow{Style: yellow, Start: geom.Point{X: 10, Y: 50}, End: geom.Point{X: 90, Y: 50}},
	})
	out := ASS(items, 1000, 500)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("ASS() = %d lines, want 4 (arrow has a head):\n%s", len(lines), out)
	}
	for _, l := range lines {
		if !strings.Contains(l, `\3c&H08B3EA&`) {
			t.Errorf("line %q missing yellow outline color", l)
		}
		if !strings.HasSuffix(l, `{\p0}`) {
			t.Errorf("line %q does not close the drawing", l)
		}
	}
	if !strings.Contains(lines[0], "m 300 50 b ") {
		t.Errorf("circle path = %q, want to start at the right edge", lines[0])
	}
	if !strings.Contains(lines[1], "m 0 0 l 500 250 0 0") {
		t.Errorf("line path = %q, want traced there and back", lines[1])
	}
	if !strings.Contains(lines[3], `\1c&H08B3EA&\1a&H00&`) || !strings.Contains(lines[3], "m 900 250 l") {
		t.Errorf("arrow head = %q, want a filled triangle at the tip", lines[3])
	}
}

func TestASSPreviewAndText(t *testing.T) {
	out := ASS([]Item{
		{Shape: geom.Text{Style: yellow, Position: geom.Point{X: 50, Y: 50}, Content: `{\b1}x`, FontSize: 16}, Preview: true},
	}, 1000, 500)
	if !strings.Contains(out, `\pos(500,250)\fs16`) {
		t.Errorf("text position missing in %q", out)
	}
	if !strings.Contains(out, `\alpha&H66&`) {
		t.Errorf("preview alpha missing in %q", out)
	}
	if !strings.Contains(out, `\{\`+"\u2060"+`b1\}x`) {
		t.Errorf("text not escaped: %q", out)
	}
}
