package geom

import (
	"encoding/json"
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestToPercent(t *testing.T) {
	s := Surface{Left: 100, Top: 50, Width: 800, Height: 400}
	tests := []struct {
		x, y float64
		want Point
	}{
		{100, 50, Point{0, 0}},
		{900, 450, Point{100, 100}},
		{500, 250, Point{50, 50}},
		{180, 90, Point{10, 10}},
	}
	for _, tt := range tests {
		got := ToPercent(tt.x, tt.y, s)
		if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
			t.Errorf("ToPercent(%v, %v) = %+v, want %+v", tt.x, tt.y, got, tt.want)
		}
		x, y := FromPercent(got, s)
		if !approx(x, tt.x) || !approx(y, tt.y) {
			t.Errorf("FromPercent(%+v) = (%v, %v), want (%v, %v)", got, x, y, tt.x, tt.y)
		}
	}
}

func TestToPercent_FollowsResize(t *testing.T) {
	small := Surface{Width: 200, Height: 100}
	full := Surface{Width: 1920, Height: 1080}
	a := ToPercent(100, 50, small)
	b := ToPercent(960, 540, full)
	if a != b {
		t.Errorf("centre differs across sizes: %+v vs %+v", a, b)
	}
}

func TestToPercent_EmptySurface(t *testing.T) {
	if got := ToPercent(10, 10, Surface{}); got != (Point{}) {
		t.Errorf("ToPercent on empty surface = %+v, want origin", got)
	}
}

func TestColorHex(t *testing.T) {
	want := map[Color]string{
		Red: "#ef4444", Yellow: "#eab308", Green: "#22c55e", Blue: "#3b82f6", White: "#ffffff",
	}
	for c, hex := range want {
		if got := c.Hex(); got != hex {
			t.Errorf("%s.Hex() = %q, want %q", c, got, hex)
		}
	}
	if got := Yellow.RGBA(); got.R != 0xea || got.G != 0xb3 || got.B != 0x08 || got.A != 0xff {
		t.Errorf("Yellow.RGBA() = %+v", got)
	}
	if _, err := ParseColor("purple"); err == nil {
		t.Error("ParseColor(purple) should fail")
	}
}

func TestArrowHead(t *testing.T) {
	a := Arrow{Start: Point{0, 50}, End: Point{50, 50}}
	h1, h2 := a.Head()
	wantX := 50 - ArrowHeadLength*math.Cos(math.Pi/6)
	if !approx(h1.X, wantX) || !approx(h2.X, wantX) {
		t.Errorf("head x = %v, %v, want %v", h1.X, h2.X, wantX)
	}
	if !approx(h1.Y, 50+1) || !approx(h2.Y, 50-1) {
		t.Errorf("head y = %v, %v, want 51 and 49", h1.Y, h2.Y)
	}
}

func TestRectFromCorners_AnyDirection(t *testing.T) {
	r := RectFromCorners(Style{}, Point{40, 30}, Point{10, 5})
	if r.TopLeft != (Point{10, 5}) || r.Width != 30 || r.Height != 25 {
		t.Errorf("RectFromCorners = %+v", r)
	}
}

func TestShapesJSON(t *testing.T) {
	style := Style{ID: "s1", Color: Red, StrokeWidth: 3}
	in := Shapes{
		Circle{Style: style, Center: Point{10, 10}, Radius: 20},
		Arrow{Style: style, Start: Point{1, 2}, End: Point{3, 4}},
		Freehand{Style: style, Points: []Point{{1, 1}, {2, 2}, {3, 3}}},
		Text{Style: style, Position: Point{5, 5}, Content: "hi", FontSize: 16},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal raw error = %v", err)
	}
	if raw[0]["type"] != "circle" || raw[0]["id"] != "s1" || raw[0]["strokeWidth"] != float64(3) {
		t.Errorf("circle encoding = %v", raw[0])
	}

	var out Shapes
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	c, ok := out[0].(Circle)
	if !ok || c.Radius != 20 || c.Center != (Point{10, 10}) || c.Color != Red {
		t.Errorf("circle = %#v", out[0])
	}
	if f, ok := out[2].(Freehand); !ok || len(f.Points) != 3 {
		t.Errorf("freehand = %#v", out[2])
	}
}

func TestUnmarshalShape_UnknownType(t *testing.T) {
	if _, err := UnmarshalShape([]byte(`{"type":"hexagon"}`)); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestHit(t *testing.T) {
	surf := Surface{Width: 1000, Height: 500}
	style := Style{StrokeWidth: 0}
	tests := []struct {
		name  string
		shape Shape
		p     Point
		want  bool
	}{
		{"circle outline", Circle{Style: style, Center: Point{50, 50}, Radius: 10}, Point{60, 50}, true},
		{"circle centre", Circle{Style: style, Center: Point{50, 50}, Radius: 10}, Point{50, 50}, false},
		{"line middle", Line{Style: style, Start: Point{0, 0}, End: Point{10, 10}}, Point{5, 5}, true},
		{"line far", Line{Style: style, Start: Point{0, 0}, End: Point{10, 10}}, Point{5, 9}, false},
		{"rect edge", Rectangle{Style: style, TopLeft: Point{10, 10}, Width: 20, Height: 20}, Point{30, 20}, true},
		{"rect inside", Rectangle{Style: style, TopLeft: Point{10, 10}, Width: 20, Height: 20}, Point{20, 20}, false},
		{"freehand", Freehand{Style: style, Points: []Point{{0, 0}, {10, 0}, {10, 10}}}, Point{10, 5}, true},
		{"text box", Text{Style: style, Position: Point{10, 50}, Content: "hello", FontSize: 20}, Point{12, 49}, true},
		{"text above", Text{Style: style, Position: Point{10, 50}, Content: "hello", FontSize: 20}, Point{12, 30}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hit(tt.shape, tt.p, surf, 0.5); got != tt.want {
				t.Errorf("Hit() = %v, want %v", got, tt.want)
			}
		})
	}
}
