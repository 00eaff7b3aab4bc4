package geom

import (
	"encoding/json"
	"fmt"
	"math"
)

// Kind discriminates the shape variants.
type Kind string

const (
	KindCircle    Kind = "circle"
	KindArrow     Kind = "arrow"
	KindLine      Kind = "line"
	KindRectangle Kind = "rectangle"
	KindFreehand  Kind = "freehand"
	KindText      Kind = "text"
)

const (
	// ArrowHeadLength is the length of each arrowhead side in percentage units.
	ArrowHeadLength = 2.0
	// ArrowHeadAngle is the half-angle between the shaft and each side.
	ArrowHeadAngle = math.Pi / 6
)

// Style holds the attributes every shape carries.
type Style struct {
	ID          string `json:"id"`
	Color       Color  `json:"color"`
	StrokeWidth int    `json:"strokeWidth"`
}

// Shape is a sealed sum type: the only implementations are the six variants
// declared in this file. Code that switches on a Shape should handle each of
// them and treat anything else as a programming error.
type Shape interface {
	Kind() Kind
	Base() Style
	shape()
}

// Circle is centred on Center with Radius in percentage units.
type Circle struct {
	Style
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// Arrow is a line from Start to End with a head at End.
type Arrow struct {
	Style
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Line is a plain segment.
type Line struct {
	Style
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Rectangle is axis-aligned; TopLeft is always the min-x/min-y corner.
type Rectangle struct {
	Style
	TopLeft Point   `json:"topLeft"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Freehand is a polyline through Points.
type Freehand struct {
	Style
	Points []Point `json:"points"`
}

// Text is a label anchored at Position. FontSize is in device pixels.
type Text struct {
	Style
	Position Point   `json:"position"`
	Content  string  `json:"content"`
	FontSize float64 `json:"fontSize"`
}

func (Circle) Kind() Kind    { return KindCircle }
func (Arrow) Kind() Kind     { return KindArrow }
func (Line) Kind() Kind      { return KindLine }
func (Rectangle) Kind() Kind { return KindRectangle }
func (Freehand) Kind() Kind  { return KindFreehand }
func (Text) Kind() Kind      { return KindText }

func (s Circle) Base() Style    { return s.Style }
func (s Arrow) Base() Style     { return s.Style }
func (s Line) Base() Style      { return s.Style }
func (s Rectangle) Base() Style { return s.Style }
func (s Freehand) Base() Style  { return s.Style }
func (s Text) Base() Style      { return s.Style }

func (Circle) shape()    {}
func (Arrow) shape()     {}
func (Line) shape()      {}
func (Rectangle) shape() {}
func (Freehand) shape()  {}
func (Text) shape()      {}

// Head returns the two outer points of the arrowhead; together with a.End
// they form the head triangle.
func (a Arrow) Head() (Point, Point) {
	angle := math.Atan2(a.End.Y-a.Start.Y, a.End.X-a.Start.X)
	p1 := Point{
		X: a.End.X - ArrowHeadLength*math.Cos(angle-ArrowHeadAngle),
		Y: a.End.Y - ArrowHeadLength*math.Sin(angle-ArrowHeadAngle),
	}
	p2 := Point{
		X: a.End.X - ArrowHeadLength*math.Cos(angle+ArrowHeadAngle),
		Y: a.End.Y - ArrowHeadLength*math.Sin(angle+ArrowHeadAngle),
	}
	return p1, p2
}

// RectFromCorners builds the rectangle spanned by two opposite corners,
// whatever direction the drag went.
func RectFromCorners(style Style, a, b Point) Rectangle {
	return Rectangle{
		Style:   style,
		TopLeft: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Width:   math.Abs(b.X - a.X),
		Height:  math.Abs(b.Y - a.Y),
	}
}

// WithStyle returns a copy of s carrying style.
func WithStyle(s Shape, style Style) Shape {
	switch v := s.(type) {
	case Circle:
		v.Style = style
		return v
	case Arrow:
		v.Style = style
		return v
	case Line:
		v.Style = style
		return v
	case Rectangle:
		v.Style = style
		return v
	case Freehand:
		v.Style = style
		v.Points = append([]Point(nil), v.Points...)
		return v
	case Text:
		v.Style = style
		return v
	}
	panic(fmt.Sprintf("geom: unknown shape %T", s))
}

// envelope carries the discriminator next to the variant's own fields.
type envelope struct {
	Type Kind `json:"type"`
}

// MarshalShape encodes s as a JSON object with a "type" discriminator.
func MarshalShape(s Shape) ([]byte, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	head, err := json.Marshal(envelope{Type: s.Kind()})
	if err != nil {
		return nil, err
	}
	if string(body) == "{}" {
		return head, nil
	}
	// Splice {"type":"x"} and {...} into {"type":"x",...}.
	out := make([]byte, 0, len(head)+len(body))
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	out = append(out, body[1:]...)
	return out, nil
}

// UnmarshalShape decodes an object produced by MarshalShape.
func UnmarshalShape(data []byte) (Shape, error) {
	var head envelope
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode shape: %w", err)
	}
	var (
		s   Shape
		err error
	)
	switch head.Type {
	case KindCircle:
		var v Circle
		err = json.Unmarshal(data, &v)
		s = v
	case KindArrow:
		var v Arrow
		err = json.Unmarshal(data, &v)
		s = v
	case KindLine:
		var v Line
		err = json.Unmarshal(data, &v)
		s = v
	case KindRectangle:
		var v Rectangle
		err = json.Unmarshal(data, &v)
		s = v
	case KindFreehand:
		var v Freehand
		err = json.Unmarshal(data, &v)
		s = v
	case KindText:
		var v Text
		err = json.Unmarshal(data, &v)
		s = v
	default:
		return nil, fmt.Errorf("decode shape: unknown type %q", head.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s shape: %w", head.Type, err)
	}
	return s, nil
}

// Shapes is a list of shapes with a discriminated JSON encoding.
type Shapes []Shape

func (ss Shapes) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, len(ss))
	for i, s := range ss {
		b, err := MarshalShape(s)
		if err != nil {
			return nil, err
		}
		raw[i] = b
	}
	return json.Marshal(raw)
}

func (ss *Shapes) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Shapes, 0, len(raw))
	for _, r := range raw {
		s, err := UnmarshalShape(r)
		if err != nil {
			return err
		}
		out = append(out, s)
	}
	*ss = out
	return nil
}
