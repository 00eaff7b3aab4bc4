package drawing

import "github.com/user/studio-review/geom"

// MinSize is the smallest gesture, in percentage units, that commits a shape.
// Anything at or below it is treated as an accidental click.
const MinSize = 1.0

// Gesture is the raw input of one drag.
type Gesture struct {
	Tool    Tool
	Style   geom.Style
	Start   geom.Point
	Current geom.Point
	// Trail holds every sampled point for the freehand tool, Start first.
	Trail []geom.Point
	// Text and FontSize configure the text tool.
	Text     string
	FontSize float64
}

// Build turns a finished gesture into a shape, applying the minimum-size
// rules. ok is false when the gesture is too small or the tool draws nothing.
func Build(g Gesture) (geom.Shape, bool) {
	switch g.Tool {
	case ToolCircle, ToolArrow, ToolLine:
		if g.Start.Distance(g.Current) <= MinSize {
			return nil, false
		}
	case ToolRectangle:
		r := geom.RectFromCorners(g.Style, g.Start, g.Current)
		if r.Width <= MinSize || r.Height <= MinSize {
			return nil, false
		}
	case ToolFreehand:
		if len(g.Trail) <= 2 {
			return nil, false
		}
	case ToolText:
		if g.Text == "" {
			return nil, false
		}
	}
	return construct(g)
}

// Preview builds the in-progress shape without size rules, for the live
// dashed rendering. A freehand preview needs at least two points.
func Preview(g Gesture) (geom.Shape, bool) {
	if g.Tool == ToolFreehand && len(g.Trail) < 2 {
		return nil, false
	}
	return construct(g)
}

func construct(g Gesture) (geom.Shape, bool) {
	switch g.Tool {
	case ToolCircle:
		return geom.Circle{Style: g.Style, Center: g.Start, Radius: g.Start.Distance(g.Current)}, true
	case ToolArrow:
		return geom.Arrow{Style: g.Style, Start: g.Start, End: g.Current}, true
	case ToolLine:
		return geom.Line{Style: g.Style, Start: g.Start, End: g.Current}, true
	case ToolRectangle:
		return geom.RectFromCorners(g.Style, g.Start, g.Current), true
	case ToolFreehand:
		return geom.Freehand{Style: g.Style, Points: append([]geom.Point(nil), g.Trail...)}, true
	case ToolText:
		return geom.Text{Style: g.Style, Position: g.Start, Content: g.Text, FontSize: g.FontSize}, true
	}
	return nil, false
}
