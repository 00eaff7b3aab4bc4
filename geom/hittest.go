package geom

import (
	"math"
	"unicode/utf8"
)

// textAdvance approximates a glyph's advance as a fraction of the font size.
const textAdvance = 0.6

// Hit reports whether p lands on the rendered outline of s. The surface is
// needed to turn pixel quantities (stroke width, font size) into percentage
// units; tol is an extra slop in percentage units.
func Hit(s Shape, p Point, surf Surface, tol float64) bool {
	slop := tol + surf.PixelsToPercentX(float64(s.Base().StrokeWidth))/2
	switch v := s.(type) {
	case Circle:
		return math.Abs(p.Distance(v.Center)-v.Radius) <= slop
	case Arrow:
		if segmentDistance(p, v.Start, v.End) <= slop {
			return true
		}
		h1, h2 := v.Head()
		return segmentDistance(p, v.End, h1) <= slop || segmentDistance(p, v.End, h2) <= slop
	case Line:
		return segmentDistance(p, v.Start, v.End) <= slop
	case Rectangle:
		tl := v.TopLeft
		tr := Point{X: tl.X + v.Width, Y: tl.Y}
		br := Point{X: tl.X + v.Width, Y: tl.Y + v.Height}
		bl := Point{X: tl.X, Y: tl.Y + v.Height}
		return segmentDistance(p, tl, tr) <= slop ||
			segmentDistance(p, tr, br) <= slop ||
			segmentDistance(p, br, bl) <= slop ||
			segmentDistance(p, bl, tl) <= slop
	case Freehand:
		if len(v.Points) == 1 {
			return p.Distance(v.Points[0]) <= slop
		}
		for i := 1; i < len(v.Points); i++ {
			if segmentDistance(p, v.Points[i-1], v.Points[i]) <= slop {
				return true
			}
		}
		return false
	case Text:
		// Position is the baseline origin; the box extends right and up.
		w := surf.PixelsToPercentX(float64(utf8.RuneCountInString(v.Content)) * v.FontSize * textAdvance)
		h := surf.PixelsToPercentY(v.FontSize)
		return p.X >= v.Position.X-tol && p.X <= v.Position.X+w+tol &&
			p.Y >= v.Position.Y-h-tol && p.Y <= v.Position.Y+tol
	}
	return false
}
