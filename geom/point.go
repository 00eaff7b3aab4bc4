// Package geom is the vocabulary shared by the annotation layer: points in
// percentage space, the shapes drawn over a video, and the fixed palette.
package geom

import "math"

// Point is a position on the rendering surface expressed as percentages in
// [0,100] of the surface's width (X) and height (Y). Points survive resizes
// and fullscreen toggles because they never refer to device pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between p and q in percentage units.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// segmentDistance returns the distance from p to the segment ab.
func segmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Distance(Point{X: a.X + t*ab.X, Y: a.Y + t*ab.Y})
}
