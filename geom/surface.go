package geom

// Surface is the bounding rectangle of a rendering surface in device
// coordinates (pixels, terminal cells, whatever the pointer reports).
type Surface struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Empty reports whether the surface has no area.
func (s Surface) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// ToPercent maps a device pointer position to a Point relative to s.
// Callers must pass the surface's current bounds on every call: the surface
// may have been resized since the previous event. A surface with no area
// maps every position to the origin.
func ToPercent(clientX, clientY float64, s Surface) Point {
	if s.Empty() {
		return Point{}
	}
	return Point{
		X: (clientX - s.Left) / s.Width * 100,
		Y: (clientY - s.Top) / s.Height * 100,
	}
}

// FromPercent is the inverse of ToPercent.
func FromPercent(p Point, s Surface) (clientX, clientY float64) {
	return s.Left + p.X/100*s.Width, s.Top + p.Y/100*s.Height
}

// PixelsToPercentX converts a horizontal device length to percentage units.
func (s Surface) PixelsToPercentX(px float64) float64 {
	if s.Empty() {
		return 0
	}
	return px / s.Width * 100
}

// PixelsToPercentY converts a vertical device length to percentage units.
func (s Surface) PixelsToPercentY(px float64) float64 {
	if s.Empty() {
		return 0
	}
	return px / s.Height * 100
}
