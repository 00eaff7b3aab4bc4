package geom

import (
	"fmt"
	"image/color"
	"strconv"
)

// Color is one of the fixed annotation palette entries.
type Color string

const (
	Red    Color = "red"
	Yellow Color = "yellow"
	Green  Color = "green"
	Blue   Color = "blue"
	White  Color = "white"
)

// Palette lists the colors in toolbar order.
var Palette = []Color{Red, Yellow, Green, Blue, White}

var hexValues = map[Color]string{
	Red:    "#ef4444",
	Yellow: "#eab308",
	Green:  "#22c55e",
	Blue:   "#3b82f6",
	White:  "#ffffff",
}

// Hex returns the color's "#rrggbb" value. Unknown colors render as white.
func (c Color) Hex() string {
	if h, ok := hexValues[c]; ok {
		return h
	}
	return hexValues[White]
}

// Valid reports whether c is a palette color.
func (c Color) Valid() bool {
	_, ok := hexValues[c]
	return ok
}

// RGBA returns the opaque RGBA value of c.
func (c Color) RGBA() color.RGBA {
	h := c.Hex()
	v, _ := strconv.ParseUint(h[1:], 16, 32)
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// ParseColor returns the palette color named s.
func ParseColor(s string) (Color, error) {
	c := Color(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown color %q (want one of red, yellow, green, blue, white)", s)
	}
	return c, nil
}
