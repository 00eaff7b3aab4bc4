package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/user/studio-review/geom"
)

// bezierK places cubic control points for a quarter ellipse.
const bezierK = 0.5522847498

// ASS renders items as ASS event lines for an overlay of resolution w×h,
// one line per drawing. Open paths are traced forward and back so the
// implicit close of an ASS drawing adds no segment. Preview items are drawn
// translucent; ASS has no dash pattern.
func ASS(items []Item, w, h float64) string {
	s := newScaler(w, h)
	var lines []string
	for _, it := range items {
		lines = append(lines, assShape(s, it.Shape, it.Preview)...)
	}
	return strings.Join(lines, "\n")
}

func assShape(s scaler, shape geom.Shape, preview bool) []string {
	st := shape.Base()
	outline := assTags(st, preview, false)

	switch v := shape.(type) {
	case geom.Circle:
		cx, cy := s.pt(v.Center)
		return []string{outline + ellipsePath(cx, cy, s.dx(v.Radius), s.dy(v.Radius)) + `{\p0}`}
	case geom.Line:
		return []string{outline + polylinePath(s, v.Start, v.End) + `{\p0}`}
	case geom.Arrow:
		h1, h2 := v.Head()
		head := assTags(st, preview, true) + "m " + assPt(s, v.End) + " l " + assPt(s, h1) + " " + assPt(s, h2) + `{\p0}`
		return []string{
			outline + polylinePath(s, v.Start, v.End) + `{\p0}`,
			head,
		}
	case geom.Rectangle:
		x, y := s.pt(v.TopLeft)
		x2, y2 := x+s.dx(v.Width), y+s.dy(v.Height)
		path := fmt.Sprintf("m %s %s l %s %s %s %s %s %s",
			assNum(x), assNum(y), assNum(x2), assNum(y), assNum(x2), assNum(y2), assNum(x), assNum(y2))
		return []string{outline + path + `{\p0}`}
	case geom.Freehand:
		if len(v.Points) == 0 {
			return nil
		}
		return []string{outline + polylinePath(s, v.Points...) + `{\p0}`}
	case geom.Text:
		x, y := s.pt(v.Position)
		tags := fmt.Sprintf(`{\an1\pos(%s,%s)\fs%s\bord1\shad0\1c%s\3c&H000000&%s}`,
			assNum(x), assNum(y), assNum(v.FontSize), assColor(st.Color), assAlpha(preview))
		return []string{tags + assEscape(v.Content)}
	}
	return nil
}

// assTags opens a drawing. Outlines use the border for the stroke and a
// transparent fill; filled drawings are solid.
func assTags(st geom.Style, preview, filled bool) string {
	fill := `\1a&HFF&`
	if filled {
		fill = `\1c` + assColor(st.Color) + `\1a&H` + alphaHex(preview) + `&`
	}
	return fmt.Sprintf(`{\an7\pos(0,0)\bord%s\shad0%s\3c%s\3a&H%s&\p1}`,
		assNum(float64(st.StrokeWidth)/2), fill, assColor(st.Color), alphaHex(preview))
}

func assAlpha(preview bool) string {
	if !preview {
		return ""
	}
	return `\alpha&H` + alphaHex(true) + `&`
}

// alphaHex is the ASS alpha byte, where 00 is opaque.
func alphaHex(preview bool) string {
	if !preview {
		return "00"
	}
	return fmt.Sprintf("%02X", int(math.Round(255*(1-PreviewOpacity))))
}

// assColor converts a palette color to the ASS &HBBGGRR& form.
func assColor(c geom.Color) string {
	rgba := c.RGBA()
	return fmt.Sprintf("&H%02X%02X%02X&", rgba.B, rgba.G, rgba.R)
}

func assNum(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

func assPt(s scaler, p geom.Point) string {
	x, y := s.pt(p)
	return assNum(x) + " " + assNum(y)
}

func polylinePath(s scaler, pts ...geom.Point) string {
	var b strings.Builder
	b.WriteString("m " + assPt(s, pts[0]))
	if len(pts) == 1 {
		b.WriteString(" l " + assPt(s, pts[0]))
		return b.String()
	}
	b.WriteString(" l")
	for _, p := range pts[1:] {
		b.WriteString(" " + assPt(s, p))
	}
	for i := len(pts) - 2; i >= 0; i-- {
		b.WriteString(" " + assPt(s, pts[i]))
	}
	return b.String()
}

func ellipsePath(cx, cy, rx, ry float64) string {
	kx, ky := bezierK*rx, bezierK*ry
	n := func(vs ...float64) string {
		parts := make([]string, len(vs))
		for i, v := range vs {
			parts[i] = assNum(v)
		}
		return strings.Join(parts, " ")
	}
	return "m " + n(cx+rx, cy) +
		" b " + n(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry) +
		" b " + n(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy) +
		" b " + n(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry) +
		" b " + n(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
}

// assEscape keeps user text from being read as override tags. A backslash
// is followed by a word joiner so it never starts an escape sequence.
func assEscape(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, `\`, "\\\u2060")
	s = strings.ReplaceAll(s, "{", `\{`)
	s = strings.ReplaceAll(s, "}", `\}`)
	return s
}
