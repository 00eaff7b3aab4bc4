package render

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/user/studio-review/geom"
)

// SVG renders items onto a transparent w×h document. Circles become
// ellipses: a radius in percentage units spans a different number of pixels
// on each axis.
func SVG(items []Item, w, h float64) string {
	s := newScaler(w, h)
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(w), num(h), num(w), num(h))
	b.WriteString("\n")
	for _, it := range items {
		if it.Preview {
			fmt.Fprintf(&b, `<g opacity="%s" stroke-dasharray="%s">`, num(PreviewOpacity), PreviewDash)
		}
		writeSVGShape(&b, s, it.Shape)
		if it.Preview {
			b.WriteString("</g>")
		}
		b.WriteString("\n")
	}
	b.WriteString("</svg>\n")
	return b.String()
}

func writeSVGShape(b *strings.Builder, s scaler, shape geom.Shape) {
	st := shape.Base()
	stroke := fmt.Sprintf(`stroke="%s" stroke-width="%d" stroke-linecap="round" stroke-linejoin="round"`,
		st.Color.Hex(), st.StrokeWidth)

	switch v := shape.(type) {
	case geom.Circle:
		cx, cy := s.pt(v.Center)
		fmt.Fprintf(b, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="none" %s/>`,
			num(cx), num(cy), num(s.dx(v.Radius)), num(s.dy(v.Radius)), stroke)
	case geom.Line:
		x1, y1 := s.pt(v.Start)
		x2, y2 := s.pt(v.End)
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" %s/>`, num(x1), num(y1), num(x2), num(y2), stroke)
	case geom.Arrow:
		x1, y1 := s.pt(v.Start)
		x2, y2 := s.pt(v.End)
		h1, h2 := v.Head()
		hx1, hy1 := s.pt(h1)
		hx2, hy2 := s.pt(h2)
		fmt.Fprintf(b, `<g><line x1="%s" y1="%s" x2="%s" y2="%s" %s/>`, num(x1), num(y1), num(x2), num(y2), stroke)
		fmt.Fprintf(b, `<polygon points="%s,%s %s,%s %s,%s" fill="%s" %s/></g>`,
			num(x2), num(y2), num(hx1), num(hy1), num(hx2), num(hy2), st.Color.Hex(), stroke)
	case geom.Rectangle:
		x, y := s.pt(v.TopLeft)
		fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" fill="none" %s/>`,
			num(x), num(y), num(s.dx(v.Width)), num(s.dy(v.Height)), stroke)
	case geom.Freehand:
		pts := make([]string, len(v.Points))
		for i, p := range v.Points {
			x, y := s.pt(p)
			pts[i] = num(x) + "," + num(y)
		}
		fmt.Fprintf(b, `<polyline points="%s" fill="none" %s/>`, strings.Join(pts, " "), stroke)
	case geom.Text:
		x, y := s.pt(v.Position)
		fmt.Fprintf(b, `<text x="%s" y="%s" fill="%s" font-size="%s" font-family="sans-serif">`,
			num(x), num(y), st.Color.Hex(), num(v.FontSize))
		_ = xml.EscapeText(b, []byte(v.Content))
		b.WriteString("</text>")
	}
}
