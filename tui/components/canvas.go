package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/studio-review/geom"
	"github.com/user/studio-review/render"
	"github.com/user/studio-review/tui/styles"
)

// CanvasState is what the drawing canvas shows: the shapes visible at the
// current time plus the in-progress preview.
type CanvasState struct {
	Items []render.Item
	// Selected holds the shape ids of the selected annotation.
	Selected map[string]bool
}

type canvasCell struct {
	r        rune
	color    geom.Color
	preview  bool
	selected bool
}

// grid is a width×height cell raster addressed in percentage units, the
// same mapping geom.ToPercent applies to pointer positions over the canvas.
type grid struct {
	w, h  int
	cells []canvasCell
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, cells: make([]canvasCell, w*h)}
}

func (g *grid) cellOf(p geom.Point) (int, int) {
	return int(math.Floor(p.X / 100 * float64(g.w))), int(math.Floor(p.Y / 100 * float64(g.h)))
}

func (g *grid) set(x, y int, c canvasCell) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = c
}

func (g *grid) plot(p geom.Point, c canvasCell) {
	x, y := g.cellOf(p)
	g.set(x, y, c)
}

// segment samples a to b at half-cell steps.
func (g *grid) segment(a, b geom.Point, c canvasCell) {
	dx := math.Abs(b.X-a.X) / 100 * float64(g.w)
	dy := math.Abs(b.Y-a.Y) / 100 * float64(g.h)
	n := int(math.Ceil(math.Max(dx, dy)*2)) + 1
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		g.plot(geom.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}, c)
	}
}

func (g *grid) ellipse(center geom.Point, r float64, c canvasCell) {
	rx, ry := r/100*float64(g.w), r/100*float64(g.h)
	n := max(int(math.Ceil(4*(rx+ry))), 8)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		g.plot(geom.Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}, c)
	}
}

func (g *grid) text(at geom.Point, s string, c canvasCell) {
	x, y := g.cellOf(at)
	for _, r := range s {
		c.r = r
		g.set(x, y, c)
		x++
	}
}

func (g *grid) draw(shape geom.Shape, c canvasCell) {
	switch v := shape.(type) {
	case geom.Circle:
		g.ellipse(v.Center, v.Radius, c)
	case geom.Line:
		g.segment(v.Start, v.End, c)
	case geom.Arrow:
		g.segment(v.Start, v.End, c)
		h1, h2 := v.Head()
		g.segment(v.End, h1, c)
		g.segment(v.End, h2, c)
	case geom.Rectangle:
		tl := v.TopLeft
		tr := geom.Point{X: tl.X + v.Width, Y: tl.Y}
		br := geom.Point{X: tl.X + v.Width, Y: tl.Y + v.Height}
		bl := geom.Point{X: tl.X, Y: tl.Y + v.Height}
		g.segment(tl, tr, c)
		g.segment(tr, br, c)
		g.segment(br, bl, c)
		g.segment(bl, tl, c)
	case geom.Freehand:
		if len(v.Points) == 1 {
			g.plot(v.Points[0], c)
		}
		for i := 1; i < len(v.Points); i++ {
			g.segment(v.Points[i-1], v.Points[i], c)
		}
	case geom.Text:
		g.text(v.Position, v.Content, c)
	}
}

// Canvas rasterizes the shapes into width×height terminal cells. Outlines
// are drawn with • in the shape's colour, the preview with a dim ·, and the
// selected annotation in bold on the highlight background.
func Canvas(state CanvasState, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	g := newGrid(width, height)
	for _, it := range state.Items {
		st := it.Shape.Base()
		c := canvasCell{r: '•', color: st.Color, preview: it.Preview, selected: state.Selected[st.ID]}
		if it.Preview {
			c.r = '·'
		}
		g.draw(it.Shape, c)
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			c := g.cells[y*width+x]
			if c.r == 0 {
				b.WriteByte(' ')
				continue
			}
			st := lipgloss.NewStyle().Foreground(styles.ShapeColor(c.color))
			if c.preview {
				st = st.Faint(true)
			}
			if c.selected {
				st = st.Bold(true).Background(styles.BrightPurple)
			}
			b.WriteString(st.Render(string(c.r)))
		}
	}
	return b.String()
}
