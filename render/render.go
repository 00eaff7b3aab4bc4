// Package render draws annotation shapes for display: as ASS drawing events
// for mpv's OSD overlay, and as standalone SVG documents.
package render

import (
	"math"
	"strconv"

	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/geom"
)

// PreviewOpacity is applied to the in-progress shape.
const PreviewOpacity = 0.6

// PreviewDash is the SVG dash pattern of the in-progress shape.
const PreviewDash = "5,5"

// Item is one shape to draw.
type Item struct {
	Shape   geom.Shape
	Preview bool
}

// Frame collects the shapes of every annotation visible at t, in store order,
// followed by the preview shape when there is one.
func Frame(list []annotation.Annotation, t float64, preview geom.Shape) []Item {
	var items []Item
	for _, a := range annotation.VisibleAt(list, t) {
		for _, s := range a.Shapes {
			items = append(items, Item{Shape: s})
		}
	}
	if preview != nil {
		items = append(items, Item{Shape: preview, Preview: true})
	}
	return items
}

// Shapes wraps committed shapes as items.
func Shapes(shapes []geom.Shape) []Item {
	items := make([]Item, len(shapes))
	for i, s := range shapes {
		items[i] = Item{Shape: s}
	}
	return items
}

// num formats a device coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

type scaler struct {
	surf geom.Surface
}

func newScaler(w, h float64) scaler {
	return scaler{surf: geom.Surface{Width: w, Height: h}}
}

func (s scaler) pt(p geom.Point) (float64, float64) {
	return geom.FromPercent(p, s.surf)
}

func (s scaler) dx(v float64) float64 { return v / 100 * s.surf.Width }
func (s scaler) dy(v float64) float64 { return v / 100 * s.surf.Height }
