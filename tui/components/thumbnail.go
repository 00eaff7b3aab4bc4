package components

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/studio-review/pkg/dataurl"
	"github.com/user/studio-review/pkg/timeutil"
	"github.com/user/studio-review/tui/styles"
	"golang.org/x/image/draw"
)

// DecodeThumbnail decodes a JPEG data URI as produced by the filmstrip.
func DecodeThumbnail(uri string) (image.Image, error) {
	mime, data, err := dataurl.Decode(uri)
	if err != nil {
		return nil, err
	}
	if mime != "image/jpeg" {
		return nil, fmt.Errorf("thumbnail: unsupported type %s", mime)
	}
	return jpeg.Decode(bytes.NewReader(data))
}

// HalfBlocks renders img in width×height cells, two pixels per cell using
// the upper half block with foreground and background colours.
func HalfBlocks(img image.Image, width, height int) string {
	if img == nil || width <= 0 || height <= 0 {
		return ""
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var b strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			top := dst.RGBAAt(x, 2*y)
			bottom := dst.RGBAAt(x, 2*y+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", top.R, top.G, top.B))).
				Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", bottom.R, bottom.G, bottom.B))).
				Render("▀"))
		}
	}
	return b.String()
}

// ThumbnailPreview renders the hover thumbnail in a box titled with its
// time. A thumbnail that fails to decode shows only the time.
func ThumbnailPreview(uri string, t float64, width int) string {
	title := timeutil.FormatPrecise(t)
	inner := width - 2
	if inner < 4 {
		return ""
	}
	img, err := DecodeThumbnail(uri)
	if err != nil {
		return RenderInfoBox(title, []string{styles.DimText.Render(" no preview")}, width, false)
	}
	// Keep the aspect: cells are about twice as tall as wide.
	b := img.Bounds()
	h := max(inner*b.Dy()/max(b.Dx(), 1)/2, 1)
	return RenderInfoBox(title, strings.Split(HalfBlocks(img, inner, h), "\n"), width, false)
}
