package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/geom"
	"github.com/user/studio-review/pkg/timeutil"
	"gopkg.in/yaml.v3"
)

// Format is a session document encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ErrUnknownFormat is returned for format names and extensions we can't write.
var ErrUnknownFormat = errors.New("export: unknown format")

// ParseFormat accepts a format name or common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks the format from a file's extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Session is the portable record of one review.
type Session struct {
	Video        string       `json:"video" yaml:"video"`
	Duration     float64      `json:"duration" yaml:"duration"`
	ExportedAt   time.Time    `json:"exportedAt" yaml:"exported_at"`
	Annotations  []Annotation `json:"annotations" yaml:"annotations"`
	FreezeFrames []Frame      `json:"freezeFrames,omitempty" yaml:"freeze_frames,omitempty"`
	Notes        string       `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Annotation is an annotation.Annotation with plain, encoder-agnostic shapes.
type Annotation struct {
	ID        string    `json:"id" yaml:"id"`
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
	StartTime float64   `json:"startTime" yaml:"start_time"`
	EndTime   *float64  `json:"endTime" yaml:"end_time"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	Shapes    []Shape   `json:"shapes" yaml:"shapes"`
}

// Shape flattens every shape variant into one record keyed by Type.
type Shape struct {
	Type        geom.Kind    `json:"type" yaml:"type"`
	ID          string       `json:"id" yaml:"id"`
	Color       geom.Color   `json:"color" yaml:"color"`
	StrokeWidth int          `json:"strokeWidth" yaml:"stroke_width"`
	Center      *geom.Point  `json:"center,omitempty" yaml:"center,omitempty"`
	Radius      float64      `json:"radius,omitempty" yaml:"radius,omitempty"`
	Start       *geom.Point  `json:"start,omitempty" yaml:"start,omitempty"`
	End         *geom.Point  `json:"end,omitempty" yaml:"end,omitempty"`
	TopLeft     *geom.Point  `json:"topLeft,omitempty" yaml:"top_left,omitempty"`
	Width       float64      `json:"width,omitempty" yaml:"width,omitempty"`
	Height      float64      `json:"height,omitempty" yaml:"height,omitempty"`
	Points      []geom.Point `json:"points,omitempty" yaml:"points,omitempty"`
	Position    *geom.Point  `json:"position,omitempty" yaml:"position,omitempty"`
	Content     string       `json:"content,omitempty" yaml:"content,omitempty"`
	FontSize    float64      `json:"fontSize,omitempty" yaml:"font_size,omitempty"`
}

// Frame is a freeze frame reference. The image itself stays in the database.
type Frame struct {
	Title string  `json:"title" yaml:"title"`
	Time  float64 `json:"time" yaml:"time"`
}

// NewSession builds the export record of a video's review.
func NewSession(video string, duration float64, list []annotation.Annotation, notes string) Session {
	s := Session{
		Video:       video,
		Duration:    duration,
		ExportedAt:  time.Now().UTC(),
		Annotations: make([]Annotation, len(list)),
		Notes:       notes,
	}
	for i, a := range list {
		s.Annotations[i] = fromAnnotation(a)
	}
	return s
}

// AnnotationList converts the records back into annotations.
func (s Session) AnnotationList() ([]annotation.Annotation, error) {
	out := make([]annotation.Annotation, len(s.Annotations))
	for i, r := range s.Annotations {
		a := annotation.Annotation{ID: r.ID, Label: r.Label, StartTime: r.StartTime, EndTime: r.EndTime, CreatedAt: r.CreatedAt}
		for _, sr := range r.Shapes {
			shape, err := sr.toShape()
			if err != nil {
				return nil, fmt.Errorf("annotation %s: %w", r.ID, err)
			}
			a.Shapes = append(a.Shapes, shape)
		}
		out[i] = a
	}
	return out, nil
}

func fromAnnotation(a annotation.Annotation) Annotation {
	r := Annotation{ID: a.ID, Label: a.Label, StartTime: a.StartTime, EndTime: a.EndTime, CreatedAt: a.CreatedAt}
	for _, s := range a.Shapes {
		r.Shapes = append(r.Shapes, fromShape(s))
	}
	return r
}

func fromShape(s geom.Shape) Shape {
	st := s.Base()
	r := Shape{Type: s.Kind(), ID: st.ID, Color: st.Color, StrokeWidth: st.StrokeWidth}
	switch v := s.(type) {
	case geom.Circle:
		r.Center, r.Radius = &v.Center, v.Radius
	case geom.Arrow:
		r.Start, r.End = &v.Start, &v.End
	case geom.Line:
		r.Start, r.End = &v.Start, &v.End
	case geom.Rectangle:
		r.TopLeft, r.Width, r.Height = &v.TopLeft, v.Width, v.Height
	case geom.Freehand:
		r.Points = append([]geom.Point(nil), v.Points...)
	case geom.Text:
		r.Position, r.Content, r.FontSize = &v.Position, v.Content, v.FontSize
	}
	return r
}

func (r Shape) toShape() (geom.Shape, error) {
	st := geom.Style{ID: r.ID, Color: r.Color, StrokeWidth: r.StrokeWidth}
	if !st.Color.Valid() {
		return nil, fmt.Errorf("shape %s: invalid color %q", r.ID, r.Color)
	}
	pt := func(p *geom.Point) geom.Point {
		if p == nil {
			return geom.Point{}
		}
		return *p
	}
	switch r.Type {
	case geom.KindCircle:
		return geom.Circle{Style: st, Center: pt(r.Center), Radius: r.Radius}, nil
	case geom.KindArrow:
		return geom.Arrow{Style: st, Start: pt(r.Start), End: pt(r.End)}, nil
	case geom.KindLine:
		return geom.Line{Style: st, Start: pt(r.Start), End: pt(r.End)}, nil
	case geom.KindRectangle:
		return geom.Rectangle{Style: st, TopLeft: pt(r.TopLeft), Width: r.Width, Height: r.Height}, nil
	case geom.KindFreehand:
		return geom.Freehand{Style: st, Points: r.Points}, nil
	case geom.KindText:
		return geom.Text{Style: st, Position: pt(r.Position), Content: r.Content, FontSize: r.FontSize}, nil
	}
	return nil, fmt.Errorf("shape %s: unknown type %q", r.ID, r.Type)
}

// Write encodes s to w in format f.
func Write(w io.Writer, s Session, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(s))
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Read decodes a session written by Write. Markdown is one-way.
func Read(r io.Reader, f Format) (Session, error) {
	var s Session
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&s)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&s)
	default:
		return s, fmt.Errorf("%w: cannot read %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return s, fmt.Errorf("decode %s session: %w", f, err)
	}
	return s, nil
}

// Markdown renders s as a review summary: an annotation table followed by
// the session notes.
func Markdown(s Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Review: %s\n\n", filepath.Base(s.Video))
	if s.Duration > 0 {
		fmt.Fprintf(&b, "Duration: %s\n\n", timeutil.FormatClock(s.Duration))
	}

	b.WriteString("## Annotations\n\n")
	if len(s.Annotations) == 0 {
		b.WriteString("No annotations.\n")
	} else {
		b.WriteString("| # | Label | Start | End | Shapes |\n|---|---|---|---|---|\n")
		for i, a := range s.Annotations {
			end := "open"
			if a.EndTime != nil {
				end = timeutil.FormatPrecise(*a.EndTime)
			}
			kinds := make([]string, len(a.Shapes))
			for j, sh := range a.Shapes {
				kinds[j] = string(sh.Type)
			}
			label := annotation.Annotation{Label: a.Label}.DisplayName(i + 1)
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", i+1, tableEscape(label),
				timeutil.FormatPrecise(a.StartTime), end, strings.Join(kinds, ", "))
		}
	}

	if len(s.FreezeFrames) > 0 {
		b.WriteString("\n## Freeze frames\n\n")
		for _, f := range s.FreezeFrames {
			fmt.Fprintf(&b, "- %s (%s)\n", f.Title, timeutil.FormatPrecise(f.Time))
		}
	}

	if notes := strings.TrimSpace(s.Notes); notes != "" {
		b.WriteString("\n## Notes\n\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}
	return b.String()
}

func tableEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
