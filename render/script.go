package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/user/studio-review/annotation"
)

// Script builds a complete ASS subtitle file that shows every annotation
// overlapping [from, to] at its own time window, shifted so that from is 0.
// The result can be burned into a w×h clip with ffmpeg's ass filter.
func Script(list []annotation.Annotation, w, h int, from, to float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Script Info]\nScriptType: v4.00+\nPlayResX: %d\nPlayResY: %d\nScaledBorderAndShadow: yes\n\n", w, h)
	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	b.WriteString("Style: Default,sans-serif,20,&H00FFFFFF,&H00FFFFFF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,0,0,7,0,0,0,1\n\n")
	b.WriteString("[Events]\nFormat: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	s := newScaler(float64(w), float64(h))
	for i, a := range list {
		start := a.StartTime
		end := to
		if a.EndTime != nil {
			end = min(*a.EndTime, to)
		}
		if end < from || start > to {
			continue
		}
		start = max(start, from)
		// A single-instant annotation still needs a visible frame.
		if end-start < 0.04 {
			end = start + 0.04
		}
		for _, sh := range a.Shapes {
			for _, line := range assShape(s, sh, false) {
				fmt.Fprintf(&b, "Dialogue: %d,%s,%s,Default,,0,0,0,,%s\n", i, timecode(start-from), timecode(end-from), line)
			}
		}
	}
	return b.String()
}

// timecode formats seconds as the H:MM:SS.cc form ASS uses.
func timecode(sec float64) string {
	cs := int(math.Round(max(sec, 0) * 100))
	return fmt.Sprintf("%d:%02d:%02d.%02d", cs/360000, cs/6000%60, cs/100%60, cs%100)
}
