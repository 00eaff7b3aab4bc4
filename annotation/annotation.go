// Package annotation holds time-windowed annotations over a video and the
// store that edits them.
package annotation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/studio-review/geom"
)

// Annotation owns one or more shapes that are shown between StartTime and
// EndTime (seconds). A nil EndTime means visible from StartTime onward;
// EndTime == StartTime means a single instant.
type Annotation struct {
	ID        string      `json:"id"`
	Label     string      `json:"label,omitempty"`
	StartTime float64     `json:"startTime"`
	EndTime   *float64    `json:"endTime"`
	Shapes    geom.Shapes `json:"shapes"`
	CreatedAt time.Time   `json:"createdAt"`
}

// New wraps shapes in an open-ended annotation starting at startTime.
func New(startTime float64, shapes ...geom.Shape) Annotation {
	return Annotation{
		ID:        uuid.NewString(),
		StartTime: startTime,
		Shapes:    append(geom.Shapes(nil), shapes...),
		CreatedAt: time.Now().UTC(),
	}
}

// VisibleAt reports whether the annotation is shown at time t.
func (a Annotation) VisibleAt(t float64) bool {
	return t >= a.StartTime && (a.EndTime == nil || t <= *a.EndTime)
}

// DisplayName returns the label, or "Annotation N" for the 1-based position n.
func (a Annotation) DisplayName(n int) string {
	if a.Label != "" {
		return a.Label
	}
	return fmt.Sprintf("Annotation %d", n)
}

// Seconds returns a pointer to v, for building EndTime values.
func Seconds(v float64) *float64 {
	return &v
}
