package annotation

import (
	"errors"
	"log/slog"

	"github.com/user/studio-review/geom"
)

var (
	// ErrDuplicateID is returned by Add when the id is already in the store.
	ErrDuplicateID = errors.New("annotation: duplicate id")
	// ErrNoShapes is returned by Add for an annotation without shapes.
	ErrNoShapes = errors.New("annotation: no shapes")
	// ErrEndBeforeStart is returned by SetEndTime for an end before the start.
	ErrEndBeforeStart = errors.New("annotation: end time before start time")
)

// Store edits an ordered annotation list held by a Sink. Every mutation
// builds a fresh slice; the previous slice is never written to, so holders
// of an older list can compare by identity to detect change.
type Store struct {
	sink Sink
	log  *slog.Logger
}

// NewStore returns a store over sink. A nil sink gets a LocalSink.
func NewStore(sink Sink, log *slog.Logger) *Store {
	if sink == nil {
		sink = NewLocalSink(nil)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{sink: sink, log: log}
}

// All returns the current list in insertion order. Do not modify it.
func (s *Store) All() []Annotation {
	return s.sink.Get()
}

// Len returns the number of annotations.
func (s *Store) Len() int {
	return len(s.sink.Get())
}

// Get returns the annotation with id.
func (s *Store) Get(id string) (Annotation, bool) {
	for _, a := range s.sink.Get() {
		if a.ID == id {
			return a, true
		}
	}
	return Annotation{}, false
}

// Add appends a to the end of the list.
func (s *Store) Add(a Annotation) error {
	if len(a.Shapes) == 0 {
		return ErrNoShapes
	}
	cur := s.sink.Get()
	for _, existing := range cur {
		if existing.ID == a.ID {
			return ErrDuplicateID
		}
	}
	next := make([]Annotation, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, a)
	s.sink.Set(next)
	s.log.Debug("annotation added", "id", a.ID, "start", a.StartTime, "shapes", len(a.Shapes))
	return nil
}

// UpdateShapes replaces the shapes of annotation id. Unknown ids are ignored.
func (s *Store) UpdateShapes(id string, shapes []geom.Shape) bool {
	return s.replace(id, func(a *Annotation) error {
		a.Shapes = append(geom.Shapes(nil), shapes...)
		return nil
	})
}

// SetLabel renames annotation id.
func (s *Store) SetLabel(id, label string) bool {
	return s.replace(id, func(a *Annotation) error {
		a.Label = label
		return nil
	})
}

// SetEndTime sets (or with nil, clears) the end of annotation id.
// Unknown ids are a no-op.
func (s *Store) SetEndTime(id string, end *float64) error {
	var rangeErr error
	s.replace(id, func(a *Annotation) error {
		if end != nil && *end < a.StartTime {
			rangeErr = ErrEndBeforeStart
			return rangeErr
		}
		if end == nil {
			a.EndTime = nil
		} else {
			a.EndTime = Seconds(*end)
		}
		return nil
	})
	return rangeErr
}

// ToggleEnd ends an open annotation at t, or reopens an ended one.
func (s *Store) ToggleEnd(id string, t float64) error {
	a, ok := s.Get(id)
	if !ok {
		return nil
	}
	if a.EndTime == nil {
		return s.SetEndTime(id, &t)
	}
	return s.SetEndTime(id, nil)
}

// Delete removes annotation id. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) bool {
	cur := s.sink.Get()
	next := make([]Annotation, 0, len(cur))
	for _, a := range cur {
		if a.ID != id {
			next = append(next, a)
		}
	}
	if len(next) == len(cur) {
		return false
	}
	s.sink.Set(next)
	s.log.Debug("annotation deleted", "id", id)
	return true
}

// Clear removes every annotation.
func (s *Store) Clear() {
	if len(s.sink.Get()) == 0 {
		return
	}
	s.sink.Set([]Annotation{})
	s.log.Debug("annotations cleared")
}

// UndoLast removes the most recently appended annotation. It is a single
// step: there is no redo and no deeper history.
func (s *Store) UndoLast() (Annotation, bool) {
	cur := s.sink.Get()
	if len(cur) == 0 {
		return Annotation{}, false
	}
	last := cur[len(cur)-1]
	next := make([]Annotation, len(cur)-1)
	copy(next, cur[:len(cur)-1])
	s.sink.Set(next)
	s.log.Debug("annotation undone", "id", last.ID)
	return last, true
}

// VisibleAt returns the annotations shown at time t, in list order.
func (s *Store) VisibleAt(t float64) []Annotation {
	return VisibleAt(s.sink.Get(), t)
}

// VisibleAt filters list by the visibility window.
func VisibleAt(list []Annotation, t float64) []Annotation {
	var out []Annotation
	for _, a := range list {
		if a.VisibleAt(t) {
			out = append(out, a)
		}
	}
	return out
}

// replace rewrites annotation id through fn into a new list.
func (s *Store) replace(id string, fn func(*Annotation) error) bool {
	cur := s.sink.Get()
	for i, a := range cur {
		if a.ID != id {
			continue
		}
		if err := fn(&a); err != nil {
			return false
		}
		next := make([]Annotation, len(cur))
		copy(next, cur)
		next[i] = a
		s.sink.Set(next)
		return true
	}
	return false
}
