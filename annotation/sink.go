package annotation

import "sync"

// Sink is where an annotation list lives. The store reads the current list
// with Get and publishes every edit as a whole new list through Set.
type Sink interface {
	Get() []Annotation
	Set(next []Annotation)
}

// LocalSink keeps the list itself.
type LocalSink struct {
	mu   sync.RWMutex
	list []Annotation
}

// NewLocalSink returns a sink seeded with initial.
func NewLocalSink(initial []Annotation) *LocalSink {
	return &LocalSink{list: initial}
}

func (s *LocalSink) Get() []Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list
}

func (s *LocalSink) Set(next []Annotation) {
	s.mu.Lock()
	s.list = next
	s.mu.Unlock()
}

// CallbackSink delegates to a caller that owns the list: Load returns the
// caller's current list and OnChange receives every replacement.
type CallbackSink struct {
	Load     func() []Annotation
	OnChange func([]Annotation)
}

func (s CallbackSink) Get() []Annotation {
	if s.Load == nil {
		return nil
	}
	return s.Load()
}

func (s CallbackSink) Set(next []Annotation) {
	if s.OnChange != nil {
		s.OnChange(next)
	}
}
