package drawing

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/geom"
)

// State is the gesture state.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Key is a keyboard input the machine reacts to.
type Key int

const (
	KeyEscape Key = iota
	KeyDelete
	KeyBackspace
)

// SelectTolerance is the hit slop, in percentage units, for the select tool.
const SelectTolerance = 1.5

// Playback is the part of the player the machine needs: annotations are
// stamped with the current time and may only be drawn on a paused frame.
type Playback interface {
	CurrentTime() float64
	IsPlaying() bool
}

// Options are the toolbar settings a machine starts with.
type Options struct {
	Tool        Tool
	Color       geom.Color
	StrokeWidth int
	FontSize    float64
}

// DefaultOptions mirror the toolbar defaults.
func DefaultOptions() Options {
	return Options{Tool: ToolArrow, Color: geom.Yellow, StrokeWidth: 3, FontSize: 16}
}

// Machine tracks one drawing gesture at a time and commits finished shapes
// into an annotation store. Pointer events arrive in device coordinates
// together with the surface's current bounds and are mapped to percentages
// on every call.
type Machine struct {
	store    *annotation.Store
	playback Playback
	log      *slog.Logger

	opts    Options
	text    string
	enabled bool

	state    State
	start    geom.Point
	current  geom.Point
	trail    []geom.Point
	selected string
}

// New returns an idle machine with drawing disabled.
func New(store *annotation.Store, playback Playback, opts Options, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.Tool == "" {
		opts.Tool = ToolArrow
	}
	if !opts.Color.Valid() {
		opts.Color = geom.Yellow
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = 3
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 16
	}
	return &Machine{store: store, playback: playback, log: log, opts: opts}
}

func (m *Machine) State() State          { return m.state }
func (m *Machine) Options() Options      { return m.opts }
func (m *Machine) Enabled() bool         { return m.enabled }
func (m *Machine) Selected() string      { return m.selected }
func (m *Machine) Trail() []geom.Point   { return m.trail }
func (m *Machine) PendingText() string   { return m.text }
func (m *Machine) SetText(text string)   { m.text = text }
func (m *Machine) SetColor(c geom.Color) { m.opts.Color = c }

// SetFontSize changes the text tool's font size.
func (m *Machine) SetFontSize(px float64) {
	if px > 0 {
		m.opts.FontSize = px
	}
}

// SetStrokeWidth changes the width used for new shapes.
func (m *Machine) SetStrokeWidth(px int) {
	if px > 0 {
		m.opts.StrokeWidth = px
	}
}

// SetEnabled toggles annotation mode. Turning it off drops any gesture.
func (m *Machine) SetEnabled(on bool) {
	m.enabled = on
	if !on {
		m.abort()
	}
}

// SetTool switches tools, dropping any gesture in progress.
func (m *Machine) SetTool(t Tool) {
	if t == m.opts.Tool {
		return
	}
	m.abort()
	m.opts.Tool = t
	if t != ToolSelect {
		m.selected = ""
	}
}

// CanDraw reports whether a pointer-down would start a gesture.
func (m *Machine) CanDraw() bool {
	return m.enabled && m.opts.Tool != ToolSelect && !m.playback.IsPlaying()
}

// PointerDown starts a gesture, or in select mode picks the topmost visible
// annotation under the pointer. It reports whether anything happened.
func (m *Machine) PointerDown(clientX, clientY float64, surf geom.Surface) bool {
	p := geom.ToPercent(clientX, clientY, surf)
	if m.enabled && m.opts.Tool == ToolSelect {
		return m.selectAt(p, surf)
	}
	if !m.CanDraw() {
		return false
	}
	m.state = Drawing
	m.start = p
	m.current = p
	m.trail = nil
	if m.opts.Tool == ToolFreehand {
		m.trail = []geom.Point{p}
	}
	return true
}

// PointerMove updates the live point. Freehand records every move.
func (m *Machine) PointerMove(clientX, clientY float64, surf geom.Surface) {
	if m.state != Drawing {
		return
	}
	p := geom.ToPercent(clientX, clientY, surf)
	m.current = p
	if m.opts.Tool == ToolFreehand {
		m.trail = append(m.trail, p)
	}
}

// PointerUp finishes the gesture. When the shape passes the size rules it
// is wrapped in a new open-ended annotation at the current playback time and
// appended to the store.
func (m *Machine) PointerUp() (annotation.Annotation, bool) {
	if m.state != Drawing {
		return annotation.Annotation{}, false
	}
	g := m.gesture(uuid.NewString())
	m.abort()

	shape, ok := Build(g)
	if !ok {
		m.log.Debug("gesture discarded", "tool", g.Tool)
		return annotation.Annotation{}, false
	}
	a := annotation.New(m.playback.CurrentTime(), shape)
	if err := m.store.Add(a); err != nil {
		m.log.Warn("commit annotation", "err", err)
		return annotation.Annotation{}, false
	}
	if g.Tool == ToolText {
		m.text = ""
	}
	return a, true
}

// PointerLeave abandons the gesture without committing.
func (m *Machine) PointerLeave() {
	m.abort()
}

// Key handles Escape (abort gesture, clear selection) and Delete/Backspace
// (remove the selected annotation). It reports whether the key was consumed.
func (m *Machine) Key(k Key) bool {
	switch k {
	case KeyEscape:
		had := m.state == Drawing || m.selected != ""
		m.abort()
		m.selected = ""
		return had
	case KeyDelete, KeyBackspace:
		if m.selected == "" {
			return false
		}
		m.store.Delete(m.selected)
		m.selected = ""
		return true
	}
	return false
}

// Preview returns the in-progress shape for dashed rendering.
func (m *Machine) Preview() (geom.Shape, bool) {
	if m.state != Drawing {
		return nil, false
	}
	return Preview(m.gesture("preview"))
}

func (m *Machine) gesture(id string) Gesture {
	return Gesture{
		Tool:     m.opts.Tool,
		Style:    geom.Style{ID: id, Color: m.opts.Color, StrokeWidth: m.opts.StrokeWidth},
		Start:    m.start,
		Current:  m.current,
		Trail:    m.trail,
		Text:     m.text,
		FontSize: m.opts.FontSize,
	}
}

func (m *Machine) selectAt(p geom.Point, surf geom.Surface) bool {
	visible := m.store.VisibleAt(m.playback.CurrentTime())
	for i := len(visible) - 1; i >= 0; i-- {
		for _, s := range visible[i].Shapes {
			if geom.Hit(s, p, surf, SelectTolerance) {
				m.selected = visible[i].ID
				return true
			}
		}
	}
	m.selected = ""
	return false
}

func (m *Machine) abort() {
	m.state = Idle
	m.start = geom.Point{}
	m.current = geom.Point{}
	m.trail = nil
}
