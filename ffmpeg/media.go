package ffmpeg

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/user/studio-review/player"
)

// FileMedia is a headless player over a video file. Its playhead is a
// virtual clock: Play starts it, Pause stops it, Seek moves it, and frames
// are decoded on demand at the playhead.
type FileMedia struct {
	info    Info
	extract func(ctx context.Context, t float64) (image.Image, error)
	now     func() time.Time

	mu      sync.Mutex
	pos     float64
	playing bool
	since   time.Time
	muted   bool
	volume  float64
	speed   float64
}

// Open probes path and returns a paused FileMedia at 0.
func Open(ctx context.Context, path string) (*FileMedia, error) {
	info, err := Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewFileMedia(info), nil
}

// NewFileMedia returns a paused FileMedia over an already probed file.
func NewFileMedia(info Info) *FileMedia {
	m := newFileMedia(info, nil, time.Now)
	m.extract = func(ctx context.Context, t float64) (image.Image, error) {
		return ExtractFrame(ctx, m.info, t)
	}
	return m
}

func newFileMedia(info Info, extract func(context.Context, float64) (image.Image, error), now func() time.Time) *FileMedia {
	return &FileMedia{info: info, extract: extract, now: now, volume: 1, speed: 1}
}

// Info returns the probed metadata.
func (m *FileMedia) Info() Info { return m.info }

// Position returns the playhead in seconds.
func (m *FileMedia) Position(context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.positionLocked(), nil
}

func (m *FileMedia) positionLocked() float64 {
	p := m.pos
	if m.playing {
		p += m.now().Sub(m.since).Seconds() * m.speed
	}
	if m.info.Duration > 0 && p > m.info.Duration {
		p = m.info.Duration
	}
	return p
}

// Paused reports whether the playhead is stopped.
func (m *FileMedia) Paused(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.playing, nil
}

// Play starts the playhead.
func (m *FileMedia) Play(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.playing {
		m.playing = true
		m.since = m.now()
	}
	return nil
}

// Pause stops the playhead.
func (m *FileMedia) Pause(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing {
		m.pos = m.positionLocked()
		m.playing = false
	}
	return nil
}

// Seek moves the playhead to t, clamped to the file.
func (m *FileMedia) Seek(_ context.Context, t float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t = max(t, 0)
	if m.info.Duration > 0 {
		t = min(t, m.info.Duration)
	}
	m.pos = t
	m.since = m.now()
	return nil
}

// Duration returns the file's duration.
func (m *FileMedia) Duration(context.Context) (float64, error) {
	return m.info.Duration, nil
}

// Muted reports the mute flag. There is no audio output.
func (m *FileMedia) Muted(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted, nil
}

// SetMuted sets the mute flag.
func (m *FileMedia) SetMuted(_ context.Context, muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	return nil
}

// SetVolume records the volume level.
func (m *FileMedia) SetVolume(_ context.Context, v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
	return nil
}

// SetSpeed changes the rate the playhead advances at.
func (m *FileMedia) SetSpeed(_ context.Context, rate float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = m.positionLocked()
	m.since = m.now()
	m.speed = rate
	return nil
}

// DeclaredFrameRate returns the stream's frame rate from ffprobe.
func (m *FileMedia) DeclaredFrameRate(context.Context) (float64, error) {
	return m.info.FPS, nil
}

// CaptureFrame decodes the frame at the playhead.
func (m *FileMedia) CaptureFrame(ctx context.Context) (image.Image, error) {
	t, _ := m.Position(ctx)
	return m.extract(ctx, t)
}

var (
	_ player.Media         = (*FileMedia)(nil)
	_ player.RateReporter  = (*FileMedia)(nil)
	_ player.FrameCapturer = (*FileMedia)(nil)
)
