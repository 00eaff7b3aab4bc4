// Package player drives a media backend (mpv, or a headless ffmpeg file)
// and exposes the playback state the annotation layer is authored against.
package player

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/user/studio-review/filmstrip"
)

var (
	// ErrBusy is returned when the media's position is borrowed by a
	// filmstrip run, frame-rate probe or freeze capture.
	ErrBusy = errors.New("player: media is busy")
	// ErrStale is returned by a sequence whose media was reloaded or closed
	// while it was running.
	ErrStale = errors.New("player: media was reloaded")
	// ErrUnsupported is returned when the backend lacks a capability.
	ErrUnsupported = errors.New("player: not supported by this media")
)

// Media is the playback backend. Seek returns once the seek completed.
type Media interface {
	filmstrip.Source
	Duration(ctx context.Context) (float64, error)
	Muted(ctx context.Context) (bool, error)
	SetMuted(ctx context.Context, muted bool) error
	SetVolume(ctx context.Context, v float64) error
	SetSpeed(ctx context.Context, rate float64) error
}

// FrameTimer is implemented by backends that can report when each frame is
// presented. NextFrame blocks until the next frame is shown and returns its
// presentation time on a monotonic clock.
type FrameTimer interface {
	NextFrame(ctx context.Context) (time.Duration, error)
}

// RateReporter is implemented by backends that know the container's
// declared frame rate.
type RateReporter interface {
	DeclaredFrameRate(ctx context.Context) (float64, error)
}

// FrameCapturer grabs the current frame at native resolution.
type FrameCapturer interface {
	CaptureFrame(ctx context.Context) (image.Image, error)
}

// Fullscreener toggles the backend's fullscreen mode.
type Fullscreener interface {
	SetFullscreen(ctx context.Context, on bool) error
}
