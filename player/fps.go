package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

const (
	DefaultFPS = 30
	MinFPS     = 24
	MaxFPS     = 240

	probeFrames = 10
	// probeTimeout bounds the muted play burst used for sampling.
	probeTimeout = 2 * time.Second
)

var errNoElapsed = errors.New("frames presented with no elapsed time")

// ClampFPS limits a measured rate to [MinFPS, MaxFPS].
func ClampFPS(fps int) int {
	return max(MinFPS, min(MaxFPS, fps))
}

// DetectFrameRate measures the media's frame rate. Backends that report
// presented frames are sampled over a short muted play burst; otherwise the
// declared rate is used when known. Any failure falls back to DefaultFPS.
// The media's position, pause and mute state are restored after sampling.
func DetectFrameRate(ctx context.Context, m Media, log *slog.Logger) int {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if ft, ok := m.(FrameTimer); ok {
		fps, err := sampleFrames(ctx, m, ft)
		if err == nil {
			log.Debug("frame rate sampled", "fps", fps)
			return fps
		}
		log.Debug("frame rate probe failed", "err", err)
	}
	if rr, ok := m.(RateReporter); ok {
		rate, err := rr.DeclaredFrameRate(ctx)
		if err == nil && rate > 0 && !math.IsInf(rate, 0) {
			return ClampFPS(int(math.Round(rate)))
		}
		if err != nil {
			log.Debug("declared frame rate unavailable", "err", err)
		}
	}
	return DefaultFPS
}

func sampleFrames(ctx context.Context, m Media, ft FrameTimer) (fps int, err error) {
	pos, err := m.Position(ctx)
	if err != nil {
		return 0, fmt.Errorf("read position: %w", err)
	}
	paused, err := m.Paused(ctx)
	if err != nil {
		return 0, fmt.Errorf("read pause state: %w", err)
	}
	muted, err := m.Muted(ctx)
	if err != nil {
		return 0, fmt.Errorf("read mute state: %w", err)
	}
	defer func() {
		rctx := context.WithoutCancel(ctx)
		rerr := errors.Join(
			m.Pause(rctx),
			m.Seek(rctx, pos),
			m.SetMuted(rctx, muted),
		)
		if !paused {
			rerr = errors.Join(rerr, m.Play(rctx))
		}
		if rerr != nil && err == nil {
			err = fmt.Errorf("restore after probe: %w", rerr)
		}
	}()

	if err := m.SetMuted(ctx, true); err != nil {
		return 0, fmt.Errorf("mute: %w", err)
	}
	if err := m.Play(ctx); err != nil {
		return 0, fmt.Errorf("play: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	var first, last time.Duration
	for n := 0; n < probeFrames; n++ {
		ts, err := ft.NextFrame(pctx)
		if err != nil {
			return 0, fmt.Errorf("frame %d: %w", n, err)
		}
		if n == 0 {
			first = ts
		}
		last = ts
	}
	elapsedMs := float64(last-first) / float64(time.Millisecond)
	if elapsedMs <= 0 {
		return 0, errNoElapsed
	}
	return ClampFPS(int(math.Round(probeFrames / elapsedMs * 1000))), nil
}
