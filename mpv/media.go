package mpv

import (
	"context"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/user/studio-review/player"
)

// frameProperty changes once per presented frame while playing.
const frameProperty = "estimated-frame-number"

// observed are the properties watched after connecting, in observe id order.
var observed = []string{"time-pos", "pause", "duration", "fullscreen", "eof-reached", frameProperty}

// Position returns the current playback position in seconds.
func (c *Client) Position(ctx context.Context) (float64, error) {
	return c.getFloat(ctx, "time-pos")
}

// Duration returns the total duration of the video in seconds.
func (c *Client) Duration(ctx context.Context) (float64, error) {
	return c.getFloat(ctx, "duration")
}

// Paused returns true if playback is paused.
func (c *Client) Paused(ctx context.Context) (bool, error) {
	return c.getBool(ctx, "pause")
}

// Play resumes playback.
func (c *Client) Play(ctx context.Context) error {
	return c.SetProperty(ctx, "pause", false)
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context) error {
	return c.SetProperty(ctx, "pause", true)
}

// Seek jumps to t seconds and returns once mpv has restarted playback at
// the new position.
func (c *Client) Seek(ctx context.Context, t float64) error {
	restarted, err := c.waitEvent("playback-restart")
	if err != nil {
		return err
	}
	defer c.unwaitEvent("playback-restart", restarted)
	if _, err := c.Command(ctx, "seek", t, "absolute+exact"); err != nil {
		return fmt.Errorf("mpv: seek to %.3f: %w", t, err)
	}
	select {
	case <-restarted:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Muted reports whether audio is muted.
func (c *Client) Muted(ctx context.Context) (bool, error) {
	return c.getBool(ctx, "mute")
}

// SetMuted mutes or unmutes audio.
func (c *Client) SetMuted(ctx context.Context, muted bool) error {
	return c.SetProperty(ctx, "mute", muted)
}

// SetVolume sets the volume from a 0..1 level.
func (c *Client) SetVolume(ctx context.Context, v float64) error {
	return c.SetProperty(ctx, "volume", v*100)
}

// SetSpeed sets the playback rate.
func (c *Client) SetSpeed(ctx context.Context, rate float64) error {
	return c.SetProperty(ctx, "speed", rate)
}

// SetFullscreen enters or leaves fullscreen.
func (c *Client) SetFullscreen(ctx context.Context, on bool) error {
	return c.SetProperty(ctx, "fullscreen", on)
}

// DeclaredFrameRate returns the container's frame rate.
func (c *Client) DeclaredFrameRate(ctx context.Context) (float64, error) {
	return c.getFloat(ctx, "container-fps")
}

// NextFrame blocks until mpv reports a newly presented frame and returns
// when it arrived, measured from the client's creation. Notifications that
// were queued before the call are skipped.
func (c *Client) NextFrame(ctx context.Context) (time.Duration, error) {
	since := time.Since(c.started)
	for {
		select {
		case at := <-c.frames:
			if at < since {
				continue
			}
			return at, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// CaptureFrame grabs the current video frame without subtitles or OSD.
func (c *Client) CaptureFrame(ctx context.Context) (image.Image, error) {
	dir, err := os.MkdirTemp("", "studio-review-shot-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "frame.png")
	if _, err := c.Command(ctx, "screenshot-to-file", path, "video"); err != nil {
		return nil, fmt.Errorf("mpv: screenshot: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mpv: screenshot: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("mpv: decode screenshot: %w", err)
	}
	return img, nil
}

// OSDSize returns the OSD resolution overlays are drawn against.
func (c *Client) OSDSize(ctx context.Context) (w, h float64, err error) {
	if w, err = c.getFloat(ctx, "osd-width"); err != nil {
		return 0, 0, err
	}
	if h, err = c.getFloat(ctx, "osd-height"); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// ShowOverlay replaces overlay id with ASS event lines drawn at the given
// resolution.
func (c *Client) ShowOverlay(ctx context.Context, id int, ass string, resX, resY float64) error {
	_, err := c.sendCommand(ctx, map[string]any{
		"name":   "osd-overlay",
		"id":     id,
		"format": "ass-events",
		"data":   ass,
		"res_x":  int(resX),
		"res_y":  int(resY),
	})
	return err
}

// HideOverlay removes overlay id.
func (c *Client) HideOverlay(ctx context.Context, id int) error {
	_, err := c.sendCommand(ctx, map[string]any{
		"name":   "osd-overlay",
		"id":     id,
		"format": "none",
		"data":   "",
	})
	return err
}

// ShowText flashes a message on the OSD.
func (c *Client) ShowText(ctx context.Context, text string, d time.Duration) error {
	_, err := c.Command(ctx, "show-text", text, d.Milliseconds())
	return err
}

// PlayerEvent translates an mpv event into the controller's event form.
func PlayerEvent(ev Event) (player.Event, bool) {
	if ev.Name != "property-change" {
		return player.Event{}, false
	}
	switch ev.Property {
	case "time-pos":
		t, err := toFloat64(ev.Data)
		if err != nil {
			return player.Event{}, false
		}
		return player.Event{Kind: player.EventTimeUpdate, Time: t}, true
	case "pause":
		paused, ok := ev.Data.(bool)
		if !ok {
			return player.Event{}, false
		}
		if paused {
			return player.Event{Kind: player.EventPause}, true
		}
		return player.Event{Kind: player.EventPlay}, true
	case "duration":
		d, err := toFloat64(ev.Data)
		if err != nil {
			return player.Event{}, false
		}
		return player.Event{Kind: player.EventLoadedMetadata, Duration: d}, true
	case "fullscreen":
		on, ok := ev.Data.(bool)
		if !ok {
			return player.Event{}, false
		}
		return player.Event{Kind: player.EventFullscreenChange, Fullscreen: on}, true
	case "eof-reached":
		if eof, _ := ev.Data.(bool); eof {
			return player.Event{Kind: player.EventEnded}, true
		}
	}
	return player.Event{}, false
}

var (
	_ player.Media         = (*Client)(nil)
	_ player.FrameTimer    = (*Client)(nil)
	_ player.RateReporter  = (*Client)(nil)
	_ player.FrameCapturer = (*Client)(nil)
	_ player.Fullscreener  = (*Client)(nil)
)
