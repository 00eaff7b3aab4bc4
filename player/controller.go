package player

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/user/studio-review/filmstrip"
	"github.com/user/studio-review/pkg/dataurl"
)

// HideDelay is how long controls stay up once nothing keeps them visible.
const HideDelay = 2500 * time.Millisecond

// PlaybackRates is the cycle order of CyclePlaybackRate.
var PlaybackRates = []float64{0.1, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 2}

// NextRate returns the rate after r in PlaybackRates, wrapping. A rate that
// is not in the list restarts the cycle.
func NextRate(r float64) float64 {
	i := slices.Index(PlaybackRates, r)
	return PlaybackRates[(i+1)%len(PlaybackRates)]
}

// State is a snapshot of what the player shows.
type State struct {
	CurrentTime     float64
	Duration        float64
	IsPlaying       bool
	Volume          float64
	IsMuted         bool
	PlaybackRate    float64
	FPS             int
	Fullscreen      bool
	ControlsVisible bool
	// HoverTime is the scrub bar position under the pointer, if any.
	HoverTime *float64
	// Analyzing is set while the filmstrip is being generated.
	Analyzing bool
}

// EventKind identifies a backend notification.
type EventKind int

const (
	EventLoadedMetadata EventKind = iota
	EventTimeUpdate
	EventPlay
	EventPause
	EventEnded
	EventFullscreenChange
)

func (k EventKind) String() string {
	switch k {
	case EventLoadedMetadata:
		return "loadedmetadata"
	case EventTimeUpdate:
		return "timeupdate"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventEnded:
		return "ended"
	case EventFullscreenChange:
		return "fullscreenchange"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is a notification from the media backend.
type Event struct {
	Kind       EventKind
	Time       float64
	Duration   float64
	Fullscreen bool
}

// Freeze is a captured still.
type Freeze struct {
	DataURI string
	Time    float64
	Width   int
	Height  int
}

// Options configure a Controller.
type Options struct {
	// OnTimeUpdate receives every new playback position.
	OnTimeUpdate func(seconds float64)
	// OnFreezeFrame receives captured stills. What happens to them is up to
	// the caller.
	OnFreezeFrame func(dataURI string, seconds float64)
	HideDelay     time.Duration
	Filmstrip     filmstrip.Options
	Log           *slog.Logger
}

// Controller wraps a Media with observable playback state, frame stepping,
// scrubbing, freeze capture and the filmstrip. It is safe for concurrent
// use: backend events and UI calls may arrive on different goroutines.
type Controller struct {
	media Media
	opts  Options
	log   *slog.Logger

	mu        sync.Mutex
	state     State
	thumbs    []filmstrip.Thumbnail
	hovering  bool
	scrubbing bool
	busy      bool
	gen       uint64
	hideToken uint64
	hideTimer *time.Timer
}

// NewController returns a paused controller over media.
func NewController(media Media, opts Options) *Controller {
	if opts.HideDelay <= 0 {
		opts.HideDelay = HideDelay
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}
	if opts.Filmstrip.Log == nil {
		opts.Filmstrip.Log = opts.Log
	}
	return &Controller{
		media: media,
		opts:  opts,
		log:   opts.Log,
		state: State{
			Volume:          1,
			PlaybackRate:    1,
			FPS:             DefaultFPS,
			ControlsVisible: true,
		},
	}
}

// Media returns the wrapped backend.
func (c *Controller) Media() Media { return c.media }

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	if s.HoverTime != nil {
		h := *s.HoverTime
		s.HoverTime = &h
	}
	return s
}

// CurrentTime returns the last known playback position.
func (c *Controller) CurrentTime() float64 { return c.State().CurrentTime }

// IsPlaying reports whether playback is running.
func (c *Controller) IsPlaying() bool { return c.State().IsPlaying }

// Thumbnails returns the filmstrip of the current media, ascending by time.
func (c *Controller) Thumbnails() []filmstrip.Thumbnail {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thumbs
}

// Busy reports whether the media's position is currently borrowed.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Load reads the media's metadata, measures its frame rate and generates
// the filmstrip. Calling Load again, or Close, makes an in-flight Load
// return ErrStale without touching state.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.thumbs = nil
	c.mu.Unlock()

	d, err := c.media.Duration(ctx)
	if err != nil {
		return fmt.Errorf("read duration: %w", err)
	}
	if !c.current(gen) {
		return ErrStale
	}
	c.HandleEvent(Event{Kind: EventLoadedMetadata, Duration: d})

	if err := c.borrow(gen); err != nil {
		return err
	}
	c.setAnalyzing(true)
	defer func() {
		if c.current(gen) {
			c.setAnalyzing(false)
		}
	}()
	fps := DetectFrameRate(ctx, c.media, c.log)
	if !c.current(gen) {
		c.release()
		return ErrStale
	}
	c.mu.Lock()
	c.state.FPS = fps
	c.mu.Unlock()

	plan := filmstrip.NewPlan(d, fps)
	thumbs, err := filmstrip.Generate(ctx, c.media, plan, c.opts.Filmstrip)
	c.release()
	if !c.current(gen) {
		return ErrStale
	}
	if err != nil {
		return fmt.Errorf("filmstrip: %w", err)
	}
	c.mu.Lock()
	c.thumbs = thumbs
	c.mu.Unlock()
	c.log.Info("media loaded", "duration", d, "fps", fps, "thumbnails", len(thumbs))
	return nil
}

// Restore installs a frame rate and filmstrip measured earlier, for example
// by a background job, without borrowing the media. An in-flight Load is
// invalidated. fps is clamped; thumbs must be ascending by time.
func (c *Controller) Restore(fps int, thumbs []filmstrip.Thumbnail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.state.FPS = ClampFPS(fps)
	c.state.Analyzing = false
	c.thumbs = thumbs
}

// Close invalidates in-flight sequences and stops the controls timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.stopHideLocked()
}

// HandleEvent applies a backend notification. Position and play-state
// events are ignored while the media is borrowed; the borrower restores
// both before releasing it.
func (c *Controller) HandleEvent(ev Event) {
	c.mu.Lock()
	var notify *float64
	switch ev.Kind {
	case EventLoadedMetadata:
		if ev.Duration >= 0 && !math.IsNaN(ev.Duration) {
			c.state.Duration = ev.Duration
		}
	case EventTimeUpdate:
		if !c.busy {
			c.state.CurrentTime = ev.Time
			t := ev.Time
			notify = &t
		}
	case EventPlay:
		if !c.busy {
			c.setPlayingLocked(true)
		}
	case EventPause, EventEnded:
		if !c.busy {
			c.setPlayingLocked(false)
		}
	case EventFullscreenChange:
		c.state.Fullscreen = ev.Fullscreen
	}
	c.mu.Unlock()
	if notify != nil && c.opts.OnTimeUpdate != nil {
		c.opts.OnTimeUpdate(*notify)
	}
}

// TogglePlay pauses a playing video or plays a paused one.
func (c *Controller) TogglePlay(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	playing := c.state.IsPlaying
	c.mu.Unlock()

	if playing {
		if err := c.media.Pause(ctx); err != nil {
			return fmt.Errorf("pause: %w", err)
		}
	} else if err := c.media.Play(ctx); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	c.mu.Lock()
	c.setPlayingLocked(!playing)
	c.mu.Unlock()
	return nil
}

// Pause pauses playback if it is running.
func (c *Controller) Pause(ctx context.Context) error {
	c.mu.Lock()
	playing := c.state.IsPlaying
	c.mu.Unlock()
	if !playing {
		return nil
	}
	return c.TogglePlay(ctx)
}

// Seek moves to t, clamped to [0, duration].
func (c *Controller) Seek(ctx context.Context, t float64) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	t = clampTime(t, c.state.Duration)
	c.mu.Unlock()

	if err := c.media.Seek(ctx, t); err != nil {
		return fmt.Errorf("seek %.3f: %w", t, err)
	}
	c.HandleEvent(Event{Kind: EventTimeUpdate, Time: t})
	return nil
}

// SeekRelative moves by delta seconds.
func (c *Controller) SeekRelative(ctx context.Context, delta float64) error {
	return c.Seek(ctx, c.State().CurrentTime+delta)
}

// StepFrame moves one frame forward (dir > 0) or backward (dir < 0) using
// the detected frame rate. The result never leaves [0, duration].
func (c *Controller) StepFrame(ctx context.Context, dir int) error {
	st := c.State()
	cur, err := c.media.Position(ctx)
	if err != nil {
		cur = st.CurrentTime
	}
	step := 1 / float64(st.FPS)
	if dir < 0 {
		step = -step
	}
	return c.Seek(ctx, cur+step)
}

// SeekPercent seeks to a fraction p in [0,1] of the duration, as a click on
// the progress bar does.
func (c *Controller) SeekPercent(ctx context.Context, p float64) error {
	return c.Seek(ctx, clampUnit(p)*c.State().Duration)
}

// Hover records the scrub bar position under the pointer and returns the
// nearest thumbnail. Playback is not moved.
func (c *Controller) Hover(p float64) (filmstrip.Thumbnail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := clampUnit(p) * c.state.Duration
	c.state.HoverTime = &t
	return filmstrip.Nearest(c.thumbs, t)
}

// ClearHover forgets the scrub bar hover position.
func (c *Controller) ClearHover() {
	c.mu.Lock()
	c.state.HoverTime = nil
	c.mu.Unlock()
}

// SetHovering records whether the pointer is over the player.
func (c *Controller) SetHovering(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hovering == on {
		return
	}
	c.hovering = on
	c.updateControlsLocked()
}

// SetScrubbing records whether a scrub drag is in progress.
func (c *Controller) SetScrubbing(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scrubbing == on {
		return
	}
	c.scrubbing = on
	c.updateControlsLocked()
}

// SetVolume sets the volume, clamped to [0,1]. Zero volume reads as muted.
func (c *Controller) SetVolume(ctx context.Context, v float64) error {
	v = clampUnit(v)
	if err := c.media.SetVolume(ctx, v); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}
	c.mu.Lock()
	c.state.Volume = v
	c.state.IsMuted = v == 0
	c.mu.Unlock()
	return nil
}

// ToggleMute flips the mute state.
func (c *Controller) ToggleMute(ctx context.Context) error {
	muted := !c.State().IsMuted
	if err := c.media.SetMuted(ctx, muted); err != nil {
		return fmt.Errorf("set mute: %w", err)
	}
	c.mu.Lock()
	c.state.IsMuted = muted
	c.mu.Unlock()
	return nil
}

// CyclePlaybackRate advances to the next rate in PlaybackRates.
func (c *Controller) CyclePlaybackRate(ctx context.Context) (float64, error) {
	next := NextRate(c.State().PlaybackRate)
	if err := c.media.SetSpeed(ctx, next); err != nil {
		return 0, fmt.Errorf("set speed: %w", err)
	}
	c.mu.Lock()
	c.state.PlaybackRate = next
	c.mu.Unlock()
	return next, nil
}

// ToggleFullscreen asks the backend to enter or leave fullscreen. The state
// follows the backend's EventFullscreenChange, so exits made outside the app
// are tracked too.
func (c *Controller) ToggleFullscreen(ctx context.Context) error {
	fs, ok := c.media.(Fullscreener)
	if !ok {
		return ErrUnsupported
	}
	return fs.SetFullscreen(ctx, !c.State().Fullscreen)
}

// FreezeFrame captures the current frame at native resolution as a PNG data
// URI and hands it to the OnFreezeFrame callback.
func (c *Controller) FreezeFrame(ctx context.Context) (Freeze, error) {
	capt, ok := c.media.(FrameCapturer)
	if !ok {
		return Freeze{}, ErrUnsupported
	}
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()
	if err := c.borrow(gen); err != nil {
		return Freeze{}, err
	}
	t, err := c.media.Position(ctx)
	if err != nil {
		c.release()
		return Freeze{}, fmt.Errorf("read position: %w", err)
	}
	img, err := capt.CaptureFrame(ctx)
	c.release()
	if err != nil {
		return Freeze{}, fmt.Errorf("capture frame: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Freeze{}, fmt.Errorf("encode frame: %w", err)
	}
	b := img.Bounds()
	f := Freeze{
		DataURI: dataurl.Encode("image/png", buf.Bytes()),
		Time:    t,
		Width:   b.Dx(),
		Height:  b.Dy(),
	}
	if c.opts.OnFreezeFrame != nil {
		c.opts.OnFreezeFrame(f.DataURI, f.Time)
	}
	return f, nil
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen
}

func (c *Controller) borrow(gen uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return ErrStale
	}
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) setAnalyzing(on bool) {
	c.mu.Lock()
	c.state.Analyzing = on
	c.mu.Unlock()
}

func (c *Controller) setPlayingLocked(on bool) {
	if c.state.IsPlaying == on {
		return
	}
	c.state.IsPlaying = on
	c.updateControlsLocked()
}

// updateControlsLocked re-arms the auto-hide timer after any change to
// hover, scrub or play state.
func (c *Controller) updateControlsLocked() {
	c.stopHideLocked()
	if c.hovering || c.scrubbing || !c.state.IsPlaying {
		c.state.ControlsVisible = true
		return
	}
	c.hideToken++
	token := c.hideToken
	c.hideTimer = time.AfterFunc(c.opts.HideDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.hideToken == token {
			c.state.ControlsVisible = false
			c.hideTimer = nil
		}
	})
}

func (c *Controller) stopHideLocked() {
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
	c.hideToken++
}

// clampTime keeps t in [0, duration]. Before metadata arrives the duration
// is 0, so every seek lands on 0.
func clampTime(t, duration float64) float64 {
	if t < 0 || math.IsNaN(t) {
		return 0
	}
	return min(t, max(duration, 0))
}

func clampUnit(p float64) float64 {
	if p < 0 || math.IsNaN(p) {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
