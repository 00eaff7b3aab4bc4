// Package filmstrip samples a video into a small, time-indexed set of
// thumbnails used to preview positions on the scrub bar.
package filmstrip

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"math"
	"runtime"

	"github.com/user/studio-review/pkg/dataurl"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

const (
	// Width and Height are the thumbnail canvas size in pixels.
	Width  = 120
	Height = 68
	// Quality is the JPEG quality of each thumbnail.
	Quality = 60

	slowMotionFPS      = 60
	slowMotionCap      = 120
	slowMotionMaxRate  = 4.0
	normalCap          = 60
	normalPerSecond    = 1.0
	slowMotionBaseRate = 30.0
)

// Thumbnail is one filmstrip frame. URL is a JPEG data URI.
type Thumbnail struct {
	Time float64 `json:"time"`
	URL  string  `json:"url"`
}

// Plan is the sampling schedule for one video.
type Plan struct {
	Count      int
	Interval   float64
	PerSecond  float64
	SlowMotion bool
}

// NewPlan picks the sampling density from the detected frame rate. Sources
// at 60 fps or more are treated as slow motion and sampled more densely.
func NewPlan(duration float64, fps int) Plan {
	p := Plan{PerSecond: normalPerSecond}
	limit := normalCap
	if fps >= slowMotionFPS {
		p.SlowMotion = true
		p.PerSecond = math.Min(slowMotionMaxRate, float64(fps)/slowMotionBaseRate)
		limit = slowMotionCap
	}
	if !(duration > 0) || math.IsInf(duration, 0) {
		return p
	}
	p.Count = min(int(math.Ceil(duration*p.PerSecond)), limit)
	p.Interval = duration / float64(p.Count)
	return p
}

// Times returns the sample times in ascending order.
func (p Plan) Times() []float64 {
	out := make([]float64, p.Count)
	for i := range out {
		out[i] = float64(i) * p.Interval
	}
	return out
}

// Source is the media a filmstrip is sampled from. Seek must return only
// after the new position is ready to be captured.
type Source interface {
	Position(ctx context.Context) (float64, error)
	Paused(ctx context.Context) (bool, error)
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Seek(ctx context.Context, t float64) error
}

// Capturer grabs the frame at the current position. Each call must return a
// new image that the caller may keep.
type Capturer interface {
	CaptureFrame(ctx context.Context) (image.Image, error)
}

// Options tune thumbnail generation.
type Options struct {
	Width   int
	Height  int
	Quality int
	// Workers bounds concurrent scaling and encoding. Capture itself is
	// always sequential.
	Workers int
	Log     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = Width
	}
	if o.Height <= 0 {
		o.Height = Height
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = Quality
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Log == nil {
		o.Log = slog.New(slog.DiscardHandler)
	}
	return o
}

// Generate seeks src to every time in plan, in ascending order, and returns
// the thumbnails ordered by time. The source's position and play state are
// restored before Generate returns, even on error or cancellation. A source
// that cannot capture frames yields no thumbnails and no error.
func Generate(ctx context.Context, src Source, plan Plan, opts Options) (thumbs []Thumbnail, err error) {
	capt, ok := src.(Capturer)
	if !ok || plan.Count == 0 {
		return nil, nil
	}
	opts = opts.withDefaults()

	original, err := src.Position(ctx)
	if err != nil {
		return nil, fmt.Errorf("read position: %w", err)
	}
	paused, err := src.Paused(ctx)
	if err != nil {
		return nil, fmt.Errorf("read pause state: %w", err)
	}
	wasPlaying := !paused
	if wasPlaying {
		if err := src.Pause(ctx); err != nil {
			return nil, fmt.Errorf("pause: %w", err)
		}
	}
	defer func() {
		rctx := context.WithoutCancel(ctx)
		if rerr := src.Seek(rctx, original); rerr != nil && err == nil {
			err = fmt.Errorf("restore position: %w", rerr)
		}
		if wasPlaying {
			if rerr := src.Play(rctx); rerr != nil && err == nil {
				err = fmt.Errorf("resume: %w", rerr)
			}
		}
	}()

	times := plan.Times()
	thumbs = make([]Thumbnail, len(times))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	var loopErr error
	for i, t := range times {
		if gctx.Err() != nil {
			break
		}
		if err := src.Seek(gctx, t); err != nil {
			loopErr = fmt.Errorf("seek %.3f: %w", t, err)
			break
		}
		frame, err := capt.CaptureFrame(gctx)
		if err != nil {
			loopErr = fmt.Errorf("capture %.3f: %w", t, err)
			break
		}
		g.Go(func() error {
			url, err := Encode(frame, opts.Width, opts.Height, opts.Quality)
			if err != nil {
				return fmt.Errorf("encode %.3f: %w", t, err)
			}
			thumbs[i] = Thumbnail{Time: t, URL: url}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if loopErr != nil {
		return nil, loopErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts.Log.Debug("filmstrip generated", "count", len(thumbs), "interval", plan.Interval, "slowmo", plan.SlowMotion)
	return thumbs, nil
}

// Encode scales frame to w×h and returns it as a JPEG data URI.
func Encode(frame image.Image, w, h, quality int) (string, error) {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), frame, frame.Bounds(), draw.Src, nil)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return "", err
	}
	return dataurl.Encode("image/jpeg", buf.Bytes()), nil
}

// Nearest returns the thumbnail whose time is closest to t. Ties go to the
// earlier entry. A linear scan is fine for the bounded filmstrip size.
func Nearest(thumbs []Thumbnail, t float64) (Thumbnail, bool) {
	if len(thumbs) == 0 {
		return Thumbnail{}, false
	}
	best := thumbs[0]
	for _, th := range thumbs[1:] {
		if math.Abs(th.Time-t) < math.Abs(best.Time-t) {
			best = th
		}
	}
	return best, true
}
