// Package jobs runs queued background work for a review: filmstrip
// generation and annotated clip export.
package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/user/studio-review/db"
	"github.com/user/studio-review/ffmpeg"
	"github.com/user/studio-review/filmstrip"
	"github.com/user/studio-review/pkg/export"
	"github.com/user/studio-review/render"
)

// DefaultInterval is how long an idle processor waits before polling again.
const DefaultInterval = 2 * time.Second

// ErrUnknownKind is recorded for jobs this processor cannot run.
var ErrUnknownKind = errors.New("jobs: unknown job kind")

// Source is the headless media a filmstrip is sampled from.
type Source interface {
	filmstrip.Source
	Duration(ctx context.Context) (float64, error)
	DeclaredFrameRate(ctx context.Context) (float64, error)
}

// Processor manages the background job worker.
type Processor struct {
	DB        *sql.DB
	Log       *slog.Logger
	Filmstrip filmstrip.Options
	Interval  time.Duration
	// OnDone, when set, is called after every job with its outcome.
	OnDone func(job db.PendingJob, err error)

	open  func(ctx context.Context, path string) (Source, error)
	probe func(ctx context.Context, path string) (ffmpeg.Info, error)
	cut   func(ctx context.Context, videoPath string, start, end float64, outputPath, subtitlesPath string) error
}

// NewProcessor returns a processor backed by ffmpeg.
func NewProcessor(conn *sql.DB, log *slog.Logger, opts filmstrip.Options) *Processor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Processor{
		DB:        conn,
		Log:       log,
		Filmstrip: opts,
		Interval:  DefaultInterval,
		open: func(ctx context.Context, path string) (Source, error) {
			return ffmpeg.Open(ctx, path)
		},
		probe: ffmpeg.Probe,
		cut:   export.RunFfmpeg,
	}
}

// Start launches a goroutine that continuously polls for pending jobs and processes them.
// The goroutine exits when ctx is cancelled.
func (p *Processor) Start(ctx context.Context) {
	if n, err := db.ResetStaleJobs(p.DB); err != nil {
		p.Log.Warn("reset stale jobs", "err", err)
	} else if n > 0 {
		p.Log.Info("requeued stale jobs", "count", n)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			ran, err := p.ProcessNext(ctx)
			if err != nil {
				p.Log.Warn("job queue", "err", err)
			}
			if ran {
				continue
			}
			// Queue empty or unreadable; sleep and retry.
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.interval()):
			}
		}
	}()
}

// Drain runs pending jobs until the queue is empty and returns the first
// job failure, if any.
func (p *Processor) Drain(ctx context.Context) error {
	var first error
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		job, err := db.NextPendingJob(p.DB)
		if err != nil {
			return err
		}
		if job == nil {
			return first
		}
		if err := p.run(ctx, job); err != nil && first == nil {
			first = err
		}
	}
}

// ProcessNext runs the oldest pending job. It reports false when the queue
// was empty. Job failures are recorded on the job, not returned.
func (p *Processor) ProcessNext(ctx context.Context) (bool, error) {
	job, err := db.NextPendingJob(p.DB)
	if err != nil || job == nil {
		return false, err
	}
	_ = p.run(ctx, job)
	return true, nil
}

func (p *Processor) run(ctx context.Context, job *db.PendingJob) error {
	log := p.Log.With("job_id", job.ID, "kind", job.Kind, "video", job.VideoPath)
	if err := db.MarkJobProcessing(p.DB, job.ID); err != nil {
		return err
	}
	log.Info("job started")
	started := time.Now()

	var (
		size int64
		err  error
	)
	switch job.Kind {
	case db.JobFilmstrip:
		err = p.generateFilmstrip(ctx, job)
	case db.JobClip:
		size, err = p.exportClip(ctx, job)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownKind, job.Kind)
	}

	if err != nil {
		log.Error("job failed", "err", err)
		if markErr := db.MarkJobError(p.DB, job.ID, err.Error()); markErr != nil {
			log.Error("mark job error", "err", markErr)
		}
	} else {
		log.Info("job complete", "elapsed", time.Since(started).Round(time.Millisecond), "filesize", size)
		if markErr := db.MarkJobComplete(p.DB, job.ID, size); markErr != nil {
			log.Error("mark job complete", "err", markErr)
		}
	}
	if p.OnDone != nil {
		p.OnDone(*job, err)
	}
	return err
}

func (p *Processor) generateFilmstrip(ctx context.Context, job *db.PendingJob) error {
	src, err := p.open(ctx, job.VideoPath)
	if err != nil {
		return err
	}
	duration, err := src.Duration(ctx)
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	fps, err := src.DeclaredFrameRate(ctx)
	if err != nil || fps <= 0 {
		fps = 30
	}
	rounded := int(math.Round(fps))
	if err := db.UpdateVideoMetadata(p.DB, job.VideoID, duration, rounded); err != nil {
		return err
	}

	opts := p.Filmstrip
	opts.Log = p.Log
	thumbs, err := filmstrip.Generate(ctx, src, filmstrip.NewPlan(duration, rounded), opts)
	if err != nil {
		return err
	}
	return db.ReplaceThumbnails(p.DB, job.VideoID, thumbs)
}

func (p *Processor) exportClip(ctx context.Context, job *db.PendingJob) (int64, error) {
	list, err := db.SelectAnnotations(p.DB, job.VideoID)
	if err != nil {
		return 0, err
	}
	idx := -1
	for i, a := range list {
		if a.ID == job.AnnotationID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, fmt.Errorf("annotation %s: %w", job.AnnotationID, db.ErrNotFound)
	}

	info, err := p.probe(ctx, job.VideoPath)
	if err != nil {
		return 0, err
	}
	start, end := export.ClipBounds(list[idx], info.Duration)

	out := job.OutputPath
	if out == "" {
		out = export.BuildClipPath(job.VideoPath, list[idx].DisplayName(idx+1), start)
	}

	subs, err := os.CreateTemp("", "studio-review-*.ass")
	if err != nil {
		return 0, err
	}
	defer os.Remove(subs.Name())
	_, err = subs.WriteString(render.Script(list, info.Width, info.Height, start, end))
	if closeErr := subs.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("write subtitles: %w", err)
	}

	if err := p.cut(ctx, job.VideoPath, start, end, out, subs.Name()); err != nil {
		return 0, err
	}
	st, err := os.Stat(out)
	if err != nil {
		return 0, fmt.Errorf("stat output: %w", err)
	}
	p.Log.Info("clip written", "path", filepath.Clean(out))
	return st.Size(), nil
}

func (p *Processor) interval() time.Duration {
	if p.Interval <= 0 {
		return DefaultInterval
	}
	return p.Interval
}
