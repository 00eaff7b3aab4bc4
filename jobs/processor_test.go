package jobs

import (
	"context"
	"database/sql"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/db"
	"github.com/user/studio-review/ffmpeg"
	"github.com/user/studio-review/filmstrip"
	"github.com/user/studio-review/geom"
)

type fakeSource struct {
	pos      float64
	paused   bool
	duration float64
	fps      float64
}

func (s *fakeSource) Position(context.Context) (float64, error) { return s.pos, nil }
func (s *fakeSource) Paused(context.Context) (bool, error)      { return s.paused, nil }
func (s *fakeSource) Play(context.Context) error                { s.paused = false; return nil }
func (s *fakeSource) Pause(context.Context) error               { s.paused = true; return nil }
func (s *fakeSource) Seek(_ context.Context, t float64) error   { s.pos = t; return nil }
func (s *fakeSource) Duration(context.Context) (float64, error) { return s.duration, nil }
func (s *fakeSource) DeclaredFrameRate(context.Context) (float64, error) {
	return s.fps, nil
}
func (s *fakeSource) CaptureFrame(context.Context) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 16, 9)), nil
}

func setup(t *testing.T) (*sql.DB, int64, *Processor) {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), db.FileName))
	if err != nil {
		t.Fatalf("db.Open() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	videoID, err := db.EnsureVideo(conn, "/footage/match.mp4", 100)
	if err != nil {
		t.Fatal(err)
	}
	p := NewProcessor(conn, nil, filmstrip.Options{Workers: 2})
	p.open = func(context.Context, string) (Source, error) {
		return &fakeSource{pos: 1, paused: true, duration: 5, fps: 59.94}, nil
	}
	p.probe = func(_ context.Context, path string) (ffmpeg.Info, error) {
		return ffmpeg.Info{Path: path, Duration: 30, Width: 640, Height: 360, FPS: 25}, nil
	}
	return conn, videoID, p
}

func TestFilmstripJob(t *testing.T) {
	conn, videoID, p := setup(t)
	if _, err := db.EnqueueJob(conn, videoID, db.JobFilmstrip, "", ""); err != nil {
		t.Fatal(err)
	}

	ran, err := p.ProcessNext(context.Background())
	if !ran || err != nil {
		t.Fatalf("ProcessNext() = %v, %v, want true, nil", ran, err)
	}
	thumbs, err := db.SelectThumbnails(conn, videoID)
	if err != nil {
		t.Fatal(err)
	}
	// 60 fps is slow motion: 2 per second over 5 seconds.
	if len(thumbs) != 10 {
		t.Errorf("thumbnails = %d, want 10", len(thumbs))
	}
	v, _ := db.SelectVideoByID(conn, videoID)
	if v.Duration != 5 || v.FPS != 60 {
		t.Errorf("video metadata = %v/%v, want 5/60", v.Duration, v.FPS)
	}
	jobs, _ := db.SelectJobs(conn, videoID)
	if jobs[0].Status != db.JobComplete {
		t.Errorf("job status = %q, want complete", jobs[0].Status)
	}

	if ran, _ := p.ProcessNext(context.Background()); ran {
		t.Error("ProcessNext() on empty queue ran a job")
	}
}

func TestClipJob(t *testing.T) {
	conn, videoID, p := setup(t)
	a := annotation.New(12, geom.Line{Style: geom.Style{ID: "l", Color: geom.Green, StrokeWidth: 2}, End: geom.Point{X: 50, Y: 50}})
	a.EndTime = annotation.Seconds(20)
	if err := db.ReplaceAnnotations(conn, videoID, []annotation.Annotation{a}); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "clip.mp4")
	var gotStart, gotEnd float64
	var script string
	p.cut = func(_ context.Context, videoPath string, start, end float64, outputPath, subs string) error {
		gotStart, gotEnd = start, end
		data, err := os.ReadFile(subs)
		if err != nil {
			return err
		}
		script = string(data)
		return os.WriteFile(outputPath, []byte("mp4!"), 0644)
	}
	var done []error
	p.OnDone = func(_ db.PendingJob, err error) { done = append(done, err) }

	if _, err := db.EnqueueJob(conn, videoID, db.JobClip, a.ID, out); err != nil {
		t.Fatal(err)
	}
	if err := p.Drain(context.Background()); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if gotStart != 12 || gotEnd != 20 {
		t.Errorf("cut window = %v-%v, want 12-20", gotStart, gotEnd)
	}
	if !strings.Contains(script, "PlayResX: 640") || !strings.Contains(script, "Dialogue: 0,0:00:00.00,0:00:08.00") {
		t.Errorf("subtitles = %s", script)
	}
	jobs, _ := db.SelectJobs(conn, videoID)
	if jobs[0].Status != db.JobComplete || jobs[0].Filesize != 4 {
		t.Errorf("job = %+v, want complete with size 4", jobs[0])
	}
	if len(done) != 1 || done[0] != nil {
		t.Errorf("OnDone calls = %v", done)
	}
}

func TestFailedJobs(t *testing.T) {
	conn, videoID, p := setup(t)
	_, _ = db.EnqueueJob(conn, videoID, db.JobClip, "missing", "")
	_, _ = db.EnqueueJob(conn, videoID, "transcode", "", "")

	err := p.Drain(context.Background())
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("Drain() error = %v, want ErrNotFound first", err)
	}
	jobs, _ := db.SelectJobs(conn, videoID)
	for _, j := range jobs {
		if j.Status != db.JobError || j.Log == "" {
			t.Errorf("job %d = %q %q, want error with log", j.ID, j.Status, j.Log)
		}
	}
	if !strings.Contains(jobs[1].Log, "unknown job kind") {
		t.Errorf("unknown kind log = %q", jobs[1].Log)
	}
}

func TestStartRunsQueuedJobs(t *testing.T) {
	conn, videoID, p := setup(t)
	p.Interval = 10 * time.Millisecond

	var mu sync.Mutex
	finished := make(chan struct{})
	p.OnDone = func(db.PendingJob, error) {
		mu.Lock()
		defer mu.Unlock()
		select {
		case <-finished:
		default:
			close(finished)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	if _, err := db.EnqueueJob(conn, videoID, db.JobFilmstrip, "", ""); err != nil {
		t.Fatal(err)
	}
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("background processor did not run the job")
	}
}
