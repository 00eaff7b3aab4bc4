package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/filmstrip"
	"github.com/user/studio-review/geom"
)

func openTest(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "nested", FileName))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func testVideo(t *testing.T, conn *sql.DB) int64 {
	t.Helper()
	id, err := EnsureVideo(conn, "/videos/session.mp4", 1024)
	if err != nil {
		t.Fatalf("EnsureVideo() error = %v", err)
	}
	return id
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	for i := 0; i < 2; i++ {
		conn, err := Open(path)
		if err != nil {
			t.Fatalf("Open() #%d error = %v", i+1, err)
		}
		var n int
		if err := conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
			t.Fatalf("count migrations: %v", err)
		}
		if n != 1 {
			t.Errorf("applied migrations = %d, want 1", n)
		}
		conn.Close()
	}
}

func TestEnsureVideo(t *testing.T) {
	conn := openTest(t)
	id := testVideo(t, conn)
	again, err := EnsureVideo(conn, "/videos/session.mp4", 2048)
	if err != nil {
		t.Fatalf("EnsureVideo() error = %v", err)
	}
	if again != id {
		t.Errorf("EnsureVideo() = %d, want existing %d", again, id)
	}

	if err := UpdateVideoMetadata(conn, id, 93.5, 60); err != nil {
		t.Fatalf("UpdateVideoMetadata() error = %v", err)
	}
	if err := UpdateVideoStopTime(conn, id, 12.25); err != nil {
		t.Fatalf("UpdateVideoStopTime() error = %v", err)
	}
	v, err := SelectVideoByID(conn, id)
	if err != nil {
		t.Fatalf("SelectVideoByID() error = %v", err)
	}
	if v.Filename != "session.mp4" || v.Extension != "mp4" || v.Filesize != 1024 {
		t.Errorf("video = %+v", v)
	}
	if v.Duration != 93.5 || v.FPS != 60 || v.StopTime != 12.25 {
		t.Errorf("metadata = %v/%v/%v, want 93.5/60/12.25", v.Duration, v.FPS, v.StopTime)
	}

	if _, err := SelectVideoByPath(conn, "/missing.mp4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SelectVideoByPath(missing) error = %v, want ErrNotFound", err)
	}
	videos, err := SelectVideos(conn)
	if err != nil || len(videos) != 1 {
		t.Errorf("SelectVideos() = %d videos, %v, want 1", len(videos), err)
	}
}

func TestReplaceAnnotations(t *testing.T) {
	conn := openTest(t)
	id := testVideo(t, conn)

	style := geom.Style{ID: "s1", Color: geom.Red, StrokeWidth: 3}
	first := annotation.New(1.5, geom.Circle{Style: style, Center: geom.Point{X: 50, Y: 50}, Radius: 10})
	first.Label = "Pressure"
	second := annotation.New(4, geom.Line{Style: style, Start: geom.Point{X: 1, Y: 2}, End: geom.Point{X: 30, Y: 40}})
	second.EndTime = annotation.Seconds(6)

	if err := ReplaceAnnotations(conn, id, []annotation.Annotation{second, first}); err != nil {
		t.Fatalf("ReplaceAnnotations() error = %v", err)
	}
	got, err := SelectAnnotations(conn, id)
	if err != nil {
		t.Fatalf("SelectAnnotations() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("SelectAnnotations() order = %v", got)
	}
	if got[0].EndTime == nil || *got[0].EndTime != 6 {
		t.Errorf("EndTime = %v, want 6", got[0].EndTime)
	}
	if got[1].EndTime != nil || got[1].Label != "Pressure" {
		t.Errorf("second = %+v", got[1])
	}
	c, ok := got[1].Shapes[0].(geom.Circle)
	if !ok || c.Radius != 10 || c.Color != geom.Red {
		t.Errorf("shape = %#v, want red circle r=10", got[1].Shapes[0])
	}

	if err := ReplaceAnnotations(conn, id, nil); err != nil {
		t.Fatalf("ReplaceAnnotations(nil) error = %v", err)
	}
	if got, _ := SelectAnnotations(conn, id); len(got) != 0 {
		t.Errorf("after clear = %d annotations, want 0", len(got))
	}
}

func TestAnnotationSink(t *testing.T) {
	conn := openTest(t)
	id := testVideo(t, conn)

	sink, err := NewAnnotationSink(conn, id, nil)
	if err != nil {
		t.Fatalf("NewAnnotationSink() error = %v", err)
	}
	store := annotation.NewStore(sink, nil)
	a := annotation.New(2, geom.Arrow{Style: geom.Style{ID: "x", Color: geom.Yellow, StrokeWidth: 3}, End: geom.Point{X: 10, Y: 10}})
	if err := store.Add(a); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	store.SetLabel(a.ID, "Ruck")
	if err := sink.Err(); err != nil {
		t.Fatalf("sink.Err() = %v", err)
	}

	reloaded, err := NewAnnotationSink(conn, id, nil)
	if err != nil {
		t.Fatalf("NewAnnotationSink() reload error = %v", err)
	}
	list := reloaded.Get()
	if len(list) != 1 || list[0].Label != "Ruck" {
		t.Errorf("reloaded = %+v, want one labelled Ruck", list)
	}
}

func TestThumbnails(t *testing.T) {
	conn := openTest(t)
	id := testVideo(t, conn)

	thumbs := []filmstrip.Thumbnail{{Time: 0, URL: "data:image/jpeg;base64,AA=="}, {Time: 1.5, URL: "data:image/jpeg;base64,AQ=="}}
	if err := ReplaceThumbnails(conn, id, thumbs); err != nil {
		t.Fatalf("ReplaceThumbnails() error = %v", err)
	}
	if err := ReplaceThumbnails(conn, id, thumbs[1:]); err != nil {
		t.Fatalf("ReplaceThumbnails() second error = %v", err)
	}
	got, err := SelectThumbnails(conn, id)
	if err != nil {
		t.Fatalf("SelectThumbnails() error = %v", err)
	}
	if len(got) != 1 || got[0] != thumbs[1] {
		t.Errorf("SelectThumbnails() = %v, want %v", got, thumbs[1:])
	}
}

func TestSessionNote(t *testing.T) {
	conn := openTest(t)
	id := testVideo(t, conn)

	if _, err := SelectSessionNote(conn, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("SelectSessionNote() error = %v, want ErrNotFound", err)
	}
	for _, md := range []string{"# Draft", "# Final\n\n- [x] review"} {
		if err := SaveSessionNote(conn, id, md); err != nil {
			t.Fatalf("SaveSessionNote() error = %v", err)
		}
	}
	n, err := SelectSessionNote(conn, id)
	if err != nil {
		t.Fatalf("SelectSessionNote() error = %v", err)
	}
	if n.Markdown != "# Final\n\n- [x] review" {
		t.Errorf("Markdown = %q", n.Markdown)
	}
}

func TestFreezeFrames(t *testing.T) {
	conn := openTest(t)
	id := testVideo(t, conn)

	for _, at := range []float64{30, 5} {
		if _, err := InsertFreezeFrame(conn, FreezeFrame{VideoID: id, Title: "Freeze Frame", Time: at, Width: 2, Height: 2, DataURI: "data:image/png;base64,AA=="}); err != nil {
			t.Fatalf("InsertFreezeFrame() error = %v", err)
		}
	}
	got, err := SelectFreezeFrames(conn, id)
	if err != nil {
		t.Fatalf("SelectFreezeFrames() error = %v", err)
	}
	if len(got) != 2 || got[0].Time != 5 || got[1].Time != 30 {
		t.Errorf("SelectFreezeFrames() times = %v", got)
	}
}

func TestJobQueue(t *testing.T) {
	conn := openTest(t)
	id := testVideo(t, conn)

	if j, err := NextPendingJob(conn); err != nil || j != nil {
		t.Fatalf("NextPendingJob(empty) = %v, %v, want nil, nil", j, err)
	}
	first, _ := EnqueueJob(conn, id, JobFilmstrip, "", "")
	second, _ := EnqueueJob(conn, id, JobClip, "ann-1", "/out/clip.mp4")

	j, err := NextPendingJob(conn)
	if err != nil || j == nil || j.ID != first || j.Kind != JobFilmstrip || j.VideoPath != "/videos/session.mp4" {
		t.Fatalf("NextPendingJob() = %+v, %v", j, err)
	}
	if err := MarkJobProcessing(conn, first); err != nil {
		t.Fatal(err)
	}
	j, _ = NextPendingJob(conn)
	if j == nil || j.ID != second || j.AnnotationID != "ann-1" {
		t.Fatalf("NextPendingJob() after processing = %+v", j)
	}

	if n, err := ResetStaleJobs(conn); err != nil || n != 1 {
		t.Errorf("ResetStaleJobs() = %d, %v, want 1", n, err)
	}
	if err := MarkJobComplete(conn, first, 4096); err != nil {
		t.Fatal(err)
	}
	if err := MarkJobError(conn, second, "ffmpeg failed"); err != nil {
		t.Fatal(err)
	}
	jobs, err := SelectJobs(conn, id)
	if err != nil {
		t.Fatalf("SelectJobs() error = %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("SelectJobs() = %d jobs, want 2", len(jobs))
	}
	if jobs[0].Status != JobComplete || jobs[0].Filesize != 4096 || jobs[0].FinishedAt == nil {
		t.Errorf("first job = %+v", jobs[0])
	}
	if jobs[1].Status != JobError || jobs[1].Log != "ffmpeg failed" || jobs[1].ErrorAt == nil {
		t.Errorf("second job = %+v", jobs[1])
	}
}
