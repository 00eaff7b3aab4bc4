package db

import "time"

// Video represents a row in the videos table.
type Video struct {
	ID        int64
	Path      string
	Filename  string
	Extension string
	Filesize  int64
	Duration  float64
	FPS       int
	StopTime  float64
	CreatedAt time.Time
}

// SessionNote represents a row in the session_notes table.
type SessionNote struct {
	VideoID   int64
	Markdown  string
	UpdatedAt time.Time
}

// FreezeFrame represents a row in the freeze_frames table. DataURI is a
// PNG data URI at the video's native resolution.
type FreezeFrame struct {
	ID        int64
	VideoID   int64
	Title     string
	Time      float64
	Width     int
	Height    int
	DataURI   string
	CreatedAt time.Time
}

// JobKind names what a background job produces.
type JobKind string

const (
	JobFilmstrip JobKind = "filmstrip"
	JobClip      JobKind = "clip"
)

// Job status values.
const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobComplete   = "complete"
	JobError      = "error"
)

// Job represents a row in the jobs table.
type Job struct {
	ID           int64
	VideoID      int64
	Kind         JobKind
	AnnotationID string
	OutputPath   string
	Status       string
	Filesize     int64
	StartedAt    *time.Time
	FinishedAt   *time.Time
	ErrorAt      *time.Time
	Log          string
	CreatedAt    time.Time
}

// PendingJob is the next job to run, joined with its video's path.
type PendingJob struct {
	ID           int64
	VideoID      int64
	VideoPath    string
	Kind         JobKind
	AnnotationID string
	OutputPath   string
}
