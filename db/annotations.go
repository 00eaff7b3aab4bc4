package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/geom"
)

// SelectAnnotations returns the annotations of a video in list order.
func SelectAnnotations(db *sql.DB, videoID int64) ([]annotation.Annotation, error) {
	rows, err := db.Query(SelectAnnotationsByVideoSQL, videoID)
	if err != nil {
		return nil, fmt.Errorf("select annotations: %w", err)
	}
	defer rows.Close()

	var out []annotation.Annotation
	for rows.Next() {
		var (
			a      annotation.Annotation
			end    sql.NullFloat64
			shapes string
		)
		if err := rows.Scan(&a.ID, &a.StartTime, &end, &a.Label, &shapes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		if end.Valid {
			a.EndTime = annotation.Seconds(end.Float64)
		}
		var ss geom.Shapes
		if err := json.Unmarshal([]byte(shapes), &ss); err != nil {
			return nil, fmt.Errorf("decode shapes of annotation %s: %w", a.ID, err)
		}
		a.Shapes = ss
		out = append(out, a)
	}
	return out, rows.Err()
}

// ReplaceAnnotations swaps the stored list of a video for list in one transaction.
func ReplaceAnnotations(db *sql.DB, videoID int64, list []annotation.Annotation) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(DeleteAnnotationsByVideoSQL, videoID); err != nil {
		return fmt.Errorf("delete annotations: %w", err)
	}
	for i, a := range list {
		shapes, err := json.Marshal(a.Shapes)
		if err != nil {
			return fmt.Errorf("encode shapes of annotation %s: %w", a.ID, err)
		}
		var end any
		if a.EndTime != nil {
			end = *a.EndTime
		}
		created := a.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		if _, err := tx.Exec(InsertAnnotationSQL, a.ID, videoID, i, a.StartTime, end, a.Label, string(shapes), created); err != nil {
			return fmt.Errorf("insert annotation %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

// AnnotationSink keeps a video's annotation list in memory and writes every
// replacement through to the database.
type AnnotationSink struct {
	db      *sql.DB
	videoID int64
	log     *slog.Logger
	local   *annotation.LocalSink

	mu  sync.Mutex
	err error
}

// NewAnnotationSink loads the stored annotations of videoID.
func NewAnnotationSink(db *sql.DB, videoID int64, log *slog.Logger) (*AnnotationSink, error) {
	list, err := SelectAnnotations(db, videoID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &AnnotationSink{db: db, videoID: videoID, log: log, local: annotation.NewLocalSink(list)}, nil
}

func (s *AnnotationSink) Get() []annotation.Annotation {
	return s.local.Get()
}

// Set publishes next in memory first; a failed write is logged and kept
// for Err.
func (s *AnnotationSink) Set(next []annotation.Annotation) {
	s.local.Set(next)
	err := ReplaceAnnotations(s.db, s.videoID, next)
	if err != nil {
		s.log.Error("persist annotations", "video_id", s.videoID, "count", len(next), "err", err)
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Err returns the result of the last write.
func (s *AnnotationSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

var _ annotation.Sink = (*AnnotationSink)(nil)
