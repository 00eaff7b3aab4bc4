package db

import (
	"database/sql"
	"fmt"
	"time"
)

// EnqueueJob adds a pending job and returns its ID.
func EnqueueJob(db *sql.DB, videoID int64, kind JobKind, annotationID, outputPath string) (int64, error) {
	result, err := db.Exec(InsertJobSQL, videoID, string(kind), annotationID, outputPath)
	if err != nil {
		return 0, fmt.Errorf("insert job: %w", err)
	}
	return result.LastInsertId()
}

// NextPendingJob returns the oldest pending job, or nil when the queue is empty.
func NextPendingJob(db *sql.DB) (*PendingJob, error) {
	var j PendingJob
	var kind string
	err := db.QueryRow(SelectNextPendingJobSQL).Scan(&j.ID, &j.VideoID, &j.VideoPath, &kind, &j.AnnotationID, &j.OutputPath)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select next pending job: %w", err)
	}
	j.Kind = JobKind(kind)
	return &j, nil
}

// SelectJobs returns a video's jobs in queue order.
func SelectJobs(db *sql.DB, videoID int64) ([]Job, error) {
	rows, err := db.Query(SelectJobsByVideoSQL, videoID)
	if err != nil {
		return nil, fmt.Errorf("select jobs: %w", err)
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var (
			j                        Job
			kind                     string
			started, finished, errAt sql.NullTime
		)
		if err := rows.Scan(&j.ID, &j.VideoID, &kind, &j.AnnotationID, &j.OutputPath, &j.Status, &j.Filesize,
			&started, &finished, &errAt, &j.Log, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		j.Kind = JobKind(kind)
		j.StartedAt = nullTime(started)
		j.FinishedAt = nullTime(finished)
		j.ErrorAt = nullTime(errAt)
		out = append(out, j)
	}
	return out, rows.Err()
}

// MarkJobProcessing sets status to processing and records the start time.
func MarkJobProcessing(db *sql.DB, id int64) error {
	if _, err := db.Exec(MarkJobProcessingSQL, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark job processing: %w", err)
	}
	return nil
}

// MarkJobComplete sets status to complete with the output size.
func MarkJobComplete(db *sql.DB, id int64, filesize int64) error {
	if _, err := db.Exec(MarkJobCompleteSQL, time.Now().UTC(), filesize, id); err != nil {
		return fmt.Errorf("mark job complete: %w", err)
	}
	return nil
}

// MarkJobError sets status to error and keeps the failure text.
func MarkJobError(db *sql.DB, id int64, msg string) error {
	if _, err := db.Exec(MarkJobErrorSQL, time.Now().UTC(), msg, id); err != nil {
		return fmt.Errorf("mark job error: %w", err)
	}
	return nil
}

// ResetStaleJobs puts jobs left processing by a crashed run back in the queue.
func ResetStaleJobs(db *sql.DB) (int64, error) {
	result, err := db.Exec(ResetStaleJobsSQL)
	if err != nil {
		return 0, fmt.Errorf("reset stale jobs: %w", err)
	}
	return result.RowsAffected()
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
