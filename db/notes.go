package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SelectSessionNote returns a video's note, or ErrNotFound.
func SelectSessionNote(db *sql.DB, videoID int64) (*SessionNote, error) {
	n := SessionNote{VideoID: videoID}
	err := db.QueryRow(SelectSessionNoteSQL, videoID).Scan(&n.Markdown, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session note: %w", err)
	}
	return &n, nil
}

// SaveSessionNote inserts or replaces a video's note.
func SaveSessionNote(db *sql.DB, videoID int64, markdown string) error {
	if _, err := db.Exec(UpsertSessionNoteSQL, videoID, markdown, time.Now().UTC()); err != nil {
		return fmt.Errorf("save session note: %w", err)
	}
	return nil
}
