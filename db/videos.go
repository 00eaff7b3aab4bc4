package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("db: not found")

// EnsureVideo returns the existing video ID for the given path, or inserts a new row and returns its ID.
func EnsureVideo(db *sql.DB, path string, filesize int64) (int64, error) {
	v, err := SelectVideoByPath(db, path)
	if err == nil {
		return v.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}
	base := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	result, err := db.Exec(InsertVideoSQL, path, base, ext, filesize)
	if err != nil {
		return 0, fmt.Errorf("insert video: %w", err)
	}
	return result.LastInsertId()
}

// SelectVideoByPath returns the video with the given path, or ErrNotFound.
func SelectVideoByPath(db *sql.DB, path string) (*Video, error) {
	return scanVideo(db.QueryRow(SelectVideoByPathSQL, path))
}

// SelectVideoByID returns the video with the given ID, or ErrNotFound.
func SelectVideoByID(db *sql.DB, id int64) (*Video, error) {
	return scanVideo(db.QueryRow(SelectVideoByIDSQL, id))
}

// SelectVideos returns every known video, newest first.
func SelectVideos(db *sql.DB) ([]Video, error) {
	rows, err := db.Query(SelectVideosSQL)
	if err != nil {
		return nil, fmt.Errorf("select videos: %w", err)
	}
	defer rows.Close()

	var out []Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// UpdateVideoMetadata records the probed duration and frame rate.
func UpdateVideoMetadata(db *sql.DB, id int64, duration float64, fps int) error {
	if _, err := db.Exec(UpdateVideoMetadataSQL, duration, fps, id); err != nil {
		return fmt.Errorf("update video metadata: %w", err)
	}
	return nil
}

// UpdateVideoStopTime records where playback stopped so a later session can resume there.
func UpdateVideoStopTime(db *sql.DB, id int64, t float64) error {
	if _, err := db.Exec(UpdateVideoStopTimeSQL, t, id); err != nil {
		return fmt.Errorf("update video stop time: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(row scanner) (*Video, error) {
	var v Video
	err := row.Scan(&v.ID, &v.Path, &v.Filename, &v.Extension, &v.Filesize, &v.Duration, &v.FPS, &v.StopTime, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan video: %w", err)
	}
	return &v, nil
}
