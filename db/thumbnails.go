package db

import (
	"database/sql"
	"fmt"

	"github.com/user/studio-review/filmstrip"
)

// ReplaceThumbnails stores a video's filmstrip, dropping any previous one.
func ReplaceThumbnails(db *sql.DB, videoID int64, thumbs []filmstrip.Thumbnail) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(DeleteThumbnailsByVideoSQL, videoID); err != nil {
		return fmt.Errorf("delete thumbnails: %w", err)
	}
	for _, th := range thumbs {
		if _, err := tx.Exec(InsertThumbnailSQL, videoID, th.Time, th.URL); err != nil {
			return fmt.Errorf("insert thumbnail at %.3f: %w", th.Time, err)
		}
	}
	return tx.Commit()
}

// SelectThumbnails returns a video's filmstrip in ascending time order.
func SelectThumbnails(db *sql.DB, videoID int64) ([]filmstrip.Thumbnail, error) {
	rows, err := db.Query(SelectThumbnailsByVideoSQL, videoID)
	if err != nil {
		return nil, fmt.Errorf("select thumbnails: %w", err)
	}
	defer rows.Close()

	var out []filmstrip.Thumbnail
	for rows.Next() {
		var th filmstrip.Thumbnail
		if err := rows.Scan(&th.Time, &th.URL); err != nil {
			return nil, fmt.Errorf("scan thumbnail: %w", err)
		}
		out = append(out, th)
	}
	return out, rows.Err()
}
