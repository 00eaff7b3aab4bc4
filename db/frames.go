package db

import (
	"database/sql"
	"fmt"
)

// InsertFreezeFrame stores a captured frame and returns its ID.
func InsertFreezeFrame(db *sql.DB, f FreezeFrame) (int64, error) {
	result, err := db.Exec(InsertFreezeFrameSQL, f.VideoID, f.Title, f.Time, f.Width, f.Height, f.DataURI)
	if err != nil {
		return 0, fmt.Errorf("insert freeze frame: %w", err)
	}
	return result.LastInsertId()
}

// SelectFreezeFrames returns a video's freeze frames ordered by time.
func SelectFreezeFrames(db *sql.DB, videoID int64) ([]FreezeFrame, error) {
	rows, err := db.Query(SelectFreezeFramesByVideoSQL, videoID)
	if err != nil {
		return nil, fmt.Errorf("select freeze frames: %w", err)
	}
	defer rows.Close()

	var out []FreezeFrame
	for rows.Next() {
		var f FreezeFrame
		if err := rows.Scan(&f.ID, &f.VideoID, &f.Title, &f.Time, &f.Width, &f.Height, &f.DataURI, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan freeze frame: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
