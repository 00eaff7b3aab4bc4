package db

import (
	_ "embed"
)

// Schema

//go:embed sql/create_tables.sql
var CreateTablesSQL string

// Video queries

//go:embed sql/insert_video.sql
var InsertVideoSQL string

//go:embed sql/select_video_by_id.sql
var SelectVideoByIDSQL string

//go:embed sql/select_video_by_path.sql
var SelectVideoByPathSQL string

//go:embed sql/select_videos.sql
var SelectVideosSQL string

//go:embed sql/update_video_metadata.sql
var UpdateVideoMetadataSQL string

//go:embed sql/update_video_stop_time.sql
var UpdateVideoStopTimeSQL string

// Annotation queries

//go:embed sql/select_annotations_by_video.sql
var SelectAnnotationsByVideoSQL string

//go:embed sql/insert_annotation.sql
var InsertAnnotationSQL string

//go:embed sql/delete_annotations_by_video.sql
var DeleteAnnotationsByVideoSQL string

// Thumbnail queries

//go:embed sql/select_thumbnails_by_video.sql
var SelectThumbnailsByVideoSQL string

//go:embed sql/insert_thumbnail.sql
var InsertThumbnailSQL string

//go:embed sql/delete_thumbnails_by_video.sql
var DeleteThumbnailsByVideoSQL string

// Session note queries

//go:embed sql/select_session_note.sql
var SelectSessionNoteSQL string

//go:embed sql/upsert_session_note.sql
var UpsertSessionNoteSQL string

// Freeze frame queries

//go:embed sql/insert_freeze_frame.sql
var InsertFreezeFrameSQL string

//go:embed sql/select_freeze_frames_by_video.sql
var SelectFreezeFramesByVideoSQL string

// Job queries

//go:embed sql/insert_job.sql
var InsertJobSQL string

//go:embed sql/select_next_pending_job.sql
var SelectNextPendingJobSQL string

//go:embed sql/select_jobs_by_video.sql
var SelectJobsByVideoSQL string

//go:embed sql/mark_job_processing.sql
var MarkJobProcessingSQL string

//go:embed sql/mark_job_complete.sql
var MarkJobCompleteSQL string

//go:embed sql/mark_job_error.sql
var MarkJobErrorSQL string

//go:embed sql/reset_stale_jobs.sql
var ResetStaleJobsSQL string
