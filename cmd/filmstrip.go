package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/db"
	"github.com/user/studio-review/jobs"
	"github.com/user/studio-review/pkg/export"
	"github.com/user/studio-review/pkg/timeutil"
)

var filmstripCmd = &cobra.Command{
	Use:   "filmstrip <video-file>",
	Short: "Generate the scrub bar thumbnails of a video",
	Long: `Sample the video into small JPEG thumbnails, one per second (denser for
slow motion footage at 60 fps or more), and store them with the session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := db.EnqueueJob(s.db, s.video.ID, db.JobFilmstrip, "", ""); err != nil {
			return err
		}
		fmt.Printf("Generating filmstrip for %s...\n", s.video.Filename)
		if err := runJobs(cmd, s); err != nil {
			return err
		}

		thumbs, err := db.SelectThumbnails(s.db, s.video.ID)
		if err != nil {
			return err
		}
		video, err := db.SelectVideoByID(s.db, s.video.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%d thumbnail(s) over %s at %d fps.\n", len(thumbs), timeutil.FormatClock(video.Duration), video.FPS)
		return nil
	},
}

// runJobs drains the job queue in the foreground.
func runJobs(cmd *cobra.Command, s *session) error {
	p := jobs.NewProcessor(s.db, app.log, app.cfg.FilmstripOptions(filmstripWorkers(cmd.Context())))
	p.OnDone = func(job db.PendingJob, err error) {
		if err != nil {
			fmt.Printf("✗ %s job %d failed\n", job.Kind, job.ID)
			return
		}
		if job.Kind == db.JobClip {
			if j, ok := lastJob(s, job.ID); ok && j.OutputPath != "" {
				fmt.Printf("✓ clip written to %s\n", j.OutputPath)
				return
			}
		}
		fmt.Printf("✓ %s job %d done\n", job.Kind, job.ID)
	}
	return p.Drain(cmd.Context())
}

func lastJob(s *session, id int64) (db.Job, bool) {
	all, err := db.SelectJobs(s.db, s.video.ID)
	if err != nil {
		return db.Job{}, false
	}
	for _, j := range all {
		if j.ID == id {
			return j, true
		}
	}
	return db.Job{}, false
}

// sessionExport gathers everything stored for the session's video.
func sessionExport(s *session, list []annotation.Annotation) (export.Session, error) {
	var notes string
	n, err := db.SelectSessionNote(s.db, s.video.ID)
	switch {
	case err == nil:
		notes = n.Markdown
	case !errors.Is(err, db.ErrNotFound):
		return export.Session{}, err
	}

	sess := export.NewSession(s.video.Path, s.video.Duration, list, notes)
	frames, err := db.SelectFreezeFrames(s.db, s.video.ID)
	if err != nil {
		return export.Session{}, err
	}
	for _, f := range frames {
		sess.FreezeFrames = append(sess.FreezeFrames, export.Frame{Title: f.Title, Time: f.Time})
	}
	return sess, nil
}

func init() {
	rootCmd.AddCommand(filmstripCmd)
}
