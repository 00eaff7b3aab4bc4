package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/blocks"
	"github.com/user/studio-review/db"
	"github.com/user/studio-review/drawing"
	"github.com/user/studio-review/jobs"
	"github.com/user/studio-review/mpv"
	"github.com/user/studio-review/pkg/export"
	"github.com/user/studio-review/pkg/timeutil"
	"github.com/user/studio-review/player"
	"github.com/user/studio-review/tui"
)

var openCmd = &cobra.Command{
	Use:   "open <video-file>",
	Short: "Open a video in mpv with the review interface",
	Long: `Launch mpv on the video and open the review interface in this terminal.
Annotations drawn on the canvas are overlaid on the picture, stored with the
video and restored the next time it is opened.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		socket := app.cfg.Mpv.SocketPath
		fmt.Printf("Opening video: %s\n", s.video.Filename)
		process, err := mpv.LaunchMpv(s.video.Path, socket)
		if err != nil {
			return fmt.Errorf("failed to launch mpv: %w", err)
		}
		defer func() {
			if process.Process != nil {
				process.Process.Kill()
			}
			process.Wait()
		}()

		client := mpv.NewClient(socket, app.log)
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		err = client.ConnectRetry(ctx, 100*time.Millisecond)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to mpv: %w", err)
		}
		defer client.Close()

		return runSession(cmd.Context(), s, client)
	},
}

// runSession wires the player, annotations, notes and jobs of s and runs
// the interface until the user quits.
func runSession(ctx context.Context, s *session, client *mpv.Client) error {
	hide, err := app.cfg.HideDelay()
	if err != nil {
		return fmt.Errorf("player.hide_delay: %w", err)
	}
	workers := filmstripWorkers(ctx)
	ctrl := player.NewController(client, player.Options{
		HideDelay: hide,
		Filmstrip: app.cfg.FilmstripOptions(workers),
		Log:       app.log,
		OnFreezeFrame: func(uri string, t float64) {
			f := db.FreezeFrame{VideoID: s.video.ID, Title: freezeTitle(t), Time: t, DataURI: uri}
			if _, err := db.InsertFreezeFrame(s.db, f); err != nil {
				app.log.Error("save freeze frame", "err", err)
			}
		},
	})
	defer ctrl.Close()

	store, sink, err := s.store()
	if err != nil {
		return err
	}
	draw := drawing.New(store, ctrl, app.cfg.DrawingOptions(), app.log)

	notes, err := openNotes(s)
	if err != nil {
		return err
	}

	thumbs, err := db.SelectThumbnails(s.db, s.video.ID)
	if err != nil {
		return err
	}
	if len(thumbs) > 0 {
		ctrl.Restore(s.video.FPS, thumbs)
	} else if _, err := db.EnqueueJob(s.db, s.video.ID, db.JobFilmstrip, "", ""); err != nil {
		return err
	}

	err = tui.Run(ctx, tui.Options{
		Video:    s.video,
		DB:       s.db,
		Player:   ctrl,
		Store:    store,
		Drawing:  draw,
		Notes:    notes,
		Overlay:  client,
		Events:   client.Events(),
		Jobs:     jobs.NewProcessor(s.db, app.log, app.cfg.FilmstripOptions(workers)),
		Export:   exportTo(s, store.All),
		SeekStep: app.cfg.Player.SeekStep,
		Log:      app.log,
	})

	stop := ctrl.CurrentTime()
	if serr := db.UpdateVideoStopTime(s.db, s.video.ID, stop); serr != nil {
		app.log.Warn("save stop time", "err", serr)
	}
	if serr := sink.Err(); serr != nil {
		err = errors.Join(err, fmt.Errorf("annotations may not be saved: %w", serr))
	}
	if err == nil {
		fmt.Printf("Session saved at %s: %d annotation(s).\n", timeutil.FormatClock(stop), store.Len())
	}
	return err
}

// openNotes loads the session notes into an editor that saves every change.
func openNotes(s *session) (*blocks.Editor, error) {
	var doc []blocks.Block
	n, err := db.SelectSessionNote(s.db, s.video.ID)
	switch {
	case err == nil:
		doc = blocks.FromMarkdown(n.Markdown)
	case !errors.Is(err, db.ErrNotFound):
		return nil, err
	}
	return blocks.NewEditor(doc, func(next []blocks.Block) {
		if err := db.SaveSessionNote(s.db, s.video.ID, blocks.ToMarkdown(next)); err != nil {
			app.log.Error("save notes", "err", err)
		}
	}, app.log), nil
}

// exportTo returns a writer of the session to a file, in the format its
// extension names.
func exportTo(s *session, list func() []annotation.Annotation) func(string) error {
	return func(path string) error {
		format, err := export.FormatFromPath(path)
		if err != nil {
			return err
		}
		sess, err := sessionExport(s, list())
		if err != nil {
			return err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := export.Write(f, sess, format); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}

func init() {
	rootCmd.AddCommand(openCmd)
}
