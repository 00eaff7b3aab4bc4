package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/user/studio-review/db"
	"github.com/user/studio-review/ffmpeg"
	"github.com/user/studio-review/pkg/dataurl"
	"github.com/user/studio-review/pkg/timeutil"
	"github.com/user/studio-review/player"
)

var freezeCmd = &cobra.Command{
	Use:   "freeze <video-file> <time>",
	Short: "Capture a freeze frame at full resolution",
	Long: `Decode the frame at <time> (seconds, M:SS or H:MM:SS) as a PNG and attach it to the
session as "Freeze Frame - m:ss". With --out the PNG is also written to a file.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseTime(args[1])
		if err != nil {
			return err
		}
		s, err := openSession(args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		media, err := ffmpeg.Open(cmd.Context(), s.video.Path)
		if err != nil {
			return err
		}

		var saved db.FreezeFrame
		ctrl := player.NewController(media, player.Options{
			Log: app.log,
			OnFreezeFrame: func(uri string, t float64) {
				saved = db.FreezeFrame{
					VideoID: s.video.ID,
					Title:   freezeTitle(t),
					Time:    t,
					DataURI: uri,
				}
			},
		})
		defer ctrl.Close()
		ctrl.HandleEvent(player.Event{Kind: player.EventLoadedMetadata, Duration: media.Info().Duration})
		if err := ctrl.Seek(cmd.Context(), at); err != nil {
			return err
		}
		frame, err := ctrl.FreezeFrame(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to capture frame: %w", err)
		}
		saved.Width, saved.Height = frame.Width, frame.Height

		id, err := db.InsertFreezeFrame(s.db, saved)
		if err != nil {
			return err
		}

		_, png, err := dataurl.Decode(frame.DataURI)
		if err != nil {
			return err
		}
		fmt.Printf("%s saved (#%d, %dx%d, %s)\n", saved.Title, id, frame.Width, frame.Height, humanize.Bytes(uint64(len(png))))
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if err := os.WriteFile(out, png, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Printf("Written to %s\n", out)
		}
		return nil
	},
}

// freezeTitle names a freeze frame after its position.
func freezeTitle(t float64) string {
	return "Freeze Frame - " + timeutil.FormatClock(t)
}

func init() {
	freezeCmd.Flags().StringP("out", "o", "", "also write the PNG to this file")
	rootCmd.AddCommand(freezeCmd)
}
