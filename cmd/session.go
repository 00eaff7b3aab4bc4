package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/db"
	"github.com/user/studio-review/mpv"
	"golang.org/x/term"
)

// session is an open database with the video a command works on.
type session struct {
	db    *sql.DB
	video *db.Video
}

func (s *session) Close() error {
	return s.db.Close()
}

// store returns an annotation store that writes through to the database.
func (s *session) store() (*annotation.Store, *db.AnnotationSink, error) {
	sink, err := db.NewAnnotationSink(s.db, s.video.ID, app.log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load annotations: %w", err)
	}
	return annotation.NewStore(sink, app.log), sink, nil
}

// openDB opens the database in the configured data dir.
func openDB() (*sql.DB, error) {
	database, err := db.Open(db.PathIn(app.cfg.DataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// openSession resolves videoPath, checks that it is a file and records it in
// the database.
func openSession(videoPath string) (*session, error) {
	absPath, err := filepath.Abs(videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", absPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access video file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a video file: %s", absPath)
	}

	database, err := openDB()
	if err != nil {
		return nil, err
	}
	id, err := db.EnsureVideo(database, absPath, info.Size())
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to record video: %w", err)
	}
	video, err := db.SelectVideoByID(database, id)
	if err != nil {
		database.Close()
		return nil, err
	}
	return &session{db: database, video: video}, nil
}

// videoFromFlagOrMpv returns the --video flag, or the file mpv is playing.
func videoFromFlagOrMpv(cmd *cobra.Command) (string, error) {
	if v, _ := cmd.Flags().GetString("video"); v != "" {
		return v, nil
	}
	client, err := connectMpv(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("no --video given and %w", err)
	}
	defer client.Close()
	raw, err := client.GetProperty(cmd.Context(), "path")
	if err != nil {
		return "", fmt.Errorf("failed to get video path: %w", err)
	}
	path, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("unexpected video path type: %T", raw)
	}
	return path, nil
}

// timeFromFlagOrMpv returns the --at flag in seconds, or mpv's position.
func timeFromFlagOrMpv(cmd *cobra.Command) (float64, error) {
	if at, _ := cmd.Flags().GetString("at"); at != "" {
		return parseTime(at)
	}
	client, err := connectMpv(cmd.Context())
	if err != nil {
		return 0, fmt.Errorf("no --at given and %w", err)
	}
	defer client.Close()
	return client.Position(cmd.Context())
}

func connectMpv(ctx context.Context) (*mpv.Client, error) {
	client := mpv.NewClient(app.cfg.Mpv.SocketPath, app.log)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to mpv: %w\n(Is mpv running with a video open?)", err)
	}
	return client, nil
}

// confirm asks a yes/no question on the terminal. Without a terminal the
// answer is no, so scripts must pass --force.
func confirm(question string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println("Not a terminal; pass --force to confirm.")
		return false
	}
	fmt.Printf("%s [y/N] ", question)
	var response string
	fmt.Scanln(&response)
	return strings.EqualFold(strings.TrimSpace(response), "y")
}
