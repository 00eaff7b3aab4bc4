// Package export writes review output to disk: annotated clips cut with
// ffmpeg and session documents in JSON, YAML, markdown and SVG.
package export

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/deps"
)

const (
	// MinClipSeconds is the shortest clip that is cut.
	MinClipSeconds = 4.0
	// OpenClipSeconds is the length of a clip cut for an annotation with no end.
	OpenClipSeconds = 10.0
)

// unsafeChars matches characters not safe for filenames: / \ : * ? < > | and spaces
var unsafeChars = regexp.MustCompile(`[/\\:*?<>|"\s]`)

// sanitize replaces unsafe filename characters with underscores.
func sanitize(s string) string {
	return unsafeChars.ReplaceAllString(s, "_")
}

// BuildClipPath returns the full output path for an exported clip.
// Format: {videoDir}/clips/{videoFilenameNoExt}/{hhmmss}-{label}.mp4
func BuildClipPath(videoPath, label string, startSeconds float64) string {
	videoDir := filepath.Dir(videoPath)
	videoBase := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))

	total := int(math.Floor(max(startSeconds, 0)))
	hhmmss := fmt.Sprintf("%02d%02d%02d", total/3600, (total%3600)/60, total%60)

	filename := fmt.Sprintf("%s-%s.mp4", hhmmss, sanitize(label))
	return filepath.Join(videoDir, "clips", videoBase, filename)
}

// EffectiveEnd returns the effective end time, enforcing the minimum clip length.
// If end <= 0 or end < start+MinClipSeconds, returns start+MinClipSeconds.
func EffectiveEnd(start, end float64) float64 {
	if end <= 0 {
		return start + MinClipSeconds
	}
	return math.Max(end, start+MinClipSeconds)
}

// ClipBounds returns the window cut for an annotation: its own window,
// OpenClipSeconds long when it has no end, at least MinClipSeconds long, and
// clamped to the video when duration is known.
func ClipBounds(a annotation.Annotation, duration float64) (start, end float64) {
	start = max(a.StartTime, 0)
	end = start + OpenClipSeconds
	if a.EndTime != nil {
		end = *a.EndTime
	}
	end = EffectiveEnd(start, end)
	if duration > 0 {
		end = min(end, duration)
		start = min(start, end)
	}
	return start, end
}

// RunFfmpeg creates the output directory, checks for ffmpeg, and cuts
// [start, end] of videoPath. With no subtitles the streams are copied;
// otherwise the ASS file at subtitlesPath is burned in, which re-encodes.
func RunFfmpeg(ctx context.Context, videoPath string, start, end float64, outputPath, subtitlesPath string) error {
	if err := deps.CheckFfmpeg(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", ffmpegArgs(videoPath, start, end, outputPath, subtitlesPath)...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w\n%s", err, out.String())
	}
	return nil
}

func ffmpegArgs(videoPath string, start, end float64, outputPath, subtitlesPath string) []string {
	args := []string{
		"-y",
		"-ss", fmt.Sprintf("%.3f", start),
		"-i", videoPath,
		"-t", fmt.Sprintf("%.3f", end-start),
	}
	if subtitlesPath == "" {
		args = append(args, "-c", "copy")
	} else {
		args = append(args,
			"-vf", "ass="+filterEscape(subtitlesPath),
			"-c:v", "libx264",
			"-preset", "fast",
			"-c:a", "aac",
		)
	}
	return append(args, outputPath)
}

// filterEscape escapes a path for use as an ffmpeg filter argument.
func filterEscape(p string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	return r.Replace(p)
}
