// Package ffmpeg reads video files through the ffprobe and ffmpeg
// binaries: stream metadata, single decoded frames, and a headless media
// backend built on them.
package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/user/studio-review/deps"
)

// ErrNoVideoStream is returned for files without a video stream.
var ErrNoVideoStream = errors.New("ffmpeg: no video stream")

// Info is the metadata of a video file.
type Info struct {
	Path     string
	Duration float64
	Width    int
	Height   int
	// FPS is the stream's declared frame rate, 0 when unknown.
	FPS float64
}

type probeOutput struct {
	Streams []struct {
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe runs ffprobe on path.
func Probe(ctx context.Context, path string) (Info, error) {
	if err := deps.CheckFfprobe(); err != nil {
		return Info{}, err
	}
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,avg_frame_rate,duration:format=duration",
		"-of", "json",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}
	info, err := parseProbe(out)
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	info.Path = path
	return info, nil
}

func parseProbe(data []byte) (Info, error) {
	var p probeOutput
	if err := json.Unmarshal(data, &p); err != nil {
		return Info{}, err
	}
	if len(p.Streams) == 0 {
		return Info{}, ErrNoVideoStream
	}
	s := p.Streams[0]
	info := Info{Width: s.Width, Height: s.Height}

	info.FPS = ParseRate(s.AvgFrameRate)
	if info.FPS == 0 {
		info.FPS = ParseRate(s.RFrameRate)
	}
	for _, d := range []string{p.Format.Duration, s.Duration} {
		if v, err := strconv.ParseFloat(d, 64); err == nil && v > 0 {
			info.Duration = v
			break
		}
	}
	return info, nil
}

// ParseRate parses an ffprobe rational such as "30000/1001". Malformed or
// zero-denominator rates yield 0.
func ParseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
