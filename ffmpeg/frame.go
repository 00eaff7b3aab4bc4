package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"
)

// ExtractFrame decodes the frame at t seconds of the video described by
// info, at the stream's native size.
func ExtractFrame(ctx context.Context, info Info, t float64) (image.Image, error) {
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("ffmpeg: unknown frame size for %s", info.Path)
	}
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-ss", fmt.Sprintf("%.3f", t),
		"-i", info.Path,
		"-frames:v", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	img, readErr := readRawRGBA(stdout, info.Width, info.Height)
	// Drain so ffmpeg is never blocked on a full pipe.
	_, _ = io.Copy(io.Discard, stdout)
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame at %.3f: %w: %s", t, err, strings.TrimSpace(stderr.String()))
	}
	if readErr != nil {
		return nil, fmt.Errorf("ffmpeg frame at %.3f: %w", t, readErr)
	}
	return img, nil
}

// readRawRGBA reads one w×h frame of packed RGBA pixels.
func readRawRGBA(r io.Reader, w, h int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if _, err := io.ReadFull(r, img.Pix); err != nil {
		return nil, err
	}
	return img, nil
}
