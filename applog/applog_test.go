package applog

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestHandler_Handle(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)

	tests := []struct {
		name    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			level:   slog.LevelInfo,
			message: "annotation added",
			want:    "2026-03-14T09:05:00Z\tINFO\trun-1\tannotation added\n",
		},
		{
			name:    "with record attrs",
			level:   slog.LevelWarn,
			message: "frame rate fallback",
			attrs:   []slog.Attr{slog.Int("fps", 30), slog.String("reason", "no frames")},
			want:    "2026-03-14T09:05:00Z\tWARN\trun-1\tframe rate fallback\tfps=30\treason=no frames\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &handler{mu: new(sync.Mutex), w: &buf, level: slog.LevelDebug, runID: "run-1"}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			r.AddAttrs(tt.attrs...)
			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandler_LevelAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, "r").With("video", "match.mp4").WithGroup("filmstrip")

	log.Debug("hidden")
	log.Info("done", "count", 60)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %q", out)
	}
	if !strings.Contains(out, "\tvideo=match.mp4\tfilmstrip.count=60\n") {
		t.Errorf("attrs = %q, want video then grouped count", out)
	}
}

func TestOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")
	log, f, err := Open(dir, slog.LevelInfo, "r", false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	log.Info("hello")
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "\tINFO\tr\thello\n") {
		t.Errorf("log file = %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("debug"); err != nil || l != slog.LevelDebug {
		t.Errorf("ParseLevel(debug) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) error = nil")
	}
}
