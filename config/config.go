// Package config reads and writes the studio-review settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/user/studio-review/applog"
	"github.com/user/studio-review/drawing"
	"github.com/user/studio-review/filmstrip"
	"github.com/user/studio-review/geom"
	"github.com/user/studio-review/mpv"
	"github.com/user/studio-review/player"
)

// Config represents the main configuration for studio-review.
type Config struct {
	DataDir   string          `toml:"data_dir"`
	LogDir    string          `toml:"log_dir"`
	LogLevel  string          `toml:"log_level"` // debug, info, warn or error
	Drawing   DrawingConfig   `toml:"drawing"`
	Player    PlayerConfig    `toml:"player"`
	Mpv       MpvConfig       `toml:"mpv"`
	Filmstrip FilmstripConfig `toml:"filmstrip"`
}

// DrawingConfig holds the toolbar defaults a session starts with.
type DrawingConfig struct {
	Tool        string  `toml:"tool"`
	Color       string  `toml:"color"`
	StrokeWidth int     `toml:"stroke_width"`
	FontSize    float64 `toml:"font_size"`
}

// PlayerConfig tunes the playback controls.
type PlayerConfig struct {
	HideDelay string  `toml:"hide_delay"` // Go duration, e.g. "2.5s"
	SeekStep  float64 `toml:"seek_step"`  // seconds per arrow-key seek
}

// MpvConfig locates the mpv IPC socket.
type MpvConfig struct {
	SocketPath string `toml:"socket_path"`
}

// FilmstripConfig sizes thumbnail generation. Workers 0 sizes the encoder
// pool from the host.
type FilmstripConfig struct {
	Width   int `toml:"width"`
	Height  int `toml:"height"`
	Quality int `toml:"quality"`
	Workers int `toml:"workers"`
}

// NewConfig creates a Config with every default filled in, rooted at baseDir.
func NewConfig(baseDir string) *Config {
	d := drawing.DefaultOptions()
	return &Config{
		DataDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: "info",
		Drawing: DrawingConfig{
			Tool:        string(d.Tool),
			Color:       string(d.Color),
			StrokeWidth: d.StrokeWidth,
			FontSize:    d.FontSize,
		},
		Player: PlayerConfig{
			HideDelay: player.HideDelay.String(),
			SeekStep:  5,
		},
		Mpv: MpvConfig{SocketPath: mpv.DefaultSocketPath},
		Filmstrip: FilmstripConfig{
			Width:   filmstrip.Width,
			Height:  filmstrip.Height,
			Quality: filmstrip.Quality,
		},
	}
}

// DefaultBaseDir is ~/.local/share/studio-review.
func DefaultBaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "studio-review"), nil
}

// DefaultPath is ~/.config/studio-review/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config directory: %w", err)
	}
	return filepath.Join(dir, "studio-review", "config.toml"), nil
}

// Validate checks every enumerated or bounded setting.
func (c *Config) Validate() error {
	var errs []error
	if _, err := drawing.ParseTool(c.Drawing.Tool); err != nil {
		errs = append(errs, fmt.Errorf("drawing.tool: %w", err))
	}
	if _, err := geom.ParseColor(c.Drawing.Color); err != nil {
		errs = append(errs, fmt.Errorf("drawing.color: %w", err))
	}
	if c.Drawing.StrokeWidth <= 0 {
		errs = append(errs, fmt.Errorf("drawing.stroke_width must be positive, got %d", c.Drawing.StrokeWidth))
	}
	if c.Drawing.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("drawing.font_size must be positive, got %v", c.Drawing.FontSize))
	}
	if _, err := c.HideDelay(); err != nil {
		errs = append(errs, fmt.Errorf("player.hide_delay: %w", err))
	}
	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Filmstrip.Quality < 1 || c.Filmstrip.Quality > 100 {
		errs = append(errs, fmt.Errorf("filmstrip.quality must be 1-100, got %d", c.Filmstrip.Quality))
	}
	if c.Filmstrip.Width <= 0 || c.Filmstrip.Height <= 0 {
		errs = append(errs, fmt.Errorf("filmstrip size must be positive, got %dx%d", c.Filmstrip.Width, c.Filmstrip.Height))
	}
	return errors.Join(errs...)
}

// DrawingOptions converts the drawing section. Call Validate first.
func (c *Config) DrawingOptions() drawing.Options {
	return drawing.Options{
		Tool:        drawing.Tool(c.Drawing.Tool),
		Color:       geom.Color(c.Drawing.Color),
		StrokeWidth: c.Drawing.StrokeWidth,
		FontSize:    c.Drawing.FontSize,
	}
}

// HideDelay parses player.hide_delay.
func (c *Config) HideDelay() (time.Duration, error) {
	d, err := time.ParseDuration(c.Player.HideDelay)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

// FilmstripOptions converts the filmstrip section. workers is used when the
// file leaves workers at 0.
func (c *Config) FilmstripOptions(workers int) filmstrip.Options {
	if c.Filmstrip.Workers > 0 {
		workers = c.Filmstrip.Workers
	}
	return filmstrip.Options{
		Width:   c.Filmstrip.Width,
		Height:  c.Filmstrip.Height,
		Quality: c.Filmstrip.Quality,
		Workers: workers,
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader on top of defaults, so keys
// missing from the file keep their default values.
func (m *Manager) Read(r io.Reader, defaults *Config) (*Config, error) {
	cfg := *defaults
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load reads the config file at path over defaults. A missing file yields
// the defaults.
func Load(path string, defaults *Config) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := *defaults
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f, defaults)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to a new config file at path. An existing file is left
// untouched and reported as an error.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
