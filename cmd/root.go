package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/user/studio-review/applog"
	"github.com/user/studio-review/config"
	"github.com/user/studio-review/deps"
)

var Version = "0.1.0"

// app is the state every subcommand shares, set up before it runs.
var app struct {
	cfgPath string
	cfg     *config.Config
	log     *slog.Logger
	logFile *os.File
	runID   string
}

var rootCmd = &cobra.Command{
	Use:   "studio-review",
	Short: "Review session footage with drawn annotations and notes",
	Long: `studio-review is a CLI tool for coaches reviewing session footage.
Videos play in mpv; annotations are drawn over the picture and stored in SQLite.

Features:
  - Draw time-windowed circles, arrows, lines, boxes, freehand and text
  - Scrub with a filmstrip of thumbnails and step frame by frame
  - Capture freeze frames and export annotated clips
  - Keep block-structured session notes that round-trip to markdown`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.logFile != nil {
			app.logFile.Close()
		}
	},
}

// setup loads the config file and opens the log.
func setup(cmd *cobra.Command) error {
	base, err := config.DefaultBaseDir()
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(path, config.NewConfig(base))
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	levelName := cfg.LogLevel
	if flag, _ := cmd.Flags().GetString("log-level"); flag != "" {
		levelName = flag
	}
	level, err := applog.ParseLevel(levelName)
	if err != nil {
		return err
	}

	app.runID = uuid.NewString()[:8]
	log, f, err := applog.Open(cfg.LogDir, level, app.runID, verbose)
	if err != nil {
		// The log is not worth failing a command over.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		log = applog.Discard()
	}
	app.cfgPath, app.cfg, app.log, app.logFile = path, cfg, log, f
	app.log.Debug("command started", "command", cmd.CommandPath(), "config", path)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("studio-review version %s\n", Version)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that all required system dependencies (mpv, ffmpeg, ffprobe) are installed and report what the host offers for thumbnail encoding.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking dependencies...")
		fmt.Println()

		var missing []string
		for _, t := range deps.Tools {
			if err := t.Check(); err != nil {
				missing = append(missing, t.Name)
				fmt.Printf("✗ %s: NOT FOUND (needed for %s)\n", t.Name, t.Needed)
				fmt.Printf("  Install from: %s\n", t.InstallURL)
				continue
			}
			fmt.Printf("✓ %s: OK\n", t.Name)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		h := deps.Inspect(ctx)
		fmt.Println()
		fmt.Println("Host:")
		fmt.Printf("  System:  %s %s (kernel %s)\n", h.OS, h.Platform, h.Kernel)
		fmt.Printf("  CPUs:    %d physical, %d logical\n", h.PhysicalCPUs, h.LogicalCPUs)
		if h.TotalMemory > 0 {
			fmt.Printf("  Memory:  %s free of %s (%.0f%% used)\n",
				humanize.IBytes(h.FreeMemory), humanize.IBytes(h.TotalMemory), h.MemoryPercent)
		}
		fmt.Printf("  Filmstrip encoders: %d\n", filmstripWorkers(ctx))

		fmt.Println()
		fmt.Printf("Config:   %s\n", app.cfgPath)
		fmt.Printf("Data dir: %s\n", app.cfg.DataDir)
		fmt.Printf("Log:      %s\n", filepath.Join(app.cfg.LogDir, applog.FileName))

		fmt.Println()
		if len(missing) > 0 {
			return fmt.Errorf("missing %s; install them to use all features", strings.Join(missing, ", "))
		}
		fmt.Println("All dependencies are installed!")
		return nil
	},
}

// filmstripWorkers returns the configured encoder count, or one sized from the host.
func filmstripWorkers(ctx context.Context) int {
	if n := app.cfg.Filmstrip.Workers; n > 0 {
		return n
	}
	return deps.Inspect(ctx).Workers(8)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.config/studio-review/config.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "also write the log to stderr")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
