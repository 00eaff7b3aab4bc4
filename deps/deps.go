package deps

import (
	"fmt"
	"os/exec"
)

const (
	MpvInstallURL    = "https://mpv.io/installation/"
	FfmpegInstallURL = "https://ffmpeg.org/download.html"
)

// Tool is an external program the review tools run.
type Tool struct {
	Name       string
	InstallURL string
	// Needed lists what stops working without it.
	Needed string
}

// Tools is every external program, in the order doctor reports them.
var Tools = []Tool{
	{Name: "mpv", InstallURL: MpvInstallURL, Needed: "playback and the drawing overlay"},
	{Name: "ffmpeg", InstallURL: FfmpegInstallURL, Needed: "clips, filmstrips and freeze frames"},
	{Name: "ffprobe", InstallURL: FfmpegInstallURL, Needed: "frame rate and duration detection"},
}

// DependencyError contains information about a missing dependency
type DependencyError struct {
	Tool
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not found (needed for %s). Install from: %s", e.Name, e.Needed, e.InstallURL)
}

// lookPath is exec.LookPath, replaced in tests.
var lookPath = exec.LookPath

// Check reports whether t is on PATH.
func (t Tool) Check() error {
	if _, err := lookPath(t.Name); err != nil {
		return &DependencyError{Tool: t}
	}
	return nil
}

func checkNamed(name string) error {
	for _, t := range Tools {
		if t.Name == name {
			return t.Check()
		}
	}
	return fmt.Errorf("unknown dependency %q", name)
}

// CheckMpv checks if mpv is installed and available in PATH
func CheckMpv() error { return checkNamed("mpv") }

// CheckFfmpeg checks if ffmpeg is installed and available in PATH
func CheckFfmpeg() error { return checkNamed("ffmpeg") }

// CheckFfprobe checks if ffprobe is installed and available in PATH.
func CheckFfprobe() error { return checkNamed("ffprobe") }

// CheckAll checks all dependencies and returns a slice of errors for missing ones
func CheckAll() []error {
	var errs []error
	for _, t := range Tools {
		if err := t.Check(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
