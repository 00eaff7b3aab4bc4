package mpv

import (
	"os"
	"os/exec"

	"github.com/user/studio-review/deps"
)

// LaunchMpv starts mpv paused on the video with the IPC socket at socketPath.
// It checks that mpv is installed first and returns an error with install link if not.
// Returns the *exec.Cmd for the running process which can be used for cleanup.
func LaunchMpv(videoPath, socketPath string) (*exec.Cmd, error) {
	// Check that mpv is installed
	if err := deps.CheckMpv(); err != nil {
		return nil, err
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	// A stale socket from a crashed run would make the first connect fail.
	_ = os.Remove(socketPath)

	cmd := exec.Command("mpv",
		"--input-ipc-server="+socketPath,
		"--pause",
		"--keep-open=yes",
		"--force-window=yes",
		"--osd-level=1",
		videoPath,
	)

	// Start the process (non-blocking)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return cmd, nil
}
