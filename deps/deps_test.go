package deps

import (
	"errors"
	"os/exec"
	"testing"
)

func TestCheckAll(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	lookPath = func(name string) (string, error) {
		if name == "ffprobe" {
			return "", exec.ErrNotFound
		}
		return "/usr/bin/" + name, nil
	}
	errs := CheckAll()
	if len(errs) != 1 {
		t.Fatalf("CheckAll() = %v, want one missing dependency", errs)
	}
	var depErr *DependencyError
	if !errors.As(errs[0], &depErr) || depErr.Name != "ffprobe" || depErr.InstallURL != FfmpegInstallURL {
		t.Errorf("CheckAll()[0] = %v, want ffprobe DependencyError", errs[0])
	}
	if err := CheckMpv(); err != nil {
		t.Errorf("CheckMpv() = %v, want nil", err)
	}
}

func TestHostWorkers(t *testing.T) {
	tests := []struct {
		name  string
		host  Host
		limit int
		want  int
	}{
		{"physical cores", Host{PhysicalCPUs: 4, LogicalCPUs: 8}, 16, 4},
		{"logical fallback", Host{LogicalCPUs: 6}, 16, 6},
		{"capped", Host{PhysicalCPUs: 32}, 8, 8},
		{"memory bound", Host{PhysicalCPUs: 8, FreeMemory: 3 * encoderBudget}, 16, 3},
		{"never zero", Host{FreeMemory: 1}, 16, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.host.Workers(tt.limit); got != tt.want {
				t.Errorf("Workers(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}
