package deps

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Host describes the machine for the doctor report and worker sizing.
// Fields the platform cannot report are left zero.
type Host struct {
	OS            string
	Platform      string
	Kernel        string
	LogicalCPUs   int
	PhysicalCPUs  int
	TotalMemory   uint64
	FreeMemory    uint64
	MemoryPercent float64
}

// Inspect gathers host facts through gopsutil.
func Inspect(ctx context.Context) Host {
	h := Host{OS: runtime.GOOS, LogicalCPUs: runtime.NumCPU()}

	if info, err := host.InfoWithContext(ctx); err == nil {
		h.Platform = info.Platform + " " + info.PlatformVersion
		h.Kernel = info.KernelVersion
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		h.LogicalCPUs = n
	}
	if n, err := cpu.CountsWithContext(ctx, false); err == nil {
		h.PhysicalCPUs = n
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		h.TotalMemory = vm.Total
		h.FreeMemory = vm.Available
		h.MemoryPercent = vm.UsedPercent
	}
	return h
}

// encoderBudget is the memory one thumbnail encoder may hold: a decoded
// 1080p RGBA frame plus its scaled copy and JPEG buffer, rounded up.
const encoderBudget = 16 << 20

// Workers suggests how many frames to encode at once: one per physical core,
// fewer when available memory is short, at least one and at most limit.
func (h Host) Workers(limit int) int {
	n := h.PhysicalCPUs
	if n <= 0 {
		n = h.LogicalCPUs
	}
	if h.FreeMemory > 0 {
		n = min(n, int(h.FreeMemory/encoderBudget))
	}
	return max(1, min(limit, n))
}
