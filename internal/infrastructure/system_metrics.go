package infrastructure

import (
	"runtime"
	"time"
)

// RuntimeStats is a snapshot of Go runtime statistics reported by the
// health endpoint.
type RuntimeStats struct {
	GoRoutines    int           `json:"goroutines"`
	HeapAllocMB   uint64        `json:"heap_alloc_mb"`
	SystemMB      uint64        `json:"system_mb"`
	GCCount       uint32        `json:"gc_count"`
	LastGCPause   time.Duration `json:"last_gc_pause_ns"`
	CPUCount      int           `json:"cpu_count"`
	ProcessUptime time.Duration `json:"uptime_ns"`
	Timestamp     time.Time     `json:"timestamp"`
}

// CollectRuntimeStats reads the current runtime statistics.
func CollectRuntimeStats(startTime time.Time) RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoRoutines:    runtime.NumGoroutine(),
		HeapAllocMB:   mem.Alloc / 1024 / 1024,
		SystemMB:      mem.Sys / 1024 / 1024,
		GCCount:       mem.NumGC,
		LastGCPause:   time.Duration(mem.PauseNs[(mem.NumGC+255)%256]),
		CPUCount:      runtime.NumCPU(),
		ProcessUptime: time.Since(startTime),
		Timestamp:     time.Now(),
	}
}
