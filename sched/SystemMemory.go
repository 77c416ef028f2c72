// Package sched implements the job queue, worker pool, and memory-stress
// throttle described by the build core's concurrency model (spec.md §4.4-§5).
package sched

import (
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/forgebuild/corebuild/internal/base"
)

var LogMemory = base.NewLogCategory("SystemMemory")

// getSystemMemorySize reports physical memory the way original_source/SystemMemory.cpp
// does: (free, total) in bytes, with (0,0) reserved as the "unknown OS" sentinel
// (spec.md §6 "System-memory probe"). Grounded on gopsutil, the same library
// the teacher's cluster/hardware.go uses for mem.VirtualMemory(). It is a
// package variable so tests can substitute a fixed probe result.
var getSystemMemorySize = func() (free, total uint64) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0
	}
	return vm.Available, vm.Total
}

// memoryStressState holds the cooldown-variant probe's cached verdict. The
// spec's Open Question leaves two acceptable implementations (a cooldown that
// re-checks only after a fixed interval, or a rolling accumulator); this core
// takes the cooldown variant since it matches the once-per-poll-tick cadence
// of WorkerThread's 500ms loop (spec.md §4.5) without needing a background
// sampler.
type memoryStressState struct {
	mu           sync.Mutex
	lastCheck    time.Time
	lastVerdict  bool
	cooldown     time.Duration
}

var gMemoryStress = &memoryStressState{cooldown: 1 * time.Second}

// IsSystemMemoryStressed reports whether available physical memory has
// fallen below minPercentAvailable of total. A probe result of (0,0) --
// unknown OS -- is always treated as "not stressed" (spec.md §8 "IsSystemMemoryStressed
// returns false whenever the probe reports total == 0"). minPercentAvailable
// == 0 disables the check entirely, matching the CLI flag's documented default.
func IsSystemMemoryStressed(minPercentAvailable uint32) bool {
	if minPercentAvailable == 0 {
		return false
	}

	gMemoryStress.mu.Lock()
	defer gMemoryStress.mu.Unlock()

	if time.Since(gMemoryStress.lastCheck) < gMemoryStress.cooldown {
		return gMemoryStress.lastVerdict
	}
	gMemoryStress.lastCheck = time.Now()

	free, total := getSystemMemorySize()
	if total == 0 {
		gMemoryStress.lastVerdict = false
		return false
	}

	percentAvailable := float64(free) / float64(total) * 100.0
	stressed := percentAvailable < float64(minPercentAvailable)
	gMemoryStress.lastVerdict = stressed

	if stressed {
		base.LogWarningOnce("memory-stressed", LogMemory,
			"system memory stressed: %.1f%% available, threshold %d%%", percentAvailable, minPercentAvailable)
	} else {
		base.ResetLogWarningOnce("memory-stressed")
	}

	return stressed
}
