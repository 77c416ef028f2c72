package sched

import (
	"testing"
	"time"
)

func TestIsSystemMemoryStressedDisabledWhenPercentIsZero(t *testing.T) {
	if IsSystemMemoryStressed(0) {
		t.Errorf("expected disabled check (min_percent=0) to never report stressed")
	}
}

func TestIsSystemMemoryStressedFalseOnUnknownOS(t *testing.T) {
	// substitute the (0,0) unknown-OS probe result and clear the cached
	// verdict so IsSystemMemoryStressed probes again, independent of whatever
	// gopsutil reports for the machine actually running the test (spec.md §8
	// "IsSystemMemoryStressed returns false whenever the probe reports
	// total == 0").
	resetCooldown := func() {
		gMemoryStress.mu.Lock()
		gMemoryStress.lastCheck = time.Time{}
		gMemoryStress.mu.Unlock()
	}
	priorProbe := getSystemMemorySize
	getSystemMemorySize = func() (uint64, uint64) { return 0, 0 }
	resetCooldown()
	defer func() {
		getSystemMemorySize = priorProbe
		resetCooldown()
	}()

	if IsSystemMemoryStressed(50) {
		t.Errorf("total == 0 must never be treated as stressed")
	}
}
