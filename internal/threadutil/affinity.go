// Package threadutil pins the calling OS thread to a CPU core and
// requests real-time FIFO scheduling priority, for tail-latency control
// on the pipeline's data-plane worker threads. Grounded on the CPU
// affinity pattern in the example pack's hardware.go, generalized to
// also request realtime priority per the original ThreadUtils.
package threadutil

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// PinToCore restricts the calling OS thread's CPU affinity to a single
// core. It does not lock the goroutine to its thread: the caller must have
// already called runtime.LockOSThread, so that the goroutine cannot
// migrate to an unpinned thread afterward.
func PinToCore(core int) error {
	if core < 0 || core >= runtime.NumCPU() {
		return fmt.Errorf("threadutil: invalid core id %d (have %d cores)", core, runtime.NumCPU())
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(core)

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("threadutil: pin to core %d: %w", core, err)
	}
	return nil
}

// SetRealtimePriority requests SCHED_FIFO scheduling at the given
// priority for the calling thread. Failure is expected when not running
// with CAP_SYS_NICE and is therefore reported as an error for the caller
// to log as a warning, not a fatal condition.
func SetRealtimePriority(priority int) error {
	param := &unix.SchedParam{Priority: int32(priority)}
	if err := unix.SchedSetscheduler(0, unix.SCHED_FIFO, param); err != nil {
		return fmt.Errorf("threadutil: set realtime priority %d: %w", priority, err)
	}
	return nil
}

// NumCores returns the number of logical CPUs visible to the process.
func NumCores() int {
	return runtime.NumCPU()
}
