// threadcontrol.go
// Copyright (C) 2026 Kjell Haugen
// This file contains ThreadControl, the coordination object shared
// by simulation workers.

/*

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.

*/

package skrafl

import (
	"sync"
	"sync/atomic"
	"time"
)

// ControlStatus is ThreadControl's state machine: Idle -> Started ->
// (one of the stop reasons) -> Finished, per spec.md §4.11.
type ControlStatus int32

const (
	StatusIdle ControlStatus = iota
	StatusStarted
	StatusSampleLimit
	StatusThreshold
	StatusTimeout
	StatusOneArmRemaining
	StatusNoMoves
	StatusError
	StatusExternalCancel
	StatusFinished
)

var controlStatusNames = map[ControlStatus]string{
	StatusIdle:            "Idle",
	StatusStarted:         "Started",
	StatusSampleLimit:     "SampleLimit",
	StatusThreshold:       "Threshold",
	StatusTimeout:         "Timeout",
	StatusOneArmRemaining: "OneArmRemaining",
	StatusNoMoves:         "NoMoves",
	StatusError:           "Error",
	StatusExternalCancel:  "ExternalCancel",
	StatusFinished:        "Finished",
}

func (s ControlStatus) String() string {
	if name, ok := controlStatusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IterOutput is returned by NextIterOutput: the seed for one simulation
// iteration and its ordinal counter value.
type IterOutput struct {
	Seed      int64
	IterCount uint64
}

// IterCompletedOutput is returned by CompleteIter, carrying the cumulative completed-iteration count, elapsed time, and
// whether this call lands on the print cadence.
type IterCompletedOutput struct {
	IterCountCompleted uint64
	TimeElapsed        time.Duration
	PrintInfo          bool
}

// ThreadControl is the cancellation/coordination object shared by all
// simulation workers: a cooperative stop flag, a seeded per-iteration
// dispenser, an iteration counter, an elapsed-time clock, and a print
// cadence. There is no teacher equivalent (the teacher's only concurrency
// is the movegen per-axis goroutine fan-out with no shared cancellation
// state); this follows the shape of the original engine's thread_control.h
// using Go's native sync/atomic in place of a mutex+condvar.
type ThreadControl struct {
	status        int32 // ControlStatus, accessed atomically
	exitReason    int32 // first stop reason observed, accessed atomically
	baseSeed      int64
	iterCounter   uint64 // atomically incremented
	completedIter uint64
	numThreads    int
	printInterval uint64
	startTime     time.Time

	printMu sync.Mutex
}

func NewThreadControl(baseSeed int64, numThreads int, printInterval uint64) *ThreadControl {
	return &ThreadControl{
		baseSeed:      baseSeed,
		numThreads:    numThreads,
		printInterval: printInterval,
		startTime:     time.Now(),
	}
}

// Status returns the current status.
func (tc *ThreadControl) Status() ControlStatus {
	return ControlStatus(atomic.LoadInt32(&tc.status))
}

// SetStatus sets the status, observed by all workers polling Status(). The
// first stop reason to land is latched as the exit reason, so a later move
// to Finished doesn't erase why the run ended.
func (tc *ThreadControl) SetStatus(s ControlStatus) {
	if s != StatusIdle && s != StatusStarted && s != StatusFinished {
		atomic.CompareAndSwapInt32(&tc.exitReason, int32(StatusIdle), int32(s))
	}
	atomic.StoreInt32(&tc.status, int32(s))
}

// ExitReason returns the first stop reason recorded, or Idle if the run has
// not stopped.
func (tc *ThreadControl) ExitReason() ControlStatus {
	return ControlStatus(atomic.LoadInt32(&tc.exitReason))
}

// IsRunning reports whether workers should continue iterating.
func (tc *ThreadControl) IsRunning() bool {
	return tc.Status() == StatusStarted
}

// IsWindingDown reports whether a stop has been requested but some workers
// may still be finishing their current iteration.
func (tc *ThreadControl) IsWindingDown() bool {
	s := tc.Status()
	return s != StatusIdle && s != StatusStarted
}

// Stop requests cancellation with ExternalCancel, per spec.md §5's
// "external callers may call stop() to set ExternalCancel".
func (tc *ThreadControl) Stop() {
	tc.SetStatus(StatusExternalCancel)
}

// Threads returns the configured worker count.
func (tc *ThreadControl) Threads() int {
	return tc.numThreads
}

// NextIterOutput atomically increments the iteration counter and returns
// (seed = base_seed XOR counter, counter) — a single-producer seed
// dispenser safe for concurrent callers via lock-free CAS (here, an atomic
// add).
func (tc *ThreadControl) NextIterOutput() IterOutput {
	counter := atomic.AddUint64(&tc.iterCounter, 1)
	return IterOutput{Seed: tc.baseSeed ^ int64(counter), IterCount: counter}
}

// CompleteIter records one finished iteration and reports whether this
// completion lands on the print cadence.
func (tc *ThreadControl) CompleteIter() IterCompletedOutput {
	completed := atomic.AddUint64(&tc.completedIter, 1)
	printNow := tc.printInterval > 0 && completed%tc.printInterval == 0
	return IterCompletedOutput{
		IterCountCompleted: completed,
		TimeElapsed:        time.Since(tc.startTime),
		PrintInfo:          printNow,
	}
}

// IterCount returns the number of iterations dispensed so far.
func (tc *ThreadControl) IterCount() uint64 {
	return atomic.LoadUint64(&tc.iterCounter)
}

// CompletedCount returns the number of iterations completed so far.
func (tc *ThreadControl) CompletedCount() uint64 {
	return atomic.LoadUint64(&tc.completedIter)
}

// SecondsElapsed returns the elapsed time since NewThreadControl or the last
// Reset.
func (tc *ThreadControl) SecondsElapsed() float64 {
	return time.Since(tc.startTime).Seconds()
}

// Print serializes diagnostic output across threads via a dedicated mutex,
// matching the source's print-mutex design; the payload itself is left to
// the caller (this package only guards the critical section).
func (tc *ThreadControl) Print(fn func()) {
	tc.printMu.Lock()
	defer tc.printMu.Unlock()
	fn()
}

// Reset returns the control object to Idle for a fresh run, resetting
// counters, the latched exit reason, and the elapsed-time clock.
func (tc *ThreadControl) Reset() {
	atomic.StoreInt32(&tc.status, int32(StatusIdle))
	atomic.StoreInt32(&tc.exitReason, int32(StatusIdle))
	atomic.StoreUint64(&tc.iterCounter, 0)
	atomic.StoreUint64(&tc.completedIter, 0)
	tc.startTime = time.Now()
}
