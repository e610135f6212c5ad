// Package clock implements the seek-position clock: a start/stop
// elapsed-time counter with a settable offset, used by the
// coordinator as the playhead. It has no catch-up or drift compensation —
// its resolution is whatever the host's render loop polls at.
package clock

import (
	"sync"
	"time"

	"github.com/oreal-solutions/npxlplay/internal/mediatime"
)

// nowFunc is swappable in tests.
var nowFunc = time.Now

// SeekClock is a monotonic elapsed-duration counter with a fixed offset,
// safe for concurrent Elapsed() reads while the host's render loop and a
// buffering goroutine both touch the coordinator.
type SeekClock struct {
	mu        sync.Mutex
	offset    mediatime.Duration
	running   bool
	startedAt time.Time
	accrued   mediatime.Duration // elapsed before the current running span
}

// New returns a stopped clock with zero offset and zero elapsed time.
func New() *SeekClock {
	return &SeekClock{}
}

// WithOffset returns a new, stopped clock whose Elapsed() equals
// d + underlying elapsed (which starts at zero). This is how Seek is
// implemented: the coordinator discards its old clock and installs a
// fresh one built WithOffset(to).
func WithOffset(d mediatime.Duration) *SeekClock {
	return &SeekClock{offset: d}
}

// Start begins (or resumes) elapsing time. No-op if already running.
func (c *SeekClock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.startedAt = nowFunc()
}

// Stop halts elapsing time, folding the running span into the accrued total.
func (c *SeekClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *SeekClock) stopLocked() {
	if !c.running {
		return
	}
	c.accrued = c.accrued.Add(mediatime.FromStdlib(nowFunc().Sub(c.startedAt)))
	c.running = false
}

// Reset stops the clock and zeroes its accrued elapsed time (the offset
// is preserved — Reset does not undo WithOffset).
func (c *SeekClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.accrued = mediatime.Zero
}

// Elapsed returns offset + underlying elapsed time.
func (c *SeekClock) Elapsed() mediatime.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.accrued
	if c.running {
		total = total.Add(mediatime.FromStdlib(nowFunc().Sub(c.startedAt)))
	}
	return c.offset.Add(total)
}

// IsRunning reports whether the clock is currently elapsing time.
func (c *SeekClock) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
