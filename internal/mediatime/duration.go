// Package mediatime provides the millisecond-precise, saturating duration
// type shared by the timed media queue, the buffers controller, and the
// seek-position clock.
package mediatime

import "time"

// Duration is a monotonic, non-negative span of time, precise to the
// millisecond. The zero value is zero duration.
type Duration struct {
	ms int64
}

// Zero is the zero duration.
var Zero = Duration{}

// FromMillis builds a Duration from a millisecond count, clamping negative
// input to zero.
func FromMillis(ms int64) Duration {
	if ms < 0 {
		ms = 0
	}
	return Duration{ms: ms}
}

// FromStdlib builds a Duration from a time.Duration, clamping negative
// input to zero and truncating to millisecond precision.
func FromStdlib(d time.Duration) Duration {
	return FromMillis(int64(d / time.Millisecond))
}

// Millis returns the duration as a millisecond count.
func (d Duration) Millis() int64 { return d.ms }

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d.ms) * time.Millisecond
}

// Add returns d + other.
func (d Duration) Add(other Duration) Duration {
	return Duration{ms: d.ms + other.ms}
}

// Sub returns d - other, saturating at zero.
func (d Duration) Sub(other Duration) Duration {
	if other.ms >= d.ms {
		return Zero
	}
	return Duration{ms: d.ms - other.ms}
}

// MulFrac scales d by a fraction, truncating to millisecond precision.
// A negative or zero fraction yields zero.
func (d Duration) MulFrac(frac float64) Duration {
	if frac <= 0 {
		return Zero
	}
	return FromMillis(int64(float64(d.ms) * frac))
}

// Less reports whether d < other.
func (d Duration) Less(other Duration) bool { return d.ms < other.ms }

// LessEq reports whether d <= other.
func (d Duration) LessEq(other Duration) bool { return d.ms <= other.ms }

// Greater reports whether d > other.
func (d Duration) Greater(other Duration) bool { return d.ms > other.ms }

// GreaterEq reports whether d >= other.
func (d Duration) GreaterEq(other Duration) bool { return d.ms >= other.ms }

// Equal reports whether d == other.
func (d Duration) Equal(other Duration) bool { return d.ms == other.ms }

// IsZero reports whether d is the zero duration.
func (d Duration) IsZero() bool { return d.ms == 0 }

// Min returns the smaller of a and b.
func Min(a, b Duration) Duration {
	if a.Less(b) {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Duration) Duration {
	if a.Greater(b) {
		return a
	}
	return b
}
