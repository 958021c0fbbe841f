package audioio

import (
	"math"
	"time"
)

const nanosPerSecond = int64(time.Second)

// StreamInstant is a monotonic point in time on a stream's time base,
// derived from the native layer's host time counter. Instants from
// different streams are not comparable.
type StreamInstant struct {
	secs  int64
	nanos uint32 // always < nanosPerSecond
}

// streamInstantFromNanos builds an instant from nanoseconds relative to the
// stream clock's epoch. Negative values are floored so nanos stays in
// [0, 1s).
func streamInstantFromNanos(n int64) StreamInstant {
	secs := n / nanosPerSecond
	nanos := n % nanosPerSecond
	if nanos < 0 {
		secs--
		nanos += nanosPerSecond
	}
	return StreamInstant{secs: secs, nanos: uint32(nanos)}
}

// Add returns the instant advanced by d. It fails with
// ErrTimestampOverflow instead of wrapping when the result would exceed the
// representable range, and rejects negative durations.
func (i StreamInstant) Add(d time.Duration) (StreamInstant, error) {
	if d < 0 {
		return StreamInstant{}, ErrTimestampOverflow
	}
	addSecs := int64(d / time.Second)
	nanos := int64(i.nanos) + int64(d%time.Second)
	if nanos >= nanosPerSecond {
		nanos -= nanosPerSecond
		addSecs++
	}
	if i.secs > math.MaxInt64-addSecs {
		return StreamInstant{}, ErrTimestampOverflow
	}
	return StreamInstant{secs: i.secs + addSecs, nanos: uint32(nanos)}, nil
}

// Compare returns -1, 0 or +1 as i is before, equal to, or after other.
func (i StreamInstant) Compare(other StreamInstant) int {
	if c := cmpInt64(i.secs, other.secs); c != 0 {
		return c
	}
	return cmpInt64(int64(i.nanos), int64(other.nanos))
}

// Before reports whether i is strictly earlier than other.
func (i StreamInstant) Before(other StreamInstant) bool {
	return i.Compare(other) < 0
}

// After reports whether i is strictly later than other.
func (i StreamInstant) After(other StreamInstant) bool {
	return i.Compare(other) > 0
}

// DurationSince returns the elapsed time from earlier to i. The second
// return value is false when earlier is after i or the difference is not
// representable as a time.Duration.
func (i StreamInstant) DurationSince(earlier StreamInstant) (time.Duration, bool) {
	if i.Before(earlier) {
		return 0, false
	}
	secs := i.secs - earlier.secs
	nanos := int64(i.nanos) - int64(earlier.nanos)
	if nanos < 0 {
		secs--
		nanos += nanosPerSecond
	}
	if secs > math.MaxInt64/nanosPerSecond {
		return 0, false
	}
	total := secs * nanosPerSecond
	if total > math.MaxInt64-nanos {
		return 0, false
	}
	return time.Duration(total + nanos), true
}

// OutputStreamTimestamp carries the timing of one output buffer cycle:
// when the callback fired and when the delivered samples are predicted to
// reach the output.
type OutputStreamTimestamp struct {
	// Callback is the instant the native layer delivered the buffer.
	Callback StreamInstant

	// Playback is Callback advanced by one buffer period. The native layer
	// renders a previously submitted buffer while this one is being filled,
	// so the delivered samples reach the output roughly one period later.
	// This is a double-buffering approximation, not a measured latency.
	Playback StreamInstant
}

// OutputCallbackInfo is passed to the data callback on every cycle.
type OutputCallbackInfo struct {
	Timestamp OutputStreamTimestamp
}

// framesToDuration converts a frame count at the given sample rate into the
// wall time those frames span.
func framesToDuration(frames, sampleRate int) time.Duration {
	if sampleRate <= 0 || frames <= 0 {
		return 0
	}
	secs := int64(frames) / int64(sampleRate)
	rem := int64(frames) % int64(sampleRate)
	nanos := rem * nanosPerSecond / int64(sampleRate)
	return time.Duration(secs)*time.Second + time.Duration(nanos)
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
