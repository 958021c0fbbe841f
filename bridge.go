package audioio

import (
	"github.com/tphakala/audioio/internal/backend"
	"github.com/tphakala/audioio/internal/observability"
)

// DataCallback receives one borrowed buffer per cycle and fills it in
// place. It runs on the native real-time thread: it must not block,
// allocate, or perform I/O, and must return within one buffer period.
type DataCallback func(buf Buffer, info OutputCallbackInfo)

// ErrorCallback receives per-cycle runtime errors: a cycle that cannot
// produce valid timing or buffer data reports here instead of invoking the
// data callback. It runs on the native real-time thread under the same
// constraints as DataCallback.
type ErrorCallback func(err error)

// outputBridge is the per-stream real-time entry point. It is registered
// with the native layer exactly once at stream build and invoked once per
// buffer period until teardown. The native layer guarantees invocations
// never overlap.
type outputBridge struct {
	dataCallback  DataCallback
	errorCallback ErrorCallback
	clock         backend.Clock
	sampleRate    int
	format        SampleFormat
	metrics       *observability.StreamMetrics
}

// render is the buffer-ready notification target. It holds no locks,
// retains nothing from raw past return, and allocates only on the error
// path. When timing cannot be established the cycle is aborted without the
// data callback; returning with the buffer untouched is the "no data this
// cycle" signal to the hardware.
func (b *outputBridge) render(raw backend.RawBuffer, hostTime uint64) {
	nanos, err := b.clock.HostTimeToNanos(hostTime)
	if err != nil {
		b.metrics.RecordTimingError()
		b.errorCallback(newBackendError("host time conversion", err, ErrTimestampConversion))
		return
	}
	callback := streamInstantFromNanos(nanos)

	buf := bufferView(raw.Data, b.format)
	frames := 0
	if raw.Channels > 0 {
		frames = buf.Len() / raw.Channels
	}
	delay := framesToDuration(frames, b.sampleRate)
	playback, err := callback.Add(delay)
	if err != nil {
		b.metrics.RecordTimingError()
		b.errorCallback(err)
		return
	}

	info := OutputCallbackInfo{
		Timestamp: OutputStreamTimestamp{Callback: callback, Playback: playback},
	}
	b.dataCallback(buf, info)
	b.metrics.RecordCallback()
}
