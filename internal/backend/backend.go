// Package backend defines the capability surface audioio requires from a
// native audio layer: device discovery, capability queries, host time
// conversion, and opening endpoints that drive buffer-ready callbacks.
//
// Implementations own all platform-specific state. The core never sees raw
// platform status codes; failures are reported through the sentinel errors
// below, optionally wrapped with implementation detail.
package backend

import "errors"

// Sentinel errors implementations use so the core can map native failures
// into its public error taxonomy.
var (
	// ErrDeviceUnavailable indicates the device or native context could not
	// be acquired (missing, busy, or disconnected).
	ErrDeviceUnavailable = errors.New("backend: device unavailable")

	// ErrFormatRejected indicates the native layer refused the requested
	// stream format during negotiation.
	ErrFormatRejected = errors.New("backend: stream format rejected")

	// ErrProbeFailed indicates a transient input capability probe could not
	// be completed. Implementations must restore any transient device state
	// before returning this.
	ErrProbeFailed = errors.New("backend: input format probe failed")

	// ErrClock indicates the native host time conversion service failed.
	ErrClock = errors.New("backend: host time conversion failed")
)

// Capabilities describes the envelope a device can operate within, plus the
// platform's canonical defaults. Queries populating it must be bounded; no
// open-ended waits on hardware.
type Capabilities struct {
	MinChannels       int
	MaxChannels       int
	MinSampleRate     int
	MaxSampleRate     int
	DefaultSampleRate int

	// Buffer bounds in frames. BufferBoundsKnown is false when the native
	// layer cannot report them.
	MinBufferFrames   int
	MaxBufferFrames   int
	BufferBoundsKnown bool

	DefaultBufferFrames int
}

// StreamFormat is the exact native format the core negotiates: interleaved,
// packed, 32-bit float linear PCM at the given channel count and rate.
type StreamFormat struct {
	Channels   int
	SampleRate int
}

// NativeFormat is the result of an input capability probe: the channel
// count and sample rate the hardware natively runs at.
type NativeFormat struct {
	Channels   int
	SampleRate int
}

// RawBuffer is the native buffer descriptor delivered with each
// buffer-ready notification. Data is owned by the native layer and is only
// valid for the duration of the render call.
type RawBuffer struct {
	Channels int
	Data     []byte
}

// RenderFunc is invoked by the native layer once per buffer period on its
// real-time thread. Implementations guarantee non-reentrancy: the next call
// is not made until the previous one returns. hostTime is the native
// monotonic time value associated with the buffer delivery.
type RenderFunc func(buf RawBuffer, hostTime uint64)

// Callbacks bundles the notification targets an open endpoint drives.
// Stopped is optional; when set it is invoked every time the device stops
// delivering buffers, whether deliberately or not.
type Callbacks struct {
	Render  RenderFunc
	Stopped func()
}

// Clock converts native host time values into monotonic nanoseconds.
type Clock interface {
	// HostTimeToNanos converts a host time counter to nanoseconds relative
	// to the clock's epoch. Failures must be reported, not defaulted.
	HostTimeToNanos(hostTime uint64) (int64, error)
}

// Endpoint is an open native audio endpoint with registered render
// callback. Start and Stop control hardware buffer delivery; both are safe
// to call redundantly at this layer, though the core serializes them.
type Endpoint interface {
	Start() error
	Stop() error

	// Close stops delivery if needed and releases native resources. Safe to
	// call after Stop, and at most once.
	Close() error
}

// Device is a native audio device handle.
type Device interface {
	Name() string

	// Capabilities returns the device's operating envelope.
	Capabilities() (Capabilities, error)

	// ProbeInputFormat transiently activates an input configuration to read
	// back the native stream format, restoring or discarding the transient
	// state before returning on both success and error paths.
	ProbeInputFormat() (NativeFormat, error)

	// Clock returns the device's host time conversion service.
	Clock() Clock

	// OpenOutput negotiates format exactly, registers cb.Render as the
	// buffer-ready target, and returns the endpoint without starting it.
	// Negotiation refusal is reported as ErrFormatRejected, acquisition
	// failure as ErrDeviceUnavailable.
	OpenOutput(format StreamFormat, bufferFrames int, cb Callbacks) (Endpoint, error)
}

// Backend is a native audio layer: a connection to one platform audio
// service through which devices are discovered.
type Backend interface {
	Name() string
	OutputDevices() ([]Device, error)
	DefaultOutputDevice() (Device, error)

	// Close releases the native context. Devices and endpoints obtained from
	// this backend must not be used afterwards.
	Close() error
}
