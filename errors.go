package audioio

import (
	"errors"
	"fmt"
)

// The closed error taxonomy exposed by this package. Every native status
// code is mapped to one of these at the backend boundary; raw platform
// errors never cross the public interface. Use errors.Is to test, and
// errors.As with *BackendError to reach the native description.
var (
	// ErrDeviceNotAvailable indicates the native endpoint or device could
	// not be acquired. Callers may retry after a backoff.
	ErrDeviceNotAvailable = errors.New("audioio: device not available")

	// ErrStreamConfigNotSupported indicates the requested configuration is
	// outside hardware bounds or was rejected during native negotiation.
	// Never retried automatically.
	ErrStreamConfigNotSupported = errors.New("audioio: stream configuration not supported")

	// ErrNoSupportedConfig indicates enumeration produced no configuration
	// to select a default from. This is a caller-reachable condition, not a
	// fatal abort.
	ErrNoSupportedConfig = errors.New("audioio: no supported stream configuration")

	// ErrStreamTypeNotSupported indicates the device cannot serve the
	// requested stream direction, including when an input capability probe
	// fails.
	ErrStreamTypeNotSupported = errors.New("audioio: stream type not supported")

	// ErrDeviceQueryFailed indicates a bounded device capability query
	// failed.
	ErrDeviceQueryFailed = errors.New("audioio: device query failed")

	// ErrTimestampConversion is delivered to the error callback when the
	// native host time conversion fails for one buffer cycle. The cycle
	// produces no data; the stream keeps running.
	ErrTimestampConversion = errors.New("audioio: host time conversion failed")

	// ErrTimestampOverflow is delivered to the error callback when the
	// playback instant would exceed the representable range. Timestamps
	// never wrap silently.
	ErrTimestampOverflow = errors.New("audioio: playback instant beyond representable range")

	// ErrStreamClosed is returned by operations on a closed stream.
	ErrStreamClosed = errors.New("audioio: stream closed")
)

// BackendError wraps an opaque native failure so callers can log or display
// it without depending on native error types.
type BackendError struct {
	// Op is the operation that failed, e.g. "start" or "open output".
	Op string

	// Description is the native layer's failure message.
	Description string

	// Err is the taxonomy sentinel this failure maps to, when one applies.
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("audioio: %s: %s", e.Op, e.Description)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func newBackendError(op string, cause, sentinel error) *BackendError {
	return &BackendError{Op: op, Description: cause.Error(), Err: sentinel}
}

// errDeviceStopped is preallocated so the native stop notification path
// does not allocate a cause.
var errDeviceStopped = errors.New("device stopped delivering buffers")
