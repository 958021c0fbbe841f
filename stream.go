package audioio

import (
	"log/slog"
	"sync"

	"github.com/tphakala/audioio/internal/backend"
	"github.com/tphakala/audioio/internal/observability"
)

// StreamState is a live stream's playback state.
type StreamState int

const (
	// StateIdle is the state before hardware delivery has started and
	// after the stream has been closed.
	StateIdle StreamState = iota
	StatePlaying
	StatePaused
)

func (s StreamState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// Stream owns a live connection to an audio device. It is created by
// Device.BuildOutputStream and delivers audio through the callbacks
// registered there. All methods are safe for concurrent use; the callback
// path never touches stream state.
type Stream struct {
	mu       sync.Mutex
	state    StreamState
	closed   bool
	endpoint backend.Endpoint

	errorCallback ErrorCallback
	logger        *slog.Logger
	metrics       *observability.StreamMetrics
}

func newStream(ep backend.Endpoint, errorCallback ErrorCallback, logger *slog.Logger, metrics *observability.StreamMetrics) *Stream {
	return &Stream{
		state:         StateIdle,
		endpoint:      ep,
		errorCallback: errorCallback,
		logger:        logger,
		metrics:       metrics,
	}
}

// Play starts hardware buffer delivery. It is idempotent: calling it on a
// stream that is already playing performs no native call and returns nil.
// A native start failure is returned as a *BackendError and leaves the
// recorded state unchanged.
func (s *Stream) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	if s.state == StatePlaying {
		return nil
	}
	if err := s.endpoint.Start(); err != nil {
		return newBackendError("start stream", err, nil)
	}
	s.state = StatePlaying
	return nil
}

// Pause stops hardware buffer delivery. It is idempotent: calling it on a
// stream that is already paused performs no native call and returns nil.
// A callback invocation already in progress runs to completion; no further
// cycles are scheduled afterwards.
func (s *Stream) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	if s.state != StatePlaying {
		return nil
	}
	// State is recorded before the native stop so the stop notification
	// arriving on the native thread is recognized as deliberate.
	s.state = StatePaused
	if err := s.endpoint.Stop(); err != nil {
		s.state = StatePlaying
		return newBackendError("stop stream", err, nil)
	}
	return nil
}

// State returns the stream's current playback state.
func (s *Stream) State() StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close stops delivery and releases the native endpoint. It is safe to
// call on an already paused or already closed stream; subsequent Play and
// Pause calls return ErrStreamClosed.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.state = StateIdle

	if err := s.endpoint.Stop(); err != nil {
		s.logger.Warn("stopping endpoint during close", "error", err)
	}
	if err := s.endpoint.Close(); err != nil {
		return newBackendError("close stream", err, nil)
	}
	return nil
}

// onNativeStop is the backend's stop notification target. Deliberate stops
// (Pause, Close) are recognized by the state recorded before the native
// call; anything else is surfaced through the error callback.
func (s *Stream) onNativeStop() {
	s.mu.Lock()
	unexpected := s.state == StatePlaying && !s.closed
	s.mu.Unlock()

	if !unexpected {
		return
	}
	s.metrics.RecordDeviceStop()
	if s.errorCallback != nil {
		s.errorCallback(newBackendError("stream", errDeviceStopped, ErrDeviceNotAvailable))
	}
}

// playing marks the stream as started by BuildOutputStream.
func (s *Stream) playing() {
	s.mu.Lock()
	s.state = StatePlaying
	s.mu.Unlock()
}
