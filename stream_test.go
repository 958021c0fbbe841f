package audioio

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStream(t *testing.T, ep *fakeEndpoint, errorCallback ErrorCallback) *Stream {
	t.Helper()
	s := newStream(ep, errorCallback, slog.Default(), nil)
	ep.callbacks.Stopped = s.onNativeStop
	return s
}

func TestStreamPlayPauseIdempotent(t *testing.T) {
	ep := &fakeEndpoint{}
	s := newTestStream(t, ep, nil)

	require.NoError(t, s.Play())
	assert.Equal(t, StatePlaying, s.State())
	assert.Equal(t, 1, ep.startCalls)

	// Playing a playing stream makes no native call.
	require.NoError(t, s.Play())
	assert.Equal(t, 1, ep.startCalls)

	require.NoError(t, s.Pause())
	assert.Equal(t, StatePaused, s.State())
	assert.Equal(t, 1, ep.stopCalls)

	// Pausing a paused stream makes no native call.
	require.NoError(t, s.Pause())
	assert.Equal(t, 1, ep.stopCalls)

	// The pair is re-entrant.
	require.NoError(t, s.Play())
	assert.Equal(t, 2, ep.startCalls)
	assert.Equal(t, StatePlaying, s.State())
}

func TestStreamPauseOnIdleStream(t *testing.T) {
	ep := &fakeEndpoint{}
	s := newTestStream(t, ep, nil)

	require.NoError(t, s.Pause())
	assert.Equal(t, 0, ep.stopCalls)
	assert.Equal(t, StateIdle, s.State())
}

func TestStreamPlayFailureKeepsState(t *testing.T) {
	ep := &fakeEndpoint{startErr: errFakeNative}
	s := newTestStream(t, ep, nil)

	err := s.Play()
	require.Error(t, err)
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, StateIdle, s.State())
}

func TestStreamPauseFailureKeepsPlaying(t *testing.T) {
	ep := &fakeEndpoint{}
	s := newTestStream(t, ep, nil)
	require.NoError(t, s.Play())

	ep.stopErr = errFakeNative
	err := s.Pause()
	require.Error(t, err)
	assert.Equal(t, StatePlaying, s.State())
}

func TestStreamCloseIdempotent(t *testing.T) {
	ep := &fakeEndpoint{}
	s := newTestStream(t, ep, nil)
	require.NoError(t, s.Play())

	require.NoError(t, s.Close())
	assert.Equal(t, 1, ep.closeCalls)
	assert.Equal(t, StateIdle, s.State())

	require.NoError(t, s.Close())
	assert.Equal(t, 1, ep.closeCalls)

	assert.ErrorIs(t, s.Play(), ErrStreamClosed)
	assert.ErrorIs(t, s.Pause(), ErrStreamClosed)
}

func TestNativeStopAfterPauseIsSilent(t *testing.T) {
	var reported []error
	ep := &fakeEndpoint{}
	s := newTestStream(t, ep, func(err error) { reported = append(reported, err) })

	require.NoError(t, s.Play())
	require.NoError(t, s.Pause())

	// The native stop notification for a deliberate pause is not an error.
	ep.stop()
	assert.Empty(t, reported)
}

func TestNativeStopAfterCloseIsSilent(t *testing.T) {
	var reported []error
	ep := &fakeEndpoint{}
	s := newTestStream(t, ep, func(err error) { reported = append(reported, err) })

	require.NoError(t, s.Play())
	require.NoError(t, s.Close())

	ep.stop()
	assert.Empty(t, reported)
}

func TestUnexpectedNativeStopReportsError(t *testing.T) {
	var reported []error
	ep := &fakeEndpoint{}
	s := newTestStream(t, ep, func(err error) { reported = append(reported, err) })

	require.NoError(t, s.Play())

	// Hardware vanished mid-playback.
	ep.stop()
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], ErrDeviceNotAvailable)
}
