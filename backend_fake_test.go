package audioio

import (
	"errors"

	"github.com/tphakala/audioio/internal/backend"
)

// Fakes implementing the backend interfaces so negotiation, bridging and
// stream control can be exercised without hardware.

var errFakeNative = errors.New("native failure")

type fakeClock struct {
	failures int // fail this many upcoming conversions
}

func (c *fakeClock) HostTimeToNanos(hostTime uint64) (int64, error) {
	if c.failures > 0 {
		c.failures--
		return 0, errFakeNative
	}
	return int64(hostTime), nil
}

type fakeEndpoint struct {
	device     *fakeDevice
	callbacks  backend.Callbacks
	startCalls int
	stopCalls  int
	closeCalls int
	startErr   error
	stopErr    error
}

func (e *fakeEndpoint) Start() error {
	if e.startErr != nil {
		return e.startErr
	}
	e.startCalls++
	return nil
}

func (e *fakeEndpoint) Stop() error {
	if e.stopErr != nil {
		return e.stopErr
	}
	e.stopCalls++
	return nil
}

func (e *fakeEndpoint) Close() error {
	e.closeCalls++
	return nil
}

// deliver simulates one hardware buffer-ready notification.
func (e *fakeEndpoint) deliver(channels int, data []byte, hostTime uint64) {
	e.callbacks.Render(backend.RawBuffer{Channels: channels, Data: data}, hostTime)
}

// stop simulates the native stop notification.
func (e *fakeEndpoint) stop() {
	if e.callbacks.Stopped != nil {
		e.callbacks.Stopped()
	}
}

type fakeDevice struct {
	name     string
	caps     backend.Capabilities
	capsErr  error
	probe    backend.NativeFormat
	probeErr error
	clock    *fakeClock

	openErr      error
	nextStartErr error
	openCalls    int
	probeCalls   int
	lastFormat   backend.StreamFormat
	lastFrames   int
	lastEndpoint *fakeEndpoint
}

func (d *fakeDevice) Name() string { return d.name }

func (d *fakeDevice) Capabilities() (backend.Capabilities, error) {
	if d.capsErr != nil {
		return backend.Capabilities{}, d.capsErr
	}
	return d.caps, nil
}

func (d *fakeDevice) ProbeInputFormat() (backend.NativeFormat, error) {
	d.probeCalls++
	if d.probeErr != nil {
		return backend.NativeFormat{}, d.probeErr
	}
	return d.probe, nil
}

func (d *fakeDevice) Clock() backend.Clock { return d.clock }

func (d *fakeDevice) OpenOutput(format backend.StreamFormat, bufferFrames int, cb backend.Callbacks) (backend.Endpoint, error) {
	d.openCalls++
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.lastFormat = format
	d.lastFrames = bufferFrames
	d.lastEndpoint = &fakeEndpoint{device: d, callbacks: cb, startErr: d.nextStartErr}
	return d.lastEndpoint, nil
}

type fakeBackend struct {
	devices []*fakeDevice
	closed  bool
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) OutputDevices() ([]backend.Device, error) {
	out := make([]backend.Device, 0, len(b.devices))
	for _, d := range b.devices {
		out = append(out, d)
	}
	return out, nil
}

func (b *fakeBackend) DefaultOutputDevice() (backend.Device, error) {
	if len(b.devices) == 0 {
		return nil, backend.ErrDeviceUnavailable
	}
	return b.devices[0], nil
}

func (b *fakeBackend) Close() error {
	b.closed = true
	return nil
}

// stereoCaps matches a device with channels in [1,2], a single 44100 Hz
// rate and a fixed 512-frame buffer.
func stereoCaps() backend.Capabilities {
	return backend.Capabilities{
		MinChannels:         1,
		MaxChannels:         2,
		MinSampleRate:       44100,
		MaxSampleRate:       44100,
		DefaultSampleRate:   44100,
		MinBufferFrames:     512,
		MaxBufferFrames:     512,
		BufferBoundsKnown:   true,
		DefaultBufferFrames: 512,
	}
}

func newFakeDevice(caps backend.Capabilities) *fakeDevice {
	return &fakeDevice{
		name:  "Fake Output",
		caps:  caps,
		probe: backend.NativeFormat{Channels: 1, SampleRate: caps.DefaultSampleRate},
		clock: &fakeClock{},
	}
}

// newTestHost builds a host over a single fake device and returns both.
func newTestHost(caps backend.Capabilities) (*Host, *fakeDevice) {
	dev := newFakeDevice(caps)
	host, err := newHost(&fakeBackend{devices: []*fakeDevice{dev}})
	if err != nil {
		panic(err)
	}
	return host, dev
}
