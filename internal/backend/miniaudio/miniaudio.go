// Package miniaudio implements the audioio backend on top of the malgo
// binding to miniaudio, covering ALSA, WASAPI and CoreAudio through one
// native layer.
package miniaudio

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/tphakala/audioio/internal/backend"
	"github.com/tphakala/audioio/internal/errors"
	"github.com/tphakala/audioio/internal/logging"
)

// Device capability constants. miniaudio resamples and remixes on demand;
// these bounds describe the envelope this backend is willing to negotiate
// natively rather than every rate the OS could convert.
const (
	minChannels   = 1
	maxChannels   = 2
	minSampleRate = 8000
	maxSampleRate = 192000

	defaultSampleRate   = 44100
	defaultBufferFrames = 512
	minBufferFrames     = 16
	maxBufferFrames     = 16384
)

// probeChannels is the transient capture configuration used to read back
// the native input rate.
const probeChannels = 1

// Backend is a live malgo context.
type Backend struct {
	ctx    *malgo.AllocatedContext
	logger *slog.Logger
}

// New initializes the platform's native audio context.
func New() (*Backend, error) {
	logger := logging.ForService("miniaudio")

	ctx, err := malgo.InitContext([]malgo.Backend{platformBackend()}, malgo.ContextConfig{}, func(message string) {
		logger.Debug("native log", "message", message)
	})
	if err != nil {
		return nil, errors.New(fmt.Errorf("%w: init context: %w", backend.ErrDeviceUnavailable, err)).
			Component("miniaudio").
			Category(errors.CategoryResource).
			Context("platform", runtime.GOOS).
			Build()
	}
	return &Backend{ctx: ctx, logger: logger}, nil
}

// platformBackend selects the native audio server for the current OS.
func platformBackend() malgo.Backend {
	switch runtime.GOOS {
	case "linux":
		return malgo.BackendAlsa
	case "windows":
		return malgo.BackendWasapi
	case "darwin":
		return malgo.BackendCoreaudio
	default:
		return malgo.BackendNull
	}
}

// Name identifies the backend and the platform audio server it selected.
func (b *Backend) Name() string {
	return "miniaudio/" + runtime.GOOS
}

// OutputDevices enumerates the native playback devices.
func (b *Backend) OutputDevices() ([]backend.Device, error) {
	infos, err := b.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, errors.New(fmt.Errorf("%w: enumerate playback devices: %w", backend.ErrDeviceUnavailable, err)).
			Component("miniaudio").
			Category(errors.CategoryDeviceQuery).
			Build()
	}
	devices := make([]backend.Device, 0, len(infos))
	for i := range infos {
		devices = append(devices, b.newDevice(infos[i]))
	}
	return devices, nil
}

// DefaultOutputDevice returns the playback device the platform marks as
// default, or the first enumerated device when none is marked.
func (b *Backend) DefaultOutputDevice() (backend.Device, error) {
	devices, err := b.OutputDevices()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.(*device).info.IsDefault == 1 {
			return d, nil
		}
	}
	if len(devices) > 0 {
		return devices[0], nil
	}
	return nil, errors.New(fmt.Errorf("%w: no playback devices", backend.ErrDeviceUnavailable)).
		Component("miniaudio").
		Category(errors.CategoryDeviceQuery).
		Build()
}

// Close releases the native context.
func (b *Backend) Close() error {
	err := b.ctx.Uninit()
	b.ctx.Free()
	return err
}

func (b *Backend) newDevice(info malgo.DeviceInfo) *device {
	return &device{
		b:     b,
		info:  info,
		clock: &monotonicClock{epoch: time.Now()},
	}
}

// device wraps one malgo device entry. The clock epoch is captured at wrap
// time; every endpoint opened on this device stamps buffers against it.
type device struct {
	b     *Backend
	info  malgo.DeviceInfo
	clock *monotonicClock
}

func (d *device) Name() string {
	return d.info.Name()
}

func (d *device) Capabilities() (backend.Capabilities, error) {
	return backend.Capabilities{
		MinChannels:         minChannels,
		MaxChannels:         maxChannels,
		MinSampleRate:       minSampleRate,
		MaxSampleRate:       maxSampleRate,
		DefaultSampleRate:   defaultSampleRate,
		MinBufferFrames:     minBufferFrames,
		MaxBufferFrames:     maxBufferFrames,
		BufferBoundsKnown:   true,
		DefaultBufferFrames: defaultBufferFrames,
	}, nil
}

// ProbeInputFormat transiently initializes a capture configuration on the
// device to read back the sample rate the hardware natively runs at. The
// transient device is torn down before returning on every path; it is
// never started, so no capture callbacks fire.
func (d *device) ProbeInputFormat() (backend.NativeFormat, error) {
	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatF32
	cfg.Capture.Channels = probeChannels
	cfg.Capture.DeviceID = d.info.ID.Pointer()
	cfg.Alsa.NoMMap = 1

	probe, err := malgo.InitDevice(d.b.ctx.Context, cfg, malgo.DeviceCallbacks{})
	if err != nil {
		return backend.NativeFormat{}, errors.New(fmt.Errorf("%w: %w", backend.ErrProbeFailed, err)).
			Component("miniaudio").
			Category(errors.CategoryDeviceQuery).
			Context("device", d.Name()).
			Build()
	}
	defer probe.Uninit()

	return backend.NativeFormat{
		Channels:   probeChannels,
		SampleRate: int(probe.SampleRate()),
	}, nil
}

func (d *device) Clock() backend.Clock {
	return d.clock
}

// OpenOutput negotiates an exact f32 interleaved playback format and
// registers the render callback. The endpoint is returned stopped.
func (d *device) OpenOutput(format backend.StreamFormat, bufferFrames int, cb backend.Callbacks) (backend.Endpoint, error) {
	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = uint32(format.Channels)
	cfg.Playback.DeviceID = d.info.ID.Pointer()
	cfg.SampleRate = uint32(format.SampleRate)
	cfg.PeriodSizeInFrames = uint32(bufferFrames)
	cfg.Alsa.NoMMap = 1

	ep := &endpoint{
		clock:    d.clock,
		channels: format.Channels,
		render:   cb.Render,
		stopped:  cb.Stopped,
	}

	callbacks := malgo.DeviceCallbacks{
		Data: ep.onData,
		Stop: ep.onStop,
	}
	dev, err := malgo.InitDevice(d.b.ctx.Context, cfg, callbacks)
	if err != nil {
		return nil, errors.New(fmt.Errorf("%w: init playback device: %w", backend.ErrFormatRejected, err)).
			Component("miniaudio").
			Category(errors.CategoryNegotiation).
			Context("device", d.Name()).
			Context("channels", format.Channels).
			Context("sample_rate", format.SampleRate).
			Build()
	}
	ep.dev = dev

	d.b.logger.Debug("playback endpoint opened",
		"device", d.Name(),
		"channels", format.Channels,
		"sample_rate", format.SampleRate,
		"period_frames", bufferFrames)
	return ep, nil
}

// endpoint is one open malgo playback device.
type endpoint struct {
	dev      *malgo.Device
	clock    *monotonicClock
	channels int
	render   backend.RenderFunc
	stopped  func()
}

// onData runs on the miniaudio real-time thread once per buffer period.
// The host time is stamped here, as close to buffer delivery as possible.
func (e *endpoint) onData(pOutput, pInput []byte, frameCount uint32) {
	hostTime := e.clock.now()
	e.render(backend.RawBuffer{Channels: e.channels, Data: pOutput}, hostTime)
}

func (e *endpoint) onStop() {
	if e.stopped != nil {
		e.stopped()
	}
}

func (e *endpoint) Start() error {
	if err := e.dev.Start(); err != nil {
		return fmt.Errorf("%w: start playback: %w", backend.ErrDeviceUnavailable, err)
	}
	return nil
}

func (e *endpoint) Stop() error {
	if err := e.dev.Stop(); err != nil {
		return fmt.Errorf("%w: stop playback: %w", backend.ErrDeviceUnavailable, err)
	}
	return nil
}

func (e *endpoint) Close() error {
	_ = e.dev.Stop()
	e.dev.Uninit()
	return nil
}

// monotonicClock expresses host time as nanoseconds elapsed since a fixed
// epoch, read from Go's monotonic clock.
type monotonicClock struct {
	epoch time.Time
}

// now returns the current host time value.
func (c *monotonicClock) now() uint64 {
	return uint64(time.Since(c.epoch))
}

// HostTimeToNanos converts a host time counter to epoch-relative
// nanoseconds. Values beyond the signed range are reported, not clamped.
func (c *monotonicClock) HostTimeToNanos(hostTime uint64) (int64, error) {
	if hostTime > math.MaxInt64 {
		return 0, fmt.Errorf("%w: host time %d out of range", backend.ErrClock, hostTime)
	}
	return int64(hostTime), nil
}
