package audioio

import (
	"errors"
	"fmt"

	"github.com/tphakala/audioio/internal/backend"
)

// Device is an audio device enumerated from a Host. It answers capability
// queries and builds streams. Devices are cheap handles; they hold no
// native resources beyond the Host's connection.
type Device struct {
	bk   backend.Device
	host *Host
}

// Name returns the device's human-readable name.
func (d *Device) Name() string {
	return d.bk.Name()
}

// SupportedOutputConfigs enumerates the output configuration ranges the
// device supports: one range per supported channel count, each carrying the
// full rate and buffer envelope. The query is bounded; on failure it
// reports ErrDeviceQueryFailed.
func (d *Device) SupportedOutputConfigs() ([]SupportedStreamConfigRange, error) {
	caps, err := d.bk.Capabilities()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceQueryFailed, err)
	}
	return outputRanges(caps), nil
}

// SupportedInputConfigs enumerates the input configuration ranges. Reading
// back the native input format requires transiently activating a hardware
// configuration; if that probe fails the device cannot serve input and the
// call fails with ErrStreamTypeNotSupported, never a partial result. The
// backend restores or discards the transient configuration before
// returning on all paths.
func (d *Device) SupportedInputConfigs() ([]SupportedStreamConfigRange, error) {
	caps, err := d.bk.Capabilities()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceQueryFailed, err)
	}
	native, err := d.bk.ProbeInputFormat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStreamTypeNotSupported, err)
	}
	return []SupportedStreamConfigRange{{
		Channels:      native.Channels,
		MinSampleRate: native.SampleRate,
		MaxSampleRate: native.SampleRate,
		BufferSize:    supportedBufferSize(caps),
		Format:        SupportedSampleFormat,
	}}, nil
}

// DefaultOutputConfig selects the preferred output configuration: the
// maximum enumerated range under the default heuristic order, fixed to the
// platform's canonical sample rate. Fails with ErrNoSupportedConfig when
// enumeration yields nothing.
func (d *Device) DefaultOutputConfig() (SupportedStreamConfig, error) {
	caps, err := d.bk.Capabilities()
	if err != nil {
		return SupportedStreamConfig{}, fmt.Errorf("%w: %w", ErrDeviceQueryFailed, err)
	}
	ranges := outputRanges(caps)
	if len(ranges) == 0 {
		return SupportedStreamConfig{}, ErrNoSupportedConfig
	}
	return maxRange(ranges).WithSampleRate(caps.DefaultSampleRate), nil
}

// DefaultInputConfig selects the preferred input configuration, fixed to
// the rate the hardware natively runs at.
func (d *Device) DefaultInputConfig() (SupportedStreamConfig, error) {
	ranges, err := d.SupportedInputConfigs()
	if err != nil {
		return SupportedStreamConfig{}, err
	}
	if len(ranges) == 0 {
		return SupportedStreamConfig{}, ErrNoSupportedConfig
	}
	best := maxRange(ranges)
	return best.WithSampleRate(best.MaxSampleRate), nil
}

// BuildOutputStream validates config against the device, negotiates the
// native stream format to match (channels, rate, format) exactly as
// interleaved packed linear PCM, registers the callback bridge, starts
// hardware playback, and returns an owning handle in the playing state.
//
// Validation and negotiation failures return ErrStreamConfigNotSupported;
// endpoint acquisition failures return ErrDeviceNotAvailable. A build
// failure yields no stream and no partial native state.
//
// dataCallback runs on the native real-time thread; see DataCallback for
// its constraints. errorCallback may be nil.
func (d *Device) BuildOutputStream(config StreamConfig, format SampleFormat, dataCallback DataCallback, errorCallback ErrorCallback) (*Stream, error) {
	metrics := d.host.metrics
	if dataCallback == nil {
		return nil, errors.New("audioio: data callback must not be nil")
	}
	if errorCallback == nil {
		errorCallback = func(error) {}
	}

	caps, err := d.bk.Capabilities()
	if err != nil {
		metrics.RecordStreamBuild(false)
		return nil, fmt.Errorf("%w: %w", ErrDeviceNotAvailable, err)
	}
	if !validConfig(config, format, caps) {
		metrics.RecordStreamBuild(false)
		return nil, fmt.Errorf("%w: %d channels at %d Hz (%s)",
			ErrStreamConfigNotSupported, config.Channels, config.SampleRate, format)
	}

	bufferFrames, err := resolveBufferFrames(config.BufferSize, caps)
	if err != nil {
		metrics.RecordStreamBuild(false)
		return nil, err
	}

	bridge := &outputBridge{
		dataCallback:  dataCallback,
		errorCallback: errorCallback,
		clock:         d.bk.Clock(),
		sampleRate:    config.SampleRate,
		format:        format,
		metrics:       metrics,
	}

	stream := newStream(nil, errorCallback, d.host.logger, metrics)
	endpoint, err := d.bk.OpenOutput(
		backend.StreamFormat{Channels: config.Channels, SampleRate: config.SampleRate},
		bufferFrames,
		backend.Callbacks{Render: bridge.render, Stopped: stream.onNativeStop},
	)
	if err != nil {
		metrics.RecordStreamBuild(false)
		if errors.Is(err, backend.ErrFormatRejected) {
			return nil, fmt.Errorf("%w: %w", ErrStreamConfigNotSupported, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrDeviceNotAvailable, err)
	}
	stream.endpoint = endpoint

	if err := endpoint.Start(); err != nil {
		_ = endpoint.Close()
		metrics.RecordStreamBuild(false)
		return nil, newBackendError("start stream", err, ErrDeviceNotAvailable)
	}
	stream.playing()

	d.host.logger.Info("output stream started",
		"device", d.Name(),
		"channels", config.Channels,
		"sample_rate", config.SampleRate,
		"buffer_frames", bufferFrames,
		"format", format.String())
	metrics.RecordStreamBuild(true)
	return stream, nil
}

// BuildInputStream is not implemented for any current backend; it fails
// with ErrStreamTypeNotSupported.
func (d *Device) BuildInputStream(config StreamConfig, format SampleFormat, dataCallback DataCallback, errorCallback ErrorCallback) (*Stream, error) {
	return nil, ErrStreamTypeNotSupported
}

// outputRanges derives the enumerable output ranges from device
// capabilities: one range per supported channel count carrying the full
// rate and buffer envelope.
func outputRanges(caps backend.Capabilities) []SupportedStreamConfigRange {
	if caps.MinChannels < 1 || caps.MaxChannels < caps.MinChannels ||
		caps.MinSampleRate < 1 || caps.MaxSampleRate < caps.MinSampleRate {
		return nil
	}
	ranges := make([]SupportedStreamConfigRange, 0, caps.MaxChannels-caps.MinChannels+1)
	for ch := caps.MinChannels; ch <= caps.MaxChannels; ch++ {
		ranges = append(ranges, SupportedStreamConfigRange{
			Channels:      ch,
			MinSampleRate: caps.MinSampleRate,
			MaxSampleRate: caps.MaxSampleRate,
			BufferSize:    supportedBufferSize(caps),
			Format:        SupportedSampleFormat,
		})
	}
	return ranges
}

func supportedBufferSize(caps backend.Capabilities) SupportedBufferSize {
	if !caps.BufferBoundsKnown {
		return SupportedBufferSize{}
	}
	return SupportedBufferSize{Min: caps.MinBufferFrames, Max: caps.MaxBufferFrames, Known: true}
}

// resolveBufferFrames turns a buffer size request into a concrete frame
// count, rejecting impossible requests before any native call is made.
func resolveBufferFrames(size BufferSize, caps backend.Capabilities) (int, error) {
	if !size.IsFixed() {
		return caps.DefaultBufferFrames, nil
	}
	frames := size.Frames()
	if frames <= 0 {
		return 0, fmt.Errorf("%w: buffer size of %d frames", ErrStreamConfigNotSupported, frames)
	}
	if caps.BufferBoundsKnown && (frames < caps.MinBufferFrames || frames > caps.MaxBufferFrames) {
		return 0, fmt.Errorf("%w: buffer size %d outside [%d, %d] frames",
			ErrStreamConfigNotSupported, frames, caps.MinBufferFrames, caps.MaxBufferFrames)
	}
	return frames, nil
}
