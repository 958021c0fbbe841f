package audioio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/audioio/internal/backend"
)

func defaultOutputDevice(t *testing.T, host *Host) *Device {
	t.Helper()
	dev, err := host.DefaultOutputDevice()
	require.NoError(t, err)
	return dev
}

func TestSupportedOutputConfigs(t *testing.T) {
	host, _ := newTestHost(stereoCaps())
	defer host.Close()
	dev := defaultOutputDevice(t, host)

	ranges, err := dev.SupportedOutputConfigs()
	require.NoError(t, err)
	require.Len(t, ranges, 2)

	for i, r := range ranges {
		assert.Equal(t, i+1, r.Channels)
		assert.Equal(t, 44100, r.MinSampleRate)
		assert.Equal(t, 44100, r.MaxSampleRate)
		assert.True(t, r.BufferSize.Known)
		assert.Equal(t, SupportedSampleFormat, r.Format)
	}
}

func TestSupportedOutputConfigsQueryFailure(t *testing.T) {
	host, dev := newTestHost(stereoCaps())
	defer host.Close()
	dev.capsErr = errFakeNative

	d := defaultOutputDevice(t, host)
	_, err := d.SupportedOutputConfigs()
	assert.ErrorIs(t, err, ErrDeviceQueryFailed)
}

func TestDefaultOutputConfigDeterminism(t *testing.T) {
	host, _ := newTestHost(stereoCaps())
	defer host.Close()
	dev := defaultOutputDevice(t, host)

	first, err := dev.DefaultOutputConfig()
	require.NoError(t, err)
	assert.Equal(t, 2, first.Channels)
	assert.Equal(t, 44100, first.SampleRate)
	assert.Equal(t, SupportedSampleFormat, first.Format)

	// Unchanged device, identical answer every time.
	for i := 0; i < 5; i++ {
		again, err := dev.DefaultOutputConfig()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSupportedInputConfigs(t *testing.T) {
	host, fake := newTestHost(stereoCaps())
	defer host.Close()
	fake.probe = backend.NativeFormat{Channels: 1, SampleRate: 48000}

	dev := defaultOutputDevice(t, host)
	ranges, err := dev.SupportedInputConfigs()
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, 1, ranges[0].Channels)
	assert.Equal(t, 48000, ranges[0].MinSampleRate)
	assert.Equal(t, 48000, ranges[0].MaxSampleRate)
	assert.Equal(t, 1, fake.probeCalls)
}

func TestSupportedInputConfigsProbeFailure(t *testing.T) {
	host, fake := newTestHost(stereoCaps())
	defer host.Close()
	fake.probeErr = errFakeNative

	dev := defaultOutputDevice(t, host)
	_, err := dev.SupportedInputConfigs()
	assert.ErrorIs(t, err, ErrStreamTypeNotSupported)

	_, err = dev.DefaultInputConfig()
	assert.ErrorIs(t, err, ErrStreamTypeNotSupported)
}

func TestDefaultInputConfigUsesNativeRate(t *testing.T) {
	host, fake := newTestHost(stereoCaps())
	defer host.Close()
	fake.probe = backend.NativeFormat{Channels: 1, SampleRate: 48000}

	dev := defaultOutputDevice(t, host)
	cfg, err := dev.DefaultInputConfig()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Channels)
	assert.Equal(t, 48000, cfg.SampleRate)
}

func TestBuildOutputStream(t *testing.T) {
	host, fake := newTestHost(stereoCaps())
	defer host.Close()
	dev := defaultOutputDevice(t, host)

	config := StreamConfig{Channels: 2, SampleRate: 44100, BufferSize: FixedBufferSize(512)}
	stream, err := dev.BuildOutputStream(config, FormatF32,
		func(buf Buffer, info OutputCallbackInfo) {}, nil)
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, StatePlaying, stream.State())
	assert.Equal(t, 1, fake.openCalls)
	assert.Equal(t, backend.StreamFormat{Channels: 2, SampleRate: 44100}, fake.lastFormat)
	assert.Equal(t, 512, fake.lastFrames)
	assert.Equal(t, 1, fake.lastEndpoint.startCalls)
}

func TestBuildOutputStreamDeliversAudio(t *testing.T) {
	host, fake := newTestHost(stereoCaps())
	defer host.Close()
	dev := defaultOutputDevice(t, host)

	var got []float32
	var infos []OutputCallbackInfo
	config := StreamConfig{Channels: 2, SampleRate: 44100}
	stream, err := dev.BuildOutputStream(config, FormatF32,
		func(buf Buffer, info OutputCallbackInfo) {
			samples := buf.Samples()
			for i := range samples {
				samples[i] = 0.5
			}
			got = append(got, samples...)
			infos = append(infos, info)
		}, nil)
	require.NoError(t, err)
	defer stream.Close()

	data := make([]byte, 2048)
	fake.lastEndpoint.deliver(2, data, 1_000_000)
	fake.lastEndpoint.deliver(2, data, 7_000_000)

	assert.Len(t, got, 1024)
	require.Len(t, infos, 2)
	assert.True(t, infos[1].Timestamp.Callback.After(infos[0].Timestamp.Callback))

	// The callback's writes land in the native buffer.
	view := bufferView(data, FormatF32)
	assert.Equal(t, float32(0.5), view.Samples()[0])
}

func TestBuildOutputStreamRejectsInvalidConfig(t *testing.T) {
	host, fake := newTestHost(stereoCaps())
	defer host.Close()
	dev := defaultOutputDevice(t, host)
	noop := func(buf Buffer, info OutputCallbackInfo) {}

	tests := []struct {
		name   string
		config StreamConfig
		format SampleFormat
	}{
		{"too many channels", StreamConfig{Channels: 3, SampleRate: 44100}, FormatF32},
		{"zero channels", StreamConfig{Channels: 0, SampleRate: 44100}, FormatF32},
		{"unsupported rate", StreamConfig{Channels: 2, SampleRate: 48000}, FormatF32},
		{"unsupported format", StreamConfig{Channels: 2, SampleRate: 44100}, FormatUnknown},
		{"zero-frame buffer", StreamConfig{Channels: 2, SampleRate: 44100, BufferSize: FixedBufferSize(0)}, FormatF32},
		{"buffer outside bounds", StreamConfig{Channels: 2, SampleRate: 44100, BufferSize: FixedBufferSize(64)}, FormatF32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream, err := dev.BuildOutputStream(tt.config, tt.format, noop, nil)
			assert.Nil(t, stream)
			assert.ErrorIs(t, err, ErrStreamConfigNotSupported)
		})
	}

	// Every rejection happened before any native call.
	assert.Equal(t, 0, fake.openCalls)
}

func TestBuildOutputStreamNilDataCallback(t *testing.T) {
	host, fake := newTestHost(stereoCaps())
	defer host.Close()
	dev := defaultOutputDevice(t, host)

	stream, err := dev.BuildOutputStream(StreamConfig{Channels: 2, SampleRate: 44100}, FormatF32, nil, nil)
	assert.Nil(t, stream)
	assert.Error(t, err)
	assert.Equal(t, 0, fake.openCalls)
}

func TestBuildOutputStreamNegotiationRejection(t *testing.T) {
	host, fake := newTestHost(stereoCaps())
	defer host.Close()
	fake.openErr = backend.ErrFormatRejected

	dev := defaultOutputDevice(t, host)
	stream, err := dev.BuildOutputStream(StreamConfig{Channels: 2, SampleRate: 44100}, FormatF32,
		func(buf Buffer, info OutputCallbackInfo) {}, nil)
	assert.Nil(t, stream)
	assert.ErrorIs(t, err, ErrStreamConfigNotSupported)
}

func TestBuildOutputStreamDeviceUnavailable(t *testing.T) {
	host, fake := newTestHost(stereoCaps())
	defer host.Close()
	fake.openErr = backend.ErrDeviceUnavailable

	dev := defaultOutputDevice(t, host)
	stream, err := dev.BuildOutputStream(StreamConfig{Channels: 2, SampleRate: 44100}, FormatF32,
		func(buf Buffer, info OutputCallbackInfo) {}, nil)
	assert.Nil(t, stream)
	assert.ErrorIs(t, err, ErrDeviceNotAvailable)
}

func TestBuildOutputStreamStartFailureCleansUp(t *testing.T) {
	host, fake := newTestHost(stereoCaps())
	defer host.Close()
	fake.nextStartErr = errFakeNative

	dev := defaultOutputDevice(t, host)
	stream, err := dev.BuildOutputStream(StreamConfig{Channels: 2, SampleRate: 44100}, FormatF32,
		func(buf Buffer, info OutputCallbackInfo) {}, nil)
	assert.Nil(t, stream)

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 1, fake.lastEndpoint.closeCalls)
}

func TestBuildInputStreamNotSupported(t *testing.T) {
	host, _ := newTestHost(stereoCaps())
	defer host.Close()
	dev := defaultOutputDevice(t, host)

	stream, err := dev.BuildInputStream(StreamConfig{Channels: 1, SampleRate: 44100}, FormatF32,
		func(buf Buffer, info OutputCallbackInfo) {}, nil)
	assert.Nil(t, stream)
	assert.ErrorIs(t, err, ErrStreamTypeNotSupported)
}

func TestStreamErrorCallbackOnUnexpectedDeviceStop(t *testing.T) {
	host, fake := newTestHost(stereoCaps())
	defer host.Close()
	dev := defaultOutputDevice(t, host)

	var reported []error
	stream, err := dev.BuildOutputStream(StreamConfig{Channels: 2, SampleRate: 44100}, FormatF32,
		func(buf Buffer, info OutputCallbackInfo) {},
		func(err error) { reported = append(reported, err) })
	require.NoError(t, err)
	defer stream.Close()

	fake.lastEndpoint.stop()
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], ErrDeviceNotAvailable)

	// After a deliberate pause the same notification is silent.
	require.NoError(t, stream.Pause())
	fake.lastEndpoint.stop()
	assert.Len(t, reported, 1)
}
