package audioio

import "github.com/tphakala/audioio/internal/backend"

// preferredSampleRate is the rate the default-selection heuristic favors
// when a configuration range contains it.
const preferredSampleRate = 44100

// BufferSize is a caller's buffer size request: either a fixed frame count
// or the platform default.
type BufferSize struct {
	frames int
	fixed  bool
}

// DefaultBufferSize requests the platform's default buffer size.
func DefaultBufferSize() BufferSize {
	return BufferSize{}
}

// FixedBufferSize requests an exact buffer size in frames.
func FixedBufferSize(frames int) BufferSize {
	return BufferSize{frames: frames, fixed: true}
}

// IsFixed reports whether an exact frame count was requested.
func (b BufferSize) IsFixed() bool { return b.fixed }

// Frames returns the requested frame count. Only meaningful when IsFixed.
func (b BufferSize) Frames() int { return b.frames }

// StreamConfig is the configuration a caller requests a stream with. It is
// immutable once a stream has been built from it.
type StreamConfig struct {
	Channels   int
	SampleRate int
	BufferSize BufferSize
}

// SupportedBufferSize is the buffer size envelope a device reports, in
// frames. Known is false when the native layer cannot report bounds.
type SupportedBufferSize struct {
	Min   int
	Max   int
	Known bool
}

// SupportedStreamConfigRange describes one channel/rate/buffer envelope a
// device can operate within. Ranges are produced by enumeration and never
// mutated afterwards.
type SupportedStreamConfigRange struct {
	Channels      int
	MinSampleRate int
	MaxSampleRate int
	BufferSize    SupportedBufferSize
	Format        SampleFormat
}

// WithSampleRate narrows the range to one concrete sample rate.
func (r SupportedStreamConfigRange) WithSampleRate(rate int) SupportedStreamConfig {
	return SupportedStreamConfig{
		Channels:   r.Channels,
		SampleRate: rate,
		BufferSize: r.BufferSize,
		Format:     r.Format,
	}
}

// contains reports whether rate falls within the range's rate envelope.
func (r SupportedStreamConfigRange) contains(rate int) bool {
	return rate >= r.MinSampleRate && rate <= r.MaxSampleRate
}

// compareDefaultHeuristics defines the total order used to pick a default
// configuration. It returns -1, 0 or +1 as r ranks below, equal to, or
// above other:
//
//  1. the supported sample format ranks above any other format
//  2. higher channel count ranks higher
//  3. a range containing the preferred rate ranks above one that does not
//  4. higher max sample rate ranks higher
//
// Remaining fields break ties so the order is total and deterministic.
func (r SupportedStreamConfigRange) compareDefaultHeuristics(other SupportedStreamConfigRange) int {
	if c := cmpBool(r.Format == SupportedSampleFormat, other.Format == SupportedSampleFormat); c != 0 {
		return c
	}
	if c := cmpInt(r.Channels, other.Channels); c != 0 {
		return c
	}
	if c := cmpBool(r.contains(preferredSampleRate), other.contains(preferredSampleRate)); c != 0 {
		return c
	}
	if c := cmpInt(r.MaxSampleRate, other.MaxSampleRate); c != 0 {
		return c
	}
	if c := cmpInt(r.MinSampleRate, other.MinSampleRate); c != 0 {
		return c
	}
	if c := cmpInt(r.BufferSize.Max, other.BufferSize.Max); c != 0 {
		return c
	}
	return cmpInt(r.BufferSize.Min, other.BufferSize.Min)
}

// SupportedStreamConfig is a SupportedStreamConfigRange narrowed to one
// concrete sample rate: the output of default selection or of an exact
// caller match.
type SupportedStreamConfig struct {
	Channels   int
	SampleRate int
	BufferSize SupportedBufferSize
	Format     SampleFormat
}

// Config returns the StreamConfig equivalent with the default buffer size.
func (c SupportedStreamConfig) Config() StreamConfig {
	return StreamConfig{
		Channels:   c.Channels,
		SampleRate: c.SampleRate,
		BufferSize: DefaultBufferSize(),
	}
}

// maxRange returns the maximum element of ranges under the default
// heuristic order. ranges must be non-empty.
func maxRange(ranges []SupportedStreamConfigRange) SupportedStreamConfigRange {
	best := ranges[0]
	for _, r := range ranges[1:] {
		if r.compareDefaultHeuristics(best) > 0 {
			best = r
		}
	}
	return best
}

// validConfig reports whether a requested configuration can be built
// against the given device capabilities. It is a pure predicate and the
// gate every stream build passes through.
func validConfig(config StreamConfig, format SampleFormat, caps backend.Capabilities) bool {
	return config.Channels >= 1 &&
		config.Channels >= caps.MinChannels &&
		config.Channels <= caps.MaxChannels &&
		config.SampleRate >= caps.MinSampleRate &&
		config.SampleRate <= caps.MaxSampleRate &&
		format == SupportedSampleFormat
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a && !b:
		return 1
	case !a && b:
		return -1
	default:
		return 0
	}
}
