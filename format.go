package audioio

// SampleFormat identifies the encoding of a single audio sample.
type SampleFormat int

const (
	// FormatUnknown is the zero value; it never validates.
	FormatUnknown SampleFormat = iota

	// FormatF32 is 32-bit IEEE 754 float, interleaved, packed, linear PCM.
	FormatF32
)

// SupportedSampleFormat is the one sample format supported end to end.
// Configurations requesting any other format are rejected before a stream
// is created.
const SupportedSampleFormat = FormatF32

// SampleSize returns the size of one sample in bytes, or 0 for unknown
// formats.
func (f SampleFormat) SampleSize() int {
	switch f {
	case FormatF32:
		return 4
	default:
		return 0
	}
}

func (f SampleFormat) String() string {
	switch f {
	case FormatF32:
		return "f32"
	default:
		return "unknown"
	}
}
