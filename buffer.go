package audioio

import "unsafe"

// Buffer is a non-owning, typed view over a native audio buffer. The
// backing memory belongs to the native layer and is valid only until the
// data callback it was passed to returns; callers must not retain the
// Buffer, its byte slice, or its sample slice past that point.
type Buffer struct {
	data   []byte
	format SampleFormat
}

// bufferView wraps raw native memory in a typed view. The sample count is
// len(data) / format.SampleSize(); trailing bytes of a partial sample are
// not exposed.
func bufferView(data []byte, format SampleFormat) Buffer {
	return Buffer{data: data, format: format}
}

// Len returns the number of samples in the buffer, counting every channel.
func (b Buffer) Len() int {
	size := b.format.SampleSize()
	if size == 0 {
		return 0
	}
	return len(b.data) / size
}

// Format returns the buffer's sample format.
func (b Buffer) Format() SampleFormat {
	return b.format
}

// Bytes returns the raw interleaved sample memory.
func (b Buffer) Bytes() []byte {
	return b.data
}

// Samples reinterprets the buffer as interleaved float32 samples. Writing
// to the returned slice writes directly into the native buffer; this is
// the only channel by which audio is produced. The native layer guarantees
// the buffer is aligned for its sample format. Valid only for FormatF32.
func (b Buffer) Samples() []float32 {
	n := b.Len()
	if n == 0 || b.format != FormatF32 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b.data[0])), n)
}
