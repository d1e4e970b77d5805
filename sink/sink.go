// Package sink provides an append-only byte sink with a monotone write
// position, plus the little-endian primitive writers every binary encoder
// in this module builds on (Crate, USDZ ZIP, GLB).
//
// A Sink wraps a pooled, growable byte buffer (internal/pool.ByteBuffer) the
// way the teacher's blob encoders accumulate a payload before it is
// compressed or handed to a file writer: write-only, never randomly
// addressed, read back in full with Bytes() once writing is done.
package sink

import (
	"math"

	"github.com/molcrate/molexport/endian"
	"github.com/molcrate/molexport/internal/pool"
)

// Sink accumulates bytes written via its primitive writers and tracks the
// current write offset (Tell). It is not safe for concurrent use by multiple
// goroutines — exporters are single-threaded (see spec §5).
type Sink struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// New creates a Sink using the little-endian engine, the only byte order any
// format this module emits ever uses.
func New() *Sink {
	return &Sink{
		buf:    pool.NewByteBuffer(pool.BlobBufferDefaultSize),
		engine: endian.GetLittleEndianEngine(),
	}
}

// NewWithEngine creates a Sink using an explicit EndianEngine. Every
// production writer in this module calls New(); nothing in this module
// calls NewWithEngine, and none of the formats this module writes is
// big-endian.
func NewWithEngine(engine endian.EndianEngine) *Sink {
	return &Sink{
		buf:    pool.NewByteBuffer(pool.BlobBufferDefaultSize),
		engine: engine,
	}
}

// Tell returns the current write position, i.e. the number of bytes written
// so far.
func (s *Sink) Tell() int {
	return s.buf.Len()
}

// Bytes returns the accumulated buffer. The returned slice is owned by the
// Sink; callers must copy it if they intend to keep using the Sink
// afterward.
func (s *Sink) Bytes() []byte {
	return s.buf.Bytes()
}

// Reset clears the sink for reuse, retaining its allocated capacity.
func (s *Sink) Reset() {
	s.buf.Reset()
}

// WriteBytes appends raw bytes verbatim.
func (s *Sink) WriteBytes(p []byte) {
	s.buf.Grow(len(p))
	s.buf.MustWrite(p)
}

// Write implements io.Writer: it appends p and never returns an error. No
// encoder in this module writes to a Sink through io.Writer.
func (s *Sink) Write(p []byte) (int, error) {
	s.WriteBytes(p)
	return len(p), nil
}

// WriteZeros appends n zero bytes, used for the Crate bootstrap's reserved
// region and for chunk padding in GLB/USDZ.
func (s *Sink) WriteZeros(n int) {
	start := s.buf.Len()
	s.buf.ExtendOrGrow(n)
	b := s.buf.Bytes()
	for i := start; i < start+n; i++ {
		b[i] = 0
	}
}

// WriteU8 appends a single byte.
func (s *Sink) WriteU8(v uint8) {
	s.buf.Grow(1)
	s.buf.MustWrite([]byte{v})
}

// WriteU16 appends a 2-byte little-endian unsigned integer. Not one of
// spec's named widths (1/4/6/8) on its own, but it is the building block
// WriteU48 is defined in terms of.
func (s *Sink) WriteU16(v uint16) {
	s.buf.Grow(2)
	s.buf.B = s.engine.AppendUint16(s.buf.B, v)
}

// WriteU32 appends a 4-byte little-endian unsigned integer.
func (s *Sink) WriteU32(v uint32) {
	s.buf.Grow(4)
	s.buf.B = s.engine.AppendUint32(s.buf.B, v)
}

// WriteI32 appends a 4-byte little-endian signed integer (two's complement
// bit pattern of v).
func (s *Sink) WriteI32(v int32) {
	s.WriteU32(uint32(v)) //nolint:gosec
}

// WriteU48 appends a 6-byte little-endian field: the low 32 bits of v as a
// u32, followed by the next 16 bits as a u16. This is the USD value-rep
// "offset"-style 48-bit field spec §4.1 describes.
func (s *Sink) WriteU48(v uint64) {
	s.WriteU32(uint32(v))       //nolint:gosec
	s.WriteU16(uint16(v >> 32)) //nolint:gosec
}

// WriteU64 appends an 8-byte little-endian unsigned integer.
func (s *Sink) WriteU64(v uint64) {
	s.buf.Grow(8)
	s.buf.B = s.engine.AppendUint64(s.buf.B, v)
}

// WriteI64 appends an 8-byte little-endian signed integer.
func (s *Sink) WriteI64(v int64) {
	s.WriteU64(uint64(v)) //nolint:gosec
}

// WriteI64FromI32 appends an 8-byte little-endian signed integer formed by
// sign-extending a 32-bit value, per spec §4.1: "must sign-extend negative
// 32-bit values into the upper 4 bytes." A plain WriteI64(int64(v)) already
// performs this sign extension in Go, but this named helper documents the
// intent at call sites that construct a rep64 payload from a narrower value.
func (s *Sink) WriteI64FromI32(v int32) {
	s.WriteI64(int64(v))
}

// WriteF32 appends an IEEE-754 little-endian single-precision float.
func (s *Sink) WriteF32(v float32) {
	s.WriteU32(math.Float32bits(v))
}

// WriteF64 appends an IEEE-754 little-endian double-precision float.
func (s *Sink) WriteF64(v float64) {
	s.WriteU64(math.Float64bits(v))
}
