package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer_StartsEmptyWithRequestedCapacity(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)

	require.Equal(t, 0, bb.Len())
	require.Equal(t, BlobBufferDefaultSize, cap(bb.B))
}

// TestByteBuffer_MustWrite_MatchesSinkAppendPattern mirrors how Sink.WriteBytes
// uses the buffer: Grow to make room, then MustWrite the bytes verbatim.
func TestByteBuffer_MustWrite_MatchesSinkAppendPattern(t *testing.T) {
	bb := NewByteBuffer(4)

	data := []byte("PXR-USDC")
	bb.Grow(len(data))
	bb.MustWrite(data)

	require.Equal(t, data, bb.Bytes())
	require.Equal(t, len(data), bb.Len())
}

func TestByteBuffer_Reset_ClearsLengthButKeepsCapacity(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte("some bytes"))
	capBefore := cap(bb.B)

	bb.Reset()

	require.Equal(t, 0, bb.Len())
	require.Equal(t, capBefore, cap(bb.B))
}

// TestByteBuffer_ExtendOrGrow_MatchesSinkZeroPadding mirrors Sink.WriteZeros:
// extend the buffer by n bytes, then the caller overwrites the new region.
func TestByteBuffer_ExtendOrGrow_MatchesSinkZeroPadding(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte{0x01, 0x02})

	bb.ExtendOrGrow(6)

	require.Equal(t, 8, bb.Len())
	require.Equal(t, byte(0x01), bb.B[0])
	require.Equal(t, byte(0x02), bb.B[1])
}

func TestByteBuffer_ExtendOrGrow_ReusesCapacityWhenSufficient(t *testing.T) {
	bb := NewByteBuffer(32)
	bb.MustWrite([]byte{0xAA})
	before := &bb.B[0]

	bb.ExtendOrGrow(8)

	require.Same(t, before, &bb.B[0], "should not reallocate when capacity suffices")
}

func TestByteBuffer_Grow_SmallBufferGrowsByDefaultIncrement(t *testing.T) {
	bb := NewByteBuffer(0)

	bb.Grow(10)

	require.GreaterOrEqual(t, cap(bb.B), BlobBufferDefaultSize)
}

func TestByteBuffer_Grow_LargeBufferGrowsByQuarterOfCapacity(t *testing.T) {
	initial := 8 * BlobBufferDefaultSize
	bb := NewByteBuffer(initial)
	bb.B = bb.B[:initial]

	bb.Grow(1)

	require.GreaterOrEqual(t, cap(bb.B), initial+initial/4)
}

func TestByteBuffer_Grow_PreservesExistingData(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte("keep me"))

	bb.Grow(BlobBufferDefaultSize * 2)

	require.Equal(t, []byte("keep me"), bb.Bytes())
}

func TestByteBuffer_Grow_NoopWhenCapacitySufficient(t *testing.T) {
	bb := NewByteBuffer(64)
	bb.MustWrite([]byte{0xAA})
	before := &bb.B[0]
	capBefore := cap(bb.B)

	bb.Grow(10)

	require.Same(t, before, &bb.B[0], "should not reallocate when capacity already suffices")
	require.Equal(t, capBefore, cap(bb.B))
}

// TestByteBuffer_SinkStyleWriteSequence replays the exact sequence a Sink
// issues for a Crate bootstrap: several small fixed-width writes followed by
// a reserved zero-padded region.
func TestByteBuffer_SinkStyleWriteSequence(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)

	bb.Grow(8)
	bb.MustWrite([]byte("PXR-USDC"))

	bb.Grow(8)
	bb.MustWrite([]byte{0, 7, 0, 0, 0, 0, 0, 0})

	bb.ExtendOrGrow(64)

	require.Equal(t, 80, bb.Len())
	require.Equal(t, "PXR-USDC", string(bb.Bytes()[:8]))
	for _, b := range bb.Bytes()[16:80] {
		require.Zero(t, b)
	}
}
