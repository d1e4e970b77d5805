package compress

import (
	"encoding/binary"
	"fmt"

	"github.com/molcrate/molexport/lz4enc"
)

// LZ4Codec compresses payloads with the hand-rolled LZ4 block compressor in
// package lz4enc. Since a raw LZ4 block carries no length header of its own,
// Compress prefixes the block with the uncompressed size as a little-endian
// u32 so Decompress can size its destination buffer; this mirrors how the
// Crate writer's own array headers record counts before payloads.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

// NewLZ4Codec creates a new LZ4 codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Compress LZ4-compresses data. Empty input compresses to nil.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	block, err := lz4enc.CompressBlock(data)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 4+len(block))
	binary.LittleEndian.PutUint32(out, uint32(len(data))) //nolint:gosec
	copy(out[4:], block)

	return out, nil
}

// Decompress reverses Compress.
func (c LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if len(data) < 4 {
		return nil, fmt.Errorf("compress: lz4 payload too short: %d bytes", len(data))
	}

	dstLen := int(binary.LittleEndian.Uint32(data))

	return lz4enc.DecompressBlock(data[4:], dstLen)
}
