package crate

import "github.com/molcrate/molexport/lz4enc"

// compressChunk LZ4-compresses data the way the Crate file format wants it:
// a single leading zero byte (the "this blob is one chunk" marker used
// throughout the format) followed by one LZ4 block. The block compressor
// itself lives in package lz4enc; this is just the Crate-specific framing
// spec.md §4.7 adds on top of it. Returns errs.ErrInputTooLarge (via
// lz4enc.CompressBlock) if data exceeds the block compressor's input limit.
func compressChunk(data []byte) ([]byte, error) {
	block, err := lz4enc.CompressBlock(data)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(block)+1)
	out = append(out, 0x00)
	out = append(out, block...)

	return out, nil
}

func decompressChunk(data []byte, uncompressedLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return lz4enc.DecompressBlock(data[1:], uncompressedLen)
}
