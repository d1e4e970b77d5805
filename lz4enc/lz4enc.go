// Package lz4enc implements the LZ4 block format: a fixed hash-table match
// finder feeding the standard token/literal/offset/match-length sequence
// encoding, with no frame header. This is the single-block compressor the
// Crate writer (package crate) uses for its TOKENS, FIELDS, FIELDSETS,
// PATHS, and SPECS sections.
//
// The encoder is a greedy, single-pass matcher: each position is hashed
// once and checked against the most recent position with the same hash, so
// it trades ratio for a fixed, input-only-dependent running time and fully
// deterministic output — two encoder runs on the same bytes always produce
// the same compressed bytes.
package lz4enc

import (
	"encoding/binary"
	"fmt"

	"github.com/molcrate/molexport/errs"
)

const (
	hashTableSize = 4096
	hashBits      = 12

	minMatch           = 4
	maxOffset          = 65535
	mfLimit            = 12
	maxBlockInputSize  = 0x7E000000
	hashMultiplier     = 2654435761
	continuationMarker = 0x0F
)

// CompressBlock compresses src and returns a single LZ4 block (no frame
// header, no uncompressed-size prefix — callers that need the size to
// decompress must store it separately). Output is deterministic: identical
// input always produces identical output.
//
// Returns errs.ErrInputTooLarge if len(src) exceeds maxBlockInputSize,
// rather than compressing a block the format's offset fields cannot address.
func CompressBlock(src []byte) ([]byte, error) {
	if len(src) > maxBlockInputSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds max block size %d", errs.ErrInputTooLarge, len(src), maxBlockInputSize)
	}

	dst := make([]byte, 0, worstCaseSize(len(src)))

	var hashTable [hashTableSize]int32
	for i := range hashTable {
		hashTable[i] = -1
	}

	srcLen := len(src)
	anchor := 0
	pos := 0

	for pos+minMatch <= srcLen && pos < srcLen-mfLimit {
		seq := binary.LittleEndian.Uint32(src[pos:])
		h := hash(seq)
		ref := int(hashTable[h])
		hashTable[h] = int32(pos) //nolint:gosec

		if ref < 0 || pos-ref > maxOffset || !matches4(src, ref, pos) {
			pos++
			continue
		}

		matchLen := extendMatch(src, ref, pos)

		dst = appendSequence(dst, src[anchor:pos], pos-ref, matchLen)

		pos += matchLen
		anchor = pos
	}

	dst = appendTrailingLiteral(dst, src[anchor:])

	return dst, nil
}

// worstCaseSize returns the buffer capacity spec.md §4.2 specifies:
// srcLen + floor(srcLen/255) + 16.
func worstCaseSize(srcLen int) int {
	return srcLen + srcLen/255 + 16
}

func hash(seq uint32) uint32 {
	return (seq * hashMultiplier) & (hashTableSize - 1)
}

func matches4(src []byte, ref, pos int) bool {
	return binary.LittleEndian.Uint32(src[ref:]) == binary.LittleEndian.Uint32(src[pos:])
}

// extendMatch extends a confirmed 4-byte match at (ref, pos) while the
// bytes agree, bounded by the source's end and by pos: the match never
// grows past the 4 confirmed bytes once ref+matchLen reaches pos, so a
// match is at most max(4, pos-ref) bytes long.
func extendMatch(src []byte, ref, pos int) int {
	matchLen := minMatch
	srcLen := len(src)
	for pos+matchLen < srcLen && ref+matchLen < pos && src[pos+matchLen] == src[ref+matchLen] {
		matchLen++
	}

	return matchLen
}

// appendSequence appends one literal-run + match sequence: token byte,
// literal-length overflow bytes, literal bytes, 16-bit LE offset,
// match-length overflow bytes.
func appendSequence(dst []byte, literals []byte, offset, matchLen int) []byte {
	litLen := len(literals)
	mLenField := matchLen - minMatch

	token := byte(min(litLen, continuationMarker)<<4) | byte(min(mLenField, continuationMarker))
	dst = append(dst, token)

	dst = appendOverflow(dst, litLen)
	dst = append(dst, literals...)

	dst = append(dst, byte(offset), byte(offset>>8))

	dst = appendOverflow(dst, mLenField)

	return dst
}

// appendTrailingLiteral appends the final run of literals with a zero
// match-length field, per spec.md §4.2: "Final trailing literal emitted
// with zero match length."
func appendTrailingLiteral(dst []byte, literals []byte) []byte {
	litLen := len(literals)
	token := byte(min(litLen, continuationMarker) << 4)
	dst = append(dst, token)

	dst = appendOverflow(dst, litLen)
	dst = append(dst, literals...)

	return dst
}

// appendOverflow appends the 0xFF-continuation bytes for a token field that
// hit its 4-bit nibble ceiling (15). No bytes are appended if n < 15.
func appendOverflow(dst []byte, n int) []byte {
	if n < continuationMarker {
		return dst
	}

	remaining := n - continuationMarker
	for remaining >= 0xFF {
		dst = append(dst, 0xFF)
		remaining -= 0xFF
	}

	return append(dst, byte(remaining))
}
