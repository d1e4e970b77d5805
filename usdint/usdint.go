// Package usdint implements the delta-plus-common-value integer coding the
// Crate writer (package crate) uses for its index arrays (FIELDS,
// FIELDSETS, PATHS, SPECS token/path indices). Each element is replaced by
// its delta from the previous element (the first element deltas from an
// implicit zero), and deltas equal to the single most common delta in the
// sequence cost two bits instead of a payload byte run — index arrays in a
// USD scene graph are overwhelmingly sequential, so the common case is
// almost always "no payload at all."
package usdint

import (
	"encoding/binary"

	"github.com/molcrate/molexport/internal/pool"
)

const (
	codeCommon = 0
	codeI8     = 1
	codeI16    = 2
	codeI32    = 3

	bitsPerCode = 2
)

// Encode packs values as a 4-byte little-endian common delta, a packed
// 2-bit-per-element code table, and a variable-length payload of the
// deltas that are not the common value. Empty input returns an empty
// slice.
func Encode(values []int32) []byte {
	if len(values) == 0 {
		return []byte{}
	}

	deltas, cleanup := computeDeltas(values)
	defer cleanup()
	commonDelta := mostFrequentDelta(deltas)

	n := len(deltas)
	codeTableLen := (n*bitsPerCode + 7) / 8
	codes := make([]byte, codeTableLen)
	var payload []byte

	for i, d := range deltas {
		code, bytes := encodeDelta(d, commonDelta)
		setCode(codes, i, code)
		payload = append(payload, bytes...)
	}

	out := make([]byte, 4, 4+len(codes)+len(payload))
	binary.LittleEndian.PutUint32(out, uint32(commonDelta)) //nolint:gosec
	out = append(out, codes...)
	out = append(out, payload...)

	return out
}

// Decode reverses Encode given the element count n (the coded stream
// carries no count of its own — callers already know n from the array's
// own length-prefixed header).
func Decode(data []byte, n int) ([]int32, error) {
	if n == 0 {
		return nil, nil
	}

	commonDelta := int32(binary.LittleEndian.Uint32(data)) //nolint:gosec
	codeTableLen := (n*bitsPerCode + 7) / 8
	codes := data[4 : 4+codeTableLen]
	payload := data[4+codeTableLen:]

	values := make([]int32, n)
	prev := int32(0)
	for i := 0; i < n; i++ {
		code := getCode(codes, i)

		var d int32
		switch code {
		case codeCommon:
			d = commonDelta
		case codeI8:
			d = int32(int8(payload[0]))
			payload = payload[1:]
		case codeI16:
			d = int32(int16(binary.LittleEndian.Uint16(payload))) //nolint:gosec
			payload = payload[2:]
		case codeI32:
			d = int32(binary.LittleEndian.Uint32(payload)) //nolint:gosec
			payload = payload[4:]
		}

		prev += d
		values[i] = prev
	}

	return values, nil
}

// computeDeltas borrows its scratch slice from the package pool: Encode
// produces this array once per call and discards it as soon as
// mostFrequentDelta and the per-element encode loop are done with it.
func computeDeltas(values []int32) ([]int32, func()) {
	deltas, cleanup := pool.GetInt32Slice(len(values))

	prev := int32(0)
	for i, v := range values {
		deltas[i] = v - prev
		prev = v
	}

	return deltas, cleanup
}

// mostFrequentDelta picks the delta with the highest occurrence count,
// breaking ties by choosing the numerically largest delta value.
func mostFrequentDelta(deltas []int32) int32 {
	freq := make(map[int32]int, len(deltas))
	for _, d := range deltas {
		freq[d]++
	}

	best := deltas[0]
	bestCount := 0
	for _, d := range deltas {
		count := freq[d]
		if count > bestCount || (count == bestCount && d > best) {
			best = d
			bestCount = count
		}
	}

	return best
}

// encodeDelta returns the 2-bit code for d and the payload bytes (if any)
// that code requires.
func encodeDelta(d, commonDelta int32) (code byte, payload []byte) {
	if d == commonDelta {
		return codeCommon, nil
	}

	if int32(int8(d)) == d {
		return codeI8, []byte{byte(int8(d))}
	}

	if int32(int16(d)) == d {
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(int16(d)))

		return codeI16, buf
	}

	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(d)) //nolint:gosec

	return codeI32, buf
}

// setCode writes a 2-bit code for element i into the packed table. A
// 2-bit-wide code at an even bit offset never crosses a byte boundary.
func setCode(codes []byte, i int, code byte) {
	bitPos := i * bitsPerCode
	byteIdx := bitPos / 8
	bitOff := uint(bitPos % 8) //nolint:gosec

	codes[byteIdx] |= code << bitOff
}

// getCode reads the 2-bit code for element i back out of the packed table.
func getCode(codes []byte, i int) byte {
	bitPos := i * bitsPerCode
	byteIdx := bitPos / 8
	bitOff := uint(bitPos % 8) //nolint:gosec

	return (codes[byteIdx] >> bitOff) & 0x03
}
