package lz4enc

import (
	"encoding/binary"
	"fmt"
)

// DecompressBlock reverses CompressBlock, given the uncompressed size the
// caller recorded out of band (an LZ4 block carries no size of its own).
func DecompressBlock(src []byte, dstLen int) ([]byte, error) {
	dst := make([]byte, 0, dstLen)

	pos := 0
	for pos < len(src) {
		if pos >= len(src) {
			return nil, fmt.Errorf("lz4enc: truncated token at offset %d", pos)
		}

		token := src[pos]
		pos++

		litLen, pos2, err := readLength(src, pos, int(token>>4))
		if err != nil {
			return nil, err
		}
		pos = pos2

		if pos+litLen > len(src) {
			return nil, fmt.Errorf("lz4enc: literal run of %d bytes overruns block at offset %d", litLen, pos)
		}
		dst = append(dst, src[pos:pos+litLen]...)
		pos += litLen

		if len(dst) >= dstLen {
			break // trailing literal-only sequence, no offset/match follows
		}

		if pos+2 > len(src) {
			return nil, fmt.Errorf("lz4enc: truncated match offset at offset %d", pos)
		}
		offset := int(binary.LittleEndian.Uint16(src[pos:]))
		pos += 2

		mLenField, pos3, err := readLength(src, pos, int(token&0x0F))
		if err != nil {
			return nil, err
		}
		pos = pos3

		matchLen := mLenField + minMatch
		matchStart := len(dst) - offset
		if matchStart < 0 {
			return nil, fmt.Errorf("lz4enc: match offset %d exceeds output length %d", offset, len(dst))
		}

		for i := 0; i < matchLen; i++ {
			dst = append(dst, dst[matchStart+i])
		}
	}

	if len(dst) != dstLen {
		return nil, fmt.Errorf("lz4enc: decompressed %d bytes, expected %d", len(dst), dstLen)
	}

	return dst, nil
}

// readLength decodes a token nibble plus its 0xFF-continuation bytes, if
// any, returning the full field value and the position just past it.
func readLength(src []byte, pos, nibble int) (int, int, error) {
	if nibble < continuationMarker {
		return nibble, pos, nil
	}

	total := nibble
	for {
		if pos >= len(src) {
			return 0, 0, fmt.Errorf("lz4enc: truncated length overflow at offset %d", pos)
		}

		b := src[pos]
		pos++
		total += int(b)

		if b != 0xFF {
			break
		}
	}

	return total, pos, nil
}
