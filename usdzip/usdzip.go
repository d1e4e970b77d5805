// Package usdzip wraps a single Crate payload in a USDZ archive: a ZIP file
// using the STORED (uncompressed) method with a custom extra field that
// pads the payload start to a 64-byte boundary, as Apple's USDZ runtime
// requires (spec.md §4.4).
package usdzip

import (
	"fmt"

	"github.com/molcrate/molexport/errs"
	"github.com/molcrate/molexport/sink"
)

const (
	localFileHeaderSig  = 0x04034b50
	centralDirHeaderSig = 0x02014b50
	endOfCentralDirSig  = 0x06054b50

	alignment          = 64
	alignExtraHeaderID = 0x0001

	// fixedLocalHeaderSize is everything in a local file header up to and
	// including the 2-byte extra-field-length field: signature(4) +
	// version(2) + flags(2) + method(2) + time(2) + date(2) + crc(4) +
	// compSize(4) + uncompSize(4) + nameLen(2) + extraLen(2) = 30 bytes.
	fixedLocalHeaderSize = 30
)

// Write packs name/payload as the sole entry of a USDZ archive and returns
// the complete archive bytes. name is conventionally "tmp.usdc".
func Write(name string, payload []byte) ([]byte, error) {
	extraSize, err := alignmentPadding(len(name))
	if err != nil {
		return nil, err
	}

	s := sink.New()
	localHeaderOffset := s.Tell()

	writeLocalFileHeader(s, name, payload, extraSize)
	s.WriteBytes(payload)

	centralDirOffset := s.Tell()
	writeCentralDirHeader(s, name, payload, extraSize, localHeaderOffset)

	writeEndOfCentralDir(s, s.Tell()-centralDirOffset, centralDirOffset)

	return s.Bytes(), nil
}

// alignmentPadding computes extraSize per spec.md §4.4: extraSize = 64 -
// ((34 + nameLen) mod 64), where 34 = fixedLocalHeaderSize(30) + the 4-byte
// alignment extra-field header (ID + size) that precedes the padding
// itself. The ZIP name-length and extra-length fields are each a u16, so a
// name long enough to overflow either is rejected.
func alignmentPadding(nameLen int) (int, error) {
	const headerOverhead = 34

	if nameLen < 0 || nameLen > 0xFFFF {
		return 0, fmt.Errorf("%w: %d", errs.ErrEntryNameTooLong, nameLen)
	}

	mod := (headerOverhead + nameLen) % alignment
	extraSize := alignment - mod

	if extraSize+4 > 0xFFFF {
		return 0, fmt.Errorf("%w: %d", errs.ErrEntryNameTooLong, nameLen)
	}

	return extraSize, nil
}

func writeLocalFileHeader(s *sink.Sink, name string, payload []byte, extraSize int) {
	s.WriteU32(localFileHeaderSig)
	s.WriteU16(20) // version needed to extract
	s.WriteU16(0)  // general purpose flags
	s.WriteU16(0)  // compression method: stored
	s.WriteU16(0)  // last mod file time (left zero, not validated)
	s.WriteU16(0)  // last mod file date
	s.WriteU32(0)  // CRC-32 (left zero, not validated)
	s.WriteU32(uint32(len(payload))) //nolint:gosec
	s.WriteU32(uint32(len(payload))) //nolint:gosec
	s.WriteU16(uint16(len(name)))    //nolint:gosec
	s.WriteU16(uint16(extraSize + 4)) //nolint:gosec
	s.WriteBytes([]byte(name))

	s.WriteU16(alignExtraHeaderID)
	s.WriteU16(uint16(extraSize)) //nolint:gosec
	s.WriteZeros(extraSize)
}

func writeCentralDirHeader(s *sink.Sink, name string, payload []byte, extraSize, localHeaderOffset int) {
	s.WriteU32(centralDirHeaderSig)
	s.WriteU16(20) // version made by
	s.WriteU16(20) // version needed to extract
	s.WriteU16(0)  // general purpose flags
	s.WriteU16(0)  // compression method: stored
	s.WriteU16(0)  // last mod file time
	s.WriteU16(0)  // last mod file date
	s.WriteU32(0)  // CRC-32
	s.WriteU32(uint32(len(payload))) //nolint:gosec
	s.WriteU32(uint32(len(payload))) //nolint:gosec
	s.WriteU16(uint16(len(name)))     //nolint:gosec
	s.WriteU16(uint16(extraSize + 4)) //nolint:gosec
	s.WriteU16(0)                     // file comment length
	s.WriteU16(0)                     // disk number start
	s.WriteU16(0)                     // internal file attributes
	s.WriteU32(0)                     // external file attributes
	s.WriteU32(uint32(localHeaderOffset)) //nolint:gosec
	s.WriteBytes([]byte(name))

	s.WriteU16(alignExtraHeaderID)
	s.WriteU16(uint16(extraSize)) //nolint:gosec
	s.WriteZeros(extraSize)
}

func writeEndOfCentralDir(s *sink.Sink, centralDirSize, centralDirOffset int) {
	s.WriteU32(endOfCentralDirSig)
	s.WriteU16(0) // disk number
	s.WriteU16(0) // disk with central directory start
	s.WriteU16(1) // entries on this disk
	s.WriteU16(1) // total entries
	s.WriteU32(uint32(centralDirSize))   //nolint:gosec
	s.WriteU32(uint32(centralDirOffset)) //nolint:gosec
	s.WriteU16(0)                        // comment length
}
