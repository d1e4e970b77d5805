package crate

import (
	"github.com/molcrate/molexport/sink"
	"github.com/molcrate/molexport/usdint"
)

// tocEntry records one section's name and extent, as spec.md §4.7's table
// of contents requires: 16 bytes of zero-padded name, u64 start, u64 size.
type tocEntry struct {
	name  string
	start uint64
	size  uint64
}

// writeCompressedIntArray writes the generic "LZ4+USD-int-coded i32 array"
// block spec.md §4.7 reuses across FIELDS' token-index column, FIELDSETS,
// and the three PATHS/SPECS columns: the USD-int-coded byte length, the
// LZ4-compressed byte length, then the compressed bytes.
func writeCompressedIntArray(body *sink.Sink, values []int32) error {
	encoded := usdint.Encode(values)
	compressed, err := compressChunk(encoded)
	if err != nil {
		return err
	}

	body.WriteU64(uint64(len(encoded)))
	body.WriteU64(uint64(len(compressed)))
	body.WriteBytes(compressed)

	return nil
}

// writeTokensSection emits the TOKENS section: count, uncompressed byte
// length, compressed byte length, then the LZ4-compressed concatenation of
// NUL-terminated token strings.
func writeTokensSection(body *sink.Sink, tokens []string) (tocEntry, error) {
	start := body.Tell()

	var raw []byte
	for _, tok := range tokens {
		raw = append(raw, tok...)
		raw = append(raw, 0x00)
	}

	compressed, err := compressChunk(raw)
	if err != nil {
		return tocEntry{}, err
	}

	body.WriteU64(uint64(len(tokens)))
	body.WriteU64(uint64(len(raw)))
	body.WriteU64(uint64(len(compressed)))
	body.WriteBytes(compressed)

	return tocEntry{name: "TOKENS", start: uint64(start), size: uint64(body.Tell() - start)}, nil //nolint:gosec
}

// writeStringsSection emits the STRINGS section: count, then that many
// plain (uncompressed, un-coded) little-endian i32 token indices.
func writeStringsSection(body *sink.Sink, indices []int32) tocEntry {
	start := body.Tell()

	body.WriteU64(uint64(len(indices)))
	for _, idx := range indices {
		body.WriteI32(idx)
	}

	return tocEntry{name: "STRINGS", start: uint64(start), size: uint64(body.Tell() - start)} //nolint:gosec
}

// writeFieldsSection emits the FIELDS section: count, the compressed
// token-index column, then the rep64 column (compressed only, since its
// uncompressed length is always count*8 and need not be stored).
func writeFieldsSection(body *sink.Sink, tokenIndices []int32, reps []uint64) (tocEntry, error) {
	start := body.Tell()

	body.WriteU64(uint64(len(tokenIndices)))
	if err := writeCompressedIntArray(body, tokenIndices); err != nil {
		return tocEntry{}, err
	}

	raw := make([]byte, 0, len(reps)*8)
	repSink := sink.New()
	for _, r := range reps {
		repSink.WriteU64(r)
	}
	raw = append(raw, repSink.Bytes()...)

	compressed, err := compressChunk(raw)
	if err != nil {
		return tocEntry{}, err
	}
	body.WriteU64(uint64(len(compressed)))
	body.WriteBytes(compressed)

	return tocEntry{name: "FIELDS", start: uint64(start), size: uint64(body.Tell() - start)}, nil //nolint:gosec
}

// writeFieldSetsSection emits the FIELDSETS section: count, then the
// compressed concatenation of field-index groups (sentinel -1 entries
// included in the count and in the coded stream).
func writeFieldSetsSection(body *sink.Sink, indices []int32) (tocEntry, error) {
	start := body.Tell()

	body.WriteU64(uint64(len(indices)))
	if err := writeCompressedIntArray(body, indices); err != nil {
		return tocEntry{}, err
	}

	return tocEntry{name: "FIELDSETS", start: uint64(start), size: uint64(body.Tell() - start)}, nil //nolint:gosec
}

// writePathsSection emits the PATHS section: the element count written
// twice (spec.md §4.7), then the three compressed columns.
func writePathsSection(body *sink.Sink, t *pathTable) (tocEntry, error) {
	start := body.Tell()

	n := uint64(t.len())
	body.WriteU64(n)
	body.WriteU64(n)
	if err := writeCompressedIntArray(body, t.pathIndices); err != nil {
		return tocEntry{}, err
	}
	if err := writeCompressedIntArray(body, t.tokenIndices); err != nil {
		return tocEntry{}, err
	}
	if err := writeCompressedIntArray(body, t.jumps); err != nil {
		return tocEntry{}, err
	}

	return tocEntry{name: "PATHS", start: uint64(start), size: uint64(body.Tell() - start)}, nil //nolint:gosec
}

// writeSpecsSection emits the SPECS section: count, then the three
// compressed columns.
func writeSpecsSection(body *sink.Sink, t *specTable) (tocEntry, error) {
	start := body.Tell()

	body.WriteU64(uint64(t.len()))
	if err := writeCompressedIntArray(body, t.pathIndices); err != nil {
		return tocEntry{}, err
	}
	if err := writeCompressedIntArray(body, t.fieldSetIdx); err != nil {
		return tocEntry{}, err
	}
	if err := writeCompressedIntArray(body, t.specTypes); err != nil {
		return tocEntry{}, err
	}

	return tocEntry{name: "SPECS", start: uint64(start), size: uint64(body.Tell() - start)}, nil //nolint:gosec
}

// writeTOC emits the table of contents: entry count, then per entry 16
// bytes of zero-padded name, u64 start, u64 size.
func writeTOC(body *sink.Sink, entries []tocEntry) {
	body.WriteU64(uint64(len(entries)))

	for _, e := range entries {
		nameBytes := make([]byte, 16)
		copy(nameBytes, e.name)
		body.WriteBytes(nameBytes)
		body.WriteU64(e.start)
		body.WriteU64(e.size)
	}
}
