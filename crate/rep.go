package crate

const (
	repFlagCompressed = uint64(1) << 61
	repFlagInline     = uint64(1) << 62
	repFlagArray      = uint64(1) << 63
	repPayloadMask    = uint64(1)<<48 - 1
)

// makeRep builds one rep64 word: the low 48 bits are payload (an inlined
// value or a file offset for out-of-line data), bits 48..55 carry the
// value-type tag, and bits 61/62/63 flag compressed/inline/array. Building
// it as a genuine uint64 and writing it with a single little-endian u64
// write produces the same 8 bytes as the "write low 32, synthesize high 32
// from (tag<<16)|flags" alternative spec.md §4.7 allows.
func makeRep(payload uint64, tag valueTag, inline, array, compressed bool) uint64 {
	rep := payload & repPayloadMask
	rep |= uint64(tag) << 48

	if compressed {
		rep |= repFlagCompressed
	}

	if inline {
		rep |= repFlagInline
	}

	if array {
		rep |= repFlagArray
	}

	return rep
}

func inlineRep(payload uint32, tag valueTag) uint64 {
	return makeRep(uint64(payload), tag, true, false, false)
}

func offsetRep(offset int64, tag valueTag, array, compressed bool) uint64 {
	return makeRep(uint64(offset), tag, false, array, compressed) //nolint:gosec
}
