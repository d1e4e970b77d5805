package crate

import (
	"math"

	"github.com/molcrate/molexport/sink"
	"github.com/molcrate/molexport/usdint"
)

// bootstrapSize is the Crate bootstrap's fixed size (spec.md §4.7): 8-byte
// magic, 8-byte version, 8-byte TOC offset, 64 reserved bytes. File offsets
// recorded in rep64 payloads are absolute, so every offset this package
// records into the body sink must add this.
const bootstrapSize = 88

const intArrayCompressionThreshold = 16

// writeIntArray writes an "int array" attribute value payload (spec.md
// §4.7): out-of-line count, then either a raw i32 little-endian run (fewer
// than 16 elements) or an LZ4+USD-int-coded run (16 or more, with the
// compressed flag set on the returned rep). Deduplicated by exact array
// content like every other out-of-line blob.
func (w *Writer) writeIntArray(values []int32) (uint64, error) {
	var raw []byte
	if len(values) >= intArrayCompressionThreshold {
		encoded := usdint.Encode(values)

		compressed, err := compressChunk(encoded)
		if err != nil {
			return 0, err
		}
		raw = compressed
	} else {
		s := sink.New()
		for _, v := range values {
			s.WriteI32(v)
		}
		raw = s.Bytes()
	}

	key := make([]byte, 0, len(raw)+1)
	key = append(key, byte(len(values)>>24), byte(len(values)>>16), byte(len(values)>>8), byte(len(values))) //nolint:gosec
	key = append(key, raw...)

	if off, ok := w.blobs.lookup(key); ok {
		return offsetRep(off, tagIntArray, true, len(values) >= intArrayCompressionThreshold), nil
	}

	off := int64(bootstrapSize + w.body.Tell()) //nolint:gosec
	w.body.WriteU64(uint64(len(values)))        //nolint:gosec
	w.body.WriteBytes(raw)
	w.blobs.record(key, off)

	return offsetRep(off, tagIntArray, true, len(values) >= intArrayCompressionThreshold), nil
}

// writeTokenArray writes a "token array" attribute value payload: out-of-
// line count + i32 token indices, never compressed.
func (w *Writer) writeTokenArray(tokens []string) uint64 {
	indices := make([]int32, len(tokens))
	for i, t := range tokens {
		indices[i] = w.tokens.intern(t)
	}

	key := make([]byte, 0, len(indices)*4)
	for _, idx := range indices {
		key = append(key, byte(idx), byte(idx>>8), byte(idx>>16), byte(idx>>24)) //nolint:gosec
	}

	if off, ok := w.blobs.lookup(key); ok {
		return offsetRep(off, tagTokenArray, true, false)
	}

	off := int64(bootstrapSize + w.body.Tell()) //nolint:gosec
	w.body.WriteU64(uint64(len(indices)))       //nolint:gosec
	for _, idx := range indices {
		w.body.WriteI32(idx)
	}
	w.blobs.record(key, off)

	return offsetRep(off, tagTokenArray, true, false)
}

// writeTokenVector writes a TokenVector field value (spec.md §4.7): count +
// indices + 4 trailing zero bytes, deduplicated by exact array equality.
func (w *Writer) writeTokenVector(tokens []string) uint64 {
	indices := make([]int32, len(tokens))
	for i, t := range tokens {
		indices[i] = w.tokens.intern(t)
	}

	key := make([]byte, 0, len(indices)*4+1)
	key = append(key, 'v')
	for _, idx := range indices {
		key = append(key, byte(idx), byte(idx>>8), byte(idx>>16), byte(idx>>24)) //nolint:gosec
	}

	if off, ok := w.blobs.lookup(key); ok {
		return offsetRep(off, tagTokenVector, true, false)
	}

	off := int64(bootstrapSize + w.body.Tell()) //nolint:gosec
	w.body.WriteU64(uint64(len(indices)))       //nolint:gosec
	for _, idx := range indices {
		w.body.WriteI32(idx)
	}
	w.body.WriteZeros(4)
	w.blobs.record(key, off)

	return offsetRep(off, tagTokenVector, true, false)
}

// writePathListOp writes a PathListOp out-of-line payload: u8 op=3, u64
// count=1, i32 pathIndex. Used by connections, relationship targets, and
// the "inherits" metadata entry.
func (w *Writer) writePathListOp(pathIndex int32) uint64 {
	off := int64(bootstrapSize + w.body.Tell()) //nolint:gosec
	w.body.WriteU8(3)
	w.body.WriteU64(1)
	w.body.WriteI32(pathIndex)

	return offsetRep(off, tagPathListOp, false, false)
}

// writePathVector writes a PathVector out-of-line payload: u64 count=1, i32
// pathIndex.
func (w *Writer) writePathVector(pathIndex int32) uint64 {
	off := int64(bootstrapSize + w.body.Tell()) //nolint:gosec
	w.body.WriteU64(1)
	w.body.WriteI32(pathIndex)

	return offsetRep(off, tagPathVector, false, false)
}

// writeVec3fArray writes a vec3f[] payload: count = elements/3, then raw
// f32 little-endian triples.
func (w *Writer) writeVec3fArray(values []float32) uint64 {
	off := int64(bootstrapSize + w.body.Tell()) //nolint:gosec
	w.body.WriteU64(uint64(len(values) / 3))    //nolint:gosec
	for _, v := range values {
		w.body.WriteF32(v)
	}

	return offsetRep(off, tagVec3fArray, true, false)
}

// writeVec3fScalar writes a vec3f scalar payload: raw 3xf32, no count
// prefix.
func (w *Writer) writeVec3fScalar(x, y, z float32) uint64 {
	off := int64(bootstrapSize + w.body.Tell()) //nolint:gosec
	w.body.WriteF32(x)
	w.body.WriteF32(y)
	w.body.WriteF32(z)

	return offsetRep(off, tagVec3f, false, false)
}

// dictConstantTag is the fixed i32 tag spec.md §4.7 requires on every
// Dictionary entry ("the double-precision-encoded ValueType.Value block
// identifier used by USD").
const dictConstantTag = 1074397184

// writeDictionary writes a Dictionary payload: count, then per entry an i32
// string-index key, a u64 byte-size of 8, an i32 string-index value, and
// the fixed constant tag.
func (w *Writer) writeDictionary(entries map[string]string, order []string) uint64 {
	off := int64(bootstrapSize + w.body.Tell()) //nolint:gosec
	w.body.WriteU64(uint64(len(order)))         //nolint:gosec

	for _, k := range order {
		keyTok := w.tokens.intern(k)
		keyIdx := w.strings.intern(keyTok)
		valTok := w.tokens.intern(entries[k])
		valIdx := w.strings.intern(valTok)

		w.body.WriteI32(keyIdx)
		w.body.WriteU64(8)
		w.body.WriteI32(valIdx)
		w.body.WriteI32(dictConstantTag)
	}

	return offsetRep(off, tagDictionary, false, false)
}

func float32Bits(v float32) uint32 {
	return math.Float32bits(v)
}
