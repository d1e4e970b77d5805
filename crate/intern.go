package crate

import (
	"github.com/molcrate/molexport/internal/collision"
	"github.com/molcrate/molexport/internal/hash"
)

// internTable is an ordered, dedup-by-value table of strings: the TOKENS
// table is one, per spec.md §3 ("Crate intern tables"). Lookups go
// through an xxHash64-keyed map for O(1) cost, with internal/collision
// catching the rare case of two distinct values hashing alike (the same
// shortcut the teacher's blob indexes use, see internal/collision).
type internTable struct {
	values  []string
	byHash  map[uint64]int32
	tracker *collision.Tracker

	hashingEnabled  bool
	trackCollisions bool
}

func newInternTable() *internTable {
	return &internTable{
		byHash:          make(map[uint64]int32),
		tracker:         collision.NewTracker(),
		hashingEnabled:  true,
		trackCollisions: true,
	}
}

// intern returns s's index, appending it if not already present. With
// hashing disabled (crate.WithTokenHashing(false)) it falls back to the
// same linear scan the collision path below uses, which is always
// correct, just O(n) per call instead of O(1).
func (t *internTable) intern(s string) int32 {
	if !t.hashingEnabled {
		return t.internLinear(s)
	}

	h := hash.ID(s)

	collided := t.trackCollisions && t.tracker.Observe(s, h)
	if !collided {
		if idx, ok := t.byHash[h]; ok {
			return idx
		}

		idx := int32(len(t.values)) //nolint:gosec
		t.values = append(t.values, s)
		t.byHash[h] = idx

		return idx
	}

	return t.internLinear(s)
}

func (t *internTable) internLinear(s string) int32 {
	for i, v := range t.values {
		if v == s {
			return int32(i) //nolint:gosec
		}
	}

	idx := int32(len(t.values)) //nolint:gosec
	t.values = append(t.values, s)

	return idx
}

func (t *internTable) len() int { return len(t.values) }

// stringRefTable interns token indices (the STRINGS section: "ordered
// sequence of token indices, a permutation/multiset over tokens"),
// deduplicating repeated references to the same token.
type stringRefTable struct {
	indices []int32
	byToken map[int32]int32
}

func newStringRefTable() *stringRefTable {
	return &stringRefTable{byToken: make(map[int32]int32)}
}

func (t *stringRefTable) intern(tokenIndex int32) int32 {
	if idx, ok := t.byToken[tokenIndex]; ok {
		return idx
	}

	idx := int32(len(t.indices)) //nolint:gosec
	t.indices = append(t.indices, tokenIndex)
	t.byToken[tokenIndex] = idx

	return idx
}

// fieldTable holds the parallel (tokenIndex, rep64) arrays, deduplicated by
// (tokenIndex, rep) so that identical metadata values share one row.
type fieldTable struct {
	tokenIndices []int32
	reps         []uint64
	byKey        map[fieldKey]int32
}

func newFieldTable() *fieldTable {
	return &fieldTable{byKey: make(map[fieldKey]int32)}
}

func (t *fieldTable) intern(tokenIndex int32, rep uint64) int32 {
	key := fieldKey{tokenIndex: tokenIndex, rep: rep}
	if idx, ok := t.byKey[key]; ok {
		return idx
	}

	idx := int32(len(t.tokenIndices)) //nolint:gosec
	t.tokenIndices = append(t.tokenIndices, tokenIndex)
	t.reps = append(t.reps, rep)
	t.byKey[key] = idx

	return idx
}

// fieldSetTable is the concatenation of variable-length field-index groups,
// each terminated by the sentinel -1. Groups are never deduplicated or
// reordered once emitted (spec.md §3).
type fieldSetTable struct {
	indices []int32
}

// allocate appends fieldIndices followed by the -1 sentinel and returns the
// offset at which the group starts.
func (t *fieldSetTable) allocate(fieldIndices []int32) int32 {
	start := int32(len(t.indices)) //nolint:gosec
	t.indices = append(t.indices, fieldIndices...)
	t.indices = append(t.indices, -1)

	return start
}

// pathTable holds the ordered (pathIndex, tokenIndex, jump) triples. Unlike
// the other tables it is never deduplicated: every prim and attribute gets
// its own row, in write order.
type pathTable struct {
	pathIndices  []int32
	tokenIndices []int32
	jumps        []int32
}

func (t *pathTable) add(pathIndex, tokenIndex, jump int32) {
	t.pathIndices = append(t.pathIndices, pathIndex)
	t.tokenIndices = append(t.tokenIndices, tokenIndex)
	t.jumps = append(t.jumps, jump)
}

func (t *pathTable) len() int { return len(t.pathIndices) }

// specTable holds the ordered (pathIndex, fieldSetIndex, specType) triples.
type specTable struct {
	pathIndices []int32
	fieldSetIdx []int32
	specTypes   []int32
}

func (t *specTable) add(pathIndex, fieldSetIndex int32, kind specType) {
	t.pathIndices = append(t.pathIndices, pathIndex)
	t.fieldSetIdx = append(t.fieldSetIdx, fieldSetIndex)
	t.specTypes = append(t.specTypes, int32(kind))
}

func (t *specTable) len() int { return len(t.pathIndices) }

// blobDedup deduplicates out-of-line payloads (token arrays, token
// vectors, int arrays) by exact byte content, returning the file offset of
// a prior identical blob if one exists. Vec3f arrays, dictionaries, and
// path payloads are written afresh every time.
type blobDedup struct {
	byContent map[string]int64
}

func newBlobDedup() *blobDedup {
	return &blobDedup{byContent: make(map[string]int64)}
}

func (d *blobDedup) lookup(content []byte) (int64, bool) {
	off, ok := d.byContent[string(content)]
	return off, ok
}

func (d *blobDedup) record(content []byte, offset int64) {
	d.byContent[string(content)] = offset
}
