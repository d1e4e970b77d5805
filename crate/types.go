// Package crate implements the central encoder: it walks a scene.Root tree
// and emits a USD Crate binary file (the format USDZ wraps in its ZIP
// container). It interns tokens, strings, fields, field sets, paths, and
// specs exactly as the original format does, then serializes all six
// sections plus a table of contents into a byte sink.
package crate

// valueTag is the 8-bit value-type tag rep64 carries in bits 48..55. The
// numbering is internal to this package; nothing outside it interprets a
// raw tag value.
type valueTag uint8

const (
	tagToken valueTag = iota
	tagTokenArray
	tagTokenVector
	tagIntArray
	tagFloat
	tagVec3f
	tagVec3fArray
	tagBool
	tagVariability
	tagSpecifier
	tagDictionary
	tagPathListOp
	tagPathVector
	tagDoubleVector
	tagDouble
)

// specType is the third column of the SPECS table.
type specType int32

const (
	specPseudoRoot specType = iota + 1
	specPrim
	specAttribute
	specRelationship
)

// fieldKey identifies one (tokenIndex, rep64) pair for field interning, so
// two metadata entries with the same name and the same encoded value share
// a single fields-table row (spec.md §3, "Crate intern tables").
type fieldKey struct {
	tokenIndex int32
	rep        uint64
}
