// Package scene models the USD scene tree the USDZ exporter builds before
// handing it to package crate: a Root pseudo-prim holding child Prims, each
// of which may hold further child Prims and leaf Attributes. Path indices
// and jump offsets are assigned by a single depth-first pass
// (AssignPathIndices) that must run exactly once, after the tree is fully
// built and before the Crate writer reads it.
package scene

import (
	"fmt"

	"github.com/molcrate/molexport/errs"
	"github.com/molcrate/molexport/mesh"
)

// Specifier is a USD prim specifier.
type Specifier int

const (
	SpecifierDef Specifier = iota
	SpecifierOver
	SpecifierClass
)

// ValueType tags the closed set of attribute value shapes this subset of
// USD actually uses (spec.md §9 Design Notes, "Dynamic value bag").
type ValueType int

const (
	ValueToken ValueType = iota
	ValueTokenArray
	ValueTokenVector
	ValueInt32Array
	ValueFloat
	ValueVec3fScalar
	ValueVec3fArray
	ValueBool
	ValueVariability
	ValueSpecifier
	ValueDictionary
	ValuePathConnection
	ValuePathRelationship
)

// MetaKind tags the closed set of metadata value shapes (spec.md §9 Design
// Notes, "Metadata bag"). MetaPrimRef is used by the "inherits" entry;
// "references" is never representable here (spec.md §7 UnimplementedMetadata).
type MetaKind int

const (
	MetaString MetaKind = iota
	MetaFloat
	MetaBool
	MetaDictionary
	MetaPrimRef
)

// MetaValue is one polymorphic metadata entry.
type MetaValue struct {
	Kind MetaKind
	Str  string
	Num  float64
	Bool bool
	Dict map[string]string
	Ref  *Prim
}

// Value is the tagged union an Attribute's payload is expressed as. Exactly
// one field is meaningful, selected by the owning Attribute's ValueType.
type Value struct {
	Token        string
	TokenArray   []string
	Ints         []int32
	Float        float32
	Vec3         mesh.Vec3
	Vec3Array    []mesh.Vec3
	Bool         bool
	Variability  bool
	Specifier    Specifier
	Dict         map[string]string
	Connection   *Attribute // PathConnection target
	Relationship *Prim      // PathRelationship target
	IsNull       bool
}

// Sample is one (time, value) entry in an Attribute's time-samples list.
// No exporter in this tree populates it; the Crate writer encodes an
// attribute's Samples when they are present.
type Sample struct {
	Time  float64
	Value Value
}

// Attribute is a named leaf value attached to a Prim.
type Attribute struct {
	Name       string
	ValueType  ValueType
	TypeName   string
	IsArray    bool
	Qualifiers []string
	Metadata   map[string]MetaValue
	Value      Value
	Samples    []Sample

	pathIndex int32
	jump      int32
}

// PathIndex returns the attribute's assigned path index: per spec.md §3,
// this is its parent prim's own path index, not a distinct one (a
// deliberate quirk of this USD subset).
func (a *Attribute) PathIndex() int32 { return a.pathIndex }

// Jump returns the attribute's precomputed path-jump offset.
func (a *Attribute) Jump() int32 { return a.jump }

// Prim is a named node: a specifier, a type-name token, a metadata map, an
// ordered list of child prims, and an ordered list of attributes.
type Prim struct {
	Name      string
	Specifier Specifier
	TypeName  string
	Metadata  map[string]MetaValue
	Children  []*Prim
	Attrs     []*Attribute

	pathIndex int32
	jump      int32
}

// PathIndex returns the prim's assigned path index.
func (p *Prim) PathIndex() int32 { return p.pathIndex }

// Jump returns the prim's precomputed path-jump offset.
func (p *Prim) Jump() int32 { return p.jump }

// AddChild appends a child prim.
func (p *Prim) AddChild(c *Prim) { p.Children = append(p.Children, c) }

// AddAttribute appends an attribute.
func (p *Prim) AddAttribute(a *Attribute) { p.Attrs = append(p.Attrs, a) }

// Root is the distinguished pseudo-prim at path index 0: it holds metadata
// and child prims, but (unlike a Prim) no attributes and no type name.
type Root struct {
	Metadata map[string]MetaValue
	Children []*Prim

	assigned bool
}

// NewRoot creates an empty scene root.
func NewRoot() *Root {
	return &Root{Metadata: make(map[string]MetaValue)}
}

// AddChild appends a child prim.
func (r *Root) AddChild(c *Prim) { r.Children = append(r.Children, c) }

// PathIndex is always 0 for the root.
func (r *Root) PathIndex() int32 { return 0 }

// AssignPathIndices performs the single depth-first pass spec.md §3
// requires: the root is 0; each prim is assigned its own index, then its
// children are assigned recursively, then its attributes each inherit the
// prim's own index. Jump offsets (spec.md §3 "Path jump") are computed in
// the same pass, since it already has the parent/sibling context they need.
// Must be called exactly once, after the tree is fully built.
func (r *Root) AssignPathIndices() {
	counter := int32(1)
	assignSiblings(r.Children, true, 0, &counter)
	r.assigned = true
}

func assignSiblings(prims []*Prim, parentExists bool, parentAttrCount int, counter *int32) {
	for i, p := range prims {
		isLastChild := i == len(prims)-1
		assignPrim(p, parentExists, isLastChild, parentAttrCount, counter)
	}
}

func assignPrim(p *Prim, parentExists bool, isLastChild bool, parentAttrCount int, counter *int32) {
	p.pathIndex = *counter
	*counter++

	assignSiblings(p.Children, true, len(p.Attrs), counter)

	for _, a := range p.Attrs {
		a.pathIndex = p.pathIndex
	}

	hasSibling := parentExists && (!isLastChild || parentAttrCount > 0)
	hasChild := len(p.Children) > 0 || len(p.Attrs) > 0

	switch {
	case hasSibling && hasChild:
		p.jump = int32(descendantCount(p) + subtreeAttrCount(p) + 1) //nolint:gosec
	case hasSibling:
		p.jump = 0
	case hasChild:
		p.jump = -1
	default:
		p.jump = -2
	}

	for i, a := range p.Attrs {
		if i == len(p.Attrs)-1 {
			a.jump = -2
		} else {
			a.jump = 0
		}
	}
}

// descendantCount counts p's prim descendants, recursively, not including
// p itself.
func descendantCount(p *Prim) int {
	n := 0
	for _, c := range p.Children {
		n += 1 + descendantCount(c)
	}

	return n
}

// subtreeAttrCount counts every attribute owned by p or any of its
// descendant prims. writePrim emits a prim's own attribute path entries
// only after recursing into all of its children, so the entries a reader
// must skip to reach p's next sibling include every descendant's
// attributes too, not just p's own.
func subtreeAttrCount(p *Prim) int {
	n := len(p.Attrs)
	for _, c := range p.Children {
		n += subtreeAttrCount(c)
	}

	return n
}

// Validate walks the tree and checks the invariants AssignPathIndices is
// supposed to establish: it must have run, path indices must be assigned
// in strict DFS order (0, 1, 2, ...) across prims, and every attribute's
// path index must equal its parent prim's.
func (r *Root) Validate() error {
	if !r.assigned {
		return errs.ErrSceneNotFinalized
	}

	next := int32(1)

	return validateSiblings(r.Children, &next)
}

func validateSiblings(prims []*Prim, next *int32) error {
	for _, p := range prims {
		if p.pathIndex != *next {
			return fmt.Errorf("scene: prim %q has path index %d, want %d (DFS order)", p.Name, p.pathIndex, *next)
		}
		*next++

		for _, a := range p.Attrs {
			if a.pathIndex != p.pathIndex {
				return fmt.Errorf("scene: attribute %q has path index %d, want parent's %d", a.Name, a.pathIndex, p.pathIndex)
			}
		}

		if err := validateSiblings(p.Children, next); err != nil {
			return err
		}
	}

	return nil
}
