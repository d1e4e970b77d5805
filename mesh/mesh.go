// Package mesh defines the exporter's input shape: an ordered mapping from
// color to a colored triangle mesh. All three exporters (objmtl, glb, the
// USDZ path through scene/crate) consume this identical representation;
// package internal/meshfile is the only thing that knows how to read one
// off disk.
package mesh

import (
	"fmt"

	"github.com/molcrate/molexport/errs"
)

// Color is a 24-bit RGB color, one channel per byte.
type Color struct {
	R, G, B uint8
}

// Normalized returns the color's channels as floats in [0, 1], the form the
// GLB and USDZ writers need for baseColorFactor/diffuseColor.
func (c Color) Normalized() (r, g, b float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255
}

// Hex returns the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Vec3 is a 3-float vector used for both positions and normals.
type Vec3 struct {
	X, Y, Z float32
}

// Mesh is one color's worth of triangle geometry.
type Mesh struct {
	Positions []Vec3
	Normals   []Vec3
	Faces     []uint32
}

// Validate checks the invariants spec.md §3 requires of a single mesh:
// positions and normals have equal length, the face count is a multiple of
// three, and every face index is in range. Meshes may have zero faces.
func (m Mesh) Validate() error {
	if len(m.Positions) != len(m.Normals) {
		return fmt.Errorf("%w: %d positions, %d normals", errs.ErrMismatchedVertexCount, len(m.Positions), len(m.Normals))
	}

	if len(m.Faces)%3 != 0 {
		return fmt.Errorf("%w: %d faces", errs.ErrFaceCountNotMultipleOfThree, len(m.Faces))
	}

	for _, idx := range m.Faces {
		if int(idx) >= len(m.Positions) {
			return fmt.Errorf("%w: index %d, %d positions", errs.ErrFaceIndexOutOfRange, idx, len(m.Positions))
		}
	}

	return nil
}

// BoundingBox returns the mesh's axis-aligned bounding box over its
// positions. The second return value is false for a mesh with no
// positions, in which case min/max are the zero vector.
func (m Mesh) BoundingBox() (min, max Vec3, ok bool) {
	if len(m.Positions) == 0 {
		return Vec3{}, Vec3{}, false
	}

	min, max = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		min.X, max.X = minF(min.X, p.X), maxF(max.X, p.X)
		min.Y, max.Y = minF(min.Y, p.Y), maxF(max.Y, p.Y)
		min.Z, max.Z = minF(min.Z, p.Z), maxF(max.Z, p.Z)
	}

	return min, max, true
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}

	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}

	return b
}

// Entry pairs a Color with its Mesh, preserving the ordered-map semantics
// spec.md §3 requires ("ordered mapping from Color to Mesh") without
// relying on Go map iteration order.
type Entry struct {
	Color Color
	Mesh  Mesh
}

// Set is the exporter's full input: an ordered sequence of color/mesh
// pairs.
type Set struct {
	Entries []Entry
}

// Validate checks every entry's mesh invariants.
func (s Set) Validate() error {
	for i, e := range s.Entries {
		if err := e.Mesh.Validate(); err != nil {
			return fmt.Errorf("mesh %d (color %s): %w", i, e.Color.Hex(), err)
		}
	}

	return nil
}

// BoundingBox returns the union bounding box across every mesh in the set.
// ok is false for an empty set.
func (s Set) BoundingBox() (min, max Vec3, ok bool) {
	first := true
	for _, e := range s.Entries {
		emin, emax, eok := e.Mesh.BoundingBox()
		if !eok {
			continue
		}

		if first {
			min, max = emin, emax
			first = false

			continue
		}

		min.X, max.X = minF(min.X, emin.X), maxF(max.X, emax.X)
		min.Y, max.Y = minF(min.Y, emin.Y), maxF(max.Y, emax.Y)
		min.Z, max.Z = minF(min.Z, emin.Z), maxF(max.Z, emax.Z)
	}

	return min, max, !first
}
