// Package meshfile reads the JSON document molexport's CLI takes as input:
// a stand-in for "a mapping from color to mesh produced upstream" (package
// mesh is the only thing the rest of this module knows about; meshfile is
// the one place that knows how to read one off disk).
package meshfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/molcrate/molexport/errs"
	"github.com/molcrate/molexport/mesh"
)

// document is the on-disk JSON shape: {"meshes": [{"color": "#RRGGBB",
// "positions": [[x,y,z],...], "normals": [[x,y,z],...], "faces": [i,...]}]}.
type document struct {
	Meshes []meshEntry `json:"meshes"`
}

type meshEntry struct {
	Color     string       `json:"color"`
	Positions [][3]float32 `json:"positions"`
	Normals   [][3]float32 `json:"normals"`
	Faces     []uint32     `json:"faces"`
}

// Read parses r as a mesh-set intake document and validates the result
// against mesh.Set.Validate's invariants.
func Read(r io.Reader) (mesh.Set, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return mesh.Set{}, fmt.Errorf("meshfile: decode: %w", err)
	}

	set := mesh.Set{Entries: make([]mesh.Entry, 0, len(doc.Meshes))}
	for i, me := range doc.Meshes {
		color, err := parseColor(me.Color)
		if err != nil {
			return mesh.Set{}, fmt.Errorf("meshfile: mesh %d: %w", i, err)
		}

		set.Entries = append(set.Entries, mesh.Entry{
			Color: color,
			Mesh: mesh.Mesh{
				Positions: toVec3s(me.Positions),
				Normals:   toVec3s(me.Normals),
				Faces:     me.Faces,
			},
		})
	}

	if err := set.Validate(); err != nil {
		return mesh.Set{}, err
	}

	return set, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (mesh.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return mesh.Set{}, fmt.Errorf("meshfile: %w", err)
	}
	defer f.Close()

	return Read(f)
}

func toVec3s(in [][3]float32) []mesh.Vec3 {
	out := make([]mesh.Vec3, len(in))
	for i, v := range in {
		out[i] = mesh.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}

	return out
}

// parseColor parses a "#RRGGBB" string into a mesh.Color.
func parseColor(s string) (mesh.Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return mesh.Color{}, fmt.Errorf("%w: %q", errs.ErrInvalidColor, s)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return mesh.Color{}, fmt.Errorf("%w: %q", errs.ErrInvalidColor, s)
	}

	return mesh.Color{R: r, G: g, B: b}, nil
}
