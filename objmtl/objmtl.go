// Package objmtl emits the OBJ/MTL text pair: a line-oriented ASCII mesh
// file referencing a companion material library (spec.md §4.6).
package objmtl

import (
	"fmt"
	"strings"

	"github.com/molcrate/molexport/mesh"
)

// Fixed MTL block lines, identical for every color (spec.md §4.6 / S2
// worked example — written as literal strings since Ka/Ks use a fixed
// decimal width that %g alone would not reproduce, e.g. "0.20" not "0.2").
const (
	matNsLine    = "Ns 163"
	matNiLine    = "Ni 0.001"
	matIllumLine = "illum 2"
	matKaLine    = "Ka 0.20 0.20 0.20"
	matKsLine    = "Ks 0.25 0.25 0.25"
)

// Write renders set into an OBJ file (referencing mtlName as its mtllib)
// and the companion MTL file.
func Write(set mesh.Set, mtlName string) (obj, mtl string) {
	return writeOBJ(set, mtlName), writeMTL(set)
}

func writeOBJ(set mesh.Set, mtlName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "mtllib %s\n", mtlName)

	vertexOffset := uint32(0)
	for i, entry := range set.Entries {
		m := entry.Mesh

		fmt.Fprintf(&b, "g m%d\n", i)
		fmt.Fprintf(&b, "usemtl k%d\n", i)

		for _, v := range m.Positions {
			fmt.Fprintf(&b, "v %s %s %s\n", trimFloat(v.X), trimFloat(v.Y), trimFloat(v.Z))
		}

		for _, n := range m.Normals {
			fmt.Fprintf(&b, "vn %s %s %s\n", trimFloat(n.X), trimFloat(n.Y), trimFloat(n.Z))
		}

		for f := 0; f < len(m.Faces); f += 3 {
			a := vertexOffset + m.Faces[f] + 1
			c := vertexOffset + m.Faces[f+1] + 1
			d := vertexOffset + m.Faces[f+2] + 1
			fmt.Fprintf(&b, "f %d//%d %d//%d %d//%d\n", a, a, c, c, d, d)
		}

		vertexOffset += uint32(len(m.Positions))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func writeMTL(set mesh.Set) string {
	var b strings.Builder

	for i, entry := range set.Entries {
		r, g, bl := entry.Color.Normalized()

		fmt.Fprintf(&b, "newmtl k%d\n", i)
		fmt.Fprintln(&b, matNsLine)
		fmt.Fprintln(&b, matNiLine)
		fmt.Fprintln(&b, matIllumLine)
		fmt.Fprintln(&b, matKaLine)
		fmt.Fprintf(&b, "Kd %s %s %s\n", trimFloat(r), trimFloat(g), trimFloat(bl))
		fmt.Fprintln(&b, matKsLine)

		if i < len(set.Entries)-1 {
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// trimFloat formats a float with %g, which matches the S2 worked example:
// no trailing zeros beyond what's needed, integers written without a
// decimal point ("0" not "0.000000"). Magnitudes below 1e-4, or of 1e6 and
// above, come out in exponent form ("1e-05", "1e+06").
func trimFloat[T ~float32 | ~float64](v T) string {
	s := fmt.Sprintf("%g", float64(v))

	return s
}
