package objmtl

import (
	"testing"

	"github.com/molcrate/molexport/mesh"
	"github.com/stretchr/testify/require"
)

func TestWrite_SingleTriangleMatchesWorkedExample(t *testing.T) {
	set := mesh.Set{Entries: []mesh.Entry{
		{
			Color: mesh.Color{R: 255, G: 0, B: 0},
			Mesh: mesh.Mesh{
				Positions: []mesh.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
				Normals:   []mesh.Vec3{{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}},
				Faces:     []uint32{0, 1, 2},
			},
		},
	}}

	obj, mtl := Write(set, "foo.mtl")

	wantOBJ := "mtllib foo.mtl\n" +
		"g m0\n" +
		"usemtl k0\n" +
		"v 0 0 0\n" +
		"v 1 0 0\n" +
		"v 0 1 0\n" +
		"vn 0 0 1\n" +
		"vn 0 0 1\n" +
		"vn 0 0 1\n" +
		"f 1//1 2//2 3//3"
	require.Equal(t, wantOBJ, obj)

	wantMTL := "newmtl k0\n" +
		"Ns 163\n" +
		"Ni 0.001\n" +
		"illum 2\n" +
		"Ka 0.20 0.20 0.20\n" +
		"Kd 1 0 0\n" +
		"Ks 0.25 0.25 0.25"
	require.Equal(t, wantMTL, mtl)
}

func TestWrite_VertexIndicesAccumulateAcrossColors(t *testing.T) {
	set := mesh.Set{Entries: []mesh.Entry{
		{Mesh: mesh.Mesh{
			Positions: []mesh.Vec3{{}, {}, {}},
			Normals:   []mesh.Vec3{{}, {}, {}},
			Faces:     []uint32{0, 1, 2},
		}},
		{Mesh: mesh.Mesh{
			Positions: []mesh.Vec3{{}, {}},
			Normals:   []mesh.Vec3{{}, {}},
			Faces:     []uint32{0, 1, 0},
		}},
	}}

	obj, _ := Write(set, "x.mtl")

	require.Contains(t, obj, "f 1//1 2//2 3//3", "first mesh starts at vertex 1")
	require.Contains(t, obj, "f 4//4 5//5 4//4", "second mesh's offset is 3, the first mesh's vertex count")
}

func TestWrite_EmptySetProducesOnlyMtllibDirective(t *testing.T) {
	obj, mtl := Write(mesh.Set{}, "x.mtl")
	require.Equal(t, "mtllib x.mtl", obj)
	require.Equal(t, "", mtl)
}
