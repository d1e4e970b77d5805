package molexport

import (
	"testing"

	"github.com/molcrate/molexport/mesh"
	"github.com/stretchr/testify/require"
)

func triangleSet() mesh.Set {
	return mesh.Set{Entries: []mesh.Entry{
		{
			Color: mesh.Color{R: 255, G: 0, B: 0},
			Mesh: mesh.Mesh{
				Positions: []mesh.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
				Normals:   []mesh.Vec3{{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}},
				Faces:     []uint32{0, 1, 2},
			},
		},
	}}
}

func TestExportOBJ_ProducesNonEmptyText(t *testing.T) {
	obj, mtl, err := ExportOBJ(triangleSet(), "scene.mtl")
	require.NoError(t, err)
	require.Contains(t, obj, "mtllib scene.mtl")
	require.Contains(t, mtl, "newmtl k0")
}

func TestExportOBJ_RejectsInvalidMesh(t *testing.T) {
	bad := mesh.Set{Entries: []mesh.Entry{{Mesh: mesh.Mesh{Faces: []uint32{0, 1}}}}}
	_, _, err := ExportOBJ(bad, "x.mtl")
	require.Error(t, err)
}

func TestExportGLB_ProducesGLBMagic(t *testing.T) {
	data, err := ExportGLB(triangleSet())
	require.NoError(t, err)
	require.Equal(t, []byte("glTF"), data[0:4])
}

func TestExportUSDZ_ProducesZipMagic(t *testing.T) {
	data, err := ExportUSDZ(triangleSet())
	require.NoError(t, err)
	require.Equal(t, []byte{0x50, 0x4B, 0x03, 0x04}, data[0:4])
}

func TestExportUSDZ_EmptySetStillProducesValidArchive(t *testing.T) {
	data, err := ExportUSDZ(mesh.Set{})
	require.NoError(t, err)
	require.Equal(t, []byte{0x50, 0x4B, 0x03, 0x04}, data[0:4])
}

func TestBuildScene_ProducesFixedArMaterialsLayout(t *testing.T) {
	root := BuildScene(triangleSet())
	require.Len(t, root.Children, 1)

	ar := root.Children[0]
	require.Equal(t, "ar", ar.Name)
	require.Equal(t, "Xform", ar.TypeName)

	require.Len(t, ar.Children, 2, "Materials scope + one mesh per color")
	require.Equal(t, "Materials", ar.Children[0].Name)
	require.Equal(t, "m0", ar.Children[1].Name)

	materials := ar.Children[0]
	require.Len(t, materials.Children, 1)
	require.Equal(t, "k0", materials.Children[0].Name)
	require.Equal(t, "Material", materials.Children[0].TypeName)
}

func TestBuildScene_MaterialOutputSurfaceConnectsToShader(t *testing.T) {
	root := BuildScene(triangleSet())
	material := root.Children[0].Children[0].Children[0]
	shader := material.Children[0]

	require.Equal(t, "surfaceShader", shader.Name)

	connectionTarget := material.Attrs[0].Value.Connection
	require.NotNil(t, connectionTarget)
	require.Equal(t, "outputs:surface", connectionTarget.Name)
}

func TestBuildScene_MultiColorSceneBuildsOneMeshAndMaterialPerColor(t *testing.T) {
	set := mesh.Set{Entries: []mesh.Entry{
		{Color: mesh.Color{R: 255}, Mesh: mesh.Mesh{
			Positions: []mesh.Vec3{{}, {}, {}}, Normals: []mesh.Vec3{{}, {}, {}}, Faces: []uint32{0, 1, 2},
		}},
		{Color: mesh.Color{G: 255}, Mesh: mesh.Mesh{
			Positions: []mesh.Vec3{{}, {}, {}}, Normals: []mesh.Vec3{{}, {}, {}}, Faces: []uint32{0, 1, 2},
		}},
	}}

	root := BuildScene(set)
	ar := root.Children[0]
	require.Len(t, ar.Children, 3, "Materials scope + two meshes")
	require.Equal(t, "m0", ar.Children[1].Name)
	require.Equal(t, "m1", ar.Children[2].Name)

	materials := ar.Children[0]
	require.Len(t, materials.Children, 2)
	require.Equal(t, "k0", materials.Children[0].Name)
	require.Equal(t, "k1", materials.Children[1].Name)
}
