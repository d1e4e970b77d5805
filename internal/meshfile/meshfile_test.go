package meshfile

import (
	"strings"
	"testing"

	"github.com/molcrate/molexport/mesh"
	"github.com/stretchr/testify/require"
)

func TestRead_ParsesColorAndGeometry(t *testing.T) {
	doc := `{"meshes": [{
		"color": "#FF0000",
		"positions": [[0,0,0],[1,0,0],[0,1,0]],
		"normals": [[0,0,1],[0,0,1],[0,0,1]],
		"faces": [0,1,2]
	}]}`

	set, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, set.Entries, 1)
	require.Equal(t, mesh.Color{R: 255, G: 0, B: 0}, set.Entries[0].Color)
	require.Equal(t, []mesh.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}, set.Entries[0].Mesh.Positions)
	require.Equal(t, []uint32{0, 1, 2}, set.Entries[0].Mesh.Faces)
}

func TestRead_RejectsMalformedColor(t *testing.T) {
	doc := `{"meshes": [{"color": "red", "positions": [], "normals": [], "faces": []}]}`

	_, err := Read(strings.NewReader(doc))
	require.Error(t, err)
}

func TestRead_RejectsInvariantViolation(t *testing.T) {
	doc := `{"meshes": [{
		"color": "#00FF00",
		"positions": [[0,0,0]],
		"normals": [[0,0,1],[0,0,1]],
		"faces": []
	}]}`

	_, err := Read(strings.NewReader(doc))
	require.Error(t, err)
}

func TestRead_EmptyDocumentProducesEmptySet(t *testing.T) {
	set, err := Read(strings.NewReader(`{"meshes": []}`))
	require.NoError(t, err)
	require.Empty(t, set.Entries)
}
