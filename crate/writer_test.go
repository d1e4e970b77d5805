package crate

import (
	"testing"

	"github.com/molcrate/molexport/scene"
	"github.com/stretchr/testify/require"
)

func simpleTree() *scene.Root {
	root := scene.NewRoot()
	root.Metadata = map[string]scene.MetaValue{
		"kind": {Kind: scene.MetaString, Str: "component"},
	}

	ar := &scene.Prim{Name: "ar", TypeName: "Xform", Specifier: scene.SpecifierDef}
	mesh := &scene.Prim{Name: "m0", TypeName: "Mesh", Specifier: scene.SpecifierDef}
	mesh.AddAttribute(&scene.Attribute{
		Name:      "points",
		TypeName:  "point3f[]",
		ValueType: scene.ValueVec3fArray,
		Value: scene.Value{Vec3Array: []scene.Vec3{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
		}},
	})
	mesh.AddAttribute(&scene.Attribute{
		Name:      "subdivisionScheme",
		TypeName:  "token",
		ValueType: scene.ValueToken,
		Qualifiers: []string{"uniform"},
		Value:     scene.Value{Token: "none"},
	})

	ar.AddChild(mesh)
	root.AddChild(ar)
	root.AssignPathIndices()

	return root
}

func TestWriter_WriteScene_ProducesNonEmptyCrateFile(t *testing.T) {
	root := simpleTree()

	w := NewWriter()
	require.NoError(t, w.WriteScene(root))

	data, stats, err := w.Finish()
	require.NoError(t, err)

	require.Greater(t, len(data), 96, "must exceed bootstrap size")
	require.Equal(t, "PXR-USDC", string(data[:8]))
	require.Equal(t, []byte{0, 7, 0, 0, 0, 0, 0, 0}, data[8:16])
	require.Greater(t, stats.TokenCount, 0)
	require.Greater(t, stats.SpecCount, 0)
	require.Equal(t, len(data), stats.TotalBytes)
}

func TestWriter_WriteScene_RejectsUnfinalizedTree(t *testing.T) {
	root := scene.NewRoot()
	root.AddChild(&scene.Prim{Name: "a"})

	w := NewWriter()
	require.Error(t, w.WriteScene(root))
}

func TestWriter_WriteScene_RejectsReferencesMetadata(t *testing.T) {
	root := scene.NewRoot()
	p := &scene.Prim{
		Name: "a",
		Metadata: map[string]scene.MetaValue{
			"references": {Kind: scene.MetaString, Str: "x"},
		},
	}
	root.AddChild(p)
	root.AssignPathIndices()

	w := NewWriter()
	require.Error(t, w.WriteScene(root))
}

func TestMakeRep_RoundTripsFlagsAndPayload(t *testing.T) {
	rep := makeRep(0x1234, tagToken, true, false, false)
	require.Equal(t, uint64(0x1234), rep&repPayloadMask)
	require.NotZero(t, rep&repFlagInline)
	require.Zero(t, rep&repFlagArray)
	require.Zero(t, rep&repFlagCompressed)
	require.Equal(t, uint64(tagToken), (rep>>48)&0xFF)
}

func TestInternTable_DedupsByValue(t *testing.T) {
	tbl := newInternTable()
	a := tbl.intern("Xform")
	b := tbl.intern("Mesh")
	c := tbl.intern("Xform")

	require.Equal(t, a, c)
	require.NotEqual(t, a, b)
	require.Equal(t, 2, tbl.len())
}

func TestFieldSetTable_AllocateAppendsSentinel(t *testing.T) {
	var t1 fieldSetTable
	start := t1.allocate([]int32{3, 4})

	require.Equal(t, int32(0), start)
	require.Equal(t, []int32{3, 4, -1}, t1.indices)
}

func TestWriter_WriteScene_DeterministicAcrossRuns(t *testing.T) {
	data1, _, err := func() ([]byte, Stats, error) {
		w := NewWriter()
		require.NoError(t, w.WriteScene(simpleTree()))
		return w.Finish()
	}()
	require.NoError(t, err)

	data2, _, err := func() ([]byte, Stats, error) {
		w := NewWriter()
		require.NoError(t, w.WriteScene(simpleTree()))
		return w.Finish()
	}()
	require.NoError(t, err)

	require.Equal(t, data1, data2)
}
