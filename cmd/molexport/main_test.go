package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/molcrate/molexport/internal/config"
	"github.com/molcrate/molexport/mesh"
	"github.com/stretchr/testify/require"
)

func triangleSet() mesh.Set {
	return mesh.Set{Entries: []mesh.Entry{
		{
			Color: mesh.Color{R: 255},
			Mesh: mesh.Mesh{
				Positions: []mesh.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
				Normals:   []mesh.Vec3{{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}},
				Faces:     []uint32{0, 1, 2},
			},
		},
	}}
}

func TestWriteAtomic_CreatesFileWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	require.NoError(t, writeAtomic(path, []byte("hello")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestWriteAtomic_LeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeAtomic(filepath.Join(dir, "out.bin"), []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "out.bin", entries[0].Name())
}

func TestExportOne_WritesOBJAndMTL(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "scene")

	require.NoError(t, exportOne(triangleSet(), stem, config.FormatOBJ))

	require.FileExists(t, stem+".obj")
	require.FileExists(t, stem+".mtl")
}

func TestExportOne_WritesGLB(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "scene")

	require.NoError(t, exportOne(triangleSet(), stem, config.FormatGLB))

	require.FileExists(t, stem+".glb")
}

func TestExportOne_WritesUSDZ(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "scene")

	require.NoError(t, exportOne(triangleSet(), stem, config.FormatUSDZ))

	require.FileExists(t, stem+".usdz")
}

func TestExportAll_WithDebugBundleWritesExtraFile(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "scene")

	export := config.Export{OutPath: stem, Formats: []config.Format{config.FormatGLB}, DebugBundle: true}
	require.NoError(t, exportAll(triangleSet(), export))

	require.FileExists(t, stem+".glb")
	require.FileExists(t, stem+".debug.zst")
}
