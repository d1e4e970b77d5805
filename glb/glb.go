// Package glb assembles a glTF 2.0 Binary (GLB) envelope: a JSON chunk
// describing the scene plus a BIN chunk of interleaved accessor data,
// wrapped in the two-chunk GLB container (spec.md §4.5).
package glb

import (
	"encoding/json"
	"fmt"

	"github.com/molcrate/molexport/internal/options"
	"github.com/molcrate/molexport/mesh"
	"github.com/molcrate/molexport/sink"
)

// Option configures a Write call, using the same generic functional-option
// machinery the teacher uses for its encoders (internal/options.Option[T]).
type Option = options.Option[*gltf]

// WithGenerator sets the manifest's asset.generator string, which glTF
// viewers often surface in their scene-inspector UI.
func WithGenerator(name string) Option {
	return options.NoError[*gltf](func(m *gltf) {
		m.Asset.Generator = name
	})
}

const (
	magic   = 0x46546C67
	version = 2

	chunkTypeJSON = 0x4E4F534A
	chunkTypeBIN  = 0x004E4942

	targetArrayBuffer        = 34962
	targetElementArrayBuffer = 34963

	componentTypeUnsignedInt = 5125
	componentTypeFloat       = 5126
)

// gltf is the root JSON manifest. Field order matches encoding/json's
// struct order, which is stable and deterministic across runs.
type gltf struct {
	Asset       asset        `json:"asset"`
	Scene       int          `json:"scene"`
	Scenes      []sceneDef   `json:"scenes"`
	Nodes       []nodeDef    `json:"nodes"`
	Meshes      []meshDef    `json:"meshes"`
	Accessors   []accessor   `json:"accessors"`
	BufferViews []bufferView `json:"bufferViews"`
	Buffers     []bufferDef  `json:"buffers"`
	Materials   []material   `json:"materials"`
}

type asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

type sceneDef struct {
	Nodes []int `json:"nodes"`
}

type nodeDef struct {
	Mesh int `json:"mesh"`
}

type meshDef struct {
	Primitives []primitive `json:"primitives"`
}

type primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    int             `json:"indices"`
	Material   int             `json:"material"`
}

type accessor struct {
	BufferView    int       `json:"bufferView"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float32 `json:"min,omitempty"`
	Max           []float32 `json:"max,omitempty"`
}

type bufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	Target     int `json:"target"`
}

type bufferDef struct {
	ByteLength int `json:"byteLength"`
}

type material struct {
	PbrMetallicRoughness pbr `json:"pbrMetallicRoughness"`
}

type pbr struct {
	BaseColorFactor [4]float32 `json:"baseColorFactor"`
	MetallicFactor  float32    `json:"metallicFactor"`
	RoughnessFactor float32    `json:"roughnessFactor"`
}

// Write assembles a glTF manifest with one primitive per color and its
// interleaved binary buffer, then wraps both in a GLB container.
func Write(set mesh.Set, opts ...Option) ([]byte, error) {
	manifest := gltf{
		Asset:   asset{Version: "2.0"},
		Scenes:  []sceneDef{{Nodes: []int{0}}},
		Nodes:   []nodeDef{{Mesh: 0}},
		Buffers: []bufferDef{{}},
	}

	_ = options.Apply(&manifest, opts...)

	bin := sink.New()
	primitives := make([]primitive, 0, len(set.Entries))

	for i, entry := range set.Entries {
		prim, err := appendMeshBuffers(&manifest, bin, entry.Mesh, i)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		prim.Material = i
		primitives = append(primitives, prim)

		r, g, b := entry.Color.Normalized()
		manifest.Materials = append(manifest.Materials, material{
			PbrMetallicRoughness: pbr{
				BaseColorFactor: [4]float32{r, g, b, 1},
				MetallicFactor:  0,
				RoughnessFactor: 0.5,
			},
		})
	}

	manifest.Meshes = []meshDef{{Primitives: primitives}}
	manifest.Buffers[0].ByteLength = bin.Tell()

	jsonBytes, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("glb: marshal manifest: %w", err)
	}

	return assembleContainer(jsonBytes, bin.Bytes()), nil
}

// appendMeshBuffers appends one mesh's index/position/normal buffers to bin
// and registers the matching accessors/bufferViews, returning the
// primitive that references them. Each call appends three new
// accessors/bufferViews, numbered from the manifest's current lengths, so
// every color's primitive gets its own set; colorIndex does not affect the
// numbering.
func appendMeshBuffers(manifest *gltf, bin *sink.Sink, m mesh.Mesh, colorIndex int) (primitive, error) {
	indexAccessor := len(manifest.Accessors)
	indexView := len(manifest.BufferViews)

	indexOffset := bin.Tell()
	for _, idx := range m.Faces {
		bin.WriteU32(idx)
	}
	manifest.BufferViews = append(manifest.BufferViews, bufferView{
		ByteOffset: indexOffset,
		ByteLength: bin.Tell() - indexOffset,
		Target:     targetElementArrayBuffer,
	})
	manifest.Accessors = append(manifest.Accessors, accessor{
		BufferView:    indexView,
		ComponentType: componentTypeUnsignedInt,
		Count:         len(m.Faces),
		Type:          "SCALAR",
	})

	posAccessor := len(manifest.Accessors)
	posView := len(manifest.BufferViews)
	posOffset := bin.Tell()
	for _, v := range m.Positions {
		bin.WriteF32(v.X)
		bin.WriteF32(v.Y)
		bin.WriteF32(v.Z)
	}
	manifest.BufferViews = append(manifest.BufferViews, bufferView{
		ByteOffset: posOffset,
		ByteLength: bin.Tell() - posOffset,
		Target:     targetArrayBuffer,
	})

	minV, maxV, _ := m.BoundingBox()
	manifest.Accessors = append(manifest.Accessors, accessor{
		BufferView:    posView,
		ComponentType: componentTypeFloat,
		Count:         len(m.Positions),
		Type:          "VEC3",
		Min:           []float32{minV.X, minV.Y, minV.Z},
		Max:           []float32{maxV.X, maxV.Y, maxV.Z},
	})

	normAccessor := len(manifest.Accessors)
	normView := len(manifest.BufferViews)
	normOffset := bin.Tell()
	for _, v := range m.Normals {
		bin.WriteF32(v.X)
		bin.WriteF32(v.Y)
		bin.WriteF32(v.Z)
	}
	manifest.BufferViews = append(manifest.BufferViews, bufferView{
		ByteOffset: normOffset,
		ByteLength: bin.Tell() - normOffset,
		Target:     targetArrayBuffer,
	})
	manifest.Accessors = append(manifest.Accessors, accessor{
		BufferView:    normView,
		ComponentType: componentTypeFloat,
		Count:         len(m.Normals),
		Type:          "VEC3",
	})

	return primitive{
		Attributes: map[string]int{"POSITION": posAccessor, "NORMAL": normAccessor},
		Indices:    indexAccessor,
	}, nil
}

// assembleContainer wraps a JSON chunk (padded with 0x20) and a BIN chunk
// (padded with 0x00) in the 12-byte GLB header.
func assembleContainer(jsonBytes, binBytes []byte) []byte {
	jsonPadded := padTo4(jsonBytes, 0x20)
	binPadded := padTo4(binBytes, 0x00)

	total := 12 + 8 + len(jsonPadded) + 8 + len(binPadded)

	out := sink.New()
	out.WriteU32(magic)
	out.WriteU32(version)
	out.WriteU32(uint32(total)) //nolint:gosec

	out.WriteU32(uint32(len(jsonPadded))) //nolint:gosec
	out.WriteU32(chunkTypeJSON)
	out.WriteBytes(jsonPadded)

	out.WriteU32(uint32(len(binPadded))) //nolint:gosec
	out.WriteU32(chunkTypeBIN)
	out.WriteBytes(binPadded)

	return out.Bytes()
}

func padTo4(data []byte, padByte byte) []byte {
	rem := len(data) % 4
	if rem == 0 {
		return data
	}

	padded := make([]byte, len(data), len(data)+4-rem)
	copy(padded, data)
	for len(padded) < cap(padded) {
		padded = append(padded, padByte)
	}

	return padded
}
