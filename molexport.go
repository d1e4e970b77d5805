// Package molexport provides a high-performance, multi-format 3D mesh
// exporter for colored triangle meshes.
//
// It turns a mesh.Set (an ordered mapping from color to geometry) into
// three independent artifacts:
//
//   - OBJ/MTL, a plain-text mesh plus material library (package objmtl).
//   - GLB, a glTF 2.0 binary envelope (package glb).
//   - USDZ, a zero-compression ZIP wrapping a Pixar USD Crate binary
//     (packages scene, crate, usdzip).
//
// # Basic usage
//
//	set := mesh.Set{Entries: []mesh.Entry{{
//	    Color: mesh.Color{R: 255},
//	    Mesh:  mesh.Mesh{Positions: pos, Normals: norms, Faces: faces},
//	}}}
//
//	usdz, err := molexport.ExportUSDZ(set)
//	glbBytes, err := molexport.ExportGLB(set)
//	obj, mtl, err := molexport.ExportOBJ(set, "scene.mtl")
//
// # Package structure
//
// This file provides convenience wrappers around the scene/crate/usdzip,
// glb, and objmtl packages. For fine-grained control over the USD scene
// tree (custom metadata, additional prims), build it directly with
// package scene and hand it to crate.Writer yourself.
package molexport

import (
	"fmt"

	"github.com/molcrate/molexport/crate"
	"github.com/molcrate/molexport/glb"
	"github.com/molcrate/molexport/mesh"
	"github.com/molcrate/molexport/objmtl"
	"github.com/molcrate/molexport/scene"
	"github.com/molcrate/molexport/usdzip"
)

// usdzEntryName is the conventional single-entry name a USDZ archive's
// payload is written under.
const usdzEntryName = "tmp.usdc"

// ExportOBJ renders set as an OBJ file (referencing mtlName as its
// mtllib) and its companion MTL file.
func ExportOBJ(set mesh.Set, mtlName string) (obj, mtl string, err error) {
	if err := set.Validate(); err != nil {
		return "", "", err
	}

	obj, mtl = objmtl.Write(set, mtlName)

	return obj, mtl, nil
}

// ExportGLB renders set as a glTF 2.0 Binary (GLB) envelope.
func ExportGLB(set mesh.Set, opts ...glb.Option) ([]byte, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	return glb.Write(set, opts...)
}

// ExportUSDZ renders set as a USDZ archive: a scene tree built per the
// fixed ar/Materials/Mesh layout, serialized to a Crate binary, wrapped in
// an uncompressed, 64-byte-aligned ZIP container.
func ExportUSDZ(set mesh.Set, opts ...crate.Option) ([]byte, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	root := BuildScene(set)
	root.AssignPathIndices()

	w := crate.NewWriter(opts...)
	if err := w.WriteScene(root); err != nil {
		return nil, fmt.Errorf("molexport: encode crate: %w", err)
	}

	payload, _, err := w.Finish()
	if err != nil {
		return nil, fmt.Errorf("molexport: encode crate: %w", err)
	}

	return usdzip.Write(usdzEntryName, payload)
}

// BuildScene assembles the fixed scene-tree shape spec.md §4.8 describes:
// a root holding one Xform "ar", which holds a "Materials" Scope (one
// Material per color, each with a UsdPreviewSurface shader) and one
// sibling Mesh per color.
func BuildScene(set mesh.Set) *scene.Root {
	root := scene.NewRoot()

	ar := &scene.Prim{
		Name:      "ar",
		Specifier: scene.SpecifierDef,
		TypeName:  "Xform",
		Metadata: map[string]scene.MetaValue{
			"assetInfo": {Kind: scene.MetaDictionary, Dict: map[string]string{"name": "ar"}},
			"kind":      {Kind: scene.MetaString, Str: "component"},
		},
	}
	root.AddChild(ar)

	materials := &scene.Prim{Name: "Materials", Specifier: scene.SpecifierDef, TypeName: "Scope"}
	ar.AddChild(materials)

	for i, entry := range set.Entries {
		materialPrim := buildMaterial(i, entry.Color)
		materials.AddChild(materialPrim)

		meshPrim := buildMeshPrim(i, entry.Mesh, materialPrim)
		ar.AddChild(meshPrim)
	}

	return root
}

func buildMaterial(id int, color mesh.Color) *scene.Prim {
	shader := &scene.Prim{
		Name:      "surfaceShader",
		Specifier: scene.SpecifierDef,
		TypeName:  "Shader",
	}

	r, g, b := color.Normalized()

	shader.AddAttribute(&scene.Attribute{
		Name:       "info:id",
		TypeName:   "token",
		ValueType:  scene.ValueToken,
		Qualifiers: []string{"uniform"},
		Value:      scene.Value{Token: "UsdPreviewSurface"},
	})
	shader.AddAttribute(&scene.Attribute{
		Name:      "inputs:diffuseColor",
		TypeName:  "color3f",
		ValueType: scene.ValueVec3fScalar,
		Value:     scene.Value{Vec3: mesh.Vec3{X: r, Y: g, Z: b}},
	})
	shader.AddAttribute(&scene.Attribute{
		Name:      "inputs:roughness",
		TypeName:  "float",
		ValueType: scene.ValueFloat,
		Value:     scene.Value{Float: 0.2},
	})
	shaderSurface := &scene.Attribute{
		Name:      "outputs:surface",
		TypeName:  "token",
		ValueType: scene.ValueToken,
		Value:     scene.Value{IsNull: true},
	}
	shader.AddAttribute(shaderSurface)

	material := &scene.Prim{
		Name:      fmt.Sprintf("k%d", id),
		Specifier: scene.SpecifierDef,
		TypeName:  "Material",
	}
	material.AddChild(shader)
	material.AddAttribute(&scene.Attribute{
		Name:      "outputs:surface",
		TypeName:  "token",
		ValueType: scene.ValuePathConnection,
		Value:     scene.Value{Connection: shaderSurface},
	})

	return material
}

func buildMeshPrim(id int, m mesh.Mesh, material *scene.Prim) *scene.Prim {
	p := &scene.Prim{
		Name:      fmt.Sprintf("m%d", id),
		Specifier: scene.SpecifierDef,
		TypeName:  "Mesh",
	}

	p.AddAttribute(&scene.Attribute{
		Name:      "material:binding",
		TypeName:  "rel",
		ValueType: scene.ValuePathRelationship,
		Value:     scene.Value{Relationship: material},
	})
	p.AddAttribute(&scene.Attribute{
		Name:      "doubleSided",
		TypeName:  "bool",
		ValueType: scene.ValueBool,
		Value:     scene.Value{Bool: false},
	})

	faceCount := len(m.Faces) / 3
	counts := make([]int32, faceCount)
	for i := range counts {
		counts[i] = 3
	}
	p.AddAttribute(&scene.Attribute{
		Name:      "faceVertexCounts",
		TypeName:  "int[]",
		ValueType: scene.ValueInt32Array,
		Value:     scene.Value{Ints: counts},
	})

	indices := make([]int32, len(m.Faces))
	for i, f := range m.Faces {
		indices[i] = int32(f) //nolint:gosec
	}
	p.AddAttribute(&scene.Attribute{
		Name:      "faceVertexIndices",
		TypeName:  "int[]",
		ValueType: scene.ValueInt32Array,
		Value:     scene.Value{Ints: indices},
	})

	p.AddAttribute(&scene.Attribute{
		Name:      "points",
		TypeName:  "point3f[]",
		ValueType: scene.ValueVec3fArray,
		Value:     scene.Value{Vec3Array: m.Positions},
	})

	p.AddAttribute(&scene.Attribute{
		Name:      "primvars:normals",
		TypeName:  "normal3f[]",
		ValueType: scene.ValueVec3fArray,
		Metadata: map[string]scene.MetaValue{
			"interpolation": {Kind: scene.MetaString, Str: "vertex"},
		},
		Value: scene.Value{Vec3Array: m.Normals},
	})

	p.AddAttribute(&scene.Attribute{
		Name:       "subdivisionScheme",
		TypeName:   "token",
		ValueType:  scene.ValueToken,
		Qualifiers: []string{"uniform"},
		Value:      scene.Value{Token: "none"},
	})

	return p
}
