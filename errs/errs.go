// Package errs centralizes the sentinel errors returned across molexport.
//
// The domain failures (malformed mesh, oversized LZ4 input, unsupported
// value type, unimplemented metadata, bad CLI flags) return one of these
// sentinels, wrapped with fmt.Errorf("%w: detail", errs.ErrX, ...) when
// extra context helps a caller. Callers should match with errors.Is, never
// string comparison. Decoding, I/O, and codec failures are returned as
// plain wrapped errors without a sentinel.
package errs

import "errors"

// Mesh intake errors (spec MalformedMesh kind).
var (
	// ErrMismatchedVertexCount is returned when a mesh's positions and
	// normals slices have different lengths.
	ErrMismatchedVertexCount = errors.New("molexport: mismatched positions/normals count")
	// ErrFaceIndexOutOfRange is returned when a face references a vertex
	// index outside [0, len(positions)).
	ErrFaceIndexOutOfRange = errors.New("molexport: face index out of range")
	// ErrFaceCountNotMultipleOfThree is returned when len(faces) % 3 != 0.
	ErrFaceCountNotMultipleOfThree = errors.New("molexport: face count is not a multiple of 3")
	// ErrInvalidColor is returned when a "#RRGGBB" string fails to parse.
	ErrInvalidColor = errors.New("molexport: invalid color string")
)

// Crate writer errors (spec InputTooLarge, UnsupportedValueType,
// UnimplementedMetadata kinds).
var (
	// ErrInputTooLarge is returned when an LZ4 block input exceeds
	// package lz4enc's maximum block input size (0x7E000000 bytes).
	ErrInputTooLarge = errors.New("molexport: lz4 input too large")
	// ErrUnsupportedValueType is returned when a scene.Attribute carries a
	// ValueType the Crate writer does not implement.
	ErrUnsupportedValueType = errors.New("molexport: unsupported USD value type")
	// ErrUnimplementedMetadata is returned when a Prim's metadata map
	// contains the "references" key, which this subset never implements.
	ErrUnimplementedMetadata = errors.New("molexport: unimplemented prim metadata")
	// ErrSceneNotFinalized is returned when the Crate writer is asked to
	// serialize a scene.Root before AssignPathIndices has run on it.
	ErrSceneNotFinalized = errors.New("molexport: scene tree path indices not assigned")
	// ErrTokenCollision names an xxHash64 collision in token interning. No
	// function returns it: the Crate writer's intern table handles a
	// collision itself by falling back to an exact comparison.
	ErrTokenCollision = errors.New("molexport: token hash collision")
)

// Byte sink errors.
var (
	// ErrShortBuffer names a primitive read/write without enough bytes
	// available. No function returns it: the sink only appends and grows
	// its buffer as needed.
	ErrShortBuffer = errors.New("molexport: short buffer")
)

// USDZ ZIP container errors.
var (
	// ErrEntryNameTooLong is returned when a ZIP entry name would make the
	// 64-byte alignment padding computation negative.
	ErrEntryNameTooLong = errors.New("molexport: zip entry name too long for alignment padding")
)

// CLI / configuration errors.
var (
	// ErrUnsupportedFormat is returned when --format names a format with no
	// registered writer.
	ErrUnsupportedFormat = errors.New("molexport: unsupported output format")
	// ErrNoOutputPath is returned when the CLI is not given an --out path.
	ErrNoOutputPath = errors.New("molexport: no output path given")
	// ErrNoInputPath is returned when the CLI is not given an --in path.
	ErrNoInputPath = errors.New("molexport: no input path given")
)
