// Package compress provides reusable Compressor/Decompressor/Codec
// wrappers around this module's two compression backends.
//
// LZ4Codec wraps the same hand-rolled block compressor (package lz4enc)
// the Crate writer (package crate) uses, but the Crate writer does not go
// through it directly: the Crate file format wraps each compressed chunk
// in its own one-byte framing (package crate's lz4chunk.go), which is
// distinct from LZ4Codec's general-purpose 4-byte-length-prefixed framing.
// LZ4Codec exists as the standalone, reusable form of the same codec, and
// is exercised directly by its own tests.
//
// ZstdCodec is used by the CLI's optional debug bundle (cmd/molexport),
// which zstd-compresses a JSON dump of the scene tree for attaching to bug
// reports; it has no bearing on the emitted mesh files themselves.
package compress
