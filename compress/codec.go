package compress

import "fmt"

// Compressor compresses a byte payload.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a payload previously produced by the matching
// Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression.
type Codec interface {
	Compressor
	Decompressor
}

// Algorithm names a compression algorithm, for stats reporting and codec
// lookup.
type Algorithm string

const (
	AlgorithmLZ4  Algorithm = "lz4"
	AlgorithmZstd Algorithm = "zstd"
)

// Stats reports the outcome of a single compression operation.
type Stats struct {
	Algorithm      Algorithm
	OriginalSize   int64
	CompressedSize int64
}

// Ratio returns CompressedSize / OriginalSize. Values below 1.0 indicate the
// payload shrank.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage (0-100).
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.Ratio()) * 100.0
}

// GetCodec returns the built-in Codec for name.
func GetCodec(name Algorithm) (Codec, error) {
	switch name {
	case AlgorithmLZ4:
		return NewLZ4Codec(), nil
	case AlgorithmZstd:
		return NewZstdCodec(), nil
	default:
		return nil, fmt.Errorf("compress: unsupported algorithm %q", name)
	}
}
