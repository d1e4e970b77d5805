package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"lz4":  NewLZ4Codec(),
		"zstd": NewZstdCodec(),
	}
}

func TestGetCodec(t *testing.T) {
	lz4Codec, err := GetCodec(AlgorithmLZ4)
	require.NoError(t, err)
	require.IsType(t, LZ4Codec{}, lz4Codec)

	zstdCodec, err := GetCodec(AlgorithmZstd)
	require.NoError(t, err)
	require.IsType(t, ZstdCodec{}, zstdCodec)

	_, err = GetCodec(Algorithm("bogus"))
	require.Error(t, err)
}

func TestStats_Ratio(t *testing.T) {
	s := Stats{OriginalSize: 1000, CompressedSize: 300}
	require.InDelta(t, 0.3, s.Ratio(), 0.0001)
	require.InDelta(t, 70.0, s.SpaceSavings(), 0.0001)

	require.Equal(t, 0.0, Stats{}.Ratio())
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"small_text", []byte("Hello, glTF!")},
		{"repeated_pattern", bytes.Repeat([]byte("ABCD"), 100)},
		{"binary", []byte{0x00, 0x01, 0x02, 0xFF, 0xFE}},
		{"large_zeros", make([]byte, 64*1024)},
	}

	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			for _, tc := range cases {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)

					decompressed, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.Equal(t, tc.data, decompressed)
				})
			}
		})
	}
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Nil(t, compressed)
		})
	}
}
