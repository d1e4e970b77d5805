package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestID_MatchesReferenceVectors pins ID to known xxHash64 outputs, so a
// future dependency bump that silently changes the algorithm is caught here
// rather than as a Crate-file byte mismatch three packages away.
func TestID_MatchesReferenceVectors(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
		{"long string", "this is a longer test string to hash", 0x69275f7f7ee59dbd},
		{"another string", "another test string", 0x212a22f593810bec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, ID(tt.data))
		})
	}
}

// TestID_DistinguishesUSDTokenVocabulary exercises ID the way the Crate
// token interning table actually calls it: field/type-name tokens, not
// arbitrary strings.
func TestID_DistinguishesUSDTokenVocabulary(t *testing.T) {
	tokens := []string{"Xform", "Mesh", "Material", "points", "faceVertexIndices", "specifier"}

	seen := make(map[uint64]string, len(tokens))
	for _, tok := range tokens {
		h := ID(tok)
		if prior, ok := seen[h]; ok {
			t.Fatalf("ID(%q) collided with ID(%q)", tok, prior)
		}
		seen[h] = tok
	}
}

func TestID_Deterministic(t *testing.T) {
	assert.Equal(t, ID("primChildren"), ID("primChildren"))
}

func BenchmarkID(b *testing.B) {
	const tok = "faceVertexIndices"
	b.ResetTimer()
	for b.Loop() {
		ID(tok)
	}
}
