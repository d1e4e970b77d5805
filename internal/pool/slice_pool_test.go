package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInt32Slice(t *testing.T) {
	t.Run("returns slice with correct size", func(t *testing.T) {
		slice, cleanup := GetInt32Slice(100)
		defer cleanup()

		require.Equal(t, 100, len(slice))
		require.GreaterOrEqual(t, cap(slice), 100)
	})

	t.Run("reuses pooled slice when capacity sufficient", func(t *testing.T) {
		slice1, cleanup1 := GetInt32Slice(50)
		ptr1 := &slice1[0]
		cleanup1()

		slice2, cleanup2 := GetInt32Slice(50)
		defer cleanup2()
		ptr2 := &slice2[0]

		require.Equal(t, ptr1, ptr2, "should reuse same underlying array")
	})

	t.Run("allocates new slice when capacity insufficient", func(t *testing.T) {
		_, cleanup1 := GetInt32Slice(10)
		cleanup1()

		slice2, cleanup2 := GetInt32Slice(1000)
		defer cleanup2()

		require.Equal(t, 1000, len(slice2))
		require.GreaterOrEqual(t, cap(slice2), 1000)
	})

	t.Run("cleanup returns slice to pool", func(t *testing.T) {
		slice, cleanup := GetInt32Slice(100)
		require.NotNil(t, slice)

		cleanup()
	})
}

// TestGetInt32Slice_SupportsOverwriteThenReadPattern exercises the exact
// shape usdint.computeDeltas uses: borrow a slice sized to the input,
// overwrite every element, read it back before releasing it.
func TestGetInt32Slice_SupportsOverwriteThenReadPattern(t *testing.T) {
	values := []int32{10, 7, 7, 20, -3}

	slice, cleanup := GetInt32Slice(len(values))
	prev := int32(0)
	for i, v := range values {
		slice[i] = v - prev
		prev = v
	}

	require.Equal(t, []int32{10, -3, 0, 13, -23}, slice)
	cleanup()
}

func TestSlicePoolConcurrency(t *testing.T) {
	t.Run("concurrent access to int32 pool", func(t *testing.T) {
		const goroutines = 100
		done := make(chan bool, goroutines)

		for i := 0; i < goroutines; i++ {
			go func() {
				slice, cleanup := GetInt32Slice(50)
				defer cleanup()

				for j := range slice {
					slice[j] = int32(j)
				}

				done <- true
			}()
		}

		for i := 0; i < goroutines; i++ {
			<-done
		}
	})
}
