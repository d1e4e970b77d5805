package collision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.Empty(t, tracker.Values())
}

func TestTracker_Observe_FirstSightingNeverCollides(t *testing.T) {
	tracker := NewTracker()

	collided := tracker.Observe("cpu", 0x1234567890abcdef)
	require.False(t, collided)
	require.Equal(t, 1, tracker.Count())

	collided = tracker.Observe("mem", 0xfedcba0987654321)
	require.False(t, collided)
	require.Equal(t, 2, tracker.Count())
	require.Equal(t, []string{"cpu", "mem"}, tracker.Values())
}

func TestTracker_Observe_SameValueSameHashIsNotACollision(t *testing.T) {
	tracker := NewTracker()

	require.False(t, tracker.Observe("cpu", 0x1111111111111111))
	require.False(t, tracker.Observe("cpu", 0x1111111111111111))
	require.Equal(t, 1, tracker.Count(), "re-observing the same value must not grow the table")
}

func TestTracker_Observe_DifferentValuesSameHashCollide(t *testing.T) {
	tracker := NewTracker()

	require.False(t, tracker.Observe("cpu", 0x1234567890abcdef))

	collided := tracker.Observe("gpu", 0x1234567890abcdef)
	require.True(t, collided)
	require.Equal(t, 2, tracker.Count(), "the colliding value is still tracked, just flagged")
	require.Equal(t, []string{"cpu", "gpu"}, tracker.Values())
}

func TestTracker_Values_PreservesInterningOrder(t *testing.T) {
	tracker := NewTracker()

	values := []struct {
		s string
		h uint64
	}{
		{"a", 1}, {"b", 2}, {"c", 3}, {"d", 4},
	}
	for _, v := range values {
		tracker.Observe(v.s, v.h)
	}

	require.Equal(t, []string{"a", "b", "c", "d"}, tracker.Values())
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()

	tracker.Observe("cpu", 1)
	tracker.Observe("mem", 2)
	require.Equal(t, 2, tracker.Count())

	tracker.Reset()
	require.Equal(t, 0, tracker.Count())
	require.Empty(t, tracker.Values())

	require.False(t, tracker.Observe("disk", 3))
	require.Equal(t, 1, tracker.Count())
	require.Equal(t, []string{"disk"}, tracker.Values())
}

func TestTracker_Reset_PreservesCapacity(t *testing.T) {
	tracker := NewTracker()

	for i := 0; i < 100; i++ {
		tracker.Observe("metric", uint64(i))
	}

	initialCap := cap(tracker.order)

	tracker.Reset()

	require.Equal(t, 0, len(tracker.order))
	require.GreaterOrEqual(t, cap(tracker.order), initialCap)
}
