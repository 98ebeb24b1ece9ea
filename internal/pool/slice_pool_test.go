package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type delta struct{ X, Y int64 }

func TestSlicePool_Get(t *testing.T) {
	p := NewSlicePool[delta]()

	s, cleanup := p.Get(10)
	require.Len(t, s, 10)
	s[9] = delta{X: 1, Y: 2}
	cleanup()

	s2, cleanup2 := p.Get(4)
	defer cleanup2()
	require.Len(t, s2, 4)
}

func TestSlicePool_GrowsBeyondPooledCapacity(t *testing.T) {
	p := NewSlicePool[int64]()

	s, cleanup := p.Get(2)
	cleanup()
	require.Len(t, s, 2)

	big, cleanup := p.Get(1000)
	defer cleanup()
	require.Len(t, big, 1000)
	require.GreaterOrEqual(t, cap(big), 1000)
}

func TestSlicePool_Zero(t *testing.T) {
	p := NewSlicePool[string]()

	s, cleanup := p.Get(0)
	defer cleanup()
	require.Empty(t, s)
}
