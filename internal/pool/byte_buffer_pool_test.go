package pool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(128)

	require.Equal(t, 0, bb.Len())
	require.Equal(t, 128, bb.Cap())
	require.Empty(t, bb.Bytes())
}

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(8)

	bb.MustWrite([]byte("%SEMI"))
	require.NoError(t, bb.WriteByte('-'))
	n, err := bb.Write([]byte("OASIS"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "%SEMI-OASIS", string(bb.Bytes()))

	capBefore := bb.Cap()
	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.Equal(t, capBefore, bb.Cap())
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte{1, 2, 3})

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.Equal(t, []byte{1, 2, 3}, out.Bytes())
}

func TestByteBuffer_Grow(t *testing.T) {
	tests := []struct {
		name     string
		initCap  int
		fill     int
		required int
		minCap   int
	}{
		{"sufficient capacity", 64, 10, 20, 64},
		{"small buffer grows by default size", 16, 16, 1, 16 + CellBufferDefaultSize},
		{"large buffer grows by quarter", 8 * CellBufferDefaultSize, 8 * CellBufferDefaultSize, 1, 10 * CellBufferDefaultSize},
		{"required exceeds default growth", 16, 16, 2 * CellBufferDefaultSize, 16 + 2*CellBufferDefaultSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb := NewByteBuffer(tt.initCap)
			bb.MustWrite(make([]byte, tt.fill))
			bb.Grow(tt.required)

			require.GreaterOrEqual(t, bb.Cap(), tt.minCap)
			require.Equal(t, tt.fill, bb.Len())
		})
	}
}

func TestByteBuffer_GrowPreservesData(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte{9, 8, 7, 6})
	bb.Grow(100)

	require.Equal(t, []byte{9, 8, 7, 6}, bb.Bytes())
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	big := p.Get()
	big.MustWrite(make([]byte, 1024))
	p.Put(big)

	small := p.Get()
	require.Equal(t, 0, small.Len())
	require.LessOrEqual(t, small.Cap(), 64)
}

func TestByteBufferPool_PutNil(t *testing.T) {
	require.NotPanics(t, func() { PutCellBuffer(nil) })
	require.NotPanics(t, func() { PutStreamBuffer(nil) })
}

func TestDefaultPools(t *testing.T) {
	cell := GetCellBuffer()
	stream := GetStreamBuffer()
	defer PutCellBuffer(cell)
	defer PutStreamBuffer(stream)

	require.GreaterOrEqual(t, cell.Cap(), CellBufferDefaultSize)
	require.GreaterOrEqual(t, stream.Cap(), StreamBufferDefaultSize)

	cell.MustWrite([]byte("cell"))
	require.Equal(t, 0, stream.Len())
}

func TestPool_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			bb := GetCellBuffer()
			bb.MustWrite([]byte{byte(id)})
			require.Equal(t, 1, bb.Len())
			PutCellBuffer(bb)
		}(i)
	}
	wg.Wait()
}
