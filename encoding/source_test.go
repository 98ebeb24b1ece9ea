package encoding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/maskio/errs"
)

func TestSource_PushPop(t *testing.T) {
	src := NewSource([]byte{1, 2, 3})

	b, err := src.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(1), b)

	src.Push([]byte{10, 11})
	require.Equal(t, 1, src.Depth())

	got, err := src.Next(2)
	require.NoError(t, err)
	require.Equal(t, []byte{10, 11}, got)

	// The exhausted frame is popped and reading resumes after the push point.
	b, err = src.PeekByte()
	require.NoError(t, err)
	require.Equal(t, byte(2), b)
	require.Equal(t, 0, src.Depth())
	require.Equal(t, int64(1), src.Offset())
}

func TestSource_NextAcrossFrames(t *testing.T) {
	src := NewSource([]byte{1, 2, 3})
	_, err := src.ReadByte()
	require.NoError(t, err)
	src.Push([]byte{9})

	got, err := src.Next(3)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 2, 3}, got)
	require.True(t, src.EOF())

	_, err = src.Next(1)
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}

func TestSource_PushEmptyIsIgnored(t *testing.T) {
	src := NewSource([]byte{1})
	src.Push(nil)
	require.Equal(t, 0, src.Depth())
}

func TestSource_Err(t *testing.T) {
	src := NewSource([]byte{1, 2})
	_, _ = src.ReadByte()

	err := src.Err(errs.ErrUnknownRecord)
	require.ErrorIs(t, err, errs.ErrUnknownRecord)

	var oe *errs.OffsetError
	require.True(t, errors.As(err, &oe))
	require.Equal(t, int64(1), oe.Offset)
	require.Equal(t, 0, oe.Depth)
}

func TestSource_NextHugeLength(t *testing.T) {
	tests := []struct {
		name string
		n    int
		push bool
	}{
		{"max int", maxInt, false},
		{"max int minus offset", maxInt - 1, false},
		{"beyond all frames", 6, true},
		{"max int across frames", maxInt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSource([]byte{1, 2, 3})
			_, err := src.ReadByte()
			require.NoError(t, err)
			if tt.push {
				src.Push([]byte{9, 9})
			}

			_, err = src.Next(tt.n)
			require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
		})
	}
}

func TestSource_HugeStringLength(t *testing.T) {
	data := AppendUvarint(nil, uint64(maxInt))
	data = append(data, "1.0"...)

	_, err := NewSource(data).AString()
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)

	_, err = NewSource(data).BString()
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}
