package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
)

func TestRepetition_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rep  Repetition
	}{
		{"uniform grid", UniformGrid{Columns: 3, Rows: 4, ColumnSpace: 100, RowSpace: 200}},
		{"uniform grid minimum", UniformGrid{Columns: 2, Rows: 2, ColumnSpace: 1, RowSpace: 1}},
		{"uniform row", UniformRow{N: 5, Space: 40}},
		{"uniform row minimum", UniformRow{N: 2, Space: 40}},
		{"uniform column", UniformColumn{N: 2, Space: 15}},
		{"variable row", VariableRow{Spaces: []int64{10, 20, 5}}},
		{"variable row minimum", VariableRow{Spaces: []int64{10}}},
		{"variable column", VariableColumn{Spaces: []int64{7, 7}}},
		{"arbitrary grid", ArbitraryGrid{N: 2, M: 3, NDisp: Delta{10, 5}, MDisp: Delta{-3, 20}}},
		{"displacement row", DisplacementRow{N: 4, Disp: Delta{7, -11}}},
		{"displacement row minimum", DisplacementRow{N: 2, Disp: Delta{1, 1}}},
		{"displacement list", DisplacementList{Displacements: []Delta{{1, 2}, {30, 0}, {-4, -4}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := AppendRepetition(nil, tt.rep)
			require.NoError(t, err)
			require.Equal(t, byte(tt.rep.Type()), buf[0])

			got, reused, err := NewSource(buf).Repetition()
			require.NoError(t, err)
			require.False(t, reused)
			require.Equal(t, tt.rep, got)
			require.Equal(t, tt.rep.Count(), len(got.Offsets()))
		})
	}
}

func TestRepetition_CountBias(t *testing.T) {
	buf, err := AppendRepetition(nil, UniformRow{N: 2, Space: 9})
	require.NoError(t, err)
	require.Equal(t, []byte{byte(format.RepetitionRow), 0x00, 0x09}, buf)

	_, err = AppendRepetition(nil, UniformRow{N: 1, Space: 9})
	require.ErrorIs(t, err, errs.ErrInvalidRepetition)

	_, err = AppendRepetition(nil, UniformGrid{Columns: 1, Rows: 5})
	require.ErrorIs(t, err, errs.ErrInvalidRepetition)
}

func TestRepetition_ReuseMarker(t *testing.T) {
	src := NewSource([]byte{0x00, 0x2a})

	rep, reused, err := src.Repetition()
	require.NoError(t, err)
	require.True(t, reused)
	require.Nil(t, rep)

	// Only the marker byte was consumed.
	next, err := src.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x2a), next)
}

func TestRepetition_GriddedForms(t *testing.T) {
	// Type 5: x-dimension, grid, then gaps in grid units.
	buf := AppendUvarint(nil, uint64(format.RepetitionVariableRowGrid))
	buf = AppendUvarint(buf, 1) // 3 placements
	buf = AppendUvarint(buf, 10)
	buf = AppendUvarint(buf, 2)
	buf = AppendUvarint(buf, 3)

	rep, _, err := NewSource(buf).Repetition()
	require.NoError(t, err)
	require.Equal(t, VariableRow{Spaces: []int64{20, 30}}, rep)

	// Type 11: dimension, grid, g-deltas in grid units.
	buf = AppendUvarint(nil, uint64(format.RepetitionDisplacementGrid))
	buf = AppendUvarint(buf, 0) // 2 placements
	buf = AppendUvarint(buf, 5)
	buf = AppendGDelta(buf, Delta{1, 2})

	rep, _, err = NewSource(buf).Repetition()
	require.NoError(t, err)
	require.Equal(t, DisplacementList{Displacements: []Delta{{5, 10}}}, rep)
}

func TestRepetition_DimensionOverflow(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"row", AppendUvarint(AppendUvarint([]byte{2}, uint64(maxInt)), 5)},
		{"row near max", AppendUvarint(AppendUvarint([]byte{2}, uint64(maxInt-1)), 5)},
		{"grid product", AppendUvarint(AppendUvarint(AppendUvarint(AppendUvarint([]byte{1}, 1<<32), 1<<32), 1), 1)},
		{"variable row", AppendUvarint([]byte{4}, uint64(maxInt))},
		{"displacements", AppendUvarint([]byte{10}, uint64(maxInt))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewSource(tt.data).Repetition()
			require.ErrorIs(t, err, errs.ErrInvalidRepetition)
		})
	}

	rep, _, err := NewSource(AppendUvarint(AppendUvarint([]byte{2}, uint64(maxInt-countBias)), 5)).Repetition()
	require.NoError(t, err)
	require.Equal(t, maxInt, rep.Count())
}

func TestRepetition_InvalidType(t *testing.T) {
	_, _, err := NewSource([]byte{12}).Repetition()
	require.ErrorIs(t, err, errs.ErrInvalidRepetitionType)
}

func TestRepetition_Offsets(t *testing.T) {
	grid := UniformGrid{Columns: 2, Rows: 2, ColumnSpace: 10, RowSpace: 20}
	require.Equal(t, []Delta{{0, 0}, {10, 0}, {0, 20}, {10, 20}}, grid.Offsets())

	row := VariableRow{Spaces: []int64{5, 15}}
	require.Equal(t, []Delta{{0, 0}, {5, 0}, {20, 0}}, row.Offsets())

	arb := ArbitraryGrid{N: 2, M: 2, NDisp: Delta{3, 1}, MDisp: Delta{-1, 4}}
	require.Equal(t, []Delta{{0, 0}, {3, 1}, {-1, 4}, {2, 5}}, arb.Offsets())
}
