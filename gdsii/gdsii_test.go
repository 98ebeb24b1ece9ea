package gdsii

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/layout"
)

func sampleLibrary() *layout.Library {
	lib := layout.NewLibrary("GDSLIB")

	sub := lib.AddCell("SUB")
	sub.Add(&layout.Boundary{Layer: 1, Points: layout.Box(0, 0, 10, 10)})

	top := lib.AddCell("TOP")
	top.Add(
		&layout.Boundary{
			Layer:    2,
			Datatype: 3,
			Points:   layout.Close([]layout.Point{{0, 0}, {70, 10}, {20, 90}}),
			Properties: layout.Properties{
				{Name: "1", Values: []layout.PropertyValue{layout.AStringValue("net")}},
			},
		},
		&layout.Path{Layer: 4, PathType: layout.PathFlush, Width: 20, Points: []layout.Point{{0, 0}, {500, 0}}},
		&layout.Path{Layer: 4, PathType: layout.PathRound, Width: 20, Points: []layout.Point{{0, 0}, {0, 500}}},
		&layout.Path{
			Layer:          4,
			PathType:       layout.PathCustomExtension,
			Width:          6,
			BeginExtension: 1,
			EndExtension:   -2,
			Points:         []layout.Point{{1, 1}, {9, 9}},
		},
		&layout.Text{Layer: 5, TextType: 1, Transform: layout.Identity(), Position: layout.Point{X: 3, Y: 4}, String: "odd"},
		&layout.Text{
			Layer:     5,
			Transform: layout.Transform{MirrorX: true, Magnification: 2, Angle: 180},
			Position:  layout.Point{X: -3, Y: -4},
			String:    "even",
		},
		&layout.CellRef{CellName: "SUB", Origin: layout.Point{X: 100, Y: 100}, Transform: layout.Identity()},
		&layout.CellRef{CellName: "SUB", Origin: layout.Point{X: 200, Y: 100}, Transform: layout.Transform{Magnification: 1, Angle: 270}},
		&layout.ArrayRef{
			CellName:        "SUB",
			Transform:       layout.Identity(),
			Columns:         3,
			Rows:            2,
			ReferencePoints: [3]layout.Point{{0, 0}, {60, 0}, {0, 40}},
		},
	)

	return lib
}

func TestWrite_RoundTrip(t *testing.T) {
	lib := sampleLibrary()
	data, err := Write(lib)
	require.NoError(t, err)

	got, err := Read(data)
	require.NoError(t, err)
	require.Equal(t, lib, got)

	again, err := Write(got)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestWrite_Header(t *testing.T) {
	lib := layout.NewLibrary("L")
	data, err := Write(lib)
	require.NoError(t, err)

	want := []byte{
		0x00, 0x06, 0x00, 0x02, 0x02, 0x58, // HEADER 600
		0x00, 0x1c, 0x01, 0x02, // BGNLIB, 24 zero bytes follow
	}
	require.Equal(t, want, data[:len(want)])
	// LIBNAME padded to even length
	require.True(t, bytes.Contains(data, []byte{0x00, 0x06, 0x02, 0x06, 'L', 0x00}))
	// ENDLIB
	require.Equal(t, []byte{0x00, 0x04, 0x04, 0x00}, data[len(data)-4:])
}

func TestWrite_ModTime(t *testing.T) {
	lib := layout.NewLibrary("L")
	data, err := Write(lib, WithModTime(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)))
	require.NoError(t, err)

	stamp := []byte{0x07, 0xe8, 0x00, 0x05, 0x00, 0x06, 0x00, 0x07, 0x00, 0x08, 0x00, 0x09}
	require.Equal(t, append(append([]byte(nil), stamp...), stamp...), data[10:34])
}

func TestWrite_Units(t *testing.T) {
	lib := layout.NewLibrary("L")
	lib.Units = layout.Units{DBUPerMicron: 2000}

	data, err := Write(lib)
	require.NoError(t, err)
	got, err := Read(data)
	require.NoError(t, err)
	require.Equal(t, 2000.0, got.Units.DBUPerMicron)
}

func TestWrite_DropsForeignProperties(t *testing.T) {
	lib := layout.NewLibrary("L")
	lib.AddCell("TOP").Add(&layout.Boundary{
		Points: layout.Box(0, 0, 1, 1),
		Properties: layout.Properties{
			{Name: "NET", Values: []layout.PropertyValue{layout.AStringValue("VDD")}},
			{Name: "7", Values: []layout.PropertyValue{layout.UnsignedValue(1)}},
			{Name: "9", Values: []layout.PropertyValue{layout.BStringValue("raw")}},
		},
	})

	data, err := Write(lib)
	require.NoError(t, err)
	got, err := Read(data)
	require.NoError(t, err)

	b, ok := got.Cells[0].Elements[0].(*layout.Boundary)
	require.True(t, ok)
	require.Equal(t, layout.Properties{{Name: "9", Values: []layout.PropertyValue{layout.AStringValue("raw")}}}, b.Properties)
}

func TestWrite_Errors(t *testing.T) {
	tests := []struct {
		name string
		elem layout.Element
	}{
		{"short boundary", &layout.Boundary{Points: []layout.Point{{0, 0}, {1, 1}}}},
		{"empty path", &layout.Path{}},
		{"empty array", &layout.ArrayRef{CellName: "X", Columns: 0, Rows: 1}},
		{"huge boundary", &layout.Boundary{Points: make([]layout.Point, maxPoints+1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := layout.NewLibrary("L")
			lib.AddCell("TOP").Add(tt.elem)
			_, err := Write(lib)
			require.ErrorIs(t, err, errs.ErrUnsupportedElement)
		})
	}

	_, err := Write(nil)
	require.ErrorIs(t, err, errs.ErrUnsupportedElement)
}

func TestRead_Box(t *testing.T) {
	var b []byte
	b = appendInt16s(b, recHeader, Version)
	b = appendInt16s(b, recBgnLib, make([]int16, 12)...)
	b, _ = appendString(b, recLibName, "L")
	b = appendReals(b, recUnits, 1e-3, 1e-9)
	b = appendInt16s(b, recBgnStr, make([]int16, 12)...)
	b, _ = appendString(b, recStrName, "TOP")
	b = appendEmpty(b, recBox)
	b = appendInt16s(b, recLayer, 8)
	b = appendInt16s(b, recBoxType, 2)
	b, _ = appendXY(b, layout.Box(0, 0, 5, 5)...)
	b = appendEmpty(b, recEndEl)
	b = appendEmpty(b, recNode)
	b = appendInt16s(b, recLayer, 1)
	b, _ = appendXY(b, layout.Point{})
	b = appendEmpty(b, recEndEl)
	b = appendEmpty(b, recEndStr)
	b = appendEmpty(b, recEndLib)

	lib, err := Read(b)
	require.NoError(t, err)
	require.Equal(t, 1000.0, lib.Units.DBUPerMicron)
	require.Equal(t, []layout.Element{
		&layout.Boundary{Layer: 8, Datatype: 2, Points: layout.Box(0, 0, 5, 5)},
	}, lib.Cells[0].Elements)
}

func TestRead_Errors(t *testing.T) {
	valid, err := Write(sampleLibrary())
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, errs.ErrUnexpectedEOF},
		{"truncated", valid[:len(valid)-2], errs.ErrUnexpectedEOF},
		{"bad length", []byte{0x00, 0x03, 0x00, 0x02}, errs.ErrInvalidGDSRecord},
		{"wrong first record", appendEmpty(nil, recEndLib), errs.ErrInvalidGDSRecord},
		{"missing ENDLIB", valid[:len(valid)-4], errs.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(tt.data)
			require.ErrorIs(t, err, tt.want)

			var oe *errs.OffsetError
			require.ErrorAs(t, err, &oe)
		})
	}
}
