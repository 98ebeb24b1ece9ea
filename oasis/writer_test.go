package oasis

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/maskio/encoding"
	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
	"github.com/arloliu/maskio/layout"
)

// sampleLibrary builds a library touching every element kind.
func sampleLibrary() *layout.Library {
	lib := layout.NewLibrary("SAMPLE")
	lib.AddProperty(layout.Property{Name: "VERSION", Values: []layout.PropertyValue{layout.UnsignedValue(3)}})

	sub := lib.AddCell("SUB")
	sub.Add(&layout.Boundary{Layer: 1, Points: layout.Box(0, 0, 10, 10)})

	top := lib.AddCell("TOP")
	top.AddProperty(layout.Property{Name: "OWNER", Values: []layout.PropertyValue{layout.AStringValue("fab")}})
	top.Add(
		&layout.Boundary{Layer: 1, Points: layout.Box(0, 0, 100, 200)},
		&layout.Boundary{Layer: 1, Points: layout.Box(300, 0, 100, 200)},
		&layout.Boundary{Layer: 2, Datatype: 1, Points: layout.Box(-50, -50, 25, 25)},
		// L-shape
		&layout.Boundary{Layer: 3, Points: layout.Close([]layout.Point{
			{0, 0}, {100, 0}, {100, 50}, {50, 50}, {50, 100}, {0, 100},
		})},
		// octangular
		&layout.Boundary{Layer: 3, Points: layout.Close([]layout.Point{
			{0, 0}, {100, 0}, {150, 50}, {0, 50},
		})},
		// general
		&layout.Boundary{
			Layer:  4,
			Points: layout.Close([]layout.Point{{0, 0}, {70, 10}, {20, 90}}),
			Properties: layout.Properties{
				{Name: "NET", Values: []layout.PropertyValue{layout.AStringValue("VDD"), layout.SignedValue(-7)}},
			},
		},
		&layout.Path{
			Layer:    5,
			PathType: layout.PathFlush,
			Width:    20,
			Points:   []layout.Point{{0, 0}, {500, 0}, {500, 300}},
		},
		&layout.Path{
			Layer:          5,
			PathType:       layout.PathCustomExtension,
			Width:          8,
			BeginExtension: 2,
			EndExtension:   -1,
			Points:         []layout.Point{{10, 10}, {60, 60}, {130, 70}},
		},
		&layout.Text{Layer: 6, Transform: layout.Identity(), Position: layout.Point{X: 1, Y: 2}, String: "VDD"},
		&layout.Text{Layer: 6, Transform: layout.Identity(), Position: layout.Point{X: 1, Y: 40}, String: "VDD"},
		&layout.Text{Layer: 6, TextType: 2, Transform: layout.Identity(), Position: layout.Point{X: 9, Y: 40}, String: "GND"},
		&layout.Text{Layer: 7, Transform: layout.Identity(), Position: layout.Point{X: -9, Y: -40}, String: "label with spaces"},
		&layout.CellRef{CellName: "SUB", Origin: layout.Point{X: 1000, Y: 1000}, Transform: layout.Identity()},
		&layout.CellRef{
			CellName:  "SUB",
			Origin:    layout.Point{X: 2000, Y: 1000},
			Transform: layout.Transform{MirrorX: true, Magnification: 0.5, Angle: 90},
		},
		&layout.ArrayRef{
			CellName:        "SUB",
			Transform:       layout.Identity(),
			Columns:         4,
			Rows:            3,
			ReferencePoints: [3]layout.Point{{0, 5000}, {80, 5000}, {0, 5060}},
		},
		&layout.ArrayRef{
			CellName:        "SUB",
			Transform:       layout.Transform{Magnification: 1, Angle: 45},
			Columns:         2,
			Rows:            2,
			ReferencePoints: [3]layout.Point{{0, 9000}, {40, 9040}, {-40, 9040}},
		},
		&layout.ArrayRef{
			CellName:        "SUB",
			Transform:       layout.Identity(),
			Columns:         5,
			Rows:            1,
			ReferencePoints: [3]layout.Point{{0, 7000}, {100, 7000}, {0, 7000}},
		},
	)

	return lib
}

func TestWrite_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		opts []WriterOption
	}{
		{"plain", nil},
		{"cblocks", []WriterOption{WithCBlocks(true)}},
		{"cblocks best", []WriterOption{WithCBlocks(true), WithCompressionLevel(9)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := sampleLibrary()
			data, err := Write(lib, tt.opts...)
			require.NoError(t, err)

			got := mustRead(t, data)
			require.Equal(t, lib, got)

			again, err := Write(got, tt.opts...)
			require.NoError(t, err)
			require.Equal(t, data, again)
		})
	}
}

func TestWrite_CBlocksShrink(t *testing.T) {
	lib := layout.NewLibrary("BIG")
	cell := lib.AddCell("TOP")
	for i := range int32(500) {
		cell.Add(&layout.Boundary{Layer: 1, Points: layout.Close([]layout.Point{
			{0, i * 10}, {70, i*10 + 3}, {20, i*10 + 9},
		})})
	}

	plain, err := Write(lib)
	require.NoError(t, err)
	packed, err := Write(lib, WithCBlocks(true))
	require.NoError(t, err)

	require.Less(t, len(packed), len(plain))
	require.Equal(t, mustRead(t, plain), mustRead(t, packed))
}

func TestWrite_RectangleRecord(t *testing.T) {
	lib := layout.NewLibrary("L")
	lib.AddCell("TOP").Add(
		&layout.Boundary{Layer: 1, Points: layout.Box(0, 0, 100, 200)},
		&layout.Boundary{Layer: 1, Points: layout.Box(0, 300, 100, 200)},
		&layout.Boundary{Layer: 1, Points: layout.Box(0, 300, 50, 50)},
	)

	data, err := Write(lib)
	require.NoError(t, err)

	// L, D, W, H; x and y are still 0
	first := rec(format.RecordRectangle).raw(0x63).u(1, 0, 100, 200)
	require.True(t, bytes.Contains(data, first), "% x", data)
	// only y changes
	second := rec(format.RecordRectangle).raw(0x08).s(300)
	require.True(t, bytes.Contains(data, append(first, second...)), "% x", data)
	// square: S and W
	third := rec(format.RecordRectangle).raw(0xc0).u(50)
	require.True(t, bytes.Contains(data, append(append(first, second...), third...)), "% x", data)
}

func TestWrite_PathExtensionScheme(t *testing.T) {
	tests := []struct {
		name string
		path layout.Path
		want []byte
	}{
		{"flush", layout.Path{PathType: layout.PathFlush}, rb{}.u(0x05)},
		{"half width", layout.Path{PathType: layout.PathHalfWidthExtend}, rb{}.u(0x0a)},
		{"round", layout.Path{PathType: layout.PathRound}, rb{}.u(0x0a)},
		{"custom", layout.Path{PathType: layout.PathCustomExtension, BeginExtension: 3, EndExtension: -7}, rb{}.u(0x0f).s(3, -7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.path
			p.Layer, p.Width = 1, 10
			p.Points = []layout.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}

			lib := layout.NewLibrary("L")
			lib.AddCell("TOP").Add(&p)
			data, err := Write(lib)
			require.NoError(t, err)

			// L, D, half-width, extension and points; x and y are still 0
			want := append(rec(format.RecordPath).raw(0xe3).u(1, 0, 5), tt.want...)
			require.True(t, bytes.Contains(data, want), "% x", data)
		})
	}
}

func TestWrite_ClampsNegativeLayers(t *testing.T) {
	lib := layout.NewLibrary("L")
	lib.AddCell("TOP").Add(&layout.Boundary{Layer: -1, Datatype: -5, Points: layout.Box(0, 0, 1, 1)})

	data, err := Write(lib)
	require.NoError(t, err)

	b := boundaries(t, mustRead(t, data).Cells[0])[0]
	require.Equal(t, int16(0), b.Layer)
	require.Equal(t, int16(0), b.Datatype)
}

func TestWrite_LibraryName(t *testing.T) {
	lib := layout.NewLibrary("MYLIB")
	lib.AddCell("TOP")

	data, err := Write(lib)
	require.NoError(t, err)
	require.Equal(t, "MYLIB", mustRead(t, data).Name)

	data, err = Write(lib, WithLibraryNameString(false))
	require.NoError(t, err)
	require.Equal(t, "TOP", mustRead(t, data).Name)
}

func TestWrite_Canonicalization(t *testing.T) {
	lib := layout.NewLibrary("L")
	lib.AddCell("SUB")
	lib.AddCell("TOP").Add(
		&layout.Path{Layer: 1, PathType: layout.PathRound, Width: 10, Points: []layout.Point{{0, 0}, {10, 0}}},
		&layout.ArrayRef{
			CellName:        "SUB",
			Transform:       layout.Identity(),
			Columns:         1,
			Rows:            1,
			ReferencePoints: [3]layout.Point{{5, 5}, {5, 5}, {5, 5}},
		},
		&layout.ArrayRef{
			CellName:        "SUB",
			Transform:       layout.Identity(),
			Columns:         1,
			Rows:            3,
			ReferencePoints: [3]layout.Point{{0, 0}, {0, 0}, {0, 30}},
		},
	)

	data, err := Write(lib)
	require.NoError(t, err)
	elems := mustRead(t, data).Cell("TOP").Elements
	require.Len(t, elems, 3)

	path, ok := elems[0].(*layout.Path)
	require.True(t, ok)
	require.Equal(t, layout.PathHalfWidthExtend, path.PathType)

	require.Equal(t, &layout.CellRef{CellName: "SUB", Origin: layout.Point{X: 5, Y: 5}, Transform: layout.Identity()}, elems[1])
	require.Equal(t, &layout.ArrayRef{
		CellName:        "SUB",
		Transform:       layout.Identity(),
		Columns:         1,
		Rows:            3,
		ReferencePoints: [3]layout.Point{{0, 0}, {0, 0}, {0, 30}},
	}, elems[2])
}

func TestWrite_ManyPropertyValues(t *testing.T) {
	values := make([]layout.PropertyValue, 20)
	for i := range values {
		values[i] = layout.UnsignedValue(i)
	}
	values[3] = layout.RealValue(0.25)
	values[4] = layout.RealValue(-1.5)
	values[5] = layout.BStringValue{0, 1, 2}
	values[6] = layout.AStringValue("tab\there")

	lib := layout.NewLibrary("L")
	lib.AddCell("TOP").AddProperty(layout.Property{Name: "MANY", Values: values})

	data, err := Write(lib)
	require.NoError(t, err)

	got := mustRead(t, data).Cells[0].Properties[0]
	require.Equal(t, "MANY", got.Name)
	require.Len(t, got.Values, 20)
	require.Equal(t, layout.RealValue(0.25), got.Values[3])
	require.Equal(t, layout.RealValue(-1.5), got.Values[4])
	require.Equal(t, layout.BStringValue{0, 1, 2}, got.Values[5])
	// not an a-string, so it travels as a b-string
	require.Equal(t, layout.BStringValue("tab\there"), got.Values[6])
	require.Equal(t, layout.UnsignedValue(19), got.Values[19])
}

func TestWrite_Errors(t *testing.T) {
	tests := []struct {
		name string
		elem layout.Element
		want error
	}{
		{"short boundary", &layout.Boundary{Points: []layout.Point{{0, 0}, {1, 1}, {0, 0}}}, errs.ErrUnsupportedElement},
		{"empty path", &layout.Path{Width: 2}, errs.ErrUnsupportedElement},
		{"empty array", &layout.ArrayRef{CellName: "TOP", Columns: 0, Rows: 2}, errs.ErrUnsupportedElement},
		{"bad text", &layout.Text{String: "new\nline"}, errs.ErrInvalidAString},
		{"reference value", &layout.Boundary{
			Points:     layout.Box(0, 0, 1, 1),
			Properties: layout.Properties{{Name: "P", Values: []layout.PropertyValue{layout.ReferenceValue(1)}}},
		}, errs.ErrUnsupportedElement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := layout.NewLibrary("L")
			lib.AddCell("TOP").Add(tt.elem)

			_, err := Write(lib)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Write(nil)
	require.ErrorIs(t, err, errs.ErrUnsupportedElement)

	lib := layout.NewLibrary("L")
	lib.AddCell("bad name")
	_, err = Write(lib)
	require.ErrorIs(t, err, errs.ErrInvalidNString)
}

func TestWriter_WriteTo(t *testing.T) {
	w, err := NewWriter(WithCBlocks(true))
	require.NoError(t, err)

	lib := sampleLibrary()
	var buf bytes.Buffer
	n, err := w.WriteTo(&buf, lib)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	data, err := w.Write(lib)
	require.NoError(t, err)
	require.Equal(t, data, buf.Bytes())
}

func TestPolygonPointList(t *testing.T) {
	tests := []struct {
		name  string
		pts   []layout.Point
		typ   format.PointListType
		count int
	}{
		{"rectangle", []layout.Point{{0, 0}, {10, 0}, {10, 5}, {0, 5}}, format.PointListManhattanH, 2},
		{"vertical first", []layout.Point{{0, 0}, {0, 5}, {10, 5}, {10, 0}}, format.PointListManhattanV, 2},
		{"manhattan collinear", []layout.Point{{0, 0}, {5, 0}, {10, 0}, {10, 5}, {0, 5}}, format.PointListManhattan, 4},
		{"octangular", []layout.Point{{0, 0}, {10, 0}, {15, 5}, {0, 5}}, format.PointListOctangular, 3},
		{"general", []layout.Point{{0, 0}, {7, 1}, {2, 9}}, format.PointListGeneral, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, deltas := polygonPointList(make([]encoding.Delta, len(tt.pts)), tt.pts)
			require.Equal(t, tt.typ, typ)
			require.Len(t, deltas, tt.count)

			verts := polygonVertices(typ, deltas)
			require.Len(t, verts, len(tt.pts))
			for i, v := range verts {
				require.Equal(t, tt.pts[i], point(int64(tt.pts[0].X)+v.X, int64(tt.pts[0].Y)+v.Y))
			}
		})
	}
}

func TestArrayRepetition(t *testing.T) {
	tests := []struct {
		name string
		arr  layout.ArrayRef
		want encoding.Repetition
	}{
		{"grid", layout.ArrayRef{Columns: 2, Rows: 3, ReferencePoints: [3]layout.Point{{0, 0}, {20, 0}, {0, 30}}},
			encoding.UniformGrid{Columns: 2, Rows: 3, ColumnSpace: 10, RowSpace: 10}},
		{"skewed grid", layout.ArrayRef{Columns: 2, Rows: 2, ReferencePoints: [3]layout.Point{{0, 0}, {20, 20}, {0, 30}}},
			encoding.ArbitraryGrid{N: 2, M: 2, NDisp: encoding.Delta{X: 10, Y: 10}, MDisp: encoding.Delta{Y: 15}}},
		{"row", layout.ArrayRef{Columns: 4, Rows: 1, ReferencePoints: [3]layout.Point{{0, 0}, {40, 0}, {0, 0}}},
			encoding.UniformRow{N: 4, Space: 10}},
		{"backwards row", layout.ArrayRef{Columns: 4, Rows: 1, ReferencePoints: [3]layout.Point{{0, 0}, {-40, 0}, {0, 0}}},
			encoding.DisplacementRow{N: 4, Disp: encoding.Delta{X: -10}}},
		{"column", layout.ArrayRef{Columns: 1, Rows: 2, ReferencePoints: [3]layout.Point{{0, 0}, {0, 0}, {0, 8}}},
			encoding.UniformColumn{N: 2, Space: 4}},
		{"single", layout.ArrayRef{Columns: 1, Rows: 1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, arrayRepetition(&tt.arr))
		})
	}
}
