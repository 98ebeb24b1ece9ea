package maskio

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
	"github.com/arloliu/maskio/gdsii"
	"github.com/arloliu/maskio/layout"
	"github.com/arloliu/maskio/oasis"
)

// portableLibrary only uses features both formats carry unchanged.
func portableLibrary() *layout.Library {
	lib := layout.NewLibrary("CHIP")

	via := lib.AddCell("VIA")
	via.Add(&layout.Boundary{Layer: 10, Points: layout.Box(-5, -5, 10, 10)})

	top := lib.AddCell("TOP")
	top.Add(
		&layout.Boundary{Layer: 1, Points: layout.Box(0, 0, 1000, 200)},
		&layout.Boundary{Layer: 1, Datatype: 2, Points: layout.Close([]layout.Point{
			{0, 0}, {300, 0}, {300, 100}, {100, 100}, {100, 300}, {0, 300},
		})},
		&layout.Boundary{
			Layer:  3,
			Points: layout.Close([]layout.Point{{0, 0}, {70, 10}, {20, 90}}),
			Properties: layout.Properties{
				{Name: "1", Values: []layout.PropertyValue{layout.AStringValue("VDD")}},
			},
		},
		&layout.Path{Layer: 2, PathType: layout.PathFlush, Width: 40, Points: []layout.Point{{0, 0}, {0, 800}, {400, 800}}},
		&layout.Path{Layer: 2, PathType: layout.PathHalfWidthExtend, Width: 40, Points: []layout.Point{{0, 0}, {400, 0}}},
		&layout.Path{
			Layer:          2,
			PathType:       layout.PathCustomExtension,
			Width:          10,
			BeginExtension: 5,
			EndExtension:   0,
			Points:         []layout.Point{{10, 10}, {50, 50}},
		},
		&layout.Text{Layer: 63, Transform: layout.Identity(), Position: layout.Point{X: 500, Y: 100}, String: "VDD"},
		&layout.CellRef{CellName: "VIA", Origin: layout.Point{X: 20, Y: 20}, Transform: layout.Identity()},
		&layout.CellRef{CellName: "VIA", Origin: layout.Point{X: 20, Y: 60}, Transform: layout.Transform{MirrorX: true, Magnification: 1, Angle: 90}},
		&layout.ArrayRef{
			CellName:        "VIA",
			Transform:       layout.Identity(),
			Columns:         8,
			Rows:            4,
			ReferencePoints: [3]layout.Point{{100, 100}, {260, 100}, {100, 180}},
		},
	)

	return lib
}

func TestConvert_CrossFormat(t *testing.T) {
	lib := portableLibrary()

	oas, err := Encode(lib, FormatOASIS)
	require.NoError(t, err)
	require.Equal(t, FormatOASIS, DetectFormat(oas))

	gds, err := Convert(oas, FormatGDSII)
	require.NoError(t, err)
	require.Equal(t, FormatGDSII, DetectFormat(gds))

	fromGDS, err := Decode(gds)
	require.NoError(t, err)
	require.Equal(t, lib, fromGDS)

	back, err := Convert(gds, FormatOASIS)
	require.NoError(t, err)
	require.Equal(t, oas, back)
}

func TestEncode_Containers(t *testing.T) {
	lib := portableLibrary()
	containers := []format.Container{
		format.ContainerNone,
		format.ContainerGzip,
		format.ContainerZstd,
		format.ContainerS2,
		format.ContainerLZ4,
	}

	for _, f := range []Format{FormatOASIS, FormatGDSII} {
		for _, c := range containers {
			t.Run(f.String()+"/"+c.String(), func(t *testing.T) {
				data, err := Encode(lib, f, WithContainer(c))
				require.NoError(t, err)
				if c != format.ContainerNone {
					require.Equal(t, FormatUnknown, DetectFormat(data))
				}

				got, err := Decode(data)
				require.NoError(t, err)
				require.Equal(t, lib, got)
			})
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte("plain text"))
	require.ErrorIs(t, err, errs.ErrInvalidMagic)

	oas, err := Encode(portableLibrary(), FormatOASIS)
	require.NoError(t, err)
	_, err = Decode(oas, WithContainer(format.ContainerGzip))
	require.ErrorIs(t, err, errs.ErrInvalidContainer)

	_, err = Decode(oas, WithContainer(format.Container(42)))
	require.ErrorIs(t, err, errs.ErrUnsupportedContainer)

	_, err = Encode(portableLibrary(), FormatUnknown)
	require.Error(t, err)
}

func TestDecode_PassesReaderOptions(t *testing.T) {
	lib := layout.NewLibrary("L")
	lib.AddCell("TOP")
	oas, err := Encode(lib, FormatOASIS, WithOASISWriterOptions(oasis.WithCBlocks(true)))
	require.NoError(t, err)

	_, err = Decode(oas, WithOASISReaderOptions(oasis.WithMaxInflateSize(1)))
	require.ErrorIs(t, err, errs.ErrDecompress)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	lib := portableLibrary()

	for _, name := range []string{"top.oas", "top.oas.gz", "top.gds", "top.gds.zst", "top.gdsii.lz4", "top.oasis.s2"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteFile(path, lib, WithGDSIIWriterOptions(gdsii.WithModTime(fixedTime))))

			got, err := ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, lib, got)
		})
	}

	require.Error(t, WriteFile(filepath.Join(dir, "top.txt"), lib))
	_, err := ReadFile(filepath.Join(dir, "missing.oas"))
	require.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.oas", FormatOASIS},
		{"dir/a.OAS.GZ", FormatOASIS},
		{"a.gds", FormatGDSII},
		{"a.gds.zst", FormatGDSII},
		{"a.sf", FormatGDSII},
		{"a.gz", FormatUnknown},
		{"a.txt", FormatUnknown},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, FormatFromPath(tt.path), tt.path)
	}
}

var fixedTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
