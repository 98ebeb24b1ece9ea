package compress

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
)

func samplePayload() []byte {
	// Looks like a run of RECTANGLE records: highly repetitive.
	return bytes.Repeat([]byte{0x14, 0x7b, 0x01, 0x00, 0x64, 0xc8, 0x01, 0x0a, 0x14}, 200)
}

func TestDeflateCodec_RoundTrip(t *testing.T) {
	data := samplePayload()

	for _, level := range []int{flate.NoCompression, flate.BestSpeed, flate.DefaultCompression, flate.BestCompression} {
		codec, err := NewDeflateCodec(level)
		require.NoError(t, err)

		packed, err := codec.Compress(data)
		require.NoError(t, err)
		require.NotEmpty(t, packed)

		out, err := codec.DecompressSize(packed, len(data))
		require.NoError(t, err)
		require.Equal(t, data, out)
	}
}

func TestDeflateCodec_RawStream(t *testing.T) {
	data := samplePayload()
	packed, err := NewDefaultDeflateCodec().Compress(data)
	require.NoError(t, err)
	require.False(t, isZlibHeader(packed), "% x", packed[:2])

	out, err := io.ReadAll(flate.NewReader(bytes.NewReader(packed)))
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestDeflateCodec_InvalidLevel(t *testing.T) {
	_, err := NewDeflateCodec(42)
	require.Error(t, err)
}

func TestDeflateCodec_ShortOutputTruncated(t *testing.T) {
	codec := NewDefaultDeflateCodec()
	packed, err := codec.Compress([]byte("abc"))
	require.NoError(t, err)

	out, err := codec.DecompressSize(packed, 10)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), out)
}

func TestDeflateCodec_LongerThanDeclared(t *testing.T) {
	codec := NewDefaultDeflateCodec()
	packed, err := codec.Compress([]byte("abcdef"))
	require.NoError(t, err)

	out, err := codec.DecompressSize(packed, 3)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), out)
}

func TestDeflateCodec_Errors(t *testing.T) {
	codec := NewDefaultDeflateCodec()

	_, err := codec.DecompressSize(nil, 10)
	require.ErrorIs(t, err, errs.ErrDecompress)

	_, err = codec.DecompressSize([]byte{0xff, 0xff, 0xff, 0xff}, 10)
	require.ErrorIs(t, err, errs.ErrDecompress)

	// A valid stream holding zero bytes produces no output.
	empty, err := codec.Compress(nil)
	require.NoError(t, err)
	_, err = codec.DecompressSize(empty, 0)
	require.ErrorIs(t, err, errs.ErrDecompress)
}

func TestDeflateCodec_AcceptsZlibWrapped(t *testing.T) {
	data := samplePayload()

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.True(t, isZlibHeader(buf.Bytes()))

	out, err := NewDefaultDeflateCodec().DecompressSize(buf.Bytes(), len(data))
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestContainerCodecs_RoundTrip(t *testing.T) {
	data := samplePayload()

	containers := []format.Container{
		format.ContainerNone,
		format.ContainerGzip,
		format.ContainerZstd,
		format.ContainerS2,
		format.ContainerLZ4,
	}

	for _, c := range containers {
		t.Run(c.String(), func(t *testing.T) {
			codec, err := CreateContainerCodec(c)
			require.NoError(t, err)

			packed, err := codec.Compress(data)
			require.NoError(t, err)
			require.Equal(t, c, DetectContainer(packed))

			out, err := codec.Decompress(packed)
			require.NoError(t, err)
			require.Equal(t, data, out)
		})
	}
}

func TestCreateContainerCodec_Invalid(t *testing.T) {
	_, err := CreateContainerCodec(format.Container(99))
	require.Error(t, err)
}

func TestDetectContainer_OASIS(t *testing.T) {
	require.Equal(t, format.ContainerNone, DetectContainer([]byte("%SEMI-OASIS\r\n")))
	require.Equal(t, format.ContainerNone, DetectContainer(nil))
}

func TestContainerFromPath(t *testing.T) {
	tests := []struct {
		path string
		want format.Container
	}{
		{"chip.oas", format.ContainerNone},
		{"chip.oas.gz", format.ContainerGzip},
		{"chip.gds.ZST", format.ContainerZstd},
		{"chip.oas.s2", format.ContainerS2},
		{"/tmp/chip.lz4", format.ContainerLZ4},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, ContainerFromPath(tt.path))
		})
	}
}
