package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/maskio/errs"
)

// DeflateCodec implements OASIS CBLOCK compression type 0: a raw DEFLATE
// (RFC 1951) stream without zlib header or trailer.
//
// Decompression also accepts zlib-wrapped payloads (RFC 1950), which some
// producers emit despite the format requiring raw DEFLATE.
type DeflateCodec struct {
	level int
}

var _ Codec = (*DeflateCodec)(nil)

// NewDeflateCodec creates a DEFLATE codec with the given compression level
// (flate.NoCompression through flate.BestCompression, or flate.DefaultCompression).
func NewDeflateCodec(level int) (DeflateCodec, error) {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return DeflateCodec{}, fmt.Errorf("invalid deflate level %d", level)
	}

	return DeflateCodec{level: level}, nil
}

// NewDefaultDeflateCodec creates a DEFLATE codec with the default level.
func NewDefaultDeflateCodec() DeflateCodec {
	return DeflateCodec{level: flate.DefaultCompression}
}

// Level returns the configured compression level.
func (c DeflateCodec) Level() int {
	return c.level
}

// flateWriterPools holds one pool per compression level; flate writers are
// expensive to allocate and cheap to Reset.
var flateWriterPools sync.Map // int → *sync.Pool

func flateWriterPool(level int) *sync.Pool {
	if p, ok := flateWriterPools.Load(level); ok {
		return p.(*sync.Pool) //nolint: forcetypeassert
	}
	p, _ := flateWriterPools.LoadOrStore(level, &sync.Pool{
		New: func() any {
			w, err := flate.NewWriter(nil, level)
			if err != nil {
				// level is validated by NewDeflateCodec
				panic(fmt.Sprintf("failed to create flate writer for pool: %v", err))
			}
			return w
		},
	})

	return p.(*sync.Pool) //nolint: forcetypeassert
}

// Compress compresses data into a raw DEFLATE stream.
func (c DeflateCodec) Compress(data []byte) ([]byte, error) {
	p := flateWriterPool(c.level)
	w, _ := p.Get().(*flate.Writer)
	defer p.Put(w)

	var out bytes.Buffer
	out.Grow(len(data)/2 + 16)
	w.Reset(&out)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}

	return out.Bytes(), nil
}

// Decompress inflates data without a size hint.
func (c DeflateCodec) Decompress(data []byte) ([]byte, error) {
	return c.DecompressSize(data, 0)
}

// DecompressSize inflates data, reading at most expected bytes when expected
// is positive. A stream that ends early yields the bytes actually produced.
// Empty output is an error.
func (c DeflateCodec) DecompressSize(data []byte, expected int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty deflate payload", errs.ErrDecompress)
	}

	var r io.ReadCloser
	if isZlibHeader(data) {
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrDecompress, err)
		}
		r = zr
	} else {
		r = flate.NewReader(bytes.NewReader(data))
	}
	defer r.Close()

	var out []byte
	var err error
	if expected > 0 {
		out = make([]byte, expected)
		var n int
		n, err = io.ReadFull(r, out)
		out = out[:n]
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			err = nil
		}
	} else {
		out, err = io.ReadAll(r)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecompress, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: inflate produced no output", errs.ErrDecompress)
	}

	return out, nil
}

// isZlibHeader reports whether data starts with a valid RFC 1950 header:
// deflate method, window <= 32K, no preset dictionary and a correct FCHECK.
func isZlibHeader(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	cmf, flg := data[0], data[1]
	if cmf&0x0F != 8 || cmf>>4 > 7 || flg&0x20 != 0 {
		return false
	}

	return (uint16(cmf)<<8|uint16(flg))%31 == 0
}
