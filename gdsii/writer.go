package gdsii

import (
	"fmt"
	"io"
	"strconv"

	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/internal/options"
	"github.com/arloliu/maskio/internal/pool"
	"github.com/arloliu/maskio/layout"
)

// Writer encodes layout libraries as GDSII streams.
//
// A Writer holds no per-stream state and may be reused.
type Writer struct {
	cfg *WriterConfig
}

// NewWriter creates a Writer.
func NewWriter(opts ...WriterOption) (*Writer, error) {
	cfg := &WriterConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Writer{cfg: cfg}, nil
}

// Write encodes lib as a complete GDSII stream.
func Write(lib *layout.Library, opts ...WriterOption) ([]byte, error) {
	w, err := NewWriter(opts...)
	if err != nil {
		return nil, err
	}

	return w.Write(lib)
}

// Write encodes lib and returns the stream.
func (w *Writer) Write(lib *layout.Library) ([]byte, error) {
	bb := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(bb)

	if err := w.encode(bb, lib); err != nil {
		return nil, err
	}

	return append([]byte(nil), bb.Bytes()...), nil
}

// WriteTo encodes lib into dst.
func (w *Writer) WriteTo(dst io.Writer, lib *layout.Library) (int64, error) {
	bb := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(bb)

	if err := w.encode(bb, lib); err != nil {
		return 0, err
	}

	return bb.WriteTo(dst)
}

// timestamp returns the twelve BGNLIB/BGNSTR date fields.
func (w *Writer) timestamp() []int16 {
	t := w.cfg.modTime
	if t.IsZero() {
		return make([]int16, 12)
	}
	//nolint: gosec
	f := []int16{
		int16(t.Year()), int16(t.Month()), int16(t.Day()),
		int16(t.Hour()), int16(t.Minute()), int16(t.Second()),
	}

	return append(f, f...)
}

func (w *Writer) encode(out *pool.ByteBuffer, lib *layout.Library) error {
	if lib == nil {
		return fmt.Errorf("%w: nil library", errs.ErrUnsupportedElement)
	}

	dbu := lib.Units.DBUPerMicron
	if dbu <= 0 {
		dbu = layout.DefaultDBUPerMicron
	}
	stamp := w.timestamp()

	b := appendInt16s(out.B, recHeader, Version)
	b = appendInt16s(b, recBgnLib, stamp...)
	b, err := appendString(b, recLibName, lib.Name)
	if err != nil {
		return err
	}
	// user unit is the micron
	b = appendReals(b, recUnits, 1/dbu, 1e-6/dbu)

	for _, cell := range lib.Cells {
		b = appendInt16s(b, recBgnStr, stamp...)
		if b, err = appendString(b, recStrName, cell.Name); err != nil {
			return err
		}
		for _, e := range cell.Elements {
			if b, err = appendElement(b, e); err != nil {
				return fmt.Errorf("cell %q: %w", cell.Name, err)
			}
		}
		b = appendEmpty(b, recEndStr)
	}
	out.B = appendEmpty(b, recEndLib)

	return nil
}

func appendElement(dst []byte, e layout.Element) ([]byte, error) {
	var err error
	switch e := e.(type) {
	case *layout.Boundary:
		pts := layout.Close(append([]layout.Point(nil), e.Points...))
		if len(pts) < 4 {
			return dst, fmt.Errorf("%w: boundary with %d points", errs.ErrUnsupportedElement, len(pts))
		}
		dst = appendEmpty(dst, recBoundary)
		dst = appendInt16s(dst, recLayer, max(e.Layer, 0))
		dst = appendInt16s(dst, recDatatype, max(e.Datatype, 0))
		dst, err = appendXY(dst, pts...)
	case *layout.Path:
		if len(e.Points) == 0 {
			return dst, fmt.Errorf("%w: path without points", errs.ErrUnsupportedElement)
		}
		dst = appendEmpty(dst, recPath)
		dst = appendInt16s(dst, recLayer, max(e.Layer, 0))
		dst = appendInt16s(dst, recDatatype, max(e.Datatype, 0))
		dst = appendInt16s(dst, recPathType, pathType(e.PathType))
		if dst, err = appendInt32s(dst, recWidth, e.Width); err != nil {
			return dst, err
		}
		if e.PathType == layout.PathCustomExtension {
			dst, _ = appendInt32s(dst, recBgnExtn, e.BeginExtension)
			dst, _ = appendInt32s(dst, recEndExtn, e.EndExtension)
		}
		dst, err = appendXY(dst, e.Points...)
	case *layout.Text:
		dst = appendEmpty(dst, recText)
		dst = appendInt16s(dst, recLayer, max(e.Layer, 0))
		dst = appendInt16s(dst, recTextType, max(e.TextType, 0))
		dst = appendTransform(dst, e.Transform)
		if dst, err = appendXY(dst, e.Position); err != nil {
			return dst, err
		}
		dst, err = appendString(dst, recString, e.String)
	case *layout.CellRef:
		dst = appendEmpty(dst, recSRef)
		if dst, err = appendString(dst, recSName, e.CellName); err != nil {
			return dst, err
		}
		dst = appendTransform(dst, e.Transform)
		dst, err = appendXY(dst, e.Origin)
	case *layout.ArrayRef:
		if e.Columns < 1 || e.Rows < 1 || e.Columns > maxInt16 || e.Rows > maxInt16 {
			return dst, fmt.Errorf("%w: array of %dx%d", errs.ErrUnsupportedElement, e.Columns, e.Rows)
		}
		dst = appendEmpty(dst, recARef)
		if dst, err = appendString(dst, recSName, e.CellName); err != nil {
			return dst, err
		}
		dst = appendTransform(dst, e.Transform)
		dst = appendInt16s(dst, recColRow, int16(e.Columns), int16(e.Rows)) //nolint: gosec
		dst, err = appendXY(dst, e.ReferencePoints[:]...)
	default:
		return dst, fmt.Errorf("%w: %T", errs.ErrUnsupportedElement, e)
	}
	if err != nil {
		return dst, err
	}

	if dst, err = appendProperties(dst, e.Props()); err != nil {
		return dst, err
	}

	return appendEmpty(dst, recEndEl), nil
}

const maxInt16 = 1<<15 - 1

func pathType(t layout.PathType) int16 {
	switch t {
	case layout.PathRound:
		return 1
	case layout.PathHalfWidthExtend:
		return 2
	case layout.PathCustomExtension:
		return 4
	default:
		return 0
	}
}

func appendXY(dst []byte, pts ...layout.Point) ([]byte, error) {
	if len(pts) > maxPoints {
		return dst, fmt.Errorf("%w: %d points exceed one XY record", errs.ErrUnsupportedElement, len(pts))
	}
	vs := make([]int32, 0, 2*len(pts))
	for _, p := range pts {
		vs = append(vs, p.X, p.Y)
	}

	return appendInt32s(dst, recXY, vs...)
}

// appendTransform writes STRANS, MAG and ANGLE for non-identity transforms.
func appendTransform(dst []byte, t layout.Transform) []byte {
	if t.IsIdentity() {
		return dst
	}

	var flags uint16
	if t.MirrorX {
		flags |= stransReflect
	}
	dst = appendBits(dst, recSTrans, flags)
	if mag := t.Scale(); mag != 1 {
		dst = appendReals(dst, recMag, mag)
	}
	if t.Angle != 0 {
		dst = appendReals(dst, recAngle, t.Angle)
	}

	return dst
}

// appendProperties writes the properties GDSII can hold: numeric names
// with a string first value.
func appendProperties(dst []byte, props []layout.Property) ([]byte, error) {
	var err error
	for _, p := range props {
		attr, convErr := strconv.Atoi(p.Name)
		if convErr != nil || attr < 1 || attr > 127 || len(p.Values) == 0 {
			continue
		}

		var value string
		switch v := p.Values[0].(type) {
		case layout.AStringValue:
			value = string(v)
		case layout.BStringValue:
			value = string(v)
		default:
			continue
		}

		dst = appendInt16s(dst, recPropAttr, int16(attr))
		if dst, err = appendString(dst, recPropValue, value); err != nil {
			return dst, err
		}
	}

	return dst, nil
}
