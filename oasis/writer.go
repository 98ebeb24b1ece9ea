package oasis

import (
	"fmt"
	"io"

	"github.com/arloliu/maskio/encoding"
	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
	"github.com/arloliu/maskio/internal/intern"
	"github.com/arloliu/maskio/internal/options"
	"github.com/arloliu/maskio/internal/pool"
	"github.com/arloliu/maskio/layout"
	"github.com/arloliu/maskio/section"
)

// writerModal mirrors the modal variables a reader will hold, so that
// unchanged fields can be left out.
type writerModal struct {
	placementX, placementY int64
	textX, textY           int64
	geometryX, geometryY   int64

	layer, datatype     opt[uint64]
	textLayer, textType opt[uint64]
	width, height       opt[uint64]
	halfWidth           opt[uint64]
	placementCell       opt[uint64]
	textString          opt[string]
	// repetition only ever holds lattice shapes, which are comparable.
	repetition opt[encoding.Repetition]
}

// Writer encodes layout libraries as OASIS streams.
//
// The output uses a fixed subset of the format: RECTANGLE, POLYGON, PATH,
// TEXT, PLACEMENT and PROPERTY records inside CELL records referenced by
// number, with all names declared up front. Encoding the same library
// twice yields identical bytes.
//
// A Writer is NOT thread-safe.
type Writer struct {
	cfg       *WriterConfig
	cellNames *intern.Table
	propNames *intern.Table
	modal     writerModal
}

// NewWriter creates a Writer.
func NewWriter(opts ...WriterOption) (*Writer, error) {
	cfg := newWriterConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Writer{
		cfg:       cfg,
		cellNames: intern.NewTable(),
		propNames: intern.NewTable(),
	}, nil
}

// Write encodes lib as a complete OASIS stream.
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

func (w *Writer) encode(out *pool.ByteBuffer, lib *layout.Library) error {
	if lib == nil {
		return fmt.Errorf("%w: nil library", errs.ErrUnsupportedElement)
	}
	w.collectNames(lib)

	unit := lib.Units.DBUPerMicron
	if unit <= 0 {
		unit = layout.DefaultDBUPerMicron
	}
	start := section.NewStart(unit)

	b := encoding.AppendMagic(out.B)
	b, err := start.AppendTo(b)
	if err != nil {
		return err
	}
	if b, err = w.appendProperties(b, lib.Props()); err != nil {
		return err
	}
	if w.cfg.libraryNameProp && lib.Name != "" {
		b = encoding.AppendUvarint(b, uint64(format.RecordPropString))
		b = encoding.AppendBString(b, []byte(lib.Name))
	}
	if b, err = appendNames(b, format.RecordCellName, w.cellNames.Names()); err != nil {
		return err
	}
	if b, err = appendNames(b, format.RecordPropName, w.propNames.Names()); err != nil {
		return err
	}

	cellBuf := pool.GetCellBuffer()
	defer pool.PutCellBuffer(cellBuf)

	for _, cell := range lib.Cells {
		cellBuf.Reset()
		body, err := w.appendCell(cellBuf.B, cell)
		cellBuf.B = body
		if err != nil {
			return fmt.Errorf("cell %q: %w", cell.Name, err)
		}
		if b, err = w.appendCellBlock(b, body); err != nil {
			return err
		}
	}

	var end section.End
	out.B = end.AppendTo(b, start.TablesInEnd)

	return nil
}

// collectNames numbers every cell and property name in first-seen order.
func (w *Writer) collectNames(lib *layout.Library) {
	w.cellNames.Reset()
	w.propNames.Reset()

	internProps := func(props []layout.Property) {
		for _, p := range props {
			w.propNames.Intern(p.Name)
		}
	}

	internProps(lib.Props())
	for _, cell := range lib.Cells {
		w.cellNames.Intern(cell.Name)
	}
	for _, cell := range lib.Cells {
		internProps(cell.Props())
		for _, e := range cell.Elements {
			switch e := e.(type) {
			case *layout.CellRef:
				w.cellNames.Intern(e.CellName)
			case *layout.ArrayRef:
				w.cellNames.Intern(e.CellName)
			}
			internProps(e.Props())
		}
	}
}

func appendNames(dst []byte, rec format.RecordType, names []string) ([]byte, error) {
	var err error
	for _, name := range names {
		dst = encoding.AppendUvarint(dst, uint64(rec))
		if dst, err = encoding.AppendNString(dst, name); err != nil {
			return dst, fmt.Errorf("%s: %w", rec, err)
		}
	}

	return dst, nil
}

func (w *Writer) appendCell(dst []byte, cell *layout.Cell) ([]byte, error) {
	w.modal = writerModal{}

	ref, _ := w.cellNames.Lookup(cell.Name)
	dst = encoding.AppendUvarint(dst, uint64(format.RecordCellRef))
	dst = encoding.AppendUvarint(dst, ref)

	dst, err := w.appendProperties(dst, cell.Props())
	if err != nil {
		return dst, err
	}

	for _, e := range cell.Elements {
		switch e := e.(type) {
		case *layout.Boundary:
			dst, err = w.appendBoundary(dst, e)
		case *layout.Path:
			dst, err = w.appendPath(dst, e)
		case *layout.Text:
			dst, err = w.appendText(dst, e)
		case *layout.CellRef:
			dst, err = w.appendPlacement(dst, e.CellName, e.Origin, e.Transform, nil)
		case *layout.ArrayRef:
			dst, err = w.appendArray(dst, e)
		default:
			err = fmt.Errorf("%w: %T", errs.ErrUnsupportedElement, e)
		}
		if err != nil {
			return dst, err
		}
		if dst, err = w.appendProperties(dst, e.Props()); err != nil {
			return dst, err
		}
	}

	return dst, nil
}

// appendCellBlock appends a cell body, compressed into a CBLOCK when
// enabled.
func (w *Writer) appendCellBlock(dst, body []byte) ([]byte, error) {
	if !w.cfg.cblocks {
		return append(dst, body...), nil
	}

	comp, err := w.cfg.codec.Compress(body)
	if err != nil {
		return dst, err
	}
	dst = encoding.AppendUvarint(dst, uint64(format.RecordCBlock))
	dst = encoding.AppendUvarint(dst, uint64(format.CompressionDeflate))
	dst = encoding.AppendUvarint(dst, uint64(len(body)))
	dst = encoding.AppendUvarint(dst, uint64(len(comp)))

	return append(dst, comp...), nil
}

func (w *Writer) appendProperties(dst []byte, props []layout.Property) ([]byte, error) {
	var err error
	for _, p := range props {
		ref, _ := w.propNames.Lookup(p.Name)

		info := byte(bitPropName | bitPropRef)
		n := len(p.Values)
		if n < propCountEscape {
			info |= byte(n) << propCountShift
		} else {
			info |= propCountEscape << propCountShift
		}

		dst = encoding.AppendUvarint(dst, uint64(format.RecordProperty))
		dst = append(dst, info)
		dst = encoding.AppendUvarint(dst, ref)
		if n >= propCountEscape {
			dst = encoding.AppendUvarint(dst, uint64(n))
		}
		for _, v := range p.Values {
			if dst, err = appendPropertyValue(dst, v); err != nil {
				return dst, fmt.Errorf("property %q: %w", p.Name, err)
			}
		}
	}

	return dst, nil
}

func appendPropertyValue(dst []byte, v layout.PropertyValue) ([]byte, error) {
	switch v := v.(type) {
	case layout.RealValue:
		return encoding.AppendReal(dst, float64(v)), nil
	case layout.UnsignedValue:
		dst = encoding.AppendUvarint(dst, uint64(format.PropUnsigned))
		return encoding.AppendUvarint(dst, uint64(v)), nil
	case layout.SignedValue:
		dst = encoding.AppendUvarint(dst, uint64(format.PropSigned))
		return encoding.AppendSvarint(dst, int64(v)), nil
	case layout.AStringValue:
		if !encoding.IsAString(string(v)) {
			dst = encoding.AppendUvarint(dst, uint64(format.PropBString))
			return encoding.AppendBString(dst, []byte(v)), nil
		}
		dst = encoding.AppendUvarint(dst, uint64(format.PropAString))

		return encoding.AppendAString(dst, string(v))
	case layout.BStringValue:
		dst = encoding.AppendUvarint(dst, uint64(format.PropBString))
		return encoding.AppendBString(dst, v), nil
	case layout.ReferenceValue:
		return dst, fmt.Errorf("%w: unresolved string reference %d", errs.ErrUnsupportedElement, uint64(v))
	default:
		return dst, fmt.Errorf("%w: property value %T", errs.ErrInvalidPropertyType, v)
	}
}

// clamp maps negative layer and datatype numbers to 0; the format only
// has unsigned ones.
func clamp(v int16) uint64 {
	if v < 0 {
		return 0
	}

	return uint64(v)
}
