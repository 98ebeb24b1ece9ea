package oasis

import (
	"fmt"
	"math"

	"github.com/arloliu/maskio/compress"
	"github.com/arloliu/maskio/encoding"
	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
	"github.com/arloliu/maskio/internal/options"
	"github.com/arloliu/maskio/layout"
	"github.com/arloliu/maskio/section"
)

// DefaultLibraryName names a library that carries neither a name string
// nor any cell.
const DefaultLibraryName = "LIB"

// propertyTarget is anything PROPERTY records attach to.
type propertyTarget interface {
	Props() []layout.Property
	AddProperty(p layout.Property)
}

// fixup applies a name reference once the name tables are complete.
type fixup struct {
	table *nameTable
	ref   uint64
	apply func(name string, found bool)
}

// Reader decodes OASIS streams into layout libraries.
//
// A Reader keeps per-stream state and is NOT thread-safe; it may be reused
// for several streams one after another.
type Reader struct {
	cfg      *ReaderConfig
	inflater compress.DeflateCodec

	src   *encoding.Source
	modal modalState
	start section.Start

	cellNames   nameTable
	textStrings nameTable
	propNames   nameTable
	propStrings nameTable
	layerNames  []LayerName

	lib     *layout.Library
	cell    *layout.Cell
	targets []propertyTarget
	fixups  []fixup

	firstPropString opt[string]
}

// NewReader creates a Reader.
func NewReader(opts ...ReaderOption) (*Reader, error) {
	cfg := newReaderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Reader{
		cfg:         cfg,
		inflater:    compress.NewDefaultDeflateCodec(),
		cellNames:   newNameTable("CELL"),
		textStrings: newNameTable("TEXT"),
		propNames:   newNameTable("PROP"),
		propStrings: newNameTable("PROPSTRING"),
	}, nil
}

// Read decodes a complete OASIS stream.
func Read(data []byte, opts ...ReaderOption) (*layout.Library, error) {
	r, err := NewReader(opts...)
	if err != nil {
		return nil, err
	}

	return r.Read(data)
}

// LayerNames returns the LAYERNAME records of the last stream read.
func (r *Reader) LayerNames() []LayerName {
	return r.layerNames
}

func (r *Reader) reset(data []byte) {
	r.src = encoding.NewSource(data)
	r.modal.reset()
	r.start = section.Start{}
	r.cellNames.reset()
	r.textStrings.reset()
	r.propNames.reset()
	r.propStrings.reset()
	r.layerNames = nil
	r.lib = &layout.Library{}
	r.cell = nil
	r.targets = r.targets[:0]
	r.fixups = r.fixups[:0]
	r.firstPropString = opt[string]{}
}

// Read decodes a complete OASIS stream held in data.
//
// Errors carry the offset at which decoding stopped as an
// *errs.OffsetError.
func (r *Reader) Read(data []byte) (lib *layout.Library, err error) {
	r.reset(data)

	defer func() {
		if p := recover(); p != nil {
			name, ok := p.(unsetModal)
			if !ok {
				panic(p)
			}
			lib, err = nil, r.src.Err(fmt.Errorf("%w: %s", errs.ErrModalUnset, string(name)))
		}
	}()

	if err := r.src.CheckMagic(); err != nil {
		return nil, r.src.Err(err)
	}
	if err := r.readStart(); err != nil {
		return nil, r.src.Err(err)
	}

	for {
		rec, err := r.recordType()
		if err != nil {
			return nil, r.src.Err(err)
		}
		if rec == format.RecordEnd {
			var end section.End
			if err := end.Read(r.src, r.start.TablesInEnd); err != nil {
				return nil, r.src.Err(err)
			}

			break
		}
		if err := r.dispatch(rec); err != nil {
			return nil, r.src.Err(err)
		}
	}

	if err := r.applyFixups(); err != nil {
		return nil, err
	}
	r.nameLibrary()

	return r.lib, nil
}

func (r *Reader) recordType() (format.RecordType, error) {
	v, err := r.src.Uvarint()
	if err != nil {
		return 0, err
	}
	if v > uint64(format.RecordCBlock) {
		return 0, fmt.Errorf("%w: %d", errs.ErrUnknownRecord, v)
	}

	return format.RecordType(v), nil
}

func (r *Reader) readStart() error {
	rec, err := r.recordType()
	if err != nil {
		return err
	}
	if rec != format.RecordStart {
		return fmt.Errorf("%w: %s before START", errs.ErrUnexpectedRecord, rec)
	}
	if err := r.start.Read(r.src); err != nil {
		return err
	}

	r.lib.Units = layout.Units{DBUPerMicron: r.start.Unit}
	r.targets = append(r.targets, r.lib)

	return nil
}

func (r *Reader) dispatch(rec format.RecordType) error {
	if rec.IsCellBoundary() {
		r.cell = nil
		r.targets = r.targets[:0]
	}

	switch rec {
	case format.RecordPad:
		return nil
	case format.RecordStart, format.RecordEnd:
		return fmt.Errorf("%w: %s", errs.ErrUnexpectedRecord, rec)
	case format.RecordCellName, format.RecordCellNameRef:
		return r.readName(&r.cellNames, rec == format.RecordCellNameRef, (*encoding.Source).NString)
	case format.RecordTextString, format.RecordTextStringRef:
		return r.readName(&r.textStrings, rec == format.RecordTextStringRef, (*encoding.Source).AString)
	case format.RecordPropName, format.RecordPropNameRef:
		return r.readName(&r.propNames, rec == format.RecordPropNameRef, (*encoding.Source).NString)
	case format.RecordPropString, format.RecordPropStringRef:
		return r.readPropString(rec == format.RecordPropStringRef)
	case format.RecordLayerName, format.RecordLayerNameText:
		return r.readLayerName(rec == format.RecordLayerNameText)
	case format.RecordCell, format.RecordCellRef:
		return r.beginCell(rec == format.RecordCellRef)
	case format.RecordXYAbsolute, format.RecordXYRelative:
		r.modal.relative = rec == format.RecordXYRelative
		r.targets = r.targets[:0]

		return nil
	case format.RecordProperty:
		return r.readProperty()
	case format.RecordPropertyRepeat:
		r.attach(r.modal.propName.get("last-property-name"), r.modal.propValues.get("last-value-list"))
		return nil
	case format.RecordXName, format.RecordXNameRef:
		return r.readXName(rec == format.RecordXNameRef)
	case format.RecordCBlock:
		return r.readCBlock()
	}

	if r.cell == nil {
		return fmt.Errorf("%w: %s outside a cell", errs.ErrUnexpectedRecord, rec)
	}

	switch rec {
	case format.RecordPlacement, format.RecordPlacementX:
		return r.readPlacement(rec == format.RecordPlacementX)
	case format.RecordText:
		return r.readText()
	case format.RecordRectangle:
		return r.readRectangle()
	case format.RecordPolygon:
		return r.readPolygon()
	case format.RecordPath:
		return r.readPath()
	case format.RecordTrapezoid, format.RecordTrapezoidA, format.RecordTrapezoidB:
		return r.readTrapezoid(rec)
	case format.RecordCTrapezoid:
		return r.readCTrapezoid()
	case format.RecordCircle:
		return r.readCircle()
	case format.RecordXElement:
		return r.readXElement()
	case format.RecordXGeometry:
		return r.readXGeometry()
	default:
		return fmt.Errorf("%w: %d", errs.ErrUnknownRecord, rec)
	}
}

func (r *Reader) readName(table *nameTable, explicit bool, read func(*encoding.Source) (string, error)) error {
	name, err := read(r.src)
	if err != nil {
		return err
	}
	if !explicit {
		table.add(name)
		return nil
	}

	ref, err := r.src.Uvarint()
	if err != nil {
		return err
	}
	table.assign(ref, name)

	return nil
}

func (r *Reader) readPropString(explicit bool) error {
	b, err := r.src.BString()
	if err != nil {
		return err
	}
	s := string(b)
	if !r.firstPropString.ok {
		r.firstPropString.set(s)
	}
	if !explicit {
		r.propStrings.add(s)
		return nil
	}

	ref, err := r.src.Uvarint()
	if err != nil {
		return err
	}
	r.propStrings.assign(ref, s)

	return nil
}

func (r *Reader) beginCell(byRef bool) error {
	r.modal.reset()

	cell := &layout.Cell{}
	if byRef {
		ref, err := r.src.Uvarint()
		if err != nil {
			return err
		}
		r.resolve(&r.cellNames, nameRef{ref: ref, byRef: true}, func(name string, _ bool) {
			cell.Name = name
		})
	} else {
		name, err := r.src.NString()
		if err != nil {
			return err
		}
		cell.Name = name
	}

	r.lib.Cells = append(r.lib.Cells, cell)
	r.cell = cell
	r.targets = append(r.targets[:0], cell)

	return nil
}

func (r *Reader) readCBlock() error {
	typ, err := r.src.Uvarint()
	if err != nil {
		return err
	}
	if typ != uint64(format.CompressionDeflate) {
		return fmt.Errorf("%w: compression type %d", errs.ErrDecompress, typ)
	}

	size, err := r.src.Uvarint()
	if err != nil {
		return err
	}
	if size == 0 {
		return fmt.Errorf("%w: block without uncompressed size", errs.ErrDecompress)
	}
	if size > r.cfg.maxInflateSize {
		return fmt.Errorf("%w: block of %d bytes exceeds limit %d", errs.ErrDecompress, size, r.cfg.maxInflateSize)
	}
	compSize, err := r.src.UvarintInt()
	if err != nil {
		return err
	}
	payload, err := r.src.Next(compSize)
	if err != nil {
		return err
	}

	data, err := r.inflater.DecompressSize(payload, int(size)) //nolint: gosec
	if err != nil {
		return err
	}
	r.src.Push(data)

	return nil
}

// resolve hands apply the name behind ref, now if it is known and after the
// END record otherwise.
func (r *Reader) resolve(table *nameTable, ref nameRef, apply func(name string, found bool)) {
	if !ref.byRef {
		apply(ref.name, true)
		return
	}
	if name, ok := table.lookup(ref.ref); ok {
		apply(name, true)
		return
	}
	r.fixups = append(r.fixups, fixup{table: table, ref: ref.ref, apply: apply})
}

func (r *Reader) applyFixups() error {
	for _, f := range r.fixups {
		name, ok := f.table.lookup(f.ref)
		if !ok {
			if !r.cfg.lenient {
				return fmt.Errorf("%w: %s reference %d", errs.ErrUnknownReference, f.table.kind, f.ref)
			}
			name = f.table.placeholder(f.ref)
		}
		f.apply(name, ok)
	}

	return nil
}

// nameLibrary names the library after the first PROPSTRING, else after its
// first cell.
func (r *Reader) nameLibrary() {
	switch {
	case r.firstPropString.ok && r.firstPropString.v != "":
		r.lib.Name = r.firstPropString.v
	case len(r.lib.Cells) > 0:
		r.lib.Name = r.lib.Cells[0].Name
	default:
		r.lib.Name = DefaultLibraryName
	}
}

// emit adds one element per repetition offset to the current cell and makes
// them the targets of following PROPERTY records.
func (r *Reader) emit(rep encoding.Repetition, build func(d encoding.Delta) layout.Element) {
	r.targets = r.targets[:0]
	if rep == nil {
		e := build(encoding.Delta{})
		r.cell.Add(e)
		r.targets = append(r.targets, e)

		return
	}

	for _, d := range rep.Offsets() {
		e := build(d)
		r.cell.Add(e)
		r.targets = append(r.targets, e)
	}
}

// repetition reads the repetition of a record whose R bit is set.
func (r *Reader) repetition(present bool) (encoding.Repetition, error) {
	if !present {
		return nil, nil
	}

	rep, reused, err := r.src.Repetition()
	if err != nil {
		return nil, err
	}
	if reused {
		return r.modal.repetition.get("repetition"), nil
	}
	if n := rep.Count(); n > r.cfg.maxRepetition {
		return nil, fmt.Errorf("%w: %d placements exceed limit %d", errs.ErrInvalidRepetition, n, r.cfg.maxRepetition)
	}
	r.modal.repetition.set(rep)

	return rep, nil
}

// layerDatatype reads the optional layer and datatype of a geometry record.
func (r *Reader) layerDatatype(info byte) (layer, datatype int16, err error) {
	if info&bitLayer != 0 {
		v, err := r.src.Uvarint()
		if err != nil {
			return 0, 0, err
		}
		r.modal.layer.set(v)
	}
	if info&bitDatatype != 0 {
		v, err := r.src.Uvarint()
		if err != nil {
			return 0, 0, err
		}
		r.modal.datatype.set(v)
	}

	return layerNumber(r.modal.layer.get("layer")), layerNumber(r.modal.datatype.get("datatype")), nil
}

// layerNumber narrows a layer, datatype, textlayer or texttype to the
// int16 range of layout, clamping values above math.MaxInt16.
func layerNumber(v uint64) int16 {
	return int16(min(v, math.MaxInt16)) //nolint: gosec
}

// coord reads an optional coordinate into the modal variable dst.
func (r *Reader) coord(present bool, dst *int64) error {
	if !present {
		return nil
	}
	v, err := r.src.Svarint()
	if err != nil {
		return err
	}
	r.modal.move(dst, v)

	return nil
}

// xy reads the optional x and y of a record.
func (r *Reader) xy(info byte, xBit, yBit byte, x, y *int64) error {
	if err := r.coord(info&xBit != 0, x); err != nil {
		return err
	}

	return r.coord(info&yBit != 0, y)
}

// uvarintModal reads an unsigned value into o when present.
func (r *Reader) uvarintModal(present bool, o *opt[uint64]) error {
	if !present {
		return nil
	}
	v, err := r.src.Uvarint()
	if err != nil {
		return err
	}
	o.set(v)

	return nil
}

func i32(v int64) int32 {
	return int32(v) //nolint: gosec
}

func point(x, y int64) layout.Point {
	return layout.Point{X: i32(x), Y: i32(y)}
}
