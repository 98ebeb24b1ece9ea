package gdsii

import (
	"fmt"
	"math"
	"strconv"

	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/layout"
)

// Read decodes a complete GDSII stream.
//
// Errors carry the offset of the offending record as an *errs.OffsetError.
func Read(data []byte) (*layout.Library, error) {
	r := reader{s: scanner{buf: data}}
	return r.read()
}

type reader struct {
	s   scanner
	lib *layout.Library
}

func (r *reader) expect(typ recordType) (record, error) {
	rec, err := r.s.next()
	if err != nil {
		return rec, err
	}
	if rec.typ != typ {
		return rec, r.unexpected(rec, typ.String())
	}

	return rec, nil
}

func (r *reader) unexpected(rec record, want string) error {
	return errs.At(int64(rec.off), 0, fmt.Errorf("%w: %s where %s expected", errs.ErrInvalidGDSRecord, rec.typ, want))
}

func (r *reader) read() (*layout.Library, error) {
	if _, err := r.expect(recHeader); err != nil {
		return nil, err
	}
	if _, err := r.expect(recBgnLib); err != nil {
		return nil, err
	}
	rec, err := r.expect(recLibName)
	if err != nil {
		return nil, err
	}
	name, err := rec.str()
	if err != nil {
		return nil, err
	}
	r.lib = &layout.Library{Name: name}

	// REFLIBS, FONTS and the other optional library records come before
	// UNITS and carry nothing the layout model keeps.
	for {
		if rec, err = r.s.next(); err != nil {
			return nil, err
		}
		if rec.typ == recUnits {
			break
		}
	}
	units, err := rec.reals()
	if err != nil {
		return nil, err
	}
	if len(units) != 2 || units[1] <= 0 {
		return nil, rec.invalid("units")
	}
	r.lib.Units = layout.Units{DBUPerMicron: dbuPerMicron(units[1])}

	for {
		if rec, err = r.s.next(); err != nil {
			return nil, err
		}
		switch rec.typ {
		case recEndLib:
			return r.lib, nil
		case recBgnStr:
			if err := r.readStructure(); err != nil {
				return nil, err
			}
		default:
			return nil, r.unexpected(rec, "BGNSTR or ENDLIB")
		}
	}
}

// dbuPerMicron converts the meters-per-database-unit of UNITS, rounded to
// drop the noise of the base-16 real.
func dbuPerMicron(metersPerDBU float64) float64 {
	const scale = 1e9
	return math.Round(1e-6/metersPerDBU*scale) / scale
}

func (r *reader) readStructure() error {
	rec, err := r.expect(recStrName)
	if err != nil {
		return err
	}
	name, err := rec.str()
	if err != nil {
		return err
	}
	cell := layout.NewCell(name)
	r.lib.Cells = append(r.lib.Cells, cell)

	for {
		if rec, err = r.s.next(); err != nil {
			return err
		}
		switch rec.typ {
		case recEndStr:
			return nil
		case recBoundary, recBox, recPath, recText, recSRef, recARef, recNode:
			e, err := r.readElement(rec)
			if err != nil {
				return err
			}
			if e != nil {
				cell.Add(e)
			}
		default:
			return r.unexpected(rec, "element or ENDSTR")
		}
	}
}

// fields collects the records of one element up to ENDEL.
type fields struct {
	layer, datatype int16
	textType        int16
	pathType        int16
	width           int32
	bgnExt, endExt  int32
	xy              []layout.Point
	sname           string
	str             string
	strans          uint16
	mag, angle      float64
	colrow          []int16
	props           layout.Properties
	propAttr        int16
}

func (r *reader) readElement(start record) (layout.Element, error) {
	f := fields{mag: 1}
	for {
		rec, err := r.s.next()
		if err != nil {
			return nil, err
		}
		if rec.typ == recEndEl {
			break
		}
		if err := f.set(rec); err != nil {
			return nil, err
		}
	}

	return f.element(start)
}

func (f *fields) set(rec record) error {
	var err error
	switch rec.typ {
	case recLayer:
		f.layer, err = rec.int16()
	case recDatatype, recBoxType:
		f.datatype, err = rec.int16()
	case recTextType:
		f.textType, err = rec.int16()
	case recPathType:
		f.pathType, err = rec.int16()
	case recWidth:
		f.width, err = rec.int32()
	case recBgnExtn:
		f.bgnExt, err = rec.int32()
	case recEndExtn:
		f.endExt, err = rec.int32()
	case recXY:
		var vs []int32
		if vs, err = rec.int32s(); err == nil {
			if len(vs)%2 != 0 {
				return rec.invalid("coordinate count")
			}
			f.xy = make([]layout.Point, len(vs)/2)
			for i := range f.xy {
				f.xy[i] = layout.Point{X: vs[2*i], Y: vs[2*i+1]}
			}
		}
	case recSName:
		f.sname, err = rec.str()
	case recString:
		f.str, err = rec.str()
	case recSTrans:
		f.strans, err = rec.bits()
	case recMag:
		f.mag, err = rec.real()
	case recAngle:
		f.angle, err = rec.real()
	case recColRow:
		f.colrow, err = rec.int16s()
	case recPropAttr:
		f.propAttr, err = rec.int16()
	case recPropValue:
		var v string
		if v, err = rec.str(); err == nil {
			f.props = append(f.props, layout.Property{
				Name:   strconv.Itoa(int(f.propAttr)),
				Values: []layout.PropertyValue{layout.AStringValue(v)},
			})
		}
	}
	// PRESENTATION, ELFLAGS, PLEX and the like have no place in the model.

	return err
}

func (f *fields) transform() layout.Transform {
	return layout.Transform{
		MirrorX:       f.strans&stransReflect != 0,
		Magnification: f.mag,
		Angle:         f.angle,
	}
}

func (f *fields) element(start record) (layout.Element, error) {
	need := func(n int) error {
		if len(f.xy) < n {
			return start.invalid(fmt.Sprintf("point count %d", len(f.xy)))
		}
		return nil
	}

	switch start.typ {
	case recBoundary, recBox:
		if err := need(4); err != nil {
			return nil, err
		}
		return &layout.Boundary{Layer: f.layer, Datatype: f.datatype, Points: f.xy, Properties: f.props}, nil
	case recPath:
		if err := need(1); err != nil {
			return nil, err
		}
		p := &layout.Path{
			Layer:      f.layer,
			Datatype:   f.datatype,
			Width:      max(f.width, -f.width), // negative widths are absolute
			Points:     f.xy,
			Properties: f.props,
		}
		switch f.pathType {
		case 1:
			p.PathType = layout.PathRound
		case 2:
			p.PathType = layout.PathHalfWidthExtend
		case 4:
			p.PathType = layout.PathCustomExtension
			p.BeginExtension, p.EndExtension = f.bgnExt, f.endExt
		default:
			p.PathType = layout.PathFlush
		}
		return p, nil
	case recText:
		if err := need(1); err != nil {
			return nil, err
		}
		return &layout.Text{
			Layer:      f.layer,
			TextType:   f.textType,
			Transform:  f.transform(),
			Position:   f.xy[0],
			String:     f.str,
			Properties: f.props,
		}, nil
	case recSRef:
		if err := need(1); err != nil {
			return nil, err
		}
		return &layout.CellRef{CellName: f.sname, Origin: f.xy[0], Transform: f.transform(), Properties: f.props}, nil
	case recARef:
		if err := need(3); err != nil {
			return nil, err
		}
		if len(f.colrow) != 2 || f.colrow[0] < 1 || f.colrow[1] < 1 {
			return nil, start.invalid("COLROW")
		}
		return &layout.ArrayRef{
			CellName:        f.sname,
			Transform:       f.transform(),
			Columns:         int(f.colrow[0]),
			Rows:            int(f.colrow[1]),
			ReferencePoints: [3]layout.Point{f.xy[0], f.xy[1], f.xy[2]},
			Properties:      f.props,
		}, nil
	default:
		return nil, nil
	}
}
