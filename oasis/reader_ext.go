package oasis

import (
	"fmt"

	"github.com/arloliu/maskio/errs"
)

// Interval is an inclusive range of layer or datatype numbers.
type Interval struct {
	Low, High uint64
	// Unbounded means the range has no upper limit and High is ignored.
	Unbounded bool
}

// Contains reports whether v lies in the interval.
func (i Interval) Contains(v uint64) bool {
	return v >= i.Low && (i.Unbounded || v <= i.High)
}

// LayerName is a LAYERNAME record: a name for a range of layers and
// datatypes (or textlayers and texttypes when Text is set).
type LayerName struct {
	Name   string
	Text   bool
	Layers Interval
	Types  Interval
}

func (r *Reader) readLayerName(text bool) error {
	name, err := r.src.NString()
	if err != nil {
		return err
	}
	layers, err := r.interval()
	if err != nil {
		return err
	}
	types, err := r.interval()
	if err != nil {
		return err
	}
	r.layerNames = append(r.layerNames, LayerName{Name: name, Text: text, Layers: layers, Types: types})

	return nil
}

func (r *Reader) interval() (Interval, error) {
	typ, err := r.src.Uvarint()
	if err != nil {
		return Interval{}, err
	}

	switch typ {
	case 0:
		return Interval{Unbounded: true}, nil
	case 1, 2, 3:
		bound, err := r.src.Uvarint()
		if err != nil {
			return Interval{}, err
		}
		switch typ {
		case 1:
			return Interval{High: bound}, nil
		case 2:
			return Interval{Low: bound, High: bound}, nil
		default:
			return Interval{Low: bound, Unbounded: true}, nil
		}
	case 4:
		low, err := r.src.Uvarint()
		if err != nil {
			return Interval{}, err
		}
		high, err := r.src.Uvarint()
		if err != nil {
			return Interval{}, err
		}

		return Interval{Low: low, High: high}, nil
	default:
		return Interval{}, fmt.Errorf("%w: %d", errs.ErrInvalidInterval, typ)
	}
}

// readXName skips an XNAME record.
func (r *Reader) readXName(explicit bool) error {
	if _, err := r.src.Uvarint(); err != nil {
		return err
	}
	if _, err := r.src.BString(); err != nil {
		return err
	}
	if explicit {
		_, err := r.src.Uvarint()
		return err
	}

	return nil
}

// readXElement skips an XELEMENT record. Properties that follow it are
// dropped.
func (r *Reader) readXElement() error {
	r.targets = r.targets[:0]
	if _, err := r.src.Uvarint(); err != nil {
		return err
	}
	_, err := r.src.BString()

	return err
}

// readXGeometry skips an XGEOMETRY record while keeping the modal
// variables it sets.
func (r *Reader) readXGeometry() error {
	r.targets = r.targets[:0]

	info, err := r.src.ReadByte()
	if err != nil {
		return err
	}
	if _, err := r.src.Uvarint(); err != nil {
		return err
	}
	if _, _, err := r.layerDatatype(info); err != nil {
		return err
	}
	if _, err := r.src.BString(); err != nil {
		return err
	}
	if err := r.xy(info, bitX, bitY, &r.modal.geometryX, &r.modal.geometryY); err != nil {
		return err
	}
	_, err = r.repetition(info&bitRepetition != 0)

	return err
}
