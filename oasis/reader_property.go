package oasis

import (
	"fmt"

	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
	"github.com/arloliu/maskio/layout"
)

// rawValue is a decoded property value whose string may still be a
// reference into the PROPSTRING table.
type rawValue struct {
	value  layout.PropertyValue
	ref    nameRef
	binary bool
}

func (r *Reader) readProperty() error {
	info, err := r.src.ReadByte()
	if err != nil {
		return err
	}

	if info&bitPropName != 0 {
		var ref nameRef
		if info&bitPropRef != 0 {
			if ref.ref, err = r.src.Uvarint(); err != nil {
				return err
			}
			ref.byRef = true
		} else if ref.name, err = r.src.NString(); err != nil {
			return err
		}
		r.modal.propName.set(ref)
	}
	name := r.modal.propName.get("last-property-name")

	if info&bitPropReuse == 0 {
		count := uint64(info >> propCountShift)
		if count == propCountEscape {
			if count, err = r.src.Uvarint(); err != nil {
				return err
			}
		}
		values := make([]rawValue, 0, min(count, 1<<10))
		for range count {
			v, err := r.propertyValue()
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		r.modal.propValues.set(values)
	}

	r.attach(name, r.modal.propValues.get("last-value-list"))

	return nil
}

func (r *Reader) propertyValue() (rawValue, error) {
	t, err := r.src.Uvarint()
	if err != nil {
		return rawValue{}, err
	}
	typ := format.PropertyValueType(t)
	if t > uint64(format.PropNStringRef) {
		return rawValue{}, fmt.Errorf("%w: %d", errs.ErrInvalidPropertyType, t)
	}

	if typ.IsReal() {
		v, err := r.src.RealOfType(format.RealType(typ))
		return rawValue{value: layout.RealValue(v)}, err
	}

	switch typ {
	case format.PropUnsigned:
		v, err := r.src.Uvarint()
		return rawValue{value: layout.UnsignedValue(v)}, err
	case format.PropSigned:
		v, err := r.src.Svarint()
		return rawValue{value: layout.SignedValue(v)}, err
	case format.PropAString:
		v, err := r.src.AString()
		return rawValue{value: layout.AStringValue(v)}, err
	case format.PropBString:
		v, err := r.src.BString()
		return rawValue{value: layout.BStringValue(v)}, err
	case format.PropNString:
		v, err := r.src.NString()
		return rawValue{value: layout.AStringValue(v)}, err
	default:
		ref, err := r.src.Uvarint()
		return rawValue{ref: nameRef{ref: ref, byRef: true}, binary: typ == format.PropBStringRef}, err
	}
}

// attach adds a property to every current target. Each target gets its own
// copy of the value list.
func (r *Reader) attach(name nameRef, values []rawValue) {
	for _, target := range r.targets {
		vals := make([]layout.PropertyValue, len(values))
		for i, v := range values {
			vals[i] = v.value
		}
		target.AddProperty(layout.Property{Values: vals})
		idx := len(target.Props()) - 1

		r.resolve(&r.propNames, name, func(s string, _ bool) {
			target.Props()[idx].Name = s
		})
		for i, v := range values {
			if !v.ref.byRef {
				continue
			}
			binary, ref := v.binary, v.ref.ref
			r.resolve(&r.propStrings, v.ref, func(s string, found bool) {
				switch {
				case !found:
					vals[i] = layout.ReferenceValue(ref)
				case binary:
					vals[i] = layout.BStringValue(s)
				default:
					vals[i] = layout.AStringValue(s)
				}
			})
		}
	}
}
