package oasis

import (
	"github.com/arloliu/maskio/encoding"
)

// opt is a modal variable: a value that is either set or unset.
type opt[T any] struct {
	v  T
	ok bool
}

func (o *opt[T]) set(v T) {
	o.v, o.ok = v, true
}

// get returns the value. Reading an unset variable means the stream relied
// on a value no earlier record of the cell provided; it panics with
// unsetModal, which Reader.Read turns into errs.ErrModalUnset.
func (o *opt[T]) get(name string) T {
	if !o.ok {
		panic(unsetModal(name))
	}

	return o.v
}

// holds reports whether o is set to v.
func holds[T comparable](o opt[T], v T) bool {
	return o.ok && o.v == v
}

type unsetModal string

// nameRef is a name given either inline or by reference number.
type nameRef struct {
	name  string
	ref   uint64
	byRef bool
}

// pathExt is one path end extension: its scheme and resolved length.
type pathExt struct {
	scheme uint64
	value  int64
}

// Path extension schemes, two bits per end.
const (
	extReuse     = 0
	extFlush     = 1
	extHalfWidth = 2
	extExplicit  = 3
)

// modalState is the per-cell set of modal variables of the reader.
//
// Coordinates start at zero; everything else starts unset.
type modalState struct {
	relative bool

	placementX, placementY int64
	textX, textY           int64
	geometryX, geometryY   int64

	layer, datatype     opt[uint64]
	textLayer, textType opt[uint64]
	width, height       opt[uint64]
	halfWidth           opt[uint64]
	startExt, endExt    opt[pathExt]
	polygonPoints       opt[[]encoding.Delta]
	pathPoints          opt[[]encoding.Delta]
	placementCell       opt[nameRef]
	textString          opt[nameRef]
	ctrapezoidType      opt[uint64]
	radius              opt[uint64]
	repetition          opt[encoding.Repetition]
	propName            opt[nameRef]
	propValues          opt[[]rawValue]
}

func (m *modalState) reset() {
	*m = modalState{}
}

// move updates a coordinate, adding v in relative mode.
func (m *modalState) move(dst *int64, v int64) {
	if m.relative {
		*dst += v
	} else {
		*dst = v
	}
}
