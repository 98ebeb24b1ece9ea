package encoding

import (
	"fmt"

	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
)

// ChoosePointListType picks the most compact point-list type able to carry
// deltas: alternating horizontal-first (0), alternating vertical-first (1),
// Manhattan (2), octangular (3), and finally general g-deltas (4).
func ChoosePointListType(deltas []Delta) format.PointListType {
	switch {
	case isAlternating(deltas, true):
		return format.PointListManhattanH
	case isAlternating(deltas, false):
		return format.PointListManhattanV
	case allDeltas(deltas, Delta.IsManhattan):
		return format.PointListManhattan
	case allDeltas(deltas, Delta.IsOctangular):
		return format.PointListOctangular
	default:
		return format.PointListGeneral
	}
}

// isAlternating reports whether deltas alternate between horizontal and
// vertical moves, starting horizontal when horizontalFirst is set.
func isAlternating(deltas []Delta, horizontalFirst bool) bool {
	horizontal := horizontalFirst
	for _, d := range deltas {
		if horizontal && d.Y != 0 {
			return false
		}
		if !horizontal && d.X != 0 {
			return false
		}
		horizontal = !horizontal
	}

	return true
}

func allDeltas(deltas []Delta, pred func(Delta) bool) bool {
	for _, d := range deltas {
		if !pred(d) {
			return false
		}
	}

	return true
}

// AppendPointList appends deltas as a point list of the given type.
//
// Returns an error wrapping errs.ErrInvalidDelta when a delta cannot be
// expressed in typ, or errs.ErrInvalidPointListType for an unknown or
// read-only type.
func AppendPointList(dst []byte, typ format.PointListType, deltas []Delta) ([]byte, error) {
	dst = AppendUvarint(dst, uint64(typ))
	dst = AppendUvarint(dst, uint64(len(deltas)))

	var err error
	switch typ {
	case format.PointListManhattanH, format.PointListManhattanV:
		if !isAlternating(deltas, typ == format.PointListManhattanH) {
			return dst, fmt.Errorf("%w: deltas do not alternate as type %d requires", errs.ErrInvalidDelta, typ)
		}
		horizontal := typ == format.PointListManhattanH
		for _, d := range deltas {
			if horizontal {
				dst = AppendSvarint(dst, d.X)
			} else {
				dst = AppendSvarint(dst, d.Y)
			}
			horizontal = !horizontal
		}
	case format.PointListManhattan:
		for _, d := range deltas {
			if dst, err = append2Delta(dst, d); err != nil {
				return dst, err
			}
		}
	case format.PointListOctangular:
		for _, d := range deltas {
			if dst, err = append3Delta(dst, d); err != nil {
				return dst, err
			}
		}
	case format.PointListGeneral:
		for _, d := range deltas {
			dst = AppendGDelta(dst, d)
		}
	default:
		return dst, fmt.Errorf("%w: %d", errs.ErrInvalidPointListType, typ)
	}

	return dst, nil
}

// PointList reads a point list and returns its type and the deltas it holds.
//
// Type 5 lists store each delta relative to the previous one; they are
// returned already accumulated, so callers only ever see plain deltas.
func (s *Source) PointList() (format.PointListType, []Delta, error) {
	rawType, err := s.Uvarint()
	if err != nil {
		return 0, nil, err
	}
	if rawType > uint64(format.PointListDouble) {
		return 0, nil, fmt.Errorf("%w: %d", errs.ErrInvalidPointListType, rawType)
	}
	typ := format.PointListType(rawType)

	count, err := s.UvarintInt()
	if err != nil {
		return 0, nil, err
	}
	deltas := make([]Delta, 0, min(count, 1<<16))

	horizontal := typ == format.PointListManhattanH
	var prev Delta
	for range count {
		var d Delta
		switch typ {
		case format.PointListManhattanH, format.PointListManhattanV:
			v, err := s.Svarint()
			if err != nil {
				return 0, nil, err
			}
			if horizontal {
				d.X = v
			} else {
				d.Y = v
			}
			horizontal = !horizontal
		case format.PointListManhattan:
			d, err = s.read2Delta()
		case format.PointListOctangular:
			d, err = s.read3Delta()
		case format.PointListGeneral:
			d, err = s.GDelta()
		case format.PointListDouble:
			d, err = s.GDelta()
			d = prev.Add(d)
			prev = d
		}
		if err != nil {
			return 0, nil, err
		}
		deltas = append(deltas, d)
	}

	return typ, deltas, nil
}
