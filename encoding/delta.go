package encoding

import (
	"fmt"

	"github.com/arloliu/maskio/errs"
)

// Delta is a two-dimensional displacement in database units.
type Delta struct {
	X, Y int64
}

// Add returns d + o.
func (d Delta) Add(o Delta) Delta {
	return Delta{X: d.X + o.X, Y: d.Y + o.Y}
}

// Scale returns d multiplied by k.
func (d Delta) Scale(k int64) Delta {
	return Delta{X: d.X * k, Y: d.Y * k}
}

// IsManhattan reports whether d moves along exactly one axis.
func (d Delta) IsManhattan() bool {
	return (d.X == 0) != (d.Y == 0)
}

// IsOctangular reports whether d is axis-aligned or on a 45 degree diagonal.
func (d Delta) IsOctangular() bool {
	return d.X == 0 || d.Y == 0 || abs64(d.X) == abs64(d.Y)
}

// Octangular directions shared by 2-delta, 3-delta and g-delta form 1.
const (
	dirEast = iota
	dirNorth
	dirWest
	dirSouth
	dirNorthEast
	dirNorthWest
	dirSouthWest
	dirSouthEast
)

var dirVectors = [8]Delta{
	dirEast:      {1, 0},
	dirNorth:     {0, 1},
	dirWest:      {-1, 0},
	dirSouth:     {0, -1},
	dirNorthEast: {1, 1},
	dirNorthWest: {-1, 1},
	dirSouthWest: {-1, -1},
	dirSouthEast: {1, -1},
}

// octDirection splits an octangular delta into direction and magnitude.
// The zero delta maps to east with magnitude zero.
func octDirection(d Delta) (dir int, mag uint64) {
	switch {
	case d.Y == 0 && d.X >= 0:
		return dirEast, uint64(d.X)
	case d.Y == 0:
		return dirWest, uint64(-d.X)
	case d.X == 0 && d.Y > 0:
		return dirNorth, uint64(d.Y)
	case d.X == 0:
		return dirSouth, uint64(-d.Y)
	case d.X > 0 && d.Y > 0:
		return dirNorthEast, uint64(d.X)
	case d.X < 0 && d.Y > 0:
		return dirNorthWest, uint64(-d.X)
	case d.X < 0:
		return dirSouthWest, uint64(-d.X)
	default:
		return dirSouthEast, uint64(d.X)
	}
}

func fromDirection(dir int, mag uint64) Delta {
	return dirVectors[dir].Scale(int64(mag)) //nolint: gosec
}

// AppendGDelta appends d as a g-delta.
//
// Octangular displacements use form 1, a single unsigned integer
// (magnitude<<4 | direction<<1). Everything else uses form 2: an unsigned
// integer carrying |x|, the x sign and a set low bit, followed by y as a
// signed integer.
func AppendGDelta(dst []byte, d Delta) []byte {
	if d.IsOctangular() {
		dir, mag := octDirection(d)
		return AppendUvarint(dst, mag<<4|uint64(dir)<<1)
	}

	var sign uint64
	if d.X < 0 {
		sign = 1
	}
	dst = AppendUvarint(dst, uint64(abs64(d.X))<<2|sign<<1|1)

	return AppendSvarint(dst, d.Y)
}

// GDelta reads a g-delta in either form.
func (s *Source) GDelta() (Delta, error) {
	v, err := s.Uvarint()
	if err != nil {
		return Delta{}, err
	}
	if v&1 == 0 {
		return fromDirection(int(v>>1&7), v>>4), nil
	}

	x := int64(v >> 2) //nolint: gosec
	if v&2 != 0 {
		x = -x
	}
	y, err := s.Svarint()
	if err != nil {
		return Delta{}, err
	}

	return Delta{X: x, Y: y}, nil
}

// append2Delta appends a Manhattan delta as (magnitude<<2 | direction).
func append2Delta(dst []byte, d Delta) ([]byte, error) {
	if !d.IsManhattan() {
		return dst, fmt.Errorf("%w: (%d,%d) is not a 2-delta", errs.ErrInvalidDelta, d.X, d.Y)
	}
	dir, mag := octDirection(d)

	return AppendUvarint(dst, mag<<2|uint64(dir)), nil
}

func (s *Source) read2Delta() (Delta, error) {
	v, err := s.Uvarint()
	if err != nil {
		return Delta{}, err
	}

	return fromDirection(int(v&3), v>>2), nil
}

// append3Delta appends an octangular delta as (magnitude<<3 | direction).
func append3Delta(dst []byte, d Delta) ([]byte, error) {
	if !d.IsOctangular() {
		return dst, fmt.Errorf("%w: (%d,%d) is not a 3-delta", errs.ErrInvalidDelta, d.X, d.Y)
	}
	dir, mag := octDirection(d)

	return AppendUvarint(dst, mag<<3|uint64(dir)), nil
}

func (s *Source) read3Delta() (Delta, error) {
	v, err := s.Uvarint()
	if err != nil {
		return Delta{}, err
	}

	return fromDirection(int(v&7), v>>3), nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}

	return v
}
