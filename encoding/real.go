package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/maskio/endian"
	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
)

// realEngine is the byte order of IEEE-754 reals (types 6 and 7).
var realEngine = endian.GetLittleEndianEngine()

// maxExactInteger bounds the float64 values written as whole numbers.
const maxExactInteger = 1 << 63

// AppendReal appends v in the most compact lossless real encoding:
// whole numbers as type 0/1, exact reciprocals of whole numbers as type 2/3,
// everything else as an IEEE-754 double (type 7).
func AppendReal(dst []byte, v float64) []byte {
	if isWhole(v) {
		if v >= 0 {
			dst = AppendUvarint(dst, uint64(format.RealPositiveInteger))
			return AppendUvarint(dst, uint64(v))
		}
		dst = AppendUvarint(dst, uint64(format.RealNegativeInteger))

		return AppendUvarint(dst, uint64(-v))
	}

	if v != 0 && !math.IsInf(v, 0) && !math.IsNaN(v) {
		r := 1 / v
		if isWhole(r) && 1/r == v {
			if r > 0 {
				dst = AppendUvarint(dst, uint64(format.RealPositiveReciprocal))
				return AppendUvarint(dst, uint64(r))
			}
			dst = AppendUvarint(dst, uint64(format.RealNegativeReciprocal))

			return AppendUvarint(dst, uint64(-r))
		}
	}

	dst = AppendUvarint(dst, uint64(format.RealFloat64))

	return realEngine.AppendUint64(dst, math.Float64bits(v))
}

// AppendRatio appends num/den as a type 4 (or type 5 when negative) real.
func AppendRatio(dst []byte, num, den uint64, negative bool) []byte {
	typ := format.RealPositiveRatio
	if negative {
		typ = format.RealNegativeRatio
	}
	dst = AppendUvarint(dst, uint64(typ))
	dst = AppendUvarint(dst, num)

	return AppendUvarint(dst, den)
}

// AppendFloat32 appends v as a type 6 real.
func AppendFloat32(dst []byte, v float32) []byte {
	dst = AppendUvarint(dst, uint64(format.RealFloat32))
	return realEngine.AppendUint32(dst, math.Float32bits(v))
}

func isWhole(v float64) bool {
	return v == math.Trunc(v) && math.Abs(v) < maxExactInteger
}

// Real reads a real number with its leading type.
func (s *Source) Real() (float64, error) {
	typ, err := s.Uvarint()
	if err != nil {
		return 0, err
	}
	if typ > uint64(format.RealFloat64) {
		return 0, fmt.Errorf("%w: %d", errs.ErrUnknownRealType, typ)
	}

	return s.RealOfType(format.RealType(typ))
}

// RealOfType reads the payload of a real whose type is already known, as in
// property values where the value type doubles as the real type.
func (s *Source) RealOfType(typ format.RealType) (float64, error) {
	switch typ {
	case format.RealPositiveInteger, format.RealNegativeInteger:
		v, err := s.Uvarint()
		if err != nil {
			return 0, err
		}
		if typ == format.RealNegativeInteger {
			return -float64(v), nil
		}

		return float64(v), nil
	case format.RealPositiveReciprocal, format.RealNegativeReciprocal:
		v, err := s.Uvarint()
		if err != nil {
			return 0, err
		}
		if typ == format.RealNegativeReciprocal {
			return -1 / float64(v), nil
		}

		return 1 / float64(v), nil
	case format.RealPositiveRatio, format.RealNegativeRatio:
		num, err := s.Uvarint()
		if err != nil {
			return 0, err
		}
		den, err := s.Uvarint()
		if err != nil {
			return 0, err
		}
		if typ == format.RealNegativeRatio {
			return -float64(num) / float64(den), nil
		}

		return float64(num) / float64(den), nil
	case format.RealFloat32:
		b, err := s.Next(4)
		if err != nil {
			return 0, err
		}

		return float64(math.Float32frombits(realEngine.Uint32(b))), nil
	case format.RealFloat64:
		b, err := s.Next(8)
		if err != nil {
			return 0, err
		}

		return math.Float64frombits(realEngine.Uint64(b)), nil
	default:
		return 0, fmt.Errorf("%w: %d", errs.ErrUnknownRealType, typ)
	}
}
