package encoding

import (
	"github.com/arloliu/maskio/errs"
)

// maxVarintLen64 is the longest LEB128 encoding of a 64-bit value.
const maxVarintLen64 = 10

// AppendUvarint appends v as an OASIS unsigned integer (LEB128, low group first).
func AppendUvarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}

	return append(dst, byte(v))
}

// AppendSvarint appends v as an OASIS signed integer.
//
// The sign is stored in the low bit and the magnitude in the remaining bits,
// so -1 encodes as 3 and 1 as 2.
func AppendSvarint(dst []byte, v int64) []byte {
	return AppendUvarint(dst, signMagnitude(v))
}

func signMagnitude(v int64) uint64 {
	if v < 0 {
		return uint64(-(v+1))<<1 + 3 //nolint: gosec
	}

	return uint64(v) << 1 //nolint: gosec
}

// UvarintLen returns the encoded size of v.
func UvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}

	return n
}

// Uvarint reads an OASIS unsigned integer.
func (s *Source) Uvarint() (uint64, error) {
	b, err := s.ReadByte()
	if err != nil {
		return 0, err
	}
	if b < 0x80 {
		return uint64(b), nil
	}

	value := uint64(b & 0x7f)
	shift := uint(7)
	for i := 1; i < maxVarintLen64; i++ {
		b, err = s.ReadByte()
		if err != nil {
			return 0, err
		}
		if i == maxVarintLen64-1 && b > 1 {
			return 0, errs.ErrVarintOverflow
		}
		value |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return value, nil
		}
		shift += 7
	}

	return 0, errs.ErrVarintOverflow
}

// Svarint reads an OASIS signed integer: low bit sign, remaining bits magnitude.
func (s *Source) Svarint() (int64, error) {
	u, err := s.Uvarint()
	if err != nil {
		return 0, err
	}

	return decodeSignMagnitude(u), nil
}

func decodeSignMagnitude(u uint64) int64 {
	mag := int64(u >> 1) //nolint: gosec
	if u&1 != 0 {
		return -mag
	}

	return mag
}

// UvarintInt reads an unsigned integer that must fit in an int, used for
// counts and lengths.
func (s *Source) UvarintInt() (int, error) {
	v, err := s.Uvarint()
	if err != nil {
		return 0, err
	}
	if v > uint64(maxInt) {
		return 0, errs.ErrVarintOverflow
	}

	return int(v), nil
}

const maxInt = int(^uint(0) >> 1)
