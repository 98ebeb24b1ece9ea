package gdsii

import "math"

const (
	real8Bias     = 64
	real8Mantissa = 56
	real8MaskMant = 1<<real8Mantissa - 1
)

// decodeReal8 converts a GDSII eight-byte real: a sign bit, a seven-bit
// base-16 exponent biased by 64 and a 56-bit fraction.
func decodeReal8(bits uint64) float64 {
	mant := bits & real8MaskMant
	if mant == 0 {
		return 0
	}
	exp := int(bits>>real8Mantissa) & 0x7f
	v := math.Ldexp(float64(mant), 4*(exp-real8Bias)-real8Mantissa)
	if bits>>63 != 0 {
		return -v
	}

	return v
}

// encodeReal8 converts v to a GDSII eight-byte real. Values beyond the
// format's range saturate; values too small for it become zero.
func encodeReal8(v float64) uint64 {
	if v == 0 || math.IsNaN(v) {
		return 0
	}

	var sign uint64
	if v < 0 {
		sign = 1 << 63
		v = -v
	}

	// v = frac * 2^e2 with frac in [0.5, 1); regroup into base 16.
	frac, e2 := math.Frexp(v)
	exp := (e2 + 3) / 4
	if e2+3 < 0 && (e2+3)%4 != 0 {
		exp--
	}
	shift := e2 - 4*exp // in [-3, 0]
	mant := uint64(math.Round(math.Ldexp(frac, real8Mantissa+shift)))
	if mant > real8MaskMant {
		mant >>= 4
		exp++
	}

	exp += real8Bias
	switch {
	case exp > 0x7f:
		return sign | 0x7f<<real8Mantissa | real8MaskMant
	case exp < 0:
		return 0
	}

	return sign | uint64(exp)<<real8Mantissa | mant //nolint: gosec
}
