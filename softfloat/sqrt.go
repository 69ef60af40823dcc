// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softfloat

// Sqrt returns the correctly rounded square root of x.
//
// Special cases are:
//
//	Sqrt(+Inf) = +Inf
//	Sqrt(±0) = ±0
//	Sqrt(x < 0) = NaN
//	Sqrt(NaN) = NaN
func Sqrt(x F32) F32 {
	if uint32(x)&expField == expField {
		switch {
		case x.IsNaN():
			return x.quiet()
		case x.signBit():
			return NaN
		default:
			return x
		}
	}
	ix := int32(x)
	if ix <= 0 {
		if ix&absMask == 0 {
			return x
		}
		return NaN
	}

	m := ix >> ExponentOffset
	if m == 0 {
		i := int32(0)
		for ; ix&hiddenBit == 0; i++ {
			ix <<= 1
		}
		m -= i - 1
	}
	m -= ExponentBias
	ix = ix&MantissaMask | hiddenBit
	if m&1 != 0 {
		// Odd exponent: double the significand so the exponent halves exactly.
		ix += ix
	}
	m >>= 1

	// Generate the root one bit at a time.
	ix += ix
	var q, s int32
	for r := int32(0x01000000); r != 0; r >>= 1 {
		if t := s + r; t <= ix {
			s = t + r
			ix -= t
			q += r
		}
		ix += ix
	}

	if ix != 0 {
		// Inexact: round to nearest. A tie is not possible.
		q += q & 1
	}
	return F32(q>>1 + 0x3F000000 + m<<ExponentOffset)
}
