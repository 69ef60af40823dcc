// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softfloat

// normalizeMantissa returns the significand of the finite non-zero value u
// with the leading bit at position 23, and the matching exponent. The
// exponent is zero or negative for subnormals.
func normalizeMantissa(u uint32, e int32) (uint32, int32) {
	if e != 0 {
		return u&MantissaMask | hiddenBit, e
	}
	for i := u << 9; i>>31 == 0; i <<= 1 {
		e--
	}
	// The shift drops the sign bit.
	return u << uint32(-e+1), e
}

// denormalizeMantissa is the reverse of normalizeMantissa.
func denormalizeMantissa(m uint32, e int32) uint32 {
	if e > 0 {
		return m - hiddenBit | uint32(e)<<ExponentOffset
	}
	return m >> uint32(-e+1)
}

// Fmod returns the remainder of x/y with the quotient truncated toward zero.
// The result has the sign of x and is exact.
//
// Special cases are:
//
//	Fmod(±Inf, y) = NaN
//	Fmod(x, ±0) = NaN
//	Fmod(x, ±Inf) = x for finite x
//	Fmod(±0, y) = ±0 for y != 0
func Fmod(x, y F32) F32 {
	ux, uy := uint32(x), uint32(y)
	ex, ey := x.exp(), y.exp()
	sx := ux & signMask
	if uy<<1 == 0 || y.IsNaN() || ex == ExponentMask {
		if x.IsNaN() || y.IsNaN() {
			return propagateNaN(x, y)
		}
		return NaN
	}
	if ux<<1 <= uy<<1 {
		if ux<<1 == uy<<1 {
			return F32(sx)
		}
		return x
	}

	mx, ex := normalizeMantissa(ux, ex)
	my, ey := normalizeMantissa(uy, ey)

	// Binary long division; only the remainder is kept.
	for ; ex > ey; ex-- {
		if i := mx - my; i>>31 == 0 {
			if i == 0 {
				return F32(sx)
			}
			mx = i
		}
		mx <<= 1
	}
	if i := mx - my; i>>31 == 0 {
		if i == 0 {
			return F32(sx)
		}
		mx = i
	}
	for ; mx>>ExponentOffset == 0; mx <<= 1 {
		ex--
	}
	return F32(denormalizeMantissa(mx, ex) | sx)
}

// Remquo returns the IEEE 754 remainder of x/y, where the quotient is rounded
// to nearest even, and the low 31 bits of the integral quotient with the sign
// of x/y.
//
// The remainder is NaN with a zero quotient when y is zero, x is infinite or
// either is NaN.
func Remquo(x, y F32) (F32, int32) {
	ux, uy := uint32(x), uint32(y)
	ex, ey := x.exp(), y.exp()
	sx, sy := ux>>SignOffset, uy>>SignOffset
	if uy<<1 == 0 || y.IsNaN() || ex == ExponentMask {
		if x.IsNaN() || y.IsNaN() {
			return propagateNaN(x, y), 0
		}
		return NaN, 0
	}
	if ux<<1 == 0 {
		return x, 0
	}

	mx, ex := normalizeMantissa(ux, ex)
	my, ey := normalizeMantissa(uy, ey)

	var q uint32
	if ex < ey {
		if ex+1 != ey {
			// |x| < |y|/2.
			return x, 0
		}
	} else {
		for ; ex > ey; ex-- {
			if i := mx - my; i>>31 == 0 {
				mx = i
				q++
			}
			mx <<= 1
			q <<= 1
		}
		if i := mx - my; i>>31 == 0 {
			mx = i
			q++
		}
		if mx == 0 {
			ex = -30
		} else {
			for ; mx>>ExponentOffset == 0; mx <<= 1 {
				ex--
			}
		}
	}

	// Decide between |r| and |r|-|y|.
	r := F32(denormalizeMantissa(mx, ex))
	ay := y.abs()
	if ex == ey || (ex+1 == ey && (r.Add(r).Gt(ay) || (r.Add(r).Eq(ay) && q&1 != 0))) {
		r = r.Sub(ay)
		q++
	}
	q &= 0x7FFFFFFF
	quo := int32(q)
	if sx != sy {
		quo = -quo
	}
	if sx != 0 {
		r = r.Neg()
	}
	return r, quo
}

// Remainder returns the IEEE 754 remainder of x/y.
func Remainder(x, y F32) F32 {
	r, _ := Remquo(x, y)
	return r
}
