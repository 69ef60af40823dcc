// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softfloat

// Scalbn returns x * 2^n, rounding once if the result is subnormal.
func Scalbn(x F32, n int) F32 {
	const (
		// 2^127.
		big F32 = 0x7F000000
		// 2^-126 * 2^24, keeping 24 bits of precision in the intermediate
		// result.
		small F32 = 0x0C800000
	)
	y := x
	if n > 127 {
		y = y.Mul(big)
		n -= 127
		if n > 127 {
			y = y.Mul(big)
			n -= 127
			if n > 127 {
				n = 127
			}
		}
	} else if n < -126 {
		y = y.Mul(small)
		n += 126 - 24
		if n < -126 {
			y = y.Mul(small)
			n += 126 - 24
			if n < -126 {
				n = -126
			}
		}
	}
	return y.Mul(F32(uint32(ExponentBias+n) << ExponentOffset))
}

// Ldexp is an alias of Scalbn.
func Ldexp(frac F32, exp int) F32 {
	return Scalbn(frac, exp)
}

// Frexp breaks f into a normalized fraction in [0.5, 1) and an integral power
// of two, so that f == frac * 2^exp. Zeros, infinities and NaNs are returned
// as is with a zero exponent.
func Frexp(f F32) (F32, int) {
	e := f.exp()
	switch {
	case e == ExponentMask || f.IsZero():
		return f, 0
	case e == 0:
		ne, sig := normSubnormal(f.frac())
		return F32(uint32(f)&signMask|(ExponentBias-1)<<ExponentOffset|sig&MantissaMask), int(ne) - ExponentBias + 1
	}
	return F32(uint32(f)&^expField | (ExponentBias-1)<<ExponentOffset), int(e) - ExponentBias + 1
}

var expHalf = [2]F32{Half, 0xBF000000}

const (
	expLn2Hi  F32 = 0x3F317200
	expLn2Lo  F32 = 0x35BFBE8E
	expInvLn2 F32 = 0x3FB8AA3B
	// Remez polynomial for (x*(exp(x)+1)/(exp(x)-1) - 2) on [-ln2/2, ln2/2].
	expP1 F32 = 0x3E2AAA8F
	expP2 F32 = 0xBB355215
)

// Exp returns e^x.
//
// The argument is reduced to x = k*ln2 + r with |r| <= ln2/2, then
// exp(x) = 2^k * exp(r) with exp(r) from a rational approximation.
//
// Special cases are:
//
//	Exp(+Inf) = +Inf
//	Exp(-Inf) = 0
//	Exp(NaN) = NaN
//
// Values larger than 88.72 overflow to +Inf and values smaller than -103.97
// underflow to 0.
func Exp(x F32) F32 {
	hx := uint32(x)
	sign := hx >> SignOffset
	hx &= absMask

	if hx >= 0x42AEAC50 {
		// |x| >= 87.33655.
		if hx > expField {
			return x.quiet()
		}
		if hx >= 0x42B17218 && sign == 0 {
			// x >= 88.722839: overflow.
			return x.Mul(0x7F000000)
		}
		if sign != 0 && hx >= 0x42CFF1B5 {
			// x <= -103.972084: underflow.
			return Zero
		}
	}

	var k int32
	var hi, lo F32
	switch {
	case hx > 0x3EB17218:
		// |x| > ln2/2.
		if hx > 0x3F851592 {
			// |x| > 1.5*ln2.
			k = expInvLn2.Mul(x).Add(expHalf[sign]).Int()
		} else {
			k = 1 - int32(sign) - int32(sign)
		}
		kf := FromInt(k)
		hi = x.Sub(kf.Mul(expLn2Hi))
		lo = kf.Mul(expLn2Lo)
		x = hi.Sub(lo)
	case hx > 0x39000000:
		// |x| > 2^-14.
		hi = x
	default:
		return One.Add(x)
	}

	xx := x.Mul(x)
	c := x.Sub(xx.Mul(expP1.Add(xx.Mul(expP2))))
	y := One.Add(x.Mul(c).Div(Two.Sub(c)).Sub(lo).Add(hi))
	if k == 0 {
		return y
	}
	return Scalbn(y, int(k))
}
