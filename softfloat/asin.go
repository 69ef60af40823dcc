// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softfloat

const (
	// π/2 split in hi+lo; hi is rounded down.
	acosPio2Hi F32 = 0x3FC90FDA
	acosPio2Lo F32 = 0x33A22168
	// π/2 split in hi+lo; hi is rounded to nearest.
	asinPio2Hi F32 = 0x3FC90FDB
	asinPio2Lo F32 = 0xB33BBD2E
	asinPio4Hi F32 = 0x3F490FDB

	// Coefficients of the rational approximation R(z).
	asinPS0 F32 = 0x3E2AAA75
	asinPS1 F32 = 0xBD2F13BA
	asinPS2 F32 = 0xBC0DD36B
	asinQS1 F32 = 0xBF34E5AE
)

// asinR returns R(z) such that asin(x) ~= x + x*R(x²).
func asinR(z F32) F32 {
	p := z.Mul(asinPS0.Add(z.Mul(asinPS1.Add(z.Mul(asinPS2)))))
	q := One.Add(z.Mul(asinQS1))
	return p.Div(q)
}

// Asin returns the arcsine of x, in radians, in [-π/2, π/2].
//
// Special cases are:
//
//	Asin(±0) = ±0
//	Asin(x) = NaN if x < -1 or x > 1
func Asin(x F32) F32 {
	hx := uint32(x)
	ix := hx & absMask
	if ix >= uint32(One) {
		if ix == uint32(One) {
			return x.Mul(asinPio2Hi)
		}
		if x.IsNaN() {
			return x.quiet()
		}
		return NaN
	}
	if ix < uint32(Half) {
		if ix < 0x39800000 {
			// |x| < 2^-12.
			return x
		}
		return x.Add(x.Mul(asinR(x.Mul(x))))
	}

	// asin(x) = π/2 - 2*asin(sqrt((1-|x|)/2)).
	t := One.Sub(x.abs()).Mul(Half)
	s := Sqrt(t)
	var r F32
	if ix >= 0x3F79999A {
		// |x| > 0.975.
		r = asinPio2Hi.Sub(Two.Mul(s.Add(s.Mul(asinR(t)))).Sub(asinPio2Lo))
	} else {
		// Split s in hi+lo so that 2*(hi+lo)*... keeps the precision.
		w := s & 0xFFFFF000
		c := t.Sub(w.Mul(w)).Div(s.Add(w))
		p := Two.Mul(s).Mul(asinR(t)).Sub(asinPio2Lo.Sub(Two.Mul(c)))
		q := asinPio4Hi.Sub(Two.Mul(w))
		r = asinPio4Hi.Sub(p.Sub(q))
	}
	if hx>>SignOffset != 0 {
		return r.Neg()
	}
	return r
}

// Acos returns the arccosine of x, in radians, in [0, π].
//
// Special cases are:
//
//	Acos(1) = +0
//	Acos(x) = NaN if x < -1 or x > 1
func Acos(x F32) F32 {
	hx := uint32(x)
	ix := hx & absMask
	negative := hx>>SignOffset != 0
	if ix >= uint32(One) {
		if ix == uint32(One) {
			if negative {
				return Two.Mul(acosPio2Hi)
			}
			return Zero
		}
		if x.IsNaN() {
			return x.quiet()
		}
		return NaN
	}
	if ix < uint32(Half) {
		if ix <= 0x32800000 {
			// |x| < 2^-26.
			return acosPio2Hi
		}
		return acosPio2Hi.Sub(x.Sub(acosPio2Lo.Sub(x.Mul(asinR(x.Mul(x))))))
	}
	if negative {
		// acos(x) = π - 2*asin(sqrt((1+x)/2)).
		z := One.Add(x).Mul(Half)
		s := Sqrt(z)
		w := asinR(z).Mul(s).Sub(acosPio2Lo)
		return Two.Mul(acosPio2Hi.Sub(s.Add(w)))
	}
	// acos(x) = 2*asin(sqrt((1-x)/2)).
	z := One.Sub(x).Mul(Half)
	s := Sqrt(z)
	df := s & 0xFFFFF000
	c := z.Sub(df.Mul(df)).Div(s.Add(df))
	w := asinR(z).Mul(s).Add(c)
	return Two.Mul(df.Add(w))
}
