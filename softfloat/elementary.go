// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softfloat

// Abs returns |x|. NaN payloads are kept.
func Abs(x F32) F32 {
	return x.abs()
}

// Sign returns ±1 with the sign of x. Zeros and NaNs are returned as is.
func Sign(x F32) F32 {
	if x.IsZero() || x.IsNaN() {
		return x
	}
	return (x & signMask) | One
}

// Min returns the smaller of x and y.
//
// The NaN handling is asymmetric: a NaN x is returned as is, while a NaN y is
// ignored and x is returned. Ties, including -0 versus +0, return x.
func Min(x, y F32) F32 {
	if x.IsNaN() {
		return x
	}
	if y.Lt(x) {
		return y
	}
	return x
}

// Max returns the larger of x and y, with the same NaN and tie rules as Min.
func Max(x, y F32) F32 {
	if x.IsNaN() {
		return x
	}
	if y.Gt(x) {
		return y
	}
	return x
}

// Rounding functions. They all derive the unbiased exponent e: e >= 23 means
// the value is already integral (or not finite), e < 0 means |x| < 1;
// otherwise the low 23-e bits of the mantissa are the fraction.

// Floor returns the greatest integral value less than or equal to x.
func Floor(x F32) F32 {
	e := x.exp() - ExponentBias
	if e >= ExponentOffset {
		return x
	}
	u := uint32(x)
	if e >= 0 {
		m := uint32(MantissaMask) >> uint32(e)
		if u&m == 0 {
			return x
		}
		if x.signBit() {
			u += m
		}
		return F32(u &^ m)
	}
	switch {
	case !x.signBit():
		return Zero
	case x.IsZero():
		return x
	default:
		return NegOne
	}
}

// Ceil returns the least integral value greater than or equal to x.
func Ceil(x F32) F32 {
	e := x.exp() - ExponentBias
	if e >= ExponentOffset {
		return x
	}
	u := uint32(x)
	if e >= 0 {
		m := uint32(MantissaMask) >> uint32(e)
		if u&m == 0 {
			return x
		}
		if !x.signBit() {
			u += m
		}
		return F32(u &^ m)
	}
	switch {
	case x.signBit():
		return NegZero
	case x.IsZero():
		return x
	default:
		return One
	}
}

// Trunc returns the integral part of x, rounding toward zero.
func Trunc(x F32) F32 {
	e := x.exp() - ExponentBias
	if e >= ExponentOffset {
		return x
	}
	if e < 0 {
		return x & signMask
	}
	m := uint32(MantissaMask) >> uint32(e)
	return F32(uint32(x) &^ m)
}

// Round returns the nearest integral value, rounding half away from zero.
func Round(x F32) F32 {
	e := x.exp() - ExponentBias
	if e >= ExponentOffset {
		return x
	}
	switch {
	case e == -1:
		// 0.5 <= |x| < 1.
		return (x & signMask) | One
	case e < 0:
		return x & signMask
	}
	u := uint32(x)
	m := uint32(MantissaMask) >> uint32(e)
	if u&m == 0 {
		return x
	}
	// Adding half an integral unit carries into the integral part, possibly
	// into the exponent.
	u += uint32(quietBit) >> uint32(e)
	return F32(u &^ m)
}

// RoundToEven returns the nearest integral value, rounding half to even.
func RoundToEven(x F32) F32 {
	e := x.exp() - ExponentBias
	if e >= ExponentOffset {
		return x
	}
	switch {
	case e == -1:
		if x.abs() == Half {
			return x & signMask
		}
		return (x & signMask) | One
	case e < 0:
		return x & signMask
	}
	u := uint32(x)
	m := uint32(MantissaMask) >> uint32(e)
	if u&m == 0 {
		return x
	}
	half := uint32(quietBit) >> uint32(e)
	odd := (u >> uint32(ExponentOffset-e)) & 1
	u += half - 1 + odd
	return F32(u &^ m)
}
