// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softfloat

const (
	four    F32 = 0x40800000
	sixteen F32 = 0x41800000
	// 5*Pi*Pi as computed in binary32.
	fivePiSquared F32 = 0x42456461
)

// Sin returns the sine of x, in radians.
//
// It uses Bhaskara I's rational approximation
// 16x(π-x) / (5π² - 4x(π-x)) on [0, π], with an absolute error below 0.0017.
// Results are fast and deterministic but not correctly rounded.
//
// Special cases are:
//
//	Sin(±0) = ±0
//	Sin(±Inf) = NaN
//	Sin(NaN) = NaN
func Sin(x F32) F32 {
	if !x.IsFinite() {
		if x.IsNaN() {
			return x.quiet()
		}
		return NaN
	}
	x = Fmod(x, TwoPi)
	if x.Lt(Zero) {
		x = x.Add(TwoPi)
	}
	negative := false
	if x.Gt(Pi) {
		x = x.Sub(Pi)
		negative = true
	}
	p := x.Mul(Pi.Sub(x))
	r := sixteen.Mul(p).Div(fivePiSquared.Sub(four.Mul(p)))
	if negative {
		return r.Neg()
	}
	return r
}

// Cos returns the cosine of x, in radians. It is Sin(x + π/2).
func Cos(x F32) F32 {
	return Sin(x.Add(HalfPi))
}

// Tan returns the tangent of x, in radians. It is Sin(x) / Cos(x).
func Tan(x F32) F32 {
	return Sin(x).Div(Cos(x))
}
