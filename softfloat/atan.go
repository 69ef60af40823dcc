// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softfloat

var (
	// atan(0.5), atan(1), atan(1.5), atan(Inf) split in hi+lo.
	atanHi = [4]F32{0x3EED6338, 0x3F490FDA, 0x3F7B985E, 0x3FC90FDA}
	atanLo = [4]F32{0x31AC3769, 0x33222168, 0x33140FB4, 0x33A22168}
	atanT  = [5]F32{0x3EAAAAA9, 0xBE4CCA98, 0x3E11F50D, 0xBDDA1247, 0x3D7CAC25}
)

const (
	onePointFive   F32 = 0x3FC00000
	quarterPi      F32 = 0x3F490FDB
	threeQuarterPi F32 = 0x4016CBE4
	// Low part of Pi.
	piLo F32 = 0xB3BBBD2E
)

// Atan returns the arctangent of x, in radians, in [-π/2, π/2].
//
// Special cases are:
//
//	Atan(±0) = ±0
//	Atan(±Inf) = ±π/2
func Atan(x F32) F32 {
	ix := uint32(x)
	negative := ix>>SignOffset != 0
	ix &= absMask
	if ix >= 0x4C800000 {
		// |x| >= 2^26.
		if x.IsNaN() {
			return x.quiet()
		}
		if negative {
			return atanHi[3].Neg()
		}
		return atanHi[3]
	}

	id := -1
	if ix < 0x3EE00000 {
		// |x| < 7/16.
		if ix < 0x39800000 {
			// |x| < 2^-12.
			return x
		}
	} else {
		x = x.abs()
		switch {
		case ix < 0x3F300000:
			// 7/16 <= |x| < 11/16.
			id = 0
			x = Two.Mul(x).Sub(One).Div(Two.Add(x))
		case ix < 0x3F980000:
			// 11/16 <= |x| < 19/16.
			id = 1
			x = x.Sub(One).Div(x.Add(One))
		case ix < 0x401C0000:
			// |x| < 2.4375.
			id = 2
			x = x.Sub(onePointFive).Div(One.Add(onePointFive.Mul(x)))
		default:
			id = 3
			x = NegOne.Div(x)
		}
	}

	// Odd and even terms of the polynomial evaluated separately.
	z := x.Mul(x)
	w := z.Mul(z)
	s1 := z.Mul(atanT[0].Add(w.Mul(atanT[2].Add(w.Mul(atanT[4])))))
	s2 := w.Mul(atanT[1].Add(w.Mul(atanT[3])))
	if id < 0 {
		return x.Sub(x.Mul(s1.Add(s2)))
	}
	z = atanHi[id].Sub(x.Mul(s1.Add(s2)).Sub(atanLo[id]).Sub(x))
	if negative {
		return z.Neg()
	}
	return z
}

// Atan2 returns the arctangent of y/x, using the signs of both to determine
// the quadrant. The result is in [-π, π].
//
// Special cases are:
//
//	Atan2(y, NaN) = NaN
//	Atan2(NaN, x) = NaN
//	Atan2(+0, x>=0) = +0
//	Atan2(-0, x>=0) = -0
//	Atan2(+0, x<=-0) = +π
//	Atan2(-0, x<=-0) = -π
//	Atan2(y>0, 0) = +π/2
//	Atan2(y<0, 0) = -π/2
//	Atan2(+Inf, +Inf) = +π/4
//	Atan2(-Inf, +Inf) = -π/4
//	Atan2(+Inf, -Inf) = 3π/4
//	Atan2(-Inf, -Inf) = -3π/4
//	Atan2(y, +Inf) = 0
//	Atan2(y>0, -Inf) = +π
//	Atan2(y<0, -Inf) = -π
//	Atan2(+Inf, x) = +π/2
//	Atan2(-Inf, x) = -π/2
func Atan2(y, x F32) F32 {
	if x.IsNaN() || y.IsNaN() {
		return propagateNaN(x, y)
	}
	ix, iy := uint32(x), uint32(y)
	if ix == uint32(One) {
		return Atan(y)
	}
	// Quadrant: bit 0 is the sign of y, bit 1 the sign of x.
	m := iy>>SignOffset&1 | ix>>30&2
	ix &= absMask
	iy &= absMask

	if iy == 0 {
		switch m {
		case 0, 1:
			return y
		case 2:
			return Pi
		default:
			return Pi.Neg()
		}
	}
	if ix == 0 {
		if m&1 != 0 {
			return HalfPi.Neg()
		}
		return HalfPi
	}
	if ix == expField {
		if iy == expField {
			switch m {
			case 0:
				return quarterPi
			case 1:
				return quarterPi.Neg()
			case 2:
				return threeQuarterPi
			default:
				return threeQuarterPi.Neg()
			}
		}
		switch m {
		case 0:
			return Zero
		case 1:
			return NegZero
		case 2:
			return Pi
		default:
			return Pi.Neg()
		}
	}
	// |y/x| > 2^26 or y is infinite.
	if ix+26<<ExponentOffset < iy || iy == expField {
		if m&1 != 0 {
			return HalfPi.Neg()
		}
		return HalfPi
	}

	var z F32
	if m&2 != 0 && iy+26<<ExponentOffset < ix {
		// |y/x| < 2^-26 and x < 0.
		z = Zero
	} else {
		z = Atan(y.Div(x).abs())
	}
	switch m {
	case 0:
		return z
	case 1:
		return z.Neg()
	case 2:
		return Pi.Sub(z.Sub(piLo))
	default:
		return z.Sub(piLo).Sub(Pi)
	}
}
