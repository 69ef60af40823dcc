// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softfloat

const (
	logLn2Hi F32 = 0x3F317180
	logLn2Lo F32 = 0x3717F7D1
	// |(log(1+s)-log(1-s))/s - Lg(s)| < 2**-34.24 (~[-4.95e-11, 4.97e-11]).
	logLg1 F32 = 0x3F2AAAAA
	logLg2 F32 = 0x3ECCCE13
	logLg3 F32 = 0x3E91E9EE
	logLg4 F32 = 0x3E789E26

	log2InvLn2Hi F32 = 0x3FB8B000
	log2InvLn2Lo F32 = 0xB9389AD4
)

// logReduce reduces x to 2^k * (1+f) with sqrt(2)/2 <= 1+f < sqrt(2).
//
// It returns done == true with the final result for the special cases.
func logReduce(x F32) (k int32, f, result F32, done bool) {
	ix := uint32(x)
	if ix < hiddenBit || ix>>SignOffset != 0 {
		switch {
		case ix<<1 == 0:
			return 0, 0, NegativeInfinity, true
		case x.IsNaN():
			return 0, 0, x.quiet(), true
		case ix>>SignOffset != 0:
			return 0, 0, NaN, true
		}
		// Subnormal: scale up by 2^25.
		k = -25
		x = x.Mul(0x4C000000)
		ix = uint32(x)
	} else if ix >= expField {
		if x.IsNaN() {
			return 0, 0, x.quiet(), true
		}
		return 0, 0, x, true
	} else if x == One {
		return 0, 0, Zero, true
	}

	ix += uint32(One) - 0x3F3504F3
	k += int32(ix>>ExponentOffset) - ExponentBias
	ix = ix&MantissaMask + 0x3F3504F3
	return k, F32(ix).Sub(One), 0, false
}

// logPoly returns s and R(s²) for log(1+f) = f - f²/2 + s*(f²/2 + R).
func logPoly(f F32) (s, r F32) {
	s = f.Div(Two.Add(f))
	z := s.Mul(s)
	w := z.Mul(z)
	t1 := w.Mul(logLg2.Add(w.Mul(logLg4)))
	t2 := z.Mul(logLg1.Add(w.Mul(logLg3)))
	return s, t2.Add(t1)
}

// Log returns the natural logarithm of x.
//
// Special cases are:
//
//	Log(+Inf) = +Inf
//	Log(±0) = -Inf
//	Log(x < 0) = NaN
//	Log(1) = +0
//	Log(NaN) = NaN
func Log(x F32) F32 {
	k, f, result, done := logReduce(x)
	if done {
		return result
	}
	s, r := logPoly(f)
	hfsq := Half.Mul(f).Mul(f)
	dk := FromInt(k)
	return s.Mul(hfsq.Add(r)).Add(dk.Mul(logLn2Lo)).Sub(hfsq).Add(f).Add(dk.Mul(logLn2Hi))
}

// Log2 returns the binary logarithm of x. It is exact for powers of two.
//
// The special cases are the same as for Log.
func Log2(x F32) F32 {
	k, f, result, done := logReduce(x)
	if done {
		return result
	}
	s, r := logPoly(f)
	hfsq := Half.Mul(f).Mul(f)
	// f-hfsq is split so that hi*log2InvLn2Hi is exact.
	hi := f.Sub(hfsq) & 0xFFFFF000
	lo := f.Sub(hi).Sub(hfsq).Add(s.Mul(hfsq.Add(r)))
	return lo.Add(hi).Mul(log2InvLn2Lo).Add(lo.Mul(log2InvLn2Hi)).Add(hi.Mul(log2InvLn2Hi)).Add(FromInt(k))
}
