// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softfloat

// Hypot returns sqrt(x*x + y*y) without undue overflow or underflow.
//
// It is not correctly rounded: about 1 in 10^4 results is 1 ULP off the
// exact value. The result is the same on every host.
//
// Special cases are:
//
//	Hypot(±Inf, y) = +Inf, even if y is NaN
//	Hypot(x, ±Inf) = +Inf, even if x is NaN
//	Hypot(NaN, y) = NaN
//	Hypot(x, NaN) = NaN
func Hypot(x, y F32) F32 {
	a, b := x.abs(), y.abs()
	if b > a {
		a, b = b, a
	}
	ha, hb := uint32(a), uint32(b)
	if ha-hb > 0x0F000000 {
		// a/b > 2^30: b is negligible.
		return a.Add(b)
	}

	k := int32(0)
	if ha > 0x58800000 {
		// a > 2^50.
		if ha >= expField {
			w := a.Add(b)
			if ha == expField {
				w = a
			}
			if hb == expField {
				w = b
			}
			return w
		}
		// Scale a and b by 2^-68.
		ha -= 0x22000000
		hb -= 0x22000000
		k += 68
		a, b = F32(ha), F32(hb)
	}
	if hb < 0x26800000 {
		// b < 2^-50.
		if hb <= MantissaMask {
			// Subnormal b or zero.
			if hb == 0 {
				return a
			}
			const twoP126 F32 = 0x7E800000
			a = a.Mul(twoP126)
			b = b.Mul(twoP126)
			k -= 126
			if b > a {
				a, b = b, a
			}
			ha, hb = uint32(a), uint32(b)
		} else {
			// Scale a and b by 2^68.
			ha += 0x22000000
			hb += 0x22000000
			k -= 68
			a, b = F32(ha), F32(hb)
		}
	}

	// Medium size a and b.
	w := a.Sub(b)
	if w.Gt(b) {
		t1 := F32(ha & 0xFFFFF000)
		t2 := a.Sub(t1)
		w = Sqrt(t1.Mul(t1).Sub(b.Mul(b.Neg()).Sub(t2.Mul(a.Add(t1)))))
	} else {
		a = a.Add(a)
		y1 := F32(hb & 0xFFFFF000)
		y2 := b.Sub(y1)
		t1 := F32((ha + hiddenBit) & 0xFFFFF000)
		t2 := a.Sub(t1)
		w = Sqrt(t1.Mul(y1).Sub(w.Mul(w.Neg()).Sub(t1.Mul(y2).Add(t2.Mul(b)))))
	}
	if k != 0 {
		return F32(uint32(ExponentBias+k) << ExponentOffset).Mul(w)
	}
	return w
}
