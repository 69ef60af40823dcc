// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softfloat

var (
	powBp  = [2]F32{One, 0x3FC00000}
	powDpH = [2]F32{Zero, 0x3F15C000} // log2(1.5) high
	powDpL = [2]F32{Zero, 0x35D1CFDC} // log2(1.5) low
)

const (
	powTwo24 F32 = 0x4B800000
	powHuge  F32 = 0x7149F2CA
	powTiny  F32 = 0x0DA24260
	powThree F32 = 0x40400000
	powThird F32 = 0x3EAAAAAB
	powQuart F32 = 0x3E800000
	// -(128-log2(ovfl+.5ulp)).
	powOvt F32 = 0x3338AA3C

	// Polynomial for log2(x) on [sqrt(2)/2, sqrt(2)].
	powL1 F32 = 0x3F19999A
	powL2 F32 = 0x3EDB6DB7
	powL3 F32 = 0x3EAAAAAB
	powL4 F32 = 0x3E8BA305
	powL5 F32 = 0x3E6C3255
	powL6 F32 = 0x3E53F142
	// Polynomial for 2^x on [-0.5, 0.5].
	powP1 F32 = 0x3E2AAAAB
	powP2 F32 = 0xBB360B61
	powP3 F32 = 0x388AB355
	powP4 F32 = 0xB5DDEA0E
	powP5 F32 = 0x3331BB4C

	powLg2    F32 = 0x3F317218
	powLg2H   F32 = 0x3F317200
	powLg2L   F32 = 0x35BFBE8C
	powCp     F32 = 0x3F76384F // 2/(3ln2)
	powCpH    F32 = 0x3F764000
	powCpL    F32 = 0xB8F623C6
	powIvln2  F32 = 0x3FB8AA3B // 1/ln2
	powIvln2H F32 = 0x3FB8AA00
	powIvln2L F32 = 0x36ECA570
)

// Classification of y for a negative x.
const (
	notInteger  = 0
	oddInteger  = 1
	evenInteger = 2
)

// Pow returns x^y.
//
// x^y is computed as 2^(y*log2(x)), with log2(x) and the product carried as
// hi+lo pairs so that the final result is within a few ulps.
//
// Special cases are:
//
//	Pow(x, ±0) = 1 for any x, even NaN
//	Pow(1, y) = 1 for any y, even NaN
//	Pow(x, 1) = x
//	Pow(NaN, y) = NaN
//	Pow(x, NaN) = NaN
//	Pow(±0, y) = ±Inf for y an odd integer < 0
//	Pow(±0, y) = +Inf for y < 0 and not an odd integer
//	Pow(±0, y) = ±0 for y an odd integer > 0
//	Pow(±0, y) = +0 for y > 0 and not an odd integer
//	Pow(-1, ±Inf) = 1
//	Pow(x, +Inf) = +Inf for |x| > 1
//	Pow(x, -Inf) = +0 for |x| > 1
//	Pow(x, +Inf) = +0 for |x| < 1
//	Pow(x, -Inf) = +Inf for |x| < 1
//	Pow(+Inf, y) = +Inf for y > 0
//	Pow(+Inf, y) = +0 for y < 0
//	Pow(-Inf, y) = Pow(-0, -y)
//	Pow(x, y) = NaN for finite x < 0 and finite non-integer y
func Pow(x, y F32) F32 {
	hx, hy := int32(x), int32(y)
	ix, iy := hx&absMask, hy&absMask

	if iy == 0 {
		return One
	}
	if x == One {
		return One
	}
	if ix > expField || iy > expField {
		return propagateNaN(x, y)
	}

	yisint := notInteger
	if hx < 0 {
		if iy >= 0x4B800000 {
			// |y| >= 2^24: every such value is an even integer.
			yisint = evenInteger
		} else if iy >= int32(One) {
			k := iy>>ExponentOffset - ExponentBias
			j := iy >> uint32(ExponentOffset-k)
			if j<<uint32(ExponentOffset-k) == iy {
				yisint = evenInteger - int(j&1)
			}
		}
	}

	// y is ±Inf.
	if iy == expField {
		switch {
		case ix == int32(One):
			return One
		case ix > int32(One):
			if hy >= 0 {
				return y
			}
			return Zero
		case hy >= 0:
			return Zero
		default:
			return y.Neg()
		}
	}
	if iy == int32(One) {
		if hy >= 0 {
			return x
		}
		return One.Div(x)
	}
	if hy == int32(Two) {
		return x.Mul(x)
	}
	if hy == int32(Half) && hx >= 0 {
		return Sqrt(x)
	}

	ax := x.abs()
	// x is ±0, ±Inf or ±1.
	if ix == expField || ix == 0 || ix == int32(One) {
		z := ax
		if hy < 0 {
			z = One.Div(z)
		}
		if hx < 0 {
			if ix == int32(One) && yisint == notInteger {
				// (-1)^non-integer.
				z = NaN
			} else if yisint == oddInteger {
				z = z.Neg()
			}
		}
		return z
	}

	sn := One
	if hx < 0 {
		switch yisint {
		case notInteger:
			return NaN
		case oddInteger:
			sn = NegOne
		}
	}

	var t1, t2 F32
	if iy > 0x4D000000 {
		// |y| > 2^27: the result over- or underflows unless x is close to 1.
		if ix < 0x3F7FFFF8 {
			if hy < 0 {
				return sn.Mul(powHuge).Mul(powHuge)
			}
			return sn.Mul(powTiny).Mul(powTiny)
		}
		if ix > 0x3F800007 {
			if hy > 0 {
				return sn.Mul(powHuge).Mul(powHuge)
			}
			return sn.Mul(powTiny).Mul(powTiny)
		}
		// |1-x| is tiny: log(x) ~= t - t²/2 + t³/3 - t⁴/4.
		t := ax.Sub(One)
		w := t.Mul(t).Mul(Half.Sub(t.Mul(powThird.Sub(t.Mul(powQuart)))))
		u := powIvln2H.Mul(t)
		v := t.Mul(powIvln2L).Sub(w.Mul(powIvln2))
		t1 = u.Add(v) & 0xFFFFF000
		t2 = v.Sub(t1.Sub(u))
	} else {
		n := int32(0)
		if ix < hiddenBit {
			ax = ax.Mul(powTwo24)
			n -= 24
			ix = int32(ax)
		}
		n += ix>>ExponentOffset - ExponentBias
		j := ix & MantissaMask
		ix = j | int32(One)
		// Pick the closest of 1 and 1.5 as the reference point.
		var k int
		switch {
		case j <= 0x1CC471:
			// |x| < sqrt(3/2).
			k = 0
		case j < 0x5DB3D7:
			// |x| < sqrt(3).
			k = 1
		default:
			k = 0
			n++
			ix -= hiddenBit
		}
		ax = F32(ix)

		// s = (x-bp)/(x+bp), split in sH+sL.
		u := ax.Sub(powBp[k])
		v := One.Div(ax.Add(powBp[k]))
		s := u.Mul(v)
		sH := s & 0xFFFFF000
		is := uint32(ix)>>1&0xFFFFF000 | 0x20000000
		tH := F32(is + 0x00400000 + uint32(k)<<21)
		tL := ax.Sub(tH.Sub(powBp[k]))
		sL := v.Mul(u.Sub(sH.Mul(tH)).Sub(sH.Mul(tL)))

		// log(ax).
		s2 := s.Mul(s)
		r := s2.Mul(s2).Mul(powL1.Add(s2.Mul(powL2.Add(s2.Mul(powL3.Add(s2.Mul(powL4.Add(s2.Mul(powL5.Add(s2.Mul(powL6)))))))))))
		r = r.Add(sL.Mul(sH.Add(s)))
		s2 = sH.Mul(sH)
		tH = powThree.Add(s2).Add(r) & 0xFFFFF000
		tL = r.Sub(tH.Sub(powThree).Sub(s2))
		u = sH.Mul(tH)
		v = sL.Mul(tH).Add(tL.Mul(s))
		pH := u.Add(v) & 0xFFFFF000
		pL := v.Sub(pH.Sub(u))
		// 2/(3log2)*(s+...).
		zH := powCpH.Mul(pH)
		zL := powCpL.Mul(pH).Add(pL.Mul(powCp)).Add(powDpL[k])
		// log2(ax) = (s+..)*2/(3*log2) = n + dpH + zH + zL.
		t := FromInt(n)
		t1 = zH.Add(zL).Add(powDpH[k]).Add(t) & 0xFFFFF000
		t2 = zL.Sub(t1.Sub(t).Sub(powDpH[k]).Sub(zH))
	}

	// y*log2(x) as pH+pL.
	y1 := y & 0xFFFFF000
	pL := y.Sub(y1).Mul(t1).Add(y.Mul(t2))
	pH := y1.Mul(t1)
	z := pL.Add(pH)
	j := int32(z)
	switch {
	case j > 0x43000000:
		// z > 128.
		return sn.Mul(powHuge).Mul(powHuge)
	case j == 0x43000000:
		if pL.Add(powOvt).Gt(z.Sub(pH)) {
			return sn.Mul(powHuge).Mul(powHuge)
		}
	case j&absMask > 0x43160000:
		// z < -150.
		return sn.Mul(powTiny).Mul(powTiny)
	case uint32(j) == 0xC3160000:
		if pL.Le(z.Sub(pH)) {
			return sn.Mul(powTiny).Mul(powTiny)
		}
	}

	// 2^(pH+pL).
	i := j & absMask
	k := i>>ExponentOffset - ExponentBias
	n := int32(0)
	if i > int32(Half) {
		// |z| > 0.5: extract the integral part n.
		n = j + hiddenBit>>uint32(k+1)
		k = (n&absMask)>>ExponentOffset - ExponentBias
		t := F32(uint32(n) &^ (MantissaMask >> uint32(k)))
		n = (n&MantissaMask | hiddenBit) >> uint32(ExponentOffset-k)
		if j < 0 {
			n = -n
		}
		pH = pH.Sub(t)
	}
	t := pL.Add(pH) & 0xFFFF8000
	u := t.Mul(powLg2H)
	v := pL.Sub(t.Sub(pH)).Mul(powLg2).Add(t.Mul(powLg2L))
	z = u.Add(v)
	w := v.Sub(z.Sub(u))
	t = z.Mul(z)
	t1 = z.Sub(t.Mul(powP1.Add(t.Mul(powP2.Add(t.Mul(powP3.Add(t.Mul(powP4.Add(t.Mul(powP5))))))))))
	r := z.Mul(t1).Div(t1.Sub(Two)).Sub(w.Add(z.Mul(w)))
	z = One.Sub(r.Sub(z))
	j = int32(z) + n<<ExponentOffset
	if j>>ExponentOffset <= 0 {
		// Subnormal result.
		z = Scalbn(z, int(n))
	} else {
		z = F32(j)
	}
	return sn.Mul(z)
}
