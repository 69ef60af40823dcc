// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softfloat

import "math/bits"

// Internal significands carry 7 extra low bits below the 23 bit mantissa:
// the round bit and the sticky bits. roundPack() and normRoundPack() take an
// exponent that is one less than the biased exponent of the result; the
// hidden bit at position 30 adds the missing 1 when it is packed.

// shiftRightJam32 shifts a right by dist bits; the lowest bit of the result
// is set if any of the dropped bits was set.
func shiftRightJam32(a uint32, dist uint32) uint32 {
	if dist < 31 {
		var sticky uint32
		if a<<(-dist&31) != 0 {
			sticky = 1
		}
		return a>>dist | sticky
	}
	if a != 0 {
		return 1
	}
	return 0
}

// shortShiftRightJam64 is shiftRightJam32 on a 64 bit value, dist in [1, 63].
func shortShiftRightJam64(a uint64, dist uint32) uint32 {
	r := uint32(a >> dist)
	if a&(uint64(1)<<dist-1) != 0 {
		r |= 1
	}
	return r
}

// normSubnormal normalizes the mantissa of a subnormal value. It returns the
// equivalent exponent, which is zero or negative.
func normSubnormal(sig uint32) (int32, uint32) {
	shift := int32(bits.LeadingZeros32(sig)) - 8
	return 1 - shift, sig << uint32(shift)
}

// roundPack rounds sig to nearest even and packs the result, handling
// overflow and underflow.
//
// sig must be normalized to [2^30, 2^31) unless the result is subnormal.
func roundPack(negative bool, exp int32, sig uint32) F32 {
	const roundIncrement = 0x40
	roundBits := sig & 0x7F
	if uint32(exp) >= 0xFD {
		if exp < 0 {
			sig = shiftRightJam32(sig, uint32(-exp))
			exp = 0
			roundBits = sig & 0x7F
		} else if exp > 0xFD || sig+roundIncrement >= 0x80000000 {
			return signedInf(negative)
		}
	}
	sig = (sig + roundIncrement) >> 7
	if roundBits == 0x40 {
		// Tie: round to even.
		sig &^= 1
	}
	if sig == 0 {
		exp = 0
	}
	return pack(negative, exp, sig)
}

// normRoundPack is roundPack for a significand that is not normalized.
func normRoundPack(negative bool, exp int32, sig uint32) F32 {
	shift := int32(bits.LeadingZeros32(sig)) - 1
	exp -= shift
	if shift >= 7 && uint32(exp) < 0xFD {
		// Exact, no rounding needed.
		if sig == 0 {
			exp = 0
		}
		return pack(negative, exp, sig<<uint32(shift-7))
	}
	return roundPack(negative, exp, sig<<uint32(shift))
}

// addMags returns sign(a) * (|a| + |b|).
func addMags(a, b F32) F32 {
	negative := a.signBit()
	expA, sigA := a.exp(), a.frac()
	expB, sigB := b.exp(), b.frac()
	expDiff := expA - expB
	if expDiff == 0 {
		if expA == 0 {
			// Zeros or subnormals: a carry into the exponent field is the
			// correct result.
			return a + F32(sigB)
		}
		if expA == ExponentMask {
			if sigA|sigB != 0 {
				return propagateNaN(a, b)
			}
			return a
		}
		sigZ := hiddenBit<<1 + sigA + sigB
		if sigZ&1 == 0 && expA < 0xFE {
			return pack(negative, expA, sigZ>>1)
		}
		return roundPack(negative, expA, sigZ<<6)
	}

	sigA <<= 6
	sigB <<= 6
	var expZ int32
	if expDiff < 0 {
		if expB == ExponentMask {
			if sigB != 0 {
				return propagateNaN(a, b)
			}
			return signedInf(negative)
		}
		if expDiff < -25 {
			// a is entirely absorbed by rounding.
			return signedZero(negative) | b.abs()
		}
		expZ = expB
		if expA != 0 {
			sigA += 0x20000000
		} else {
			sigA += sigA
		}
		sigA = shiftRightJam32(sigA, uint32(-expDiff))
	} else {
		if expA == ExponentMask {
			if sigA != 0 {
				return propagateNaN(a, b)
			}
			return a
		}
		if expDiff > 25 {
			return a
		}
		expZ = expA
		if expB != 0 {
			sigB += 0x20000000
		} else {
			sigB += sigB
		}
		sigB = shiftRightJam32(sigB, uint32(expDiff))
	}
	sigZ := 0x20000000 + sigA + sigB
	if sigZ < 0x40000000 {
		expZ--
		sigZ <<= 1
	}
	return roundPack(negative, expZ, sigZ)
}

// subMags returns sign(a) * (|a| - |b|).
func subMags(a, b F32) F32 {
	negative := a.signBit()
	expA, sigA := a.exp(), a.frac()
	expB, sigB := b.exp(), b.frac()
	expDiff := expA - expB
	if expDiff == 0 {
		if expA == ExponentMask {
			if sigA|sigB != 0 {
				return propagateNaN(a, b)
			}
			// Inf - Inf.
			return NaN
		}
		sigDiff := int32(sigA) - int32(sigB)
		if sigDiff == 0 {
			return Zero
		}
		if expA != 0 {
			expA--
		}
		if sigDiff < 0 {
			negative = !negative
			sigDiff = -sigDiff
		}
		shift := int32(bits.LeadingZeros32(uint32(sigDiff))) - 8
		expZ := expA - shift
		if expZ < 0 {
			shift = expA
			expZ = 0
		}
		return pack(negative, expZ, uint32(sigDiff)<<uint32(shift))
	}

	sigA <<= 7
	sigB <<= 7
	var expZ int32
	var sigX, sigY uint32
	if expDiff < 0 {
		negative = !negative
		if expB == ExponentMask {
			if sigB != 0 {
				return propagateNaN(a, b)
			}
			return signedInf(negative)
		}
		if expDiff < -25 {
			return signedZero(negative) | b.abs()
		}
		expZ = expB - 1
		sigX = sigB | 0x40000000
		if expA != 0 {
			sigY = sigA + 0x40000000
		} else {
			sigY = sigA + sigA
		}
		expDiff = -expDiff
	} else {
		if expA == ExponentMask {
			if sigA != 0 {
				return propagateNaN(a, b)
			}
			return a
		}
		if expDiff > 25 {
			return a
		}
		expZ = expA - 1
		sigX = sigA | 0x40000000
		if expB != 0 {
			sigY = sigB + 0x40000000
		} else {
			sigY = sigB + sigB
		}
	}
	return normRoundPack(negative, expZ, sigX-shiftRightJam32(sigY, uint32(expDiff)))
}

// Add returns a + b.
func (a F32) Add(b F32) F32 {
	if a.signBit() == b.signBit() {
		return addMags(a, b)
	}
	return subMags(a, b)
}

// Sub returns a - b.
func (a F32) Sub(b F32) F32 {
	if a.signBit() == b.signBit() {
		return subMags(a, b)
	}
	return addMags(a, b)
}

// Neg returns -a. Only the sign bit changes, NaNs included.
func (a F32) Neg() F32 {
	return a ^ signMask
}

// Mul returns a * b.
func (a F32) Mul(b F32) F32 {
	negative := a.signBit() != b.signBit()
	expA, sigA := a.exp(), a.frac()
	expB, sigB := b.exp(), b.frac()
	if expA == ExponentMask {
		if sigA != 0 || (expB == ExponentMask && sigB != 0) {
			return propagateNaN(a, b)
		}
		if b.IsZero() {
			// Inf * 0.
			return NaN
		}
		return signedInf(negative)
	}
	if expB == ExponentMask {
		if sigB != 0 {
			return propagateNaN(a, b)
		}
		if a.IsZero() {
			return NaN
		}
		return signedInf(negative)
	}
	if expA == 0 {
		if sigA == 0 {
			return signedZero(negative)
		}
		expA, sigA = normSubnormal(sigA)
	}
	if expB == 0 {
		if sigB == 0 {
			return signedZero(negative)
		}
		expB, sigB = normSubnormal(sigB)
	}
	expZ := expA + expB - ExponentBias
	sigA = (sigA | hiddenBit) << 7
	sigB = (sigB | hiddenBit) << 8
	sigZ := shortShiftRightJam64(uint64(sigA)*uint64(sigB), 32)
	if sigZ < 0x40000000 {
		expZ--
		sigZ <<= 1
	}
	return roundPack(negative, expZ, sigZ)
}

// Div returns a / b.
func (a F32) Div(b F32) F32 {
	negative := a.signBit() != b.signBit()
	expA, sigA := a.exp(), a.frac()
	expB, sigB := b.exp(), b.frac()
	if expA == ExponentMask {
		if sigA != 0 {
			return propagateNaN(a, b)
		}
		if expB == ExponentMask {
			if sigB != 0 {
				return propagateNaN(a, b)
			}
			// Inf / Inf.
			return NaN
		}
		return signedInf(negative)
	}
	if expB == ExponentMask {
		if sigB != 0 {
			return propagateNaN(a, b)
		}
		return signedZero(negative)
	}
	if expB == 0 {
		if sigB == 0 {
			if a.IsZero() {
				// 0 / 0.
				return NaN
			}
			return signedInf(negative)
		}
		expB, sigB = normSubnormal(sigB)
	}
	if expA == 0 {
		if sigA == 0 {
			return signedZero(negative)
		}
		expA, sigA = normSubnormal(sigA)
	}
	expZ := expA - expB + 0x7E
	sigA |= hiddenBit
	sigB |= hiddenBit
	var sig64A uint64
	if sigA < sigB {
		expZ--
		sig64A = uint64(sigA) << 31
	} else {
		sig64A = uint64(sigA) << 30
	}
	sigZ := sig64A / uint64(sigB)
	if sigZ&0x3F == 0 && sigZ*uint64(sigB) != sig64A {
		// Sticky bit for the inexact quotient.
		sigZ |= 1
	}
	return roundPack(negative, expZ, uint32(sigZ))
}

// Mod returns the remainder of a / b truncated toward zero; it is Fmod(a, b).
func (a F32) Mod(b F32) F32 {
	return Fmod(a, b)
}
