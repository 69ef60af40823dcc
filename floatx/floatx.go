// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package floatx converts narrow floating point formats to and from
// softfloat.F32 with integer code only.
//
// All the formats follow the IEEE 754 layout: an all ones exponent is Inf or
// NaN, an all zeros exponent is zero or subnormal.
package floatx

import (
	"encoding/binary"

	"github.com/maruel/softfloat-go/softfloat"
)

// layout describes a binary floating point format with a sign bit.
type layout struct {
	exponentBits uint32
	mantissaBits uint32
}

func (l layout) signOffset() uint32 {
	return l.exponentBits + l.mantissaBits
}

func (l layout) exponentMask() uint32 {
	return 1<<l.exponentBits - 1
}

func (l layout) exponentBias() int32 {
	return 1<<(l.exponentBits-1) - 1
}

// components returns the sign, exponent and mantissa bits separated.
func (l layout) components(v uint32) (uint32, uint32, uint32) {
	sign := v >> l.signOffset() & 1
	exponent := (v >> l.mantissaBits) & l.exponentMask()
	mantissa := v & (1<<l.mantissaBits - 1)
	return sign, exponent, mantissa
}

// widen returns the exact binary32 value of v.
func (l layout) widen(v uint32) softfloat.F32 {
	sign8, exponent, mantissa8 := l.components(v)
	// Realign sign and mantissa right away.
	sign := sign8 << softfloat.SignOffset
	mantissa := mantissa8 << (softfloat.ExponentOffset - l.mantissaBits)
	if exponent == l.exponentMask() {
		// Either Inf or NaN, the payload is kept.
		return softfloat.FromRaw(sign | softfloat.ExponentMask<<softfloat.ExponentOffset | mantissa)
	}
	e := int32(exponent)
	if exponent == 0 {
		if mantissa == 0 || l.exponentBias() == softfloat.ExponentBias {
			// Zero, or a subnormal of a format with the same exponent range.
			return softfloat.FromRaw(sign | mantissa)
		}
		// Normalize subnormal numbers.
		e++
		for mantissa&(1<<softfloat.ExponentOffset) == 0 {
			mantissa <<= 1
			e--
		}
		mantissa &= softfloat.MantissaMask
	}
	e += softfloat.ExponentBias - l.exponentBias()
	return softfloat.FromRaw(sign | uint32(e)<<softfloat.ExponentOffset | mantissa)
}

// narrow rounds f to nearest even. Values too large overflow to Inf, values
// too small underflow gradually through subnormals down to a signed zero.
// NaNs stay NaNs: the top of the payload is kept and the quiet bit is set.
func (l layout) narrow(f softfloat.F32) uint32 {
	u := f.Raw()
	sign := u >> softfloat.SignOffset << l.signOffset()
	abs := u &^ (1 << softfloat.SignOffset)
	inf := sign | l.exponentMask()<<l.mantissaBits
	shift := softfloat.ExponentOffset - l.mantissaBits
	if abs >= softfloat.ExponentMask<<softfloat.ExponentOffset {
		if abs == softfloat.ExponentMask<<softfloat.ExponentOffset {
			return inf
		}
		return inf | 1<<(l.mantissaBits-1) | (abs&softfloat.MantissaMask)>>shift
	}

	sig := abs & softfloat.MantissaMask
	exp32 := int32(abs >> softfloat.ExponentOffset)
	if exp32 == 0 {
		exp32 = 1
	} else {
		sig |= 1 << softfloat.ExponentOffset
	}
	e := exp32 - softfloat.ExponentBias + l.exponentBias()
	if e < 1 {
		// Subnormal in the narrow format.
		shift += uint32(1 - e)
		e = 1
		if shift > softfloat.ExponentOffset+1 {
			// Less than half the smallest subnormal.
			return sign
		}
	}
	r := sig >> shift
	rem := sig & (1<<shift - 1)
	half := uint32(1) << (shift - 1)
	// The hidden bit in r carries into the exponent field, hence e-1. A round
	// up past the largest mantissa carries into the exponent too.
	bits := uint32(e-1)<<l.mantissaBits + r
	if rem > half || (rem == half && r&1 != 0) {
		bits++
	}
	if bits >= l.exponentMask()<<l.mantissaBits {
		return inf
	}
	return sign | bits
}

// BF16

var bf16Layout = layout{exponentBits: 8, mantissaBits: 7}

// BF16 represents a google brain 16 float.
//
// See https://en.wikipedia.org/wiki/Bfloat16_floating-point_format
type BF16 uint16

// DecodeBF16 decode a little endian value.
func DecodeBF16(b []byte) BF16 {
	return BF16(binary.LittleEndian.Uint16(b))
}

// BF16From rounds f to the nearest bfloat16, ties to even.
func BF16From(f softfloat.F32) BF16 {
	return BF16(bf16Layout.narrow(f))
}

// Components returns the sign, exponent and mantissa bits separated.
func (b BF16) Components() (uint8, uint8, uint8) {
	sign, exponent, mantissa := bf16Layout.components(uint32(b))
	return uint8(sign), uint8(exponent), uint8(mantissa)
}

// Float returns the exact softfloat equivalent.
func (b BF16) Float() softfloat.F32 {
	return bf16Layout.widen(uint32(b))
}

// Float32 returns the float32 equivalent.
func (b BF16) Float32() float32 {
	return b.Float().Float32()
}

// F16

var f16Layout = layout{exponentBits: 5, mantissaBits: 10}

// F16 represents a IEEE 754 half-precision binary floating-point format
//
// See https://en.wikipedia.org/wiki/Half-precision_floating-point_format
type F16 uint16

// DecodeF16 decode a little endian value.
func DecodeF16(b []byte) F16 {
	return F16(binary.LittleEndian.Uint16(b))
}

// F16From rounds f to the nearest half-precision float, ties to even.
func F16From(f softfloat.F32) F16 {
	return F16(f16Layout.narrow(f))
}

// Components returns the sign, exponent and mantissa bits separated.
func (f F16) Components() (uint8, uint8, uint16) {
	sign, exponent, mantissa := f16Layout.components(uint32(f))
	return uint8(sign), uint8(exponent), uint16(mantissa)
}

// Float returns the exact softfloat equivalent.
func (f F16) Float() softfloat.F32 {
	return f16Layout.widen(uint32(f))
}

// Float32 returns the float32 equivalent.
func (f F16) Float32() float32 {
	return f.Float().Float32()
}

// F8E4M3

var f8E4M3Layout = layout{exponentBits: 4, mantissaBits: 3}

// F8E4M3 represents a reduced float8 with 4 bits of exponent and 3 bits of
// mantissa.
//
// See https://en.wikipedia.org/wiki/Minifloat
type F8E4M3 uint8

// F8E4M3From rounds f to the nearest F8E4M3, ties to even.
func F8E4M3From(f softfloat.F32) F8E4M3 {
	return F8E4M3(f8E4M3Layout.narrow(f))
}

// Components returns the sign, exponent and mantissa bits separated.
func (f F8E4M3) Components() (uint8, uint8, uint8) {
	sign, exponent, mantissa := f8E4M3Layout.components(uint32(f))
	return uint8(sign), uint8(exponent), uint8(mantissa)
}

// Float returns the exact softfloat equivalent.
func (f F8E4M3) Float() softfloat.F32 {
	return f8E4M3Layout.widen(uint32(f))
}

// Float32 returns the float32 equivalent.
func (f F8E4M3) Float32() float32 {
	return f.Float().Float32()
}

// F8E5M2

var f8E5M2Layout = layout{exponentBits: 5, mantissaBits: 2}

// F8E5M2 represents a reduced float8 with 5 bits of exponent and 2 bits of
// mantissa.
//
// See https://docs.nvidia.com/deeplearning/transformer-engine/user-guide/examples/fp8_primer.html
type F8E5M2 uint8

// F8E5M2From rounds f to the nearest F8E5M2, ties to even.
func F8E5M2From(f softfloat.F32) F8E5M2 {
	return F8E5M2(f8E5M2Layout.narrow(f))
}

// Components returns the sign, exponent and mantissa bits separated.
func (f F8E5M2) Components() (uint8, uint8, uint8) {
	sign, exponent, mantissa := f8E5M2Layout.components(uint32(f))
	return uint8(sign), uint8(exponent), uint8(mantissa)
}

// Float returns the exact softfloat equivalent.
func (f F8E5M2) Float() softfloat.F32 {
	return f8E5M2Layout.widen(uint32(f))
}

// Float32 returns the float32 equivalent.
func (f F8E5M2) Float32() float32 {
	return f.Float().Float32()
}
