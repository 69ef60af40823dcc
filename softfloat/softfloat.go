// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package softfloat implements IEEE 754 binary32 arithmetic and elementary
// functions with integer operations only.
//
// Results are bit-for-bit identical on every host: no operation depends on
// the hardware floating point unit, its rounding mode, fused multiply-add
// contraction or flush-to-zero behavior. This makes the package usable as the
// numeric type of a lockstep simulation.
//
// No function panics or returns an error. Invalid operations return NaN and
// overflows return a signed infinity, following the IEEE 754 "non-stop"
// semantics.
package softfloat

import (
	"encoding/binary"
	"math"
)

// Layout of a binary32 value.
//
// https://en.wikipedia.org/wiki/Single-precision_floating-point_format
const (
	SignOffset     = 31
	ExponentOffset = 23
	ExponentBias   = 127
	ExponentMask   = (1 << (SignOffset - ExponentOffset)) - 1
	MantissaMask   = (1 << ExponentOffset) - 1

	signMask  = 1 << SignOffset
	absMask   = signMask - 1
	expField  = ExponentMask << ExponentOffset
	quietBit  = 1 << (ExponentOffset - 1)
	hiddenBit = 1 << ExponentOffset
)

// F32 is an IEEE 754 binary32 value computed in software.
//
// The underlying uint32 is the raw bit pattern. The builtin == operator
// compares raw bits: +0 and -0 differ and a NaN equals itself. Use Eq for the
// IEEE comparison and Equals for container semantics.
type F32 uint32

// Special values.
const (
	Zero             F32 = 0x00000000
	NegZero          F32 = 0x80000000
	One              F32 = 0x3F800000
	NegOne           F32 = 0xBF800000
	Two              F32 = 0x40000000
	Half             F32 = 0x3F000000
	PositiveInfinity F32 = 0x7F800000
	NegativeInfinity F32 = 0xFF800000
	// NaN is the canonical NaN returned by invalid operations.
	NaN F32 = 0xFFC00000
	// MaxValue is the largest finite value.
	MaxValue F32 = 0x7F7FFFFF
	// MinValue is the most negative finite value.
	MinValue F32 = 0xFF7FFFFF
	// Epsilon is the smallest positive subnormal value.
	Epsilon F32 = 0x00000001
	// MinNormal is the smallest positive normal value.
	MinNormal F32 = 0x00800000
)

// Mathematical constants, rounded to nearest.
const (
	Pi     F32 = 0x40490FDB
	HalfPi F32 = 0x3FC90FDB
	TwoPi  F32 = 0x40C90FDB
	E      F32 = 0x402DF854
	Ln2    F32 = 0x3F317218
)

// FromRaw returns the value with the raw bit pattern v.
func FromRaw(v uint32) F32 {
	return F32(v)
}

// Raw returns the raw bit pattern.
func (f F32) Raw() uint32 {
	return uint32(f)
}

// FromFloat32 reinterprets the bits of a native float32. No rounding happens.
func FromFloat32(v float32) F32 {
	return F32(math.Float32bits(v))
}

// Float32 reinterprets the bits as a native float32.
func (f F32) Float32() float32 {
	return math.Float32frombits(uint32(f))
}

// FromParts builds a value out of its sign, biased exponent and mantissa.
//
// Only the low 23 bits of mantissa are used.
func FromParts(negative bool, exponent uint8, mantissa uint32) F32 {
	return pack(negative, int32(exponent), mantissa&MantissaMask)
}

// Components returns the sign, exponent and mantissa bits separated.
func (f F32) Components() (uint8, uint8, uint32) {
	sign := uint32(f) >> SignOffset
	exponent := (uint32(f) >> ExponentOffset) & ExponentMask
	mantissa := uint32(f) & MantissaMask
	return uint8(sign), uint8(exponent), mantissa
}

// Decode decodes a little endian value.
func Decode(b []byte) F32 {
	return F32(binary.LittleEndian.Uint32(b))
}

// DecodeBE decodes a big endian value.
func DecodeBE(b []byte) F32 {
	return F32(binary.BigEndian.Uint32(b))
}

// Encode writes the value in little endian into b[:4].
func (f F32) Encode(b []byte) {
	binary.LittleEndian.PutUint32(b, uint32(f))
}

// EncodeBE writes the value in big endian into b[:4].
func (f F32) EncodeBE(b []byte) {
	binary.BigEndian.PutUint32(b, uint32(f))
}

// Classification. These only look at the bits.

// IsNaN returns true if f is any NaN.
func (f F32) IsNaN() bool {
	return uint32(f)&absMask > expField
}

// IsInfinity returns true if f is either infinity.
func (f F32) IsInfinity() bool {
	return uint32(f)&absMask == expField
}

// IsPositiveInfinity returns true if f is +Inf.
func (f F32) IsPositiveInfinity() bool {
	return f == PositiveInfinity
}

// IsNegativeInfinity returns true if f is -Inf.
func (f F32) IsNegativeInfinity() bool {
	return f == NegativeInfinity
}

// IsZero returns true for both +0 and -0.
func (f F32) IsZero() bool {
	return uint32(f)&absMask == 0
}

// IsFinite returns true if f is neither infinite nor NaN.
func (f F32) IsFinite() bool {
	return uint32(f)&expField != expField
}

// IsSubnormal returns true if f is a non-zero value with a zero exponent.
func (f F32) IsSubnormal() bool {
	return uint32(f)&expField == 0 && uint32(f)&MantissaMask != 0
}

// IsPositive returns true if the sign bit is clear. This includes +0 and NaNs
// with a clear sign bit.
func (f F32) IsPositive() bool {
	return uint32(f)&signMask == 0
}

// IsNegative returns true if the sign bit is set. This includes -0.
func (f F32) IsNegative() bool {
	return uint32(f)&signMask != 0
}

// Sign returns -1, 0 or +1. Both zeros and NaNs return 0.
func (f F32) Sign() int {
	if f.IsZero() || f.IsNaN() {
		return 0
	}
	return 1 - int(uint32(f)>>SignOffset)*2
}

// Helpers shared by the arithmetic.

func (f F32) exp() int32 {
	return int32(uint32(f)>>ExponentOffset) & ExponentMask
}

func (f F32) frac() uint32 {
	return uint32(f) & MantissaMask
}

func (f F32) signBit() bool {
	return uint32(f)&signMask != 0
}

func (f F32) abs() F32 {
	return f & absMask
}

// pack assembles the fields. The mantissa is added, not or'ed, so that a
// carry out of it increments the exponent.
func pack(negative bool, exponent int32, mantissa uint32) F32 {
	var s uint32
	if negative {
		s = signMask
	}
	return F32(s + uint32(exponent)<<ExponentOffset + mantissa)
}

func signedZero(negative bool) F32 {
	return pack(negative, 0, 0)
}

func signedInf(negative bool) F32 {
	return pack(negative, ExponentMask, 0)
}

// quiet returns the NaN f with its quiet bit set.
func (f F32) quiet() F32 {
	return f | quietBit
}

// propagateNaN returns the first NaN operand, quieted. At least one of a and
// b must be a NaN.
func propagateNaN(a, b F32) F32 {
	if a.IsNaN() {
		return a.quiet()
	}
	return b.quiet()
}
