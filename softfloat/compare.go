// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softfloat

// Eq returns true if a and b are numerically equal. It is false if either is
// a NaN, and true for +0 and -0.
func (a F32) Eq(b F32) bool {
	if a.IsNaN() || b.IsNaN() {
		return false
	}
	return a == b || (a|b)&absMask == 0
}

// Ne is the negation of Eq; it is true if either is a NaN.
func (a F32) Ne(b F32) bool {
	return !a.Eq(b)
}

// Lt returns a < b. It is false if either is a NaN.
func (a F32) Lt(b F32) bool {
	if a.IsNaN() || b.IsNaN() {
		return false
	}
	signA, signB := a.signBit(), b.signBit()
	if signA != signB {
		return signA && (a|b)&absMask != 0
	}
	// Same sign: the raw order is the numerical order, reversed if negative.
	return a != b && signA != (a < b)
}

// Le returns a <= b. It is false if either is a NaN.
func (a F32) Le(b F32) bool {
	if a.IsNaN() || b.IsNaN() {
		return false
	}
	signA, signB := a.signBit(), b.signBit()
	if signA != signB {
		return signA || (a|b)&absMask == 0
	}
	return a == b || signA != (a < b)
}

// Gt returns a > b. It is false if either is a NaN.
func (a F32) Gt(b F32) bool {
	return b.Lt(a)
}

// Ge returns a >= b. It is false if either is a NaN.
func (a F32) Ge(b F32) bool {
	return b.Le(a)
}

// Equals is Eq except that all NaNs are equal to each other.
//
// It is meant for map keys and deduplication, where a value must be equal to
// itself. Hash is consistent with it.
func (a F32) Equals(b F32) bool {
	if a.IsNaN() {
		return b.IsNaN()
	}
	return a.Eq(b)
}

// Hash returns a hash consistent with Equals: both zeros and all NaNs hash
// alike.
func (a F32) Hash() uint32 {
	switch {
	case a.IsNaN():
		return uint32(NaN)
	case a.IsZero():
		return 0
	default:
		return uint32(a)
	}
}

// Compare returns -1, 0 or +1 and defines a total order suitable for sorting.
//
// NaNs are equal to each other and smaller than any number, including -Inf.
// +0 and -0 are equal.
func (a F32) Compare(b F32) int {
	switch {
	case a.Lt(b):
		return -1
	case a.Gt(b):
		return 1
	case a.Eq(b):
		return 0
	}
	// At least one is a NaN.
	aNaN, bNaN := a.IsNaN(), b.IsNaN()
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	default:
		return 1
	}
}
