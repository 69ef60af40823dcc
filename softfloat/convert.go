// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softfloat

import (
	"fmt"
	"math"
	"strconv"
)

// FromInt converts an integer. Magnitudes up to 2^24 are exact, larger ones
// are rounded to nearest even. math.MinInt32 converts to exactly -2^31.
func FromInt(v int32) F32 {
	if v == 0 {
		return Zero
	}
	if v == math.MinInt32 {
		// -v would overflow.
		return pack(true, 0x9E, 0)
	}
	negative := v < 0
	u := uint32(v)
	if negative {
		u = uint32(-v)
	}
	// 0x9C is the exponent of 2^30, the position normRoundPack() expects for
	// the leading bit.
	return normRoundPack(negative, 0x9C, u)
}

// Int converts to an integer, truncating toward zero.
//
// NaN and values outside of the int32 range return math.MinInt32, the
// "integer indefinite" value of x86. -2^31 itself converts exactly.
func (f F32) Int() int32 {
	exp := f.exp()
	shift := 0x9E - exp
	if shift >= 32 {
		// |f| < 1, including zeros and subnormals.
		return 0
	}
	if shift <= 0 {
		return math.MinInt32
	}
	abs := int32(((f.frac() | hiddenBit) << 8) >> uint32(shift))
	if f.signBit() {
		return -abs
	}
	return abs
}

// String returns the shortest decimal representation, as the native float32
// would. It is meant for debugging only.
func (f F32) String() string {
	return strconv.FormatFloat(float64(f.Float32()), 'g', -1, 32)
}

// Format implements fmt.Formatter by delegating to the native float32
// formatting.
func (f F32) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('#'):
		fmt.Fprintf(s, "softfloat.FromRaw(0x%08X)", uint32(f))
	case verb == 's':
		fmt.Fprint(s, f.String())
	default:
		fmt.Fprintf(s, fmt.FormatString(s, verb), f.Float32())
	}
}
