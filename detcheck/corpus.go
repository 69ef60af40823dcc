// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package detcheck

import (
	"encoding/binary"

	"github.com/maruel/softfloat-go/softfloat"
	"golang.org/x/crypto/sha3"
)

// Corpus returns the fixed regression corpus: the special values and the
// values around the usual rounding and range boundaries.
func Corpus() []softfloat.F32 {
	return []softfloat.F32{
		softfloat.Zero,
		softfloat.NegZero,
		softfloat.PositiveInfinity,
		softfloat.NegativeInfinity,
		softfloat.NaN,
		softfloat.FromRaw(0x7FC00000), // positive quiet NaN
		softfloat.FromRaw(0x7F800001), // signaling NaN
		softfloat.FromRaw(0xFFC12345), // quiet NaN with a payload
		softfloat.Epsilon,
		softfloat.Epsilon.Neg(),
		softfloat.FromRaw(0x007FFFFF), // largest subnormal
		softfloat.MinNormal,
		softfloat.MinNormal.Neg(),
		softfloat.MaxValue,
		softfloat.MinValue,
		softfloat.One,
		softfloat.NegOne,
		softfloat.Half,
		softfloat.Half.Neg(),
		softfloat.Two,
		softfloat.FromRaw(0x3F7FFFFF), // largest value below 1
		softfloat.FromRaw(0x3F800001), // smallest value above 1
		softfloat.FromRaw(0x3FC00000), // 1.5
		softfloat.FromRaw(0x40200000), // 2.5
		softfloat.FromRaw(0xC0200000), // -2.5
		softfloat.FromRaw(0x4B000000), // 2^23, the first value without fraction
		softfloat.FromRaw(0x4AFFFFFF), // 2^23 - 0.5
		softfloat.FromRaw(0x4B800000), // 2^24
		softfloat.FromRaw(0x4B800001), // 2^24 + 2
		softfloat.FromRaw(0x4F000000), // 2^31
		softfloat.FromRaw(0xCF000000), // -2^31
		softfloat.FromRaw(0x4EFFFFFF), // largest value below 2^31
		softfloat.Pi,
		softfloat.Pi.Neg(),
		softfloat.HalfPi,
		softfloat.TwoPi,
		softfloat.E,
		softfloat.Ln2,
		softfloat.FromRaw(0x42B17218), // overflow threshold of Exp
		softfloat.FromRaw(0xC2CFF1B5), // underflow threshold of Exp
		softfloat.FromRaw(0x3DCCCCCD), // 0.1
		softfloat.FromRaw(0x49742400), // 1e6
	}
}

// RandomInputs returns n deterministic inputs derived from seed.
//
// Most values have an exponent within 2^±24, where rounding is exercised the
// most. Some are raw random bits and some are picked from Corpus.
func RandomInputs(seed []byte, n int) []softfloat.F32 {
	corpus := Corpus()
	h := sha3.NewShake256()
	_, _ = h.Write(seed)
	out := make([]softfloat.F32, n)
	var buf [8]byte
	for i := range out {
		_, _ = h.Read(buf[:])
		raw := binary.LittleEndian.Uint32(buf[4:])
		switch sel := buf[0] & 15; {
		case sel == 0:
			out[i] = corpus[int(buf[1])%len(corpus)]
		case sel < 4:
			out[i] = softfloat.FromRaw(raw)
		default:
			exp := softfloat.ExponentBias - 24 + buf[1]%49
			out[i] = softfloat.FromParts(raw>>softfloat.SignOffset != 0, exp, raw)
		}
	}
	return out
}
