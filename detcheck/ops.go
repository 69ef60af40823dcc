// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package detcheck

import (
	"github.com/maruel/softfloat-go/softfloat"
)

// Op is a named operation to check. Exactly one of Unary or Binary is set.
type Op struct {
	Name   string
	Unary  func(x softfloat.F32) softfloat.F32
	Binary func(x, y softfloat.F32) softfloat.F32
}

// Arity returns 1 or 2.
func (o *Op) Arity() int {
	if o.Binary != nil {
		return 2
	}
	return 1
}

// Apply computes the outputs of the op.
//
// Binary ops pair inputs[i] with inputs[(i*7+3)%n], so every input is used
// once on each side.
func (o *Op) Apply(inputs []softfloat.F32) []softfloat.F32 {
	out := make([]softfloat.F32, len(inputs))
	n := len(inputs)
	if o.Binary != nil {
		for i, x := range inputs {
			out[i] = o.Binary(x, inputs[(i*7+3)%n])
		}
		return out
	}
	for i, x := range inputs {
		out[i] = o.Unary(x)
	}
	return out
}

func boolF32(b bool) softfloat.F32 {
	if b {
		return softfloat.One
	}
	return softfloat.Zero
}

// Ops lists every public operation of softfloat.
//
// Operations that do not return a softfloat value have their result stored
// as raw bits, so any change still changes the digest.
var Ops = []Op{
	// Arithmetic.
	{Name: "add", Binary: softfloat.F32.Add},
	{Name: "sub", Binary: softfloat.F32.Sub},
	{Name: "mul", Binary: softfloat.F32.Mul},
	{Name: "div", Binary: softfloat.F32.Div},
	{Name: "mod", Binary: softfloat.F32.Mod},
	{Name: "neg", Unary: softfloat.F32.Neg},

	// Comparisons.
	{Name: "eq", Binary: func(x, y softfloat.F32) softfloat.F32 { return boolF32(x.Eq(y)) }},
	{Name: "ne", Binary: func(x, y softfloat.F32) softfloat.F32 { return boolF32(x.Ne(y)) }},
	{Name: "lt", Binary: func(x, y softfloat.F32) softfloat.F32 { return boolF32(x.Lt(y)) }},
	{Name: "le", Binary: func(x, y softfloat.F32) softfloat.F32 { return boolF32(x.Le(y)) }},
	{Name: "gt", Binary: func(x, y softfloat.F32) softfloat.F32 { return boolF32(x.Gt(y)) }},
	{Name: "ge", Binary: func(x, y softfloat.F32) softfloat.F32 { return boolF32(x.Ge(y)) }},
	{Name: "equals", Binary: func(x, y softfloat.F32) softfloat.F32 { return boolF32(x.Equals(y)) }},
	{Name: "compare", Binary: func(x, y softfloat.F32) softfloat.F32 { return softfloat.FromInt(int32(x.Compare(y))) }},
	{Name: "hash", Unary: func(x softfloat.F32) softfloat.F32 { return softfloat.FromRaw(x.Hash()) }},

	// Classification, packed as one bit per predicate.
	{Name: "classify", Unary: func(x softfloat.F32) softfloat.F32 {
		var v uint32
		for i, b := range []bool{
			x.IsNaN(), x.IsInfinity(), x.IsPositiveInfinity(), x.IsNegativeInfinity(),
			x.IsZero(), x.IsFinite(), x.IsSubnormal(), x.IsPositive(), x.IsNegative(),
		} {
			if b {
				v |= 1 << i
			}
		}
		return softfloat.FromRaw(v)
	}},

	// Conversions.
	{Name: "int", Unary: func(x softfloat.F32) softfloat.F32 { return softfloat.FromRaw(uint32(x.Int())) }},
	{Name: "fromint", Unary: func(x softfloat.F32) softfloat.F32 { return softfloat.FromInt(int32(x.Raw())) }},

	// Elementary.
	{Name: "abs", Unary: softfloat.Abs},
	{Name: "sign", Unary: softfloat.Sign},
	{Name: "min", Binary: softfloat.Min},
	{Name: "max", Binary: softfloat.Max},
	{Name: "floor", Unary: softfloat.Floor},
	{Name: "ceil", Unary: softfloat.Ceil},
	{Name: "trunc", Unary: softfloat.Trunc},
	{Name: "round", Unary: softfloat.Round},
	{Name: "roundeven", Unary: softfloat.RoundToEven},
	{Name: "fmod", Binary: softfloat.Fmod},
	{Name: "remainder", Binary: softfloat.Remainder},
	{Name: "quotient", Binary: func(x, y softfloat.F32) softfloat.F32 {
		_, q := softfloat.Remquo(x, y)
		return softfloat.FromRaw(uint32(q))
	}},
	{Name: "sqrt", Unary: softfloat.Sqrt},

	// Transcendental.
	{Name: "exp", Unary: softfloat.Exp},
	{Name: "log", Unary: softfloat.Log},
	{Name: "log2", Unary: softfloat.Log2},
	{Name: "pow", Binary: softfloat.Pow},
	{Name: "scalbn", Binary: func(x, y softfloat.F32) softfloat.F32 {
		// The exponent is derived from y to stay in a useful range.
		return softfloat.Scalbn(x, int(int8(y.Raw())))
	}},
	{Name: "frexp", Unary: func(x softfloat.F32) softfloat.F32 {
		frac, _ := softfloat.Frexp(x)
		return frac
	}},
	{Name: "frexp.exp", Unary: func(x softfloat.F32) softfloat.F32 {
		_, e := softfloat.Frexp(x)
		return softfloat.FromInt(int32(e))
	}},

	// Trigonometric.
	{Name: "sin", Unary: softfloat.Sin},
	{Name: "cos", Unary: softfloat.Cos},
	{Name: "tan", Unary: softfloat.Tan},
	{Name: "asin", Unary: softfloat.Asin},
	{Name: "acos", Unary: softfloat.Acos},
	{Name: "atan", Unary: softfloat.Atan},
	{Name: "atan2", Binary: softfloat.Atan2},
	{Name: "hypot", Binary: softfloat.Hypot},
}

// Lookup returns the op by name.
func Lookup(name string) (*Op, bool) {
	for i := range Ops {
		if Ops[i].Name == name {
			return &Ops[i], true
		}
	}
	return nil, false
}
