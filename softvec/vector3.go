// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package softvec implements a 3D vector on top of softfloat.
//
// Every operation is a fixed sequence of softfloat operations, so results are
// identical on every host.
package softvec

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/maruel/softfloat-go/softfloat"
)

// Vector3 is a 3D vector of softfloat values. The zero value is the origin.
type Vector3 struct {
	X, Y, Z softfloat.F32
}

// New returns a Vector3.
func New(x, y, z softfloat.F32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// FromVec3 reinterprets the bits of a native vector, without rounding.
func FromVec3(v mgl32.Vec3) Vector3 {
	return Vector3{
		X: softfloat.FromFloat32(v[0]),
		Y: softfloat.FromFloat32(v[1]),
		Z: softfloat.FromFloat32(v[2]),
	}
}

// Vec3 reinterprets the bits as a native vector, for example to hand over to
// a renderer.
func (a Vector3) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{a.X.Float32(), a.Y.Float32(), a.Z.Float32()}
}

// Add returns a + b.
func (a Vector3) Add(b Vector3) Vector3 {
	return Vector3{a.X.Add(b.X), a.Y.Add(b.Y), a.Z.Add(b.Z)}
}

// Sub returns a - b.
func (a Vector3) Sub(b Vector3) Vector3 {
	return Vector3{a.X.Sub(b.X), a.Y.Sub(b.Y), a.Z.Sub(b.Z)}
}

// Mul returns the componentwise product.
func (a Vector3) Mul(b Vector3) Vector3 {
	return Vector3{a.X.Mul(b.X), a.Y.Mul(b.Y), a.Z.Mul(b.Z)}
}

// Div returns the componentwise quotient.
func (a Vector3) Div(b Vector3) Vector3 {
	return Vector3{a.X.Div(b.X), a.Y.Div(b.Y), a.Z.Div(b.Z)}
}

// Scale returns a * s.
func (a Vector3) Scale(s softfloat.F32) Vector3 {
	return Vector3{a.X.Mul(s), a.Y.Mul(s), a.Z.Mul(s)}
}

// Neg returns -a.
func (a Vector3) Neg() Vector3 {
	return Vector3{a.X.Neg(), a.Y.Neg(), a.Z.Neg()}
}

// Dot returns the dot product, summed as (x + y) + z.
func (a Vector3) Dot(b Vector3) softfloat.F32 {
	return a.X.Mul(b.X).Add(a.Y.Mul(b.Y)).Add(a.Z.Mul(b.Z))
}

// Cross returns the right-handed cross product.
func (a Vector3) Cross(b Vector3) Vector3 {
	return Vector3{
		X: a.Y.Mul(b.Z).Sub(a.Z.Mul(b.Y)),
		Y: a.Z.Mul(b.X).Sub(a.X.Mul(b.Z)),
		Z: a.X.Mul(b.Y).Sub(a.Y.Mul(b.X)),
	}
}

// LengthSqr returns the squared length.
func (a Vector3) LengthSqr() softfloat.F32 {
	return a.Dot(a)
}

// Length returns the Euclidean length.
func (a Vector3) Length() softfloat.F32 {
	return softfloat.Sqrt(a.Dot(a))
}

// Normalize returns a scaled to unit length. The zero vector is returned
// unchanged.
func (a Vector3) Normalize() Vector3 {
	l := a.Length()
	if l.IsZero() {
		return a
	}
	return Vector3{a.X.Div(l), a.Y.Div(l), a.Z.Div(l)}
}

// Min returns the componentwise minimum, using softfloat.Min.
func Min(a, b Vector3) Vector3 {
	return Vector3{softfloat.Min(a.X, b.X), softfloat.Min(a.Y, b.Y), softfloat.Min(a.Z, b.Z)}
}

// Max returns the componentwise maximum, using softfloat.Max.
func Max(a, b Vector3) Vector3 {
	return Vector3{softfloat.Max(a.X, b.X), softfloat.Max(a.Y, b.Y), softfloat.Max(a.Z, b.Z)}
}

// Abs returns the componentwise absolute value.
func Abs(a Vector3) Vector3 {
	return Vector3{softfloat.Abs(a.X), softfloat.Abs(a.Y), softfloat.Abs(a.Z)}
}

// Equals returns true if each component is softfloat Equals, so NaN
// components compare equal.
func (a Vector3) Equals(b Vector3) bool {
	return a.X.Equals(b.X) && a.Y.Equals(b.Y) && a.Z.Equals(b.Z)
}

func (a Vector3) String() string {
	return fmt.Sprintf("(%s, %s, %s)", a.X, a.Y, a.Z)
}
