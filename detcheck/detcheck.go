// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package detcheck verifies that softfloat computes the same bits on every
// host.
//
// Each op of Ops is evaluated over a set of inputs and summarized by a digest
// of its outputs plus statistics on how the output bits are used. A report
// produced on one host is compared against a golden report produced on
// another.
package detcheck

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/maruel/softfloat-go/softfloat"
	"github.com/pkg/errors"
)

// BitKind is the usage of one kind of bits (sign, exponent, mantissa).
type BitKind struct {
	// Allocation is the number of bits tracked for this kind of value.
	Allocation int `json:"alloc"`
	// ValuesSeen counts each different value seen, saturating. It has
	// 1<<Allocation items.
	ValuesSeen CountSet `json:"seen"`

	initialized  bool
	effective    int
	actuallyUsed float32
	wasted       int
}

func newBitKind(allocation int) BitKind {
	b := BitKind{Allocation: allocation}
	b.ValuesSeen.Resize(1 << allocation)
	return b
}

func (b *BitKind) cache() {
	if !b.initialized {
		b.effective = int(b.ValuesSeen.Effective())
		a := 0.
		if b.effective != 0 {
			a = math.Log2(float64(b.effective))
		}
		b.actuallyUsed = float32(a)
		b.wasted = b.Allocation - int(math.Ceil(a))
		b.initialized = true
	}
}

// NumberDifferentValuesSeen returns the number of different values seen.
func (b *BitKind) NumberDifferentValuesSeen() int {
	b.cache()
	return b.effective
}

// BitsActuallyUsed returns the number of bits needed to encode the
// different values seen.
func (b *BitKind) BitsActuallyUsed() float32 {
	b.cache()
	return b.actuallyUsed
}

// BitsWasted returns the number of allocated bits that are never needed.
func (b *BitKind) BitsWasted() int {
	b.cache()
	return b.wasted
}

// Result is the summary of an op evaluated over the inputs.
type Result struct {
	Op     string `json:"op"`
	Digest string `json:"digest"`
	Count  int    `json:"count"`
	// NaN has a bit set for each output that is a NaN.
	NaN BitSet `json:"nan"`
	// Min, Max and Avg cover the finite outputs only. Avg is computed with
	// softfloat so it is reproducible too.
	Min      float32 `json:"min"`
	Max      float32 `json:"max"`
	Avg      float32 `json:"avg"`
	Sign     BitKind `json:"s"`
	Exponent BitKind `json:"exp"`
	// Mantissa tracks the 8 most significant bits of the mantissa.
	Mantissa BitKind `json:"man"`
}

// mantissaTracked is the number of high mantissa bits tracked in Result.
const mantissaTracked = 8

// Evaluate runs op over inputs and summarizes the outputs.
func Evaluate(op *Op, inputs []softfloat.F32) (Result, error) {
	if op == nil || (op.Unary == nil) == (op.Binary == nil) {
		return Result{}, errors.New("invalid op")
	}
	if len(inputs) == 0 {
		return Result{}, errors.Errorf("%s: no inputs", op.Name)
	}
	out := op.Apply(inputs)
	r := Result{
		Op:       op.Name,
		Digest:   hex.EncodeToString(digest(out)),
		Count:    len(out),
		Sign:     newBitKind(1),
		Exponent: newBitKind(softfloat.SignOffset - softfloat.ExponentOffset),
		Mantissa: newBitKind(mantissaTracked),
	}
	r.NaN.Resize(len(out))
	finite := int32(0)
	for _, v := range out {
		if v.IsFinite() {
			finite++
		}
	}
	// Each value is divided first to keep the sum in range.
	nf := softfloat.FromInt(finite)
	min, max, avg := softfloat.PositiveInfinity, softfloat.NegativeInfinity, softfloat.Zero
	for i, v := range out {
		sign, exponent, mantissa := v.Components()
		r.Sign.ValuesSeen.Add(int(sign))
		r.Exponent.ValuesSeen.Add(int(exponent))
		r.Mantissa.ValuesSeen.Add(int(mantissa >> (softfloat.ExponentOffset - mantissaTracked)))
		switch {
		case v.IsNaN():
			r.NaN.Set(i)
		case v.IsFinite():
			min = softfloat.Min(min, v)
			max = softfloat.Max(max, v)
			avg = avg.Add(v.Div(nf))
		}
	}
	if finite != 0 {
		r.Min = min.Float32()
		r.Max = max.Float32()
		// Rounding may still push the sum past the largest value.
		r.Avg = softfloat.Max(softfloat.Min(avg, softfloat.MaxValue), softfloat.MinValue).Float32()
	}
	slog.Debug("evaluate", "op", op.Name, "count", r.Count, "nan", r.NaN.Effective(), "digest", r.Digest[:16])
	return r, nil
}

// Host describes the machine that produced a report.
type Host struct {
	GOOS     string   `json:"goos"`
	GOARCH   string   `json:"goarch"`
	Go       string   `json:"go"`
	NumCPU   int      `json:"num_cpu"`
	Features []string `json:"features,omitempty"`
}

// Report is the result of a run.
type Report struct {
	Host         Host     `json:"host"`
	Inputs       int      `json:"inputs"`
	InputsDigest string   `json:"inputs_digest"`
	Results      []Result `json:"results"`
}

// NewReport returns a report for the inputs, without results.
func NewReport(host Host, inputs []softfloat.F32) *Report {
	return &Report{
		Host:         host,
		Inputs:       len(inputs),
		InputsDigest: hex.EncodeToString(digest(inputs)),
	}
}

// Sort orders the results by op name.
func (r *Report) Sort() {
	slices.SortFunc(r.Results, func(a, b Result) int {
		return strings.Compare(a.Op, b.Op)
	})
}

// Compare returns the names of the ops whose results differ from golden.
//
// Every op of r must be in golden, an op missing from golden is reported as
// differing. Ops only in golden are ignored so a run can check a subset. The
// error lists the differing ops. It is also returned when the inputs differ
// or when the reports have no op in common, in which case the returned list
// is nil.
func (r *Report) Compare(golden *Report) ([]string, error) {
	if r.InputsDigest != golden.InputsDigest || r.Inputs != golden.Inputs {
		return nil, errors.Errorf("inputs differ: %d values %s, golden has %d values %s", r.Inputs, r.InputsDigest, golden.Inputs, golden.InputsDigest)
	}
	want := make(map[string]string, len(golden.Results))
	for _, g := range golden.Results {
		want[g.Op] = g.Digest
	}
	var diff, missing []string
	common := 0
	for _, res := range r.Results {
		d, ok := want[res.Op]
		switch {
		case !ok:
			missing = append(missing, res.Op)
		case d != res.Digest:
			diff = append(diff, res.Op)
			common++
		default:
			common++
		}
	}
	if common == 0 {
		return nil, errors.Errorf("no op in common with golden: run has %d ops, golden has %d", len(r.Results), len(golden.Results))
	}
	if len(diff)+len(missing) == 0 {
		return nil, nil
	}
	var msgs []string
	if len(diff) != 0 {
		msgs = append(msgs, fmt.Sprintf("%d ops differ from golden: %s", len(diff), strings.Join(diff, ", ")))
	}
	if len(missing) != 0 {
		msgs = append(msgs, fmt.Sprintf("%d ops not in golden: %s", len(missing), strings.Join(missing, ", ")))
	}
	return append(diff, missing...), errors.New(strings.Join(msgs, "; "))
}
