// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package detcheck

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/maruel/softfloat-go/softfloat"
	"golang.org/x/crypto/sha3"
)

var ignoreCache = cmpopts.IgnoreUnexported(BitKind{})

func f(v float32) softfloat.F32 {
	return softfloat.FromFloat32(v)
}

func TestEvaluate(t *testing.T) {
	op, ok := Lookup("sqrt")
	if !ok {
		t.Fatal("sqrt not found")
	}
	inputs := []softfloat.F32{f(4), f(-1), f(0.25), softfloat.PositiveInfinity, f(9)}
	got, err := Evaluate(op, inputs)
	if err != nil {
		t.Fatal(err)
	}

	outputs := []softfloat.F32{f(2), softfloat.NaN, f(0.5), softfloat.PositiveInfinity, f(3)}
	var buf []byte
	for _, v := range outputs {
		buf = binary.LittleEndian.AppendUint32(buf, v.Raw())
	}
	sum := sha3.Sum256(buf)
	want := Result{
		Op:       "sqrt",
		Digest:   hex.EncodeToString(sum[:]),
		Count:    5,
		Min:      0.5,
		Max:      3,
		Avg:      float32(2./3 + 0.5/3 + 1.),
		Sign:     newBitKind(1),
		Exponent: newBitKind(8),
		Mantissa: newBitKind(8),
	}
	want.NaN.Resize(5)
	want.NaN.Set(1)
	// Signs: four positive, the canonical NaN is negative.
	want.Sign.ValuesSeen.Counts[0] = 4
	want.Sign.ValuesSeen.Counts[1] = 1
	want.Exponent.ValuesSeen.Counts[126] = 1
	want.Exponent.ValuesSeen.Counts[128] = 2
	want.Exponent.ValuesSeen.Counts[255] = 2
	// 3 and the quiet NaN have the top mantissa bit set.
	want.Mantissa.ValuesSeen.Counts[0] = 3
	want.Mantissa.ValuesSeen.Counts[0x80] = 2
	if diff := cmp.Diff(want, got, ignoreCache); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
	if n := got.Exponent.NumberDifferentValuesSeen(); n != 3 {
		t.Errorf("exponents seen: %d", n)
	}
	if w := got.Exponent.BitsWasted(); w != 6 {
		t.Errorf("exponent bits wasted: %d", w)
	}
	if u := got.Sign.BitsActuallyUsed(); u != 1 {
		t.Errorf("sign bits used: %g", u)
	}
}

func TestEvaluateBinary(t *testing.T) {
	op, _ := Lookup("sub")
	inputs := []softfloat.F32{f(1), f(2), f(3), f(4), f(5)}
	got, err := Evaluate(op, inputs)
	if err != nil {
		t.Fatal(err)
	}
	// Paired with indexes 3, 0, 2, 4, 1.
	want := []softfloat.F32{f(-3), f(1), f(0), f(-1), f(3)}
	if d := hex.EncodeToString(digest(want)); got.Digest != d {
		t.Fatalf("want %s, got %s", d, got.Digest)
	}
	if got.Min != -3 || got.Max != 3 || got.Avg != 0 || got.NaN.Effective() != 0 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestEvaluateErrors(t *testing.T) {
	op, _ := Lookup("add")
	data := []struct {
		name   string
		op     *Op
		inputs []softfloat.F32
	}{
		{"nil", nil, []softfloat.F32{softfloat.One}},
		{"empty op", &Op{Name: "empty"}, []softfloat.F32{softfloat.One}},
		{"both", &Op{Name: "both", Unary: softfloat.Abs, Binary: softfloat.Min}, []softfloat.F32{softfloat.One}},
		{"no inputs", op, nil},
	}
	for i, line := range data {
		t.Run(fmt.Sprintf("#%d: %s", i, line.name), func(t *testing.T) {
			if _, err := Evaluate(line.op, line.inputs); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEvaluateAllFinite(t *testing.T) {
	// The sum of the largest values would overflow.
	op, _ := Lookup("abs")
	inputs := []softfloat.F32{softfloat.MaxValue, softfloat.MaxValue, softfloat.MinValue}
	got, err := Evaluate(op, inputs)
	if err != nil {
		t.Fatal(err)
	}
	if got.Avg != softfloat.MaxValue.Float32() {
		t.Fatalf("avg = %g", got.Avg)
	}
	if _, err := json.Marshal(got); err != nil {
		t.Fatal(err)
	}
}

func newTestReport(t *testing.T) *Report {
	inputs := RandomInputs([]byte("report"), 1000)
	r := NewReport(Host{GOOS: "plan9", GOARCH: "mips", Go: "go1.23", NumCPU: 3, Features: []string{"fma"}}, inputs)
	for i := range Ops {
		res, err := Evaluate(&Ops[i], inputs)
		if err != nil {
			t.Fatal(err)
		}
		r.Results = append(r.Results, res)
	}
	r.Sort()
	return r
}

func TestReportJSON(t *testing.T) {
	r := newTestReport(t)
	if len(r.Results) != len(Ops) {
		t.Fatalf("%d results", len(r.Results))
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	got := &Report{}
	if err := json.Unmarshal(data, got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(r, got, ignoreCache); diff != "" {
		t.Fatalf("unexpected round trip (-want +got):\n%s", diff)
	}
	for i := 1; i < len(got.Results); i++ {
		if got.Results[i-1].Op >= got.Results[i].Op {
			t.Fatalf("not sorted: %s >= %s", got.Results[i-1].Op, got.Results[i].Op)
		}
	}
}

func TestReportDeterministic(t *testing.T) {
	if diff := cmp.Diff(newTestReport(t), newTestReport(t), ignoreCache); diff != "" {
		t.Fatalf("unexpected diff (-first +second):\n%s", diff)
	}
}

func TestCompare(t *testing.T) {
	golden := newTestReport(t)
	r := newTestReport(t)
	if diff, err := r.Compare(golden); err != nil || diff != nil {
		t.Fatalf("%v: %v", diff, err)
	}

	for i := range r.Results {
		switch r.Results[i].Op {
		case "add", "sin":
			r.Results[i].Digest = "00"
		}
	}
	// An op missing from golden cannot be verified.
	r.Results = append(r.Results, Result{Op: "new", Digest: "11"})
	diff, err := r.Compare(golden)
	if err == nil {
		t.Fatal("expected error")
	}
	if d := cmp.Diff([]string{"add", "sin", "new"}, diff); d != "" {
		t.Fatalf("unexpected ops (-want +got):\n%s", d)
	}

	// Ops only in golden are ignored: a run may check a subset.
	subset := newTestReport(t)
	subset.Results = subset.Results[:2]
	if diff, err := subset.Compare(golden); err != nil || diff != nil {
		t.Fatalf("%v: %v", diff, err)
	}

	other := NewReport(Host{}, RandomInputs([]byte("other"), 1000))
	if _, err := other.Compare(golden); err == nil {
		t.Fatal("expected error on different inputs")
	}
}

func TestCompareNothingInCommon(t *testing.T) {
	full := newTestReport(t)
	pick := func(name string) *Report {
		r := *full
		r.Results = nil
		for _, res := range full.Results {
			if res.Op == name {
				r.Results = append(r.Results, res)
			}
		}
		return &r
	}
	sin, cos := pick("sin"), pick("cos")
	if len(sin.Results) != 1 || len(cos.Results) != 1 {
		t.Fatal("missing ops")
	}
	empty := pick("")
	data := []struct {
		name        string
		run, golden *Report
	}{
		{"disjoint", sin, cos},
		{"empty golden", sin, empty},
		{"empty run", empty, cos},
	}
	for i, line := range data {
		t.Run(fmt.Sprintf("#%d: %s", i, line.name), func(t *testing.T) {
			if diff, err := line.run.Compare(line.golden); err == nil {
				t.Fatalf("expected error, got %v", diff)
			}
		})
	}
}
