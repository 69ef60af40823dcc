// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package detcheck

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/maruel/softfloat-go/softfloat"
	"github.com/nlpodyssey/safetensors"
)

type rawTensor struct {
	name  string
	dtype string
	data  []byte
	size  int
}

// writeSafetensors writes a safetensors file: a little endian header length,
// the JSON header then the tensors data.
func writeSafetensors(t *testing.T, tensors []rawTensor) string {
	type info struct {
		DType       string `json:"dtype"`
		Shape       []int  `json:"shape"`
		DataOffsets [2]int `json:"data_offsets"`
	}
	header := map[string]info{}
	var data []byte
	for _, r := range tensors {
		header[r.name] = info{
			DType:       r.dtype,
			Shape:       []int{len(r.data) / r.size},
			DataOffsets: [2]int{len(data), len(data) + len(r.data)},
		}
		data = append(data, r.data...)
	}
	h, err := json.Marshal(header)
	if err != nil {
		t.Fatal(err)
	}
	b := binary.LittleEndian.AppendUint64(nil, uint64(len(h)))
	b = append(b, h...)
	b = append(b, data...)
	p := filepath.Join(t.TempDir(), "model.safetensors")
	if err := os.WriteFile(p, b, 0o666); err != nil {
		t.Fatal(err)
	}
	return p
}

func testTensors(t *testing.T) string {
	return writeSafetensors(t, []rawTensor{
		// 1, -2, 0.5
		{"a.bf16", "BF16", []byte{0x80, 0x3F, 0x00, 0xC0, 0x00, 0x3F}, 2},
		// 1, -2
		{"b.f32", "F32", []byte{0, 0, 0x80, 0x3F, 0, 0, 0, 0xC0}, 4},
		// 1, +Inf
		{"c.f16", "F16", []byte{0x00, 0x3C, 0x00, 0x7C}, 2},
		{"d.i32", "I32", []byte{1, 0, 0, 0}, 4},
	})
}

func TestLoadTensors(t *testing.T) {
	p := testTensors(t)
	got, err := LoadTensors(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	one, two, half := softfloat.One, softfloat.Two, softfloat.Half
	want := []Tensor{
		{Name: "a.bf16", DType: safetensors.BF16, Values: []softfloat.F32{one, two.Neg(), half}},
		{Name: "b.f32", DType: safetensors.F32, Values: []softfloat.F32{one, two.Neg()}},
		{Name: "c.f16", DType: safetensors.F16, Values: []softfloat.F32{one, softfloat.PositiveInfinity}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected tensors (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]softfloat.F32{one, two.Neg(), half, one}, Flatten(got, 4)); diff != "" {
		t.Fatalf("unexpected flatten (-want +got):\n%s", diff)
	}
	if n := len(Flatten(got, 0)); n != 7 {
		t.Fatalf("flatten all: %d", n)
	}

	got, err = LoadTensors(p, regexp.MustCompile(`^c\.`))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "c.f16" {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestLoadTensorsErrors(t *testing.T) {
	p := testTensors(t)
	if _, err := LoadTensors(p, regexp.MustCompile(`i32`)); err == nil {
		t.Fatal("expected error for no float tensor")
	}
	if _, err := LoadTensors(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.safetensors")
	if err := os.WriteFile(bad, []byte("not a safetensors file"), 0o666); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTensors(bad, nil); err == nil {
		t.Fatal("expected error for a corrupted file")
	}
}
