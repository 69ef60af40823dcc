// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package detcheck

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/maruel/softfloat-go/floatx"
	"github.com/maruel/softfloat-go/softfloat"
	"github.com/nlpodyssey/safetensors"
	"github.com/pkg/errors"
)

// Tensor is the float content of one tensor of a safetensors file, widened
// to softfloat.
type Tensor struct {
	Name   string
	DType  safetensors.DType
	Values []softfloat.F32
}

// LoadTensors reads the F32, F16 and BF16 tensors of a safetensors file whose
// name matches filter, sorted by name. A nil filter matches all tensors.
//
// Real model weights make a realistic set of inputs.
func LoadTensors(name string, filter *regexp.Regexp) ([]Tensor, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "loading tensors")
	}
	s, err := safetensors.Deserialize(b)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filepath.Base(name))
	}
	named := s.Tensors()
	slices.SortFunc(named, func(a, b safetensors.NamedTensorView) int {
		return strings.Compare(a.Name, b.Name)
	})
	var out []Tensor
	for _, n := range named {
		if filter != nil && !filter.MatchString(n.Name) {
			continue
		}
		t := Tensor{Name: n.Name, DType: n.TensorView.DType()}
		data := n.TensorView.Data()
		switch t.DType {
		case safetensors.F32:
			t.Values = make([]softfloat.F32, len(data)/4)
			for i := range t.Values {
				t.Values[i] = softfloat.Decode(data[4*i:])
			}
		case safetensors.F16:
			t.Values = make([]softfloat.F32, len(data)/2)
			for i := range t.Values {
				t.Values[i] = floatx.DecodeF16(data[2*i:]).Float()
			}
		case safetensors.BF16:
			t.Values = make([]softfloat.F32, len(data)/2)
			for i := range t.Values {
				t.Values[i] = floatx.DecodeBF16(data[2*i:]).Float()
			}
		default:
			slog.Debug("tensors", "skip", n.Name, "dtype", t.DType)
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, errors.Errorf("%s: no float tensor matched", filepath.Base(name))
	}
	return out, nil
}

// Flatten concatenates the values of the tensors, keeping at most n values
// when n is positive.
func Flatten(tensors []Tensor, n int) []softfloat.F32 {
	var out []softfloat.F32
	for _, t := range tensors {
		out = append(out, t.Values...)
		if n > 0 && len(out) >= n {
			return out[:n]
		}
	}
	return out
}
