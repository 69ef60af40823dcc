// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nlpodyssey/safetensors"
)

// cmdInspect lists the tensors of a safetensors file, to pick the -tensors
// filter.
func cmdInspect(ctx context.Context, w io.Writer, name string) error {
	b, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	s, err := safetensors.Deserialize(b)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(name), err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tensors := s.Tensors()
	slices.SortFunc(tensors, func(a, b safetensors.NamedTensorView) int {
		return strings.Compare(a.Name, b.Name)
	})
	maxNameLen := 0
	for _, t := range tensors {
		if l := len(t.Name); l > maxNameLen {
			maxNameLen = l
		}
	}
	fmt.Fprintf(w, "%s: %d tensors\n", filepath.Base(name), s.Len())
	types := map[string]int{}
	var total int64
	for _, t := range tensors {
		dtype := fmt.Sprint(t.TensorView.DType())
		types[dtype]++
		size := int64(t.TensorView.DataLen())
		total += size
		fmt.Fprintf(w, "- %-*s  %-4s  %-16v  %8s\n", maxNameLen, t.Name, dtype, t.TensorView.Shape(), humanBytes(size))
	}
	names := make([]string, 0, len(types))
	for dtype := range types {
		names = append(names, dtype)
	}
	slices.Sort(names)
	for _, dtype := range names {
		fmt.Fprintf(w, "  %d tensors of type %s\n", types[dtype], dtype)
	}
	fmt.Fprintf(w, "  %s total\n", humanBytes(total))
	return nil
}
