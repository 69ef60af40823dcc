// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"github.com/maruel/sillybot/huggingface"
	"github.com/maruel/softfloat-go/detcheck"
	"github.com/maruel/softfloat-go/softfloat"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func humanBytes(i int64) string {
	switch {
	case i > 1024*1024*1024:
		return fmt.Sprintf("%.1fGiB", float64(i)/1024./1024./1024.)
	case i > 1024*1024:
		return fmt.Sprintf("%.1fMiB", float64(i)/1024./1024.)
	case i > 1024:
		return fmt.Sprintf("%.1fkiB", float64(i)/1024.)
	default:
		return fmt.Sprintf("%dB", i)
	}
}

// cpuFeatures lists the floating point related features of the host. They
// must not change the results but help triage a mismatch.
func cpuFeatures() []string {
	var out []string
	add := func(name string, ok bool) {
		if ok {
			out = append(out, name)
		}
	}
	switch runtime.GOARCH {
	case "386", "amd64":
		add("sse2", cpu.X86.HasSSE2)
		add("sse41", cpu.X86.HasSSE41)
		add("avx", cpu.X86.HasAVX)
		add("avx2", cpu.X86.HasAVX2)
		add("fma", cpu.X86.HasFMA)
		add("avx512", cpu.X86.HasAVX512)
		add("avx512bf16", cpu.X86.HasAVX512BF16)
	case "arm64":
		add("fp", cpu.ARM64.HasFP)
		add("fphp", cpu.ARM64.HasFPHP)
		add("asimd", cpu.ARM64.HasASIMD)
		add("asimdhp", cpu.ARM64.HasASIMDHP)
		add("sve", cpu.ARM64.HasSVE)
	}
	return out
}

func hostInfo() detcheck.Host {
	return detcheck.Host{
		GOOS:     runtime.GOOS,
		GOARCH:   runtime.GOARCH,
		Go:       runtime.Version(),
		NumCPU:   runtime.NumCPU(),
		Features: cpuFeatures(),
	}
}

// loadInputs returns the values to evaluate the ops on: the tensors of a
// safetensors file, downloaded from HuggingFace if needed, or random values.
func loadInputs(ctx context.Context, c *config) ([]softfloat.F32, error) {
	name := c.Safetensors
	if c.HFRepo != "" {
		hf, err := huggingface.New(c.HFToken, "")
		if err != nil {
			return nil, err
		}
		if name, err = hf.EnsureFile(ctx, huggingface.PackedFileRef("hf:"+c.HFRepo+"/HEAD/model.safetensors"), 0o666); err != nil {
			return nil, err
		}
	}
	if name == "" {
		slog.Info("inputs", "seed", c.Seed, "n", c.N)
		return detcheck.RandomInputs([]byte(c.Seed), c.N), nil
	}
	tensors, err := detcheck.LoadTensors(name, c.tensorsRegexp())
	if err != nil {
		return nil, err
	}
	inputs := detcheck.Flatten(tensors, c.N)
	slog.Info("inputs", "file", filepath.Base(name), "tensors", len(tensors), "n", len(inputs))
	return inputs, nil
}

// selectOps returns the ops whose name matches re.
func selectOps(re *regexp.Regexp) ([]*detcheck.Op, error) {
	var ops []*detcheck.Op
	for i := range detcheck.Ops {
		if re.MatchString(detcheck.Ops[i].Name) {
			ops = append(ops, &detcheck.Ops[i])
		}
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("no op matches %q", re)
	}
	return ops, nil
}

// evaluateAll evaluates the ops concurrently, at most one per CPU.
func evaluateAll(ctx context.Context, ops []*detcheck.Op, inputs []softfloat.F32) ([]detcheck.Result, error) {
	// Concurrency limit.
	cpus := runtime.NumCPU()
	if cpus < 2 {
		cpus = 2
	} else if cpus > 1024 {
		cpus = 1024
	}
	cpuLimit := make(chan struct{}, cpus)
	results := make([]detcheck.Result, len(ops))
	eg, ctx2 := errgroup.WithContext(ctx)
	for i, op := range ops {
		eg.Go(func() error {
			cpuLimit <- struct{}{}
			defer func() {
				<-cpuLimit
			}()
			if err := ctx2.Err(); err != nil {
				return err
			}
			var err error
			results[i], err = detcheck.Evaluate(op, inputs)
			return err
		})
	}
	err := eg.Wait()
	return results, err
}

func calcNameLen(p *message.Printer, results []detcheck.Result) (int, int) {
	maxNameLen := 0
	maxSizeLen := 0
	for _, r := range results {
		if l := len(r.Op); l > maxNameLen {
			maxNameLen = l
		}
		if l := len(p.Sprintf("%d", r.Count)); l > maxSizeLen {
			maxSizeLen = l
		}
	}
	return maxNameLen, maxSizeLen
}

func printResults(w io.Writer, report *detcheck.Report) {
	p := message.NewPrinter(language.English)
	maxNameLen, maxSizeLen := calcNameLen(p, report.Results)
	nans := 0
	for i := range report.Results {
		r := &report.Results[i]
		n := int(r.NaN.Effective())
		if n != 0 {
			nans++
		}
		fmt.Fprintf(w, "%-*s: %*s  %s  nan=%-*s  [%12g, %12g] avg=%12g  exponent=%3.1f/%dbits  mantissa=%3.1f/%dbits\n",
			maxNameLen, r.Op, maxSizeLen, p.Sprintf("%d", r.Count),
			r.Digest[:16],
			maxSizeLen, p.Sprintf("%d", n),
			r.Min, r.Max, r.Avg,
			r.Exponent.BitsActuallyUsed(), r.Exponent.Allocation,
			r.Mantissa.BitsActuallyUsed(), r.Mantissa.Allocation,
		)
	}
	p.Fprintf(w, "%d ops evaluated over %d inputs (%s), %d produced NaNs\n",
		len(report.Results), report.Inputs, humanBytes(4*int64(report.Inputs)), nans)
}

func readReport(name string) (*detcheck.Report, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	r := &detcheck.Report{}
	if err := json.Unmarshal(b, r); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return r, nil
}

func writeReport(name string, r *detcheck.Report) error {
	b, err := json.MarshalIndent(r, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(name, append(b, '\n'), 0o666)
}

func cmdCheck(ctx context.Context, w io.Writer, c *config) error {
	re, err := c.opsRegexp()
	if err != nil {
		return err
	}
	ops, err := selectOps(re)
	if err != nil {
		return err
	}
	inputs, err := loadInputs(ctx, c)
	if err != nil {
		return err
	}
	host := hostInfo()
	slog.Info("host", "goos", host.GOOS, "goarch", host.GOARCH, "go", host.Go, "cpus", host.NumCPU, "features", host.Features)
	report := detcheck.NewReport(host, inputs)
	if report.Results, err = evaluateAll(ctx, ops, inputs); err != nil {
		return err
	}
	report.Sort()
	printResults(w, report)
	if c.Out != "" {
		if err := writeReport(c.Out, report); err != nil {
			return err
		}
	}
	if c.Golden != "" {
		golden, err := readReport(c.Golden)
		if err != nil {
			return err
		}
		if _, err := report.Compare(golden); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(c.Golden), err)
		}
		fmt.Fprintf(w, "matches %s from %s/%s\n", filepath.Base(c.Golden), golden.Host.GOOS, golden.Host.GOARCH)
	}
	return nil
}
