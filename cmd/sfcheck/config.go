// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultN    = 1 << 16
	defaultSeed = "sfcheck"
)

// config is the resolved configuration. Values set on the command line win
// over the ones loaded from the YAML file.
type config struct {
	// Ops are regexps of op names, each anchored. Empty means all ops.
	Ops  []string `yaml:"ops"`
	N    int      `yaml:"n"`
	Seed string   `yaml:"seed"`
	// Safetensors is a file whose tensors are used as inputs instead of
	// random values.
	Safetensors string `yaml:"safetensors"`
	Tensors     string `yaml:"tensors"`
	HFRepo      string `yaml:"hf_repo"`
	Golden      string `yaml:"golden"`
	Out         string `yaml:"out"`

	HFToken string `yaml:"-"`
	Verbose bool   `yaml:"-"`
}

// load merges the content of a YAML file into c. Unknown keys are an error.
func (c *config) load(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	d := yaml.NewDecoder(f)
	d.KnownFields(true)
	if err := d.Decode(c); err != nil && err != io.EOF {
		// io.EOF is an empty file.
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (c *config) validate() error {
	if c.N < 0 {
		return fmt.Errorf("n must not be negative, got %d", c.N)
	}
	if c.N == 0 && c.Safetensors == "" && c.HFRepo == "" {
		return errors.New("n must be positive without tensors")
	}
	if c.Safetensors != "" && c.HFRepo != "" {
		return errors.New("use only one of safetensors and hf-repo")
	}
	if c.Tensors != "" {
		if _, err := regexp.Compile(c.Tensors); err != nil {
			return fmt.Errorf("tensors: %w", err)
		}
	}
	_, err := c.opsRegexp()
	return err
}

// opsRegexp returns the regexp matching the selected ops.
func (c *config) opsRegexp() (*regexp.Regexp, error) {
	if len(c.Ops) == 0 {
		return regexp.MustCompile(".*"), nil
	}
	re, err := regexp.Compile("^(?:" + strings.Join(c.Ops, "|") + ")$")
	if err != nil {
		return nil, fmt.Errorf("ops: %w", err)
	}
	return re, nil
}

// tensorsRegexp returns nil when all tensors are selected.
func (c *config) tensorsRegexp() *regexp.Regexp {
	if c.Tensors == "" {
		return nil
	}
	return regexp.MustCompile(c.Tensors)
}

// parseArgs parses the command line and the configuration file it points to.
// It returns the remaining positional arguments.
func parseArgs(args []string) (*config, []string, error) {
	fs := flag.NewFlagSet("sfcheck", flag.ContinueOnError)
	cfgFile := fs.String("config", "", "YAML configuration file, flags override its values")
	ops := fs.String("ops", "", "regexp of the ops to evaluate, e.g. \"sin|cos\"; all by default")
	n := fs.Int("n", defaultN, "number of inputs; with tensors, 0 means all the values")
	seed := fs.String("seed", defaultSeed, "seed of the random inputs")
	st := fs.String("safetensors", "", "safetensors file to use as inputs instead of random values")
	tensors := fs.String("tensors", "", "regexp of the tensors to load")
	hfRepo := fs.String("hf-repo", "", "HuggingFace repository to fetch model.safetensors from, e.g. \"Qwen/Qwen2.5-0.5B\"")
	hfToken := fs.String("hf-token", "", "HuggingFace token")
	golden := fs.String("golden", "", "golden report to compare against")
	out := fs.String("out", "", "file to write the JSON report to")
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	c := &config{N: defaultN, Seed: defaultSeed}
	if *cfgFile != "" {
		if err := c.load(*cfgFile); err != nil {
			return nil, nil, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ops":
			c.Ops = nil
			if *ops != "" {
				c.Ops = []string{*ops}
			}
		case "n":
			c.N = *n
		case "seed":
			c.Seed = *seed
		case "safetensors":
			c.Safetensors = *st
		case "tensors":
			c.Tensors = *tensors
		case "hf-repo":
			c.HFRepo = *hfRepo
		case "golden":
			c.Golden = *golden
		case "out":
			c.Out = *out
		}
	})
	c.HFToken = *hfToken
	c.Verbose = *verbose
	if err := c.validate(); err != nil {
		return nil, nil, err
	}
	return c, fs.Args(), nil
}
