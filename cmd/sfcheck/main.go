// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// sfcheck evaluates the softfloat operations on this host and compares the
// output bits against a golden report produced on another host.
//
// Usage:
//
//	sfcheck [flags]
//	sfcheck [flags] inspect <file.safetensors>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func mainImpl() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	level := &slog.LevelVar{}
	slog.SetDefault(slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))

	c, args, err := parseArgs(os.Args[1:])
	if err != nil {
		return err
	}
	if c.Verbose {
		level.Set(slog.LevelDebug)
	}
	if len(args) != 0 {
		if args[0] != "inspect" {
			return fmt.Errorf("unknown command %q", args[0])
		}
		if len(args) != 2 {
			return errors.New("inspect takes exactly one safetensors file")
		}
		return cmdInspect(ctx, os.Stdout, args[1])
	}
	return cmdCheck(ctx, os.Stdout, c)
}

func main() {
	if err := mainImpl(); err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintf(os.Stderr, "sfcheck: %s\n", err)
		}
		os.Exit(1)
	}
}
