package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/tagload"
	"github.com/signadot/tagload/encode"
	"github.com/signadot/tagload/format"

	"github.com/scott-cotton/cli"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	l, err := cfg.loader()
	if err != nil {
		return err
	}
	colorize := cfg.useColor(cc.Out)
	for _, arg := range fileArgs(args) {
		d, src, err := readArg(cc, l, arg)
		if err != nil {
			return err
		}
		opts := append(rootOpts(cfg.Root), tagload.Source(src))
		node, err := l.LoadRaw(d, opts...)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", arg, err)
		}
		res, err := l.Load(d, opts...)
		if err != nil {
			return fmt.Errorf("error resolving %s: %w", arg, err)
		}
		before, after := &bytes.Buffer{}, &bytes.Buffer{}
		if node != nil {
			if err := encode.Encode(node, before); err != nil {
				return err
			}
		}
		if err := encode.Encode(res, after, encode.EncodeFormat(format.YAMLFormat)); err != nil {
			return err
		}
		fmt.Fprintf(cc.Out, "--- %s (raw)\n+++ %s (resolved)\n", arg, arg)
		if err := writeDiff(cc.Out, lineDiff(before.String(), after.String()), colorize); err != nil {
			return err
		}
	}
	return nil
}

func lineDiff(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	return dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
}

// writeDiff writes diffs one line at a time, prefixed with ' ', '-' or '+'.
func writeDiff(w io.Writer, diffs []diffmatchpatch.Diff, colorize bool) error {
	del, ins := color.New(color.FgRed), color.New(color.FgGreen)
	if colorize {
		del.EnableColor()
		ins.EnableColor()
	} else {
		del.DisableColor()
		ins.DisableColor()
	}
	for _, d := range diffs {
		prefix, c := " ", (*color.Color)(nil)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, c = "-", del
		case diffmatchpatch.DiffInsert:
			prefix, c = "+", ins
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = prefix + strings.TrimSuffix(line, "\n")
			if c != nil {
				line = c.Sprint(line)
			}
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
