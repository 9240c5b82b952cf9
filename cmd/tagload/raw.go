package main

import (
	"fmt"

	"github.com/signadot/tagload"

	"github.com/scott-cotton/cli"
)

func raw(cfg *RawConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Raw.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.format().IsJSON() {
		return fmt.Errorf("%w: raw documents are only shown as yaml", cli.ErrUsage)
	}
	l, err := cfg.loader()
	if err != nil {
		return err
	}
	for i, arg := range fileArgs(args) {
		d, src, err := readArg(cc, l, arg)
		if err != nil {
			return err
		}
		node, err := l.LoadRaw(d, append(rootOpts(cfg.Root), tagload.Source(src))...)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", arg, err)
		}
		if node == nil {
			continue
		}
		if err := writeDoc(cfg.MainConfig, cc.Out, node, i); err != nil {
			return fmt.Errorf("error encoding %s: %w", arg, err)
		}
	}
	return nil
}
