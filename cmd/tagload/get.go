package main

import (
	"fmt"

	"github.com/signadot/tagload"
	"github.com/signadot/tagload/ir"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a path such as a.b[0]", cli.ErrUsage)
	}
	path, err := ir.ParseKPath(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	l, err := cfg.loader()
	if err != nil {
		return err
	}
	for i, arg := range fileArgs(args[1:]) {
		d, src, err := readArg(cc, l, arg)
		if err != nil {
			return err
		}
		opts := append(rootOpts(cfg.Root), tagload.Source(src), tagload.Subpath(path))
		v, err := l.Load(d, opts...)
		if err != nil {
			return fmt.Errorf("error getting %s from %s: %w", path, arg, err)
		}
		if err := writeDoc(cfg.MainConfig, cc.Out, v, i); err != nil {
			return fmt.Errorf("error encoding %s: %w", arg, err)
		}
	}
	return nil
}
