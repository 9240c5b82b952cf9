package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func tags(cfg *TagsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tags.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: tags takes no arguments", cli.ErrUsage)
	}
	l, err := cfg.loader()
	if err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "available tags:\n")
	for _, e := range l.Registry.Entries() {
		fmt.Fprintf(cc.Out, "\t- %s\n", e)
	}
	return nil
}
