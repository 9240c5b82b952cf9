package main

import (
	"fmt"
	"io"

	"github.com/signadot/tagload"

	"github.com/scott-cotton/cli"
)

// readArg reads a file argument through l, or cc.In for "-". The returned
// source is the absolute path of the file, empty for stdin.
func readArg(cc *cli.Context, l *tagload.Loader, path string) ([]byte, string, error) {
	if path == "-" {
		d, err := io.ReadAll(cc.In)
		if err != nil {
			return nil, "", fmt.Errorf("error reading stdin: %w", err)
		}
		return d, "", nil
	}
	return l.ReadFile(path)
}

func fileArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}
