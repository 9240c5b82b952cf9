package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/signadot/tagload"
	"github.com/signadot/tagload/encode"
	"github.com/signadot/tagload/eval"
	"github.com/signadot/tagload/parse"

	"github.com/scott-cotton/cli"

	jsonpatch "github.com/evanphx/json-patch"
)

func load(cfg *LoadConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Load.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Raw && cfg.Patch != "" {
		return fmt.Errorf("%w: -p applies to resolved documents, not -raw", cli.ErrUsage)
	}
	l, err := cfg.loader()
	if err != nil {
		return err
	}
	var patch jsonpatch.Patch
	if cfg.Patch != "" {
		patch, err = readPatch(cc, l, cfg.Patch)
		if err != nil {
			return err
		}
	}
	for i, arg := range fileArgs(args) {
		d, src, err := readArg(cc, l, arg)
		if err != nil {
			return err
		}
		v, err := l.Load(d, append(cfg.loadOpts(), tagload.Source(src))...)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", arg, err)
		}
		if patch != nil {
			v, err = applyPatch(patch, v)
			if err != nil {
				return fmt.Errorf("error patching %s: %w", arg, err)
			}
		}
		if err := writeDoc(cfg.MainConfig, cc.Out, v, i); err != nil {
			return fmt.Errorf("error encoding %s: %w", arg, err)
		}
	}
	return nil
}

func writeDoc(cfg *MainConfig, w io.Writer, v any, i int) error {
	if i > 0 && !cfg.format().IsJSON() {
		if _, err := w.Write([]byte("---\n")); err != nil {
			return err
		}
	}
	return encode.Encode(v, w, cfg.encOpts(w)...)
}

func readPatch(cc *cli.Context, l *tagload.Loader, path string) (jsonpatch.Patch, error) {
	d, _, err := readArg(cc, l, path)
	if err != nil {
		return nil, err
	}
	p, err := jsonpatch.DecodePatch(d)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid patch %s: %w", cli.ErrUsage, path, err)
	}
	return p, nil
}

// applyPatch applies p to the json rendering of a resolved value and reads
// the result back as a resolved value.
func applyPatch(p jsonpatch.Patch, v any) (any, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	res, err := p.Apply(doc)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err := json.Indent(buf, res, "", "  "); err != nil {
		return nil, err
	}
	node, err := parse.Parse(buf.Bytes())
	if err != nil {
		return nil, err
	}
	return eval.ResolveDocument(node, &eval.Context{Registry: eval.NewRegistry()})
}
