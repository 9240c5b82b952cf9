package tagload

import (
	"errors"
	"fmt"
	"sort"

	"github.com/signadot/tagload/eval"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

var ErrTagsFile = errors.New("bad tags file")

// RegisterTags registers the tags declared in d, a YAML mapping from tag
// name to the entry's kind and options:
//
//	path/app_root:
//	  kind: path_root
//	  containing: go.mod
//	env/port:
//	  kind: env
//	  coerce: integer
//	double:
//	  kind: expr
//	  expr: args[0] * 2
func RegisterTags(reg *eval.Registry, d []byte) error {
	specs := map[string]map[string]any{}
	if err := yaml.Unmarshal(d, &specs); err != nil {
		return fmt.Errorf("%w: %w", ErrTagsFile, err)
	}
	names := make([]string, 0, len(specs))
	for n := range specs {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		spec := specs[n]
		kn, ok := spec["kind"].(string)
		if !ok {
			return fmt.Errorf("%w: !%s: missing kind", ErrTagsFile, n)
		}
		kind, err := eval.LookupKind(kn)
		if err != nil {
			return fmt.Errorf("%w: !%s: %w", ErrTagsFile, n, err)
		}
		var opts eval.Options
		for k, v := range spec {
			if k == "kind" {
				continue
			}
			if opts == nil {
				opts = eval.Options{}
			}
			opts[k] = v
		}
		if err := reg.Register(n, kind, opts, nil); err != nil {
			return fmt.Errorf("%w: %w", ErrTagsFile, err)
		}
	}
	return nil
}

// RegisterTagsFile reads a tags file from fsys and registers its tags.
func RegisterTagsFile(reg *eval.Registry, fsys afero.Fs, path string) error {
	d, err := afero.ReadFile(fsys, path)
	if err != nil {
		return err
	}
	if err := RegisterTags(reg, d); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
