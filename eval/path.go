package eval

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

var pathK = &pathKind{name: "path"}

// PathKind joins its arguments into a Path. Nested lists are flattened.
// The path need not exist.
func PathKind() Kind {
	return pathK
}

type pathKind struct {
	name
}

func (k *pathKind) Instance(opts Options) (Resolver, error) {
	if err := checkOptions(k, opts); err != nil {
		return nil, err
	}
	return pathResolver{}, nil
}

type pathResolver struct{}

func (pathResolver) Resolve(t *Tag, _ *Context) (any, error) {
	segs, err := pathSegments(t.Args)
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: no path segments", ErrBadArguments)
	}
	return Path(filepath.Join(segs...)), nil
}

func pathSegments(a Args) ([]string, error) {
	if a.IsMap() {
		return nil, fmt.Errorf("%w: path segments must be a list, got a mapping", ErrBadArguments)
	}
	var res []string
	var walk func([]any) error
	walk = func(vs []any) error {
		for _, v := range vs {
			if l, ok := v.([]any); ok {
				if err := walk(l); err != nil {
					return err
				}
				continue
			}
			s, err := Stringify(v)
			if err != nil {
				return fmt.Errorf("%w: path segment: %w", ErrBadArguments, err)
			}
			res = append(res, s)
		}
		return nil
	}
	if err := walk(a.List); err != nil {
		return nil, err
	}
	return res, nil
}

var pathRootK = &pathRootKind{name: "path_root"}

// PathRootKind finds the closest ancestor of the loaded document's
// directory containing the entry named by the option "containing", and
// joins its arguments onto it.
func PathRootKind() Kind {
	return pathRootK
}

type pathRootKind struct {
	name
}

func (k *pathRootKind) Instance(opts Options) (Resolver, error) {
	if err := checkOptions(k, opts, "containing"); err != nil {
		return nil, err
	}
	c, ok, err := opts.String("containing")
	if err != nil {
		return nil, err
	}
	if !ok || c == "" {
		return nil, fmt.Errorf("%w: %s requires option \"containing\"", ErrBadOptions, k)
	}
	return pathRootResolver{containing: c}, nil
}

type pathRootResolver struct {
	containing string
}

func (r pathRootResolver) Resolve(t *Tag, ctx *Context) (any, error) {
	segs, err := pathSegments(t.Args)
	if err != nil {
		return nil, err
	}
	start, err := startDir(ctx.Source)
	if err != nil {
		return nil, err
	}
	root, err := findUp(ctx.fs(), start, r.containing)
	if err != nil {
		return nil, err
	}
	return Path(filepath.Join(append([]string{root}, segs...)...)), nil
}

func startDir(source string) (string, error) {
	if source == "" {
		return os.Getwd()
	}
	return filepath.Abs(filepath.Dir(source))
}

func findUp(fs afero.Fs, start, containing string) (string, error) {
	dir := start
	for {
		if _, err := fs.Stat(filepath.Join(dir, containing)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w: no ancestor of %s contains %q", ErrRootNotFound, start, containing)
}
