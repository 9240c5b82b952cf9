package tagload

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/signadot/tagload/debug"
	"github.com/signadot/tagload/eval"
	"github.com/signadot/tagload/ir"
	"github.com/signadot/tagload/parse"

	"github.com/spf13/afero"
)

var ErrFileNotFound = errors.New("file not found")

// Loader holds the configuration shared by loads. It is not modified by
// loading.
type Loader struct {
	Registry *eval.Registry
	// ConfigDir is where ConfigFor looks for relative names.
	ConfigDir string
	Fs        afero.Fs
	LookupEnv func(string) (string, bool)
	// AllOptional makes every env tag optional.
	AllOptional bool
}

// New returns a loader with the built-in tags, reading ./config from the
// OS filesystem and the process environment.
func New() *Loader {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &Loader{
		Registry:  eval.DefaultRegistry(),
		ConfigDir: filepath.Join(wd, "config"),
		Fs:        afero.NewOsFs(),
		LookupEnv: os.LookupEnv,
	}
}

type LoadConfig struct {
	Root      string
	HasRoot   bool
	NoResolve bool
	Trusted   []string
	Source    string
	Subpath   ir.KPath
}

type LoadOpt func(*LoadConfig)

// Root narrows the result to the value of a top-level key. Refs are then
// relative to that value and siblings of key are never resolved.
func Root(key string) LoadOpt {
	return func(c *LoadConfig) {
		c.Root = key
		c.HasRoot = true
	}
}

// Env is Root, named after its use for per environment sections.
func Env(key string) LoadOpt {
	return Root(key)
}

// NoResolve returns the parsed *ir.Node with its tags in place.
func NoResolve() LoadOpt {
	return func(c *LoadConfig) { c.NoResolve = true }
}

// TrustedTypes enables parsing of extra scalar types, see parse.Trust.
func TrustedTypes(names ...string) LoadOpt {
	return func(c *LoadConfig) { c.Trusted = append(c.Trusted, names...) }
}

// Source names the file the document came from, for path_root tags and
// for errors.
func Source(path string) LoadOpt {
	return func(c *LoadConfig) { c.Source = path }
}

// Subpath resolves only the value at p, relative to the (narrowed) root.
func Subpath(p ir.KPath) LoadOpt {
	return func(c *LoadConfig) { c.Subpath = p }
}

func loadConfig(opts []LoadOpt) *LoadConfig {
	c := &LoadConfig{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Load parses the first document of src and resolves it. With NoResolve
// the result is the *ir.Node instead. An empty document loads as nil.
func (l *Loader) Load(src []byte, opts ...LoadOpt) (any, error) {
	cfg := loadConfig(opts)
	node, err := l.raw(src, cfg)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}
	if cfg.NoResolve {
		return node, nil
	}
	ctx := &eval.Context{
		Registry:    l.Registry,
		Root:        node,
		Source:      cfg.Source,
		Fs:          l.Fs,
		LookupEnv:   l.LookupEnv,
		AllOptional: l.AllOptional,
	}
	if cfg.Subpath != nil {
		return eval.ResolveSubpath(cfg.Subpath, ctx)
	}
	return eval.ResolveDocument(node, ctx)
}

// LoadRaw parses and narrows src without resolving it.
func (l *Loader) LoadRaw(src []byte, opts ...LoadOpt) (*ir.Node, error) {
	return l.raw(src, loadConfig(opts))
}

func (l *Loader) raw(src []byte, cfg *LoadConfig) (*ir.Node, error) {
	if err := parse.CheckTrusted(cfg.Trusted...); err != nil {
		return nil, err
	}
	pOpts := []parse.ParseOption{parse.Trust(cfg.Trusted...)}
	if cfg.Source != "" {
		pOpts = append(pOpts, parse.Filename(cfg.Source))
	}
	node, err := parse.Parse(src, pOpts...)
	if err != nil {
		return nil, err
	}
	if debug.Load() && node != nil {
		debug.Logf("load %q root=%q tags=%d\n", cfg.Source, cfg.Root, len(node.Tags()))
	}
	if !cfg.HasRoot {
		return node, nil
	}
	return narrow(node, cfg.Root)
}

func narrow(node *ir.Node, key string) (*ir.Node, error) {
	if node == nil || node.Type != ir.ObjectType || node.Tag != "" {
		return nil, fmt.Errorf("%w: root %q (document is not a plain mapping)", ir.ErrPathNotFound, key)
	}
	res := ir.Get(node, ir.Key(key))
	if res == nil {
		return nil, fmt.Errorf("%w: root %q", ir.ErrPathNotFound, key)
	}
	return res, nil
}

// LoadFile loads the file at path, relative to the working directory.
func (l *Loader) LoadFile(path string, opts ...LoadOpt) (any, error) {
	d, abs, err := l.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Load(d, append([]LoadOpt{Source(abs)}, opts...)...)
}

// ReadFile reads path from the loader's file system and returns its
// contents with its absolute path. A missing file is ErrFileNotFound.
func (l *Loader) ReadFile(path string) ([]byte, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}
	d, err := afero.ReadFile(l.fs(), abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrFileNotFound, abs)
		}
		return nil, "", err
	}
	return d, abs, nil
}

// ConfigFor loads <ConfigDir>/<name>.yml, or .yaml when only that exists.
// An absolute name is loaded as is.
func (l *Loader) ConfigFor(name string, opts ...LoadOpt) (any, error) {
	if filepath.IsAbs(name) {
		return l.LoadFile(name, opts...)
	}
	yml := filepath.Join(l.ConfigDir, name+".yml")
	yamlPath := filepath.Join(l.ConfigDir, name+".yaml")
	if ok, _ := afero.Exists(l.fs(), yml); !ok {
		if ok, _ := afero.Exists(l.fs(), yamlPath); ok {
			return l.LoadFile(yamlPath, opts...)
		}
	}
	return l.LoadFile(yml, opts...)
}

func (l *Loader) fs() afero.Fs {
	if l.Fs == nil {
		return afero.NewOsFs()
	}
	return l.Fs
}

// Load loads src with a fresh New loader.
func Load(src []byte, opts ...LoadOpt) (any, error) {
	return New().Load(src, opts...)
}

// LoadFile loads path with a fresh New loader.
func LoadFile(path string, opts ...LoadOpt) (any, error) {
	return New().LoadFile(path, opts...)
}
