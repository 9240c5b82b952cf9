package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/signadot/tagload"
	"github.com/signadot/tagload/encode"
	"github.com/signadot/tagload/format"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color       bool   `cli:"name=color desc='encode with color'"`
	J           bool   `cli:"name=j aliases=json desc='output json'"`
	Y           bool   `cli:"name=y aliases=yaml desc='output yaml'"`
	TagsFile    string `cli:"name=tags desc='register the tags defined in this yaml file'"`
	AllOptional bool   `cli:"name=all-optional desc='treat every env tag as optional'"`

	OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// format is -O if given, then -j or -y, then the suffix of the -o
// file, and yaml otherwise.
func (cfg *MainConfig) format() format.Format {
	switch {
	case cfg.OutFormat != nil:
		return *cfg.OutFormat
	case cfg.J:
		return format.JSONFormat
	case cfg.Y:
		return format.YAMLFormat
	}
	if f, ok := format.FromPath(cfg.Out); ok {
		return f
	}
	return format.YAMLFormat
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{encode.EncodeFormat(cfg.format())}
	if cfg.useColor(w) {
		res = append(res, encode.EncodeColors(encode.NewPalette()))
	}
	return res
}

// useColor reports whether output to w is colored: always with -color,
// otherwise only when -color was not given and w is a terminal.
func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return false
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) loader() (*tagload.Loader, error) {
	l := tagload.New()
	l.AllOptional = cfg.AllOptional
	if cfg.TagsFile == "" {
		return l, nil
	}
	if err := tagload.RegisterTagsFile(l.Registry, l.Fs, cfg.TagsFile); err != nil {
		return nil, err
	}
	return l, nil
}

type LoadConfig struct {
	*MainConfig

	Root  string `cli:"name=root desc='load only the value of this top-level key'"`
	Raw   bool   `cli:"name=raw desc='do not resolve tags'"`
	Trust string `cli:"name=t desc='comma separated trusted types, e.g. timestamp'"`
	Patch string `cli:"name=p desc='json patch (RFC 6902) file applied to the result'"`

	Load *cli.Command
}

func (cfg *LoadConfig) loadOpts() []tagload.LoadOpt {
	var res []tagload.LoadOpt
	if cfg.Root != "" {
		res = append(res, tagload.Root(cfg.Root))
	}
	if cfg.Raw {
		res = append(res, tagload.NoResolve())
	}
	if cfg.Trust != "" {
		res = append(res, tagload.TrustedTypes(strings.Split(cfg.Trust, ",")...))
	}
	return res
}

type RawConfig struct {
	*MainConfig
	Root string `cli:"name=root desc='show only the value of this top-level key'"`

	Raw *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Root string `cli:"name=root desc='diff only the value of this top-level key'"`

	Diff *cli.Command
}

type GetConfig struct {
	*MainConfig
	Root string `cli:"name=root desc='paths are relative to this top-level key'"`

	Get *cli.Command
}

type TagsConfig struct {
	*MainConfig

	Tags *cli.Command
}

func rootOpts(root string) []tagload.LoadOpt {
	if root == "" {
		return nil
	}
	return []tagload.LoadOpt{tagload.Root(root)}
}
