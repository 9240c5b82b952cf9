package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Format is an output format for resolved documents.
type Format int

const (
	YAMLFormat Format = iota
	JSONFormat
)

var ErrBadFormat = errors.New("bad format")

// formats gives each format its names, canonical name first, and the file
// suffixes that select it.
var formats = []struct {
	f        Format
	names    []string
	suffixes []string
}{
	{YAMLFormat, []string{"yaml", "yml", "y"}, []string{".yml", ".yaml"}},
	{JSONFormat, []string{"json", "j"}, []string{".json"}},
}

// ParseFormat looks up a format by name, ignoring case.
func ParseFormat(v string) (Format, error) {
	name := strings.ToLower(v)
	for _, e := range formats {
		if slices.Contains(e.names, name) {
			return e.f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// FromPath picks the format whose suffix ends path.
func FromPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return 0, false
	}
	for _, e := range formats {
		if slices.Contains(e.suffixes, ext) {
			return e.f, true
		}
	}
	return 0, false
}

func (f Format) String() string {
	for _, e := range formats {
		if e.f == f {
			return e.names[0]
		}
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func (f Format) IsJSON() bool { return f == JSONFormat }
