package eval

import (
	"net/url"
)

// Path is the value of path tags.
type Path string

func (p Path) String() string {
	return string(p)
}

// URI is the value of uri tags. It encodes as its string form.
type URI struct {
	*url.URL
}

func (u URI) String() string {
	if u.URL == nil {
		return ""
	}
	return u.URL.String()
}

func (u URI) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u URI) MarshalYAML() (any, error) {
	return u.String(), nil
}
