package eval

import (
	"os"
	"strings"

	"github.com/signadot/tagload/ir"

	"github.com/spf13/afero"
)

// AllOptionalEnv names the environment variable that makes every env tag
// optional.
const AllOptionalEnv = "TAGLOAD_ENV_ALL_OPTIONAL"

// Context is what resolvers see of a load. It is not modified during
// resolution.
type Context struct {
	Registry *Registry

	// Root is the unresolved document refs are looked up in.
	Root *ir.Node

	// Source is the path of the document being loaded, empty when it was
	// not read from a file.
	Source string

	// Fs is consulted by path_root; nil means the OS filesystem.
	Fs afero.Fs

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// AllOptional forces every env tag to be optional, as does a
	// truthy AllOptionalEnv.
	AllOptional bool
}

func (c *Context) fs() afero.Fs {
	if c.Fs == nil {
		return afero.NewOsFs()
	}
	return c.Fs
}

func (c *Context) lookupEnv(name string) (string, bool) {
	if c.LookupEnv == nil {
		return os.LookupEnv(name)
	}
	return c.LookupEnv(name)
}

// IsAllOptional reports whether env tags are all optional in this context.
func (c *Context) IsAllOptional() bool {
	if c.AllOptional {
		return true
	}
	v, ok := c.lookupEnv(AllOptionalEnv)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}
