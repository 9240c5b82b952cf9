package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Load    bool
	Resolve bool
	Ref     bool
	Env     bool
}

var d *debug

func init() {
	d = &debug{}
	d.Load = boolEnv("TAGLOAD_DEBUG_LOAD")
	d.Resolve = boolEnv("TAGLOAD_DEBUG_RESOLVE")
	d.Ref = boolEnv("TAGLOAD_DEBUG_REF")
	d.Env = boolEnv("TAGLOAD_DEBUG_ENV")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Load() bool {
	return d.Load
}
func Resolve() bool {
	return d.Resolve
}
func Ref() bool {
	return d.Ref
}
func Env() bool {
	return d.Env
}
