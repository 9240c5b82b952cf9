package parse

import "fmt"

type parseOpts struct {
	timestamps bool
	filename   string
}

type ParseOption func(*parseOpts)

// Trust enables recognition of the named scalar types. The only type
// currently known is "timestamp".
func Trust(types ...string) ParseOption {
	return func(o *parseOpts) {
		for _, t := range types {
			if t == "timestamp" {
				o.timestamps = true
			}
		}
	}
}

// Filename names the source in parse errors.
func Filename(name string) ParseOption {
	return func(o *parseOpts) { o.filename = name }
}

// TrustedTypes returns the type names Trust accepts.
func TrustedTypes() []string {
	return []string{"timestamp"}
}

// CheckTrusted fails for a name Trust does not know.
func CheckTrusted(types ...string) error {
	for _, t := range types {
		known := false
		for _, k := range TrustedTypes() {
			if t == k {
				known = true
			}
		}
		if !known {
			return fmt.Errorf("%w %q (known: %v)", ErrUntrustedType, t, TrustedTypes())
		}
	}
	return nil
}
