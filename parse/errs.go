package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse         = errors.New("parse error")
	ErrKeyTag        = fmt.Errorf("%w: key cannot be tagged", ErrParse)
	ErrKeyType       = fmt.Errorf("%w: key must be a scalar", ErrParse)
	ErrAlias         = fmt.Errorf("%w: unknown alias", ErrParse)
	ErrMerge         = fmt.Errorf("%w: merge value must be a mapping or a list of mappings", ErrParse)
	ErrCoreTag       = fmt.Errorf("%w: bad value for core tag", ErrParse)
	ErrUntrustedType = errors.New("untrusted type")
)
