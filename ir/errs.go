package ir

import "errors"

var ErrPathNotFound = errors.New("path not found")
