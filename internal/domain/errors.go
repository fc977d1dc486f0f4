package domain

import "errors"

// Every fatal error returned by the generator wraps exactly one of these.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrResource      = errors.New("resource error")
	ErrRuntime       = errors.New("runtime error")
)
