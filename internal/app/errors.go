package app

import "errors"

// ErrNotFound reports a missing record in a source.
var ErrNotFound = errors.New("not found")
