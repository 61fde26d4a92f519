package namespace

import "errors"

// ErrInvalidName is returned for names that are not dot-separated identifiers.
var ErrInvalidName = errors.New("invalid namespace name")
