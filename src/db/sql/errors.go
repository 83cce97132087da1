package db

import "errors"

// ErrNotFound is returned when a referenced row does not exist or is not
// owned by the calling user. Handlers map it to a 404.
var ErrNotFound = errors.New("not found")
