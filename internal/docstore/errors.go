package docstore

import "errors"

// ErrNotFound is returned by Get when nothing is stored at the key
var ErrNotFound = errors.New("not found")
