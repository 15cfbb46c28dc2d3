package repositories

import "errors"

// ErrNotFound is returned by all repositories when a record does not exist.
// Services translate it into the client-facing error taxonomy.
var ErrNotFound = errors.New("record not found")
