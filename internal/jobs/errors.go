package jobs

import "errors"

// ErrNotFound means the requested job does not exist.
var ErrNotFound = errors.New("jobs: not found")
