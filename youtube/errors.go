package youtube

import "errors"

// ErrNotFound is returned when the API responds with an empty item list.
var ErrNotFound = errors.New("resource not found")
