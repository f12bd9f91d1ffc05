package store

import "errors"

var (
	ErrNotFound      = errors.New("store: not found")
	ErrBadRecord     = errors.New("store: malformed record")
	ErrStoreClosed   = errors.New("store: closed")
	ErrIndexConflict = errors.New("store: registry index already taken")
)
