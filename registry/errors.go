package registry

import "errors"

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrDuplicateProject  = errors.New("project identity already registered")
	ErrDurationOverflow  = errors.New("project duration overflows")
	ErrAlreadyLoaded     = errors.New("registry already holds projects")
	ErrRegistryCorrupted = errors.New("stored registry is inconsistent")
)
