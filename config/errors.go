package config

import "errors"

var (
	ErrEmptyDataDir  = errors.New("data dir must not be empty")
	ErrBadLogLevel   = errors.New("unknown log level")
	ErrBadCacheSize  = errors.New("cache size must be positive")
	ErrBadSweepSpec  = errors.New("unparsable sweep spec")
	ErrBadListenAddr = errors.New("rpc listen address must not be empty")
)
