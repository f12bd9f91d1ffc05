package common

import (
	"os"
	"os/user"
	"path/filepath"
)

const (
	DefaultHTTPHost  = "localhost"
	DefaultHTTPPort  = 48133
	DefaultSweepSpec = "@every 1m"
	DefaultCacheSize = 1024
)

// DefaultDataDir is $HOME/.gfund
func DefaultDataDir() string {
	home := HomeDir()
	if home != "" {
		return filepath.Join(home, ".gfund")
	}
	return ""
}

func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
