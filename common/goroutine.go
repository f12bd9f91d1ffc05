package common

import (
	goerrors "github.com/go-errors/errors"
	"github.com/inconshreveable/log15"
)

var glog = log15.New("module", "error")

// Go runs fn in a new goroutine. A panic is logged with its stack and then
// re-raised.
func Go(fn func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				glog.Error("panic", "err", err, "stack", goerrors.Wrap(err, 2).ErrorStack())
				panic(err)
			}
		}()
		fn()
	}()
}

// Recover runs fn and converts a panic into an error carrying the stack.
func Recover(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e := goerrors.Wrap(r, 2)
			glog.Error("recovered", "err", r, "stack", e.ErrorStack())
			err = e
		}
	}()
	fn()
	return nil
}
