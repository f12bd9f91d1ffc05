package common

import (
	"go.uber.org/atomic"
)

const (
	statusOrigin int32 = iota
	statusStarting
	statusStarted
	statusStopping
	statusStopped
)

// LifecycleStatus guards Start/Stop transitions of long running services.
// The zero value is ready to use.
type LifecycleStatus struct {
	status atomic.Int32
}

func (self *LifecycleStatus) PreStart() bool {
	return self.status.CAS(statusOrigin, statusStarting)
}
func (self *LifecycleStatus) PostStart() bool {
	return self.status.CAS(statusStarting, statusStarted)
}
func (self *LifecycleStatus) PreStop() bool {
	return self.status.CAS(statusStarted, statusStopping)
}
func (self *LifecycleStatus) PostStop() bool {
	return self.status.CAS(statusStopping, statusStopped)
}

func (self *LifecycleStatus) Started() bool {
	return self.status.Load() == statusStarted
}

func (self *LifecycleStatus) Stopped() bool {
	s := self.status.Load()
	return s == statusStopped || s == statusStopping
}
