// Package runstate provides the flag that tells a polling worker whether it should keep going.
package runstate

import (
	"sync"

	"go.uber.org/atomic"
)

// Flag is a one-shot Stopped -> Running -> Stopped state. Running can be polled without
// locking, Stop can be called many times and from any goroutine.
type Flag struct {
	mutex    sync.Mutex
	running  atomic.Bool
	started  bool
	stopped  bool
	stopChan chan (struct{})

	// StopFunc will be called the first time Stop is called. It is allowed to call Stop itself
	StopFunc func() error
}

// Error is the type of the errors returned by Flag
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrorStopped is returned when the flag is stopped multiple times or started after stopping
	ErrorStopped = Error("Flag was already stopped. This is harmless.")

	// ErrorRunning is returned when a running flag is started again
	ErrorRunning = Error("Flag is already running")
)

// Start moves the flag to Running. A flag can only be started once.
func (f *Flag) Start() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.stopped {
		return ErrorStopped
	}
	if f.started {
		return ErrorRunning
	}

	f.started = true
	f.running.Store(true)
	return nil
}

// Running reports whether the flag was started and not yet stopped
func (f *Flag) Running() bool {
	return f.running.Load()
}

// Chan returns a channel that will be closed upon stopping the Flag
func (f *Flag) Chan() <-chan (struct{}) {
	f.mutex.Lock()
	if f.stopChan == nil {
		f.stopChan = make(chan (struct{}))
		if f.stopped {
			close(f.stopChan)
		}
	}
	f.mutex.Unlock()

	return f.stopChan
}

// Stop moves the flag to Stopped. It can safely be called multiple times, also on a flag
// that was never started.
func (f *Flag) Stop() error {
	f.mutex.Lock()
	stopped := f.stopped
	f.stopped = true
	f.running.Store(false)

	if !stopped && f.stopChan != nil {
		close(f.stopChan)
	}
	f.mutex.Unlock()

	if stopped {
		return ErrorStopped
	}

	if f.StopFunc != nil {
		return f.StopFunc()
	}

	return nil
}
