package lineserial

import "fmt"

// Error is the type of the sentinel errors of this package
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrorNoDeviceFound is wrapped in an OpenError when no path was given and enumeration found nothing
	ErrorNoDeviceFound = Error("No serial device found")

	// ErrorAlreadyRunning is returned by Open while the previous session is still running
	ErrorAlreadyRunning = Error("Session is already running")

	// ErrorNotOpen is wrapped in a WriteError when writing without a running session
	ErrorNotOpen = Error("Session is not open")
)

// OpenError is returned when a port could not be opened. No worker is started in that case.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("open serial port: %v", e.Err)
	}
	return fmt.Sprintf("open serial port %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// WriteError is returned when a write did not reach the port. The session keeps running.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("write serial port: %v", e.Err)
	}
	return fmt.Sprintf("write serial port %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ReadFault is a transport error seen by the worker while polling. It is logged and polling continues.
type ReadFault struct {
	Path string
	Err  error
}

func (e *ReadFault) Error() string {
	return fmt.Sprintf("read serial port %s: %v", e.Path, e.Err)
}

func (e *ReadFault) Unwrap() error { return e.Err }
