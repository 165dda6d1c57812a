package serial

import "io"

// Port is an extended io.ReadWriteCloser that also exposes the input queue
// and the modem control lines of a serial port
type Port interface {
	io.ReadWriteCloser

	// Buffered returns the number of received bytes that can be read without waiting
	Buffered() (int, error)

	/* Pins */
	SetDTR(enabled bool) error
	SetRTS(enabled bool) error
	GetPins() (PortPins, error)
}

// PortOptions is a parameter struct for Open. The line is always configured as 8N1.
type PortOptions struct {
	PortName string
	BaudRate BaudRate
}

// PortPins indicates the state of the modem control signals
type PortPins struct {
	DSR bool
	DTR bool
	RTS bool
	CTS bool
	DCD bool
	RNG bool
}

// Error is the type of the sentinel errors returned by this package
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrorClosed is returned by every Port method after Close
	ErrorClosed = Error("Port closed")

	// ErrorInvalidBaudRate is returned by Open for rates outside the supported set
	ErrorInvalidBaudRate = Error("Unsupported baud rate")
)

// Open creates an object that implements the Port interface
func Open(options *PortOptions) (Port, error) {
	if !options.BaudRate.Valid() {
		return nil, ErrorInvalidBaudRate
	}

	port, err := openPortOs(options)
	if err != nil {
		return nil, err
	}

	return port, nil
}

// TryReadByte reads a single byte if one is already waiting in the input queue.
// It never waits for data: ok is false when nothing was available.
func TryReadByte(port Port) (b byte, ok bool, err error) {
	n, err := port.Buffered()
	if err != nil || n <= 0 {
		return 0, false, err
	}

	var buf [1]byte
	n, err = port.Read(buf[:])
	if n == 1 {
		return buf[0], true, err
	}

	return 0, false, err
}
