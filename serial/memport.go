package serial

import (
	"bytes"
	"sync"
)

// MemPort is a Port that lives in memory. What is passed to Inject comes out via Read,
// as if a device had sent it; what is written can be collected with TakeWritten.
// Faults can be injected to exercise error paths.
type MemPort struct {
	sync.Mutex

	name string

	rx bytes.Buffer
	tx bytes.Buffer

	canReadSignal chan (struct{})

	maximumCapacity int
	pins            PortPins

	readFault  error
	writeFault error
	pinsFault  error

	closed bool
}

const (
	// ErrorInjectFull is returned by Inject when the data does not fit in the receive buffer.
	// Nothing is injected in that case.
	ErrorInjectFull = Error("Inject ignored due to full receive buffer")
)

// NewMemPort constructs a MemPort. If maximumCapacity is zero or less the receive buffer is not bounded.
func NewMemPort(name string, maximumCapacity int) *MemPort {
	return &MemPort{
		name:            name,
		maximumCapacity: maximumCapacity,
		canReadSignal:   make(chan (struct{}), 1),
	}
}

func signalChannel(c chan (struct{})) {
	select {
	case c <- struct{}{}:
	default:
	}
}

// Name returns the name given to NewMemPort
func (m *MemPort) Name() string {
	return m.name
}

// Inject queues p as received data
func (m *MemPort) Inject(p []byte) (int, error) {
	m.Lock()
	defer m.Unlock()

	if m.closed {
		return 0, ErrorClosed
	}

	if m.maximumCapacity > 0 && m.rx.Len()+len(p) > m.maximumCapacity {
		return 0, ErrorInjectFull
	}

	n, err := m.rx.Write(p)
	signalChannel(m.canReadSignal)

	return n, err
}

// InjectString is a convenience wrapper around Inject
func (m *MemPort) InjectString(s string) (int, error) {
	return m.Inject([]byte(s))
}

// TakeWritten returns everything written since the previous call
func (m *MemPort) TakeWritten() []byte {
	m.Lock()
	defer m.Unlock()

	result := make([]byte, m.tx.Len())
	copy(result, m.tx.Bytes())
	m.tx.Reset()

	return result
}

// SetReadFault makes Buffered and Read fail with err until it is cleared with nil
func (m *MemPort) SetReadFault(err error) {
	m.Lock()
	m.readFault = err
	m.Unlock()

	signalChannel(m.canReadSignal)
}

// SetWriteFault makes Write fail with err until it is cleared with nil
func (m *MemPort) SetWriteFault(err error) {
	m.Lock()
	defer m.Unlock()

	m.writeFault = err
}

// SetPinsFault makes all modem line operations fail with err, like an adapter without them
func (m *MemPort) SetPinsFault(err error) {
	m.Lock()
	defer m.Unlock()

	m.pinsFault = err
}

// IsClosed reports whether Close was called
func (m *MemPort) IsClosed() bool {
	m.Lock()
	defer m.Unlock()

	return m.closed
}

// Buffered implements Port
func (m *MemPort) Buffered() (int, error) {
	m.Lock()
	defer m.Unlock()

	if m.closed {
		return 0, ErrorClosed
	}
	if m.readFault != nil {
		return 0, m.readFault
	}

	return m.rx.Len(), nil
}

// Read implements io.Reader. It blocks until data is injected, a fault is set or the port is closed.
func (m *MemPort) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for {
		m.Lock()
		if m.closed {
			signalChannel(m.canReadSignal)
			m.Unlock()
			return 0, ErrorClosed
		}
		if m.readFault != nil {
			err := m.readFault
			signalChannel(m.canReadSignal)
			m.Unlock()
			return 0, err
		}

		n, _ := m.rx.Read(p)
		if n > 0 {
			if m.rx.Len() > 0 {
				/* Another goroutine can potentially also read */
				signalChannel(m.canReadSignal)
			}
			m.Unlock()
			return n, nil
		}
		m.Unlock()

		<-m.canReadSignal
	}
}

// Write implements io.Writer
func (m *MemPort) Write(p []byte) (int, error) {
	m.Lock()
	defer m.Unlock()

	if m.closed {
		return 0, ErrorClosed
	}
	if m.writeFault != nil {
		return 0, m.writeFault
	}

	return m.tx.Write(p)
}

// SetDTR implements Port
func (m *MemPort) SetDTR(enabled bool) error {
	return m.setPin(&m.pins.DTR, enabled)
}

// SetRTS implements Port
func (m *MemPort) SetRTS(enabled bool) error {
	return m.setPin(&m.pins.RTS, enabled)
}

func (m *MemPort) setPin(pin *bool, enabled bool) error {
	m.Lock()
	defer m.Unlock()

	if m.closed {
		return ErrorClosed
	}
	if m.pinsFault != nil {
		return m.pinsFault
	}

	*pin = enabled
	return nil
}

// GetPins implements Port
func (m *MemPort) GetPins() (PortPins, error) {
	m.Lock()
	defer m.Unlock()

	if m.closed {
		return PortPins{}, ErrorClosed
	}
	if m.pinsFault != nil {
		return PortPins{}, m.pinsFault
	}

	return m.pins, nil
}

// Close implements io.Closer. Read calls return ErrorClosed afterwards. Safe to call multiple times.
func (m *MemPort) Close() error {
	m.Lock()
	defer m.Unlock()

	m.closed = true

	/* Unblock waiting readers */
	signalChannel(m.canReadSignal)

	return nil
}
