//go:build !linux

package serial

import (
	"sync"

	bugst "go.bug.st/serial"
)

// serialPortBugst backs Port with go.bug.st/serial on platforms without a
// native implementation. That library has no input queue query, so Buffered
// performs a zero-timeout read and keeps the byte for the next Read.
type serialPortBugst struct {
	sync.Mutex

	port    bugst.Port
	peek    []byte
	scratch [64]byte
	closed  bool
}

func openPortOs(options *PortOptions) (*serialPortBugst, error) {
	mode := &bugst.Mode{
		BaudRate: int(options.BaudRate),
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}

	port, err := bugst.Open(options.PortName, mode)
	if err != nil {
		return nil, err
	}

	if err := port.SetReadTimeout(0); err != nil {
		port.Close()
		return nil, err
	}

	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, err
	}

	return &serialPortBugst{port: port}, nil
}

func (s *serialPortBugst) Buffered() (int, error) {
	s.Lock()
	defer s.Unlock()

	if s.closed {
		return 0, ErrorClosed
	}

	if len(s.peek) == 0 {
		n, err := s.port.Read(s.scratch[:])
		if err != nil {
			return 0, err
		}
		s.peek = append(s.peek, s.scratch[:n]...)
	}

	return len(s.peek), nil
}

func (s *serialPortBugst) Read(p []byte) (int, error) {
	s.Lock()
	defer s.Unlock()

	if s.closed {
		return 0, ErrorClosed
	}

	if len(s.peek) > 0 {
		n := copy(p, s.peek)
		s.peek = s.peek[n:]
		return n, nil
	}

	return s.port.Read(p)
}

func (s *serialPortBugst) Write(p []byte) (int, error) {
	s.Lock()
	closed := s.closed
	s.Unlock()

	if closed {
		return 0, ErrorClosed
	}
	return s.port.Write(p)
}

func (s *serialPortBugst) SetDTR(enabled bool) error {
	if s.isClosed() {
		return ErrorClosed
	}
	return s.port.SetDTR(enabled)
}

func (s *serialPortBugst) SetRTS(enabled bool) error {
	if s.isClosed() {
		return ErrorClosed
	}
	return s.port.SetRTS(enabled)
}

func (s *serialPortBugst) GetPins() (PortPins, error) {
	if s.isClosed() {
		return PortPins{}, ErrorClosed
	}

	bits, err := s.port.GetModemStatusBits()
	if err != nil {
		return PortPins{}, err
	}

	return PortPins{
		DSR: bits.DSR,
		CTS: bits.CTS,
		DCD: bits.DCD,
		RNG: bits.RI,
	}, nil
}

func (s *serialPortBugst) isClosed() bool {
	s.Lock()
	defer s.Unlock()

	return s.closed
}

func (s *serialPortBugst) Close() error {
	s.Lock()
	closed := s.closed
	s.closed = true
	s.peek = nil
	s.Unlock()

	if closed {
		return nil
	}
	return s.port.Close()
}
