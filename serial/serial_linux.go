//go:build linux

package serial

import (
	"errors"
	"io"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

type serialPortLinux struct {
	file      *os.File
	fd        int
	closeChan chan (struct{})
}

func (port *serialPortLinux) setInterfaceRate(rate uint32) error {
	termios, err := unix.IoctlGetTermios(port.fd, unix.TCGETS2)
	if err != nil {
		return err
	}

	termios.Cflag &= ^uint32(unix.CBAUD)
	termios.Cflag |= uint32(unix.BOTHER)
	termios.Ispeed = rate
	termios.Ospeed = rate

	return unix.IoctlSetTermios(port.fd, unix.TCSETS2, termios)
}

func (port *serialPortLinux) defaultPortConfig() error {
	termios := &unix.Termios{}
	/* Raw 8N1, no flow control, modem status lines ignored */
	termios.Cflag |= uint32(syscall.CS8 | syscall.CLOCAL | syscall.CREAD)

	/* Reads return after at most 100ms even without data, so Close never waits
	 * long for the token held by a reader */
	termios.Cc[syscall.VTIME] = 1
	termios.Cc[syscall.VMIN] = 0

	return unix.IoctlSetTermios(port.fd, unix.TCSETS2, termios)
}

func openPortOs(options *PortOptions) (*serialPortLinux, error) {
	file, err := os.OpenFile(options.PortName, syscall.O_RDWR|syscall.O_NOCTTY|syscall.O_NONBLOCK, 0600)
	if err != nil {
		return nil, err
	}

	port := &serialPortLinux{}
	port.file = file
	port.fd = int(file.Fd())
	port.closeChan = make(chan (struct{}), 1)
	port.closeChan <- struct{}{}

	err = port.defaultPortConfig()
	if err != nil {
		goto failed
	}

	err = port.setInterfaceRate(uint32(options.BaudRate))
	if err != nil {
		goto failed
	}

	/* Discard whatever arrived before we were listening */
	err = unix.IoctlSetInt(port.fd, unix.TCFLSH, unix.TCIFLUSH)
	if err != nil {
		goto failed
	}

	err = unix.SetNonblock(port.fd, false)
	if err != nil {
		goto failed
	}

	return port, nil

failed:
	file.Close()
	return nil, err
}

// acquire takes the token that keeps the descriptor alive. Every successful
// acquire must be followed by release.
func (port *serialPortLinux) acquire() error {
	_, ok := <-port.closeChan
	if !ok {
		return ErrorClosed
	}
	return nil
}

func (port *serialPortLinux) release() {
	port.closeChan <- struct{}{}
}

func (port *serialPortLinux) setPinIoctl(enabled bool, pin int) error {
	if err := port.acquire(); err != nil {
		return err
	}
	defer port.release()

	req := unix.TIOCMBIC
	if enabled {
		req = unix.TIOCMBIS
	}

	_, _, err := unix.Syscall(unix.SYS_IOCTL, uintptr(port.fd), uintptr(req), uintptr(unsafe.Pointer(&pin)))
	if err != 0 {
		return os.NewSyscallError("TIOCMBIC/TIOCMBIS", err)
	}
	return nil
}

func (port *serialPortLinux) SetDTR(enabled bool) error {
	return port.setPinIoctl(enabled, unix.TIOCM_DTR)
}

func (port *serialPortLinux) SetRTS(enabled bool) error {
	return port.setPinIoctl(enabled, unix.TIOCM_RTS)
}

func (port *serialPortLinux) GetPins() (PortPins, error) {
	pins := PortPins{}

	if err := port.acquire(); err != nil {
		return pins, err
	}
	v, err := unix.IoctlGetInt(port.fd, unix.TIOCMGET)
	port.release()

	if err != nil {
		return pins, os.NewSyscallError("TIOCMGET", err)
	}

	/* Decode response */
	pins.DTR = (v & unix.TIOCM_DTR) > 0
	pins.RTS = (v & unix.TIOCM_RTS) > 0
	pins.CTS = (v & unix.TIOCM_CTS) > 0
	pins.DCD = (v & unix.TIOCM_CAR) > 0
	pins.RNG = (v & unix.TIOCM_RNG) > 0
	pins.DSR = (v & unix.TIOCM_DSR) > 0

	return pins, nil
}

func (port *serialPortLinux) Buffered() (int, error) {
	if err := port.acquire(); err != nil {
		return 0, err
	}
	n, err := unix.IoctlGetInt(port.fd, unix.TIOCINQ)
	port.release()

	if err != nil {
		return 0, os.NewSyscallError("TIOCINQ", err)
	}
	return n, nil
}

func (port *serialPortLinux) Read(p []byte) (int, error) {
	for {
		if err := port.acquire(); err != nil {
			return 0, err
		}

		n, err := port.file.Read(p)
		port.release()

		/* VTIME expiry shows up as EOF; give Close a chance and try again */
		if err != io.EOF {
			return n, err
		}
	}
}

func (port *serialPortLinux) Write(p []byte) (int, error) {
	n, err := port.file.Write(p)
	if errors.Is(err, os.ErrClosed) {
		err = ErrorClosed
	}
	return n, err
}

func (port *serialPortLinux) Close() error {
	_, ok := <-port.closeChan
	if ok {
		close(port.closeChan)
		return port.file.Close()
	}

	return nil
}
