package serial

import (
	"fmt"
	"strconv"
)

// BaudRate is one of the line rates supported by Open
type BaudRate uint32

const (
	B300    BaudRate = 300
	B1200   BaudRate = 1200
	B2400   BaudRate = 2400
	B4800   BaudRate = 4800
	B9600   BaudRate = 9600
	B19200  BaudRate = 19200
	B38400  BaudRate = 38400
	B57600  BaudRate = 57600
	B74880  BaudRate = 74880
	B115200 BaudRate = 115200
	B230400 BaudRate = 230400
	B250000 BaudRate = 250000

	// DefaultBaudRate is used when no rate is configured
	DefaultBaudRate = B9600
)

// BaudRates lists all supported rates in ascending order
var BaudRates = []BaudRate{
	B300, B1200, B2400, B4800, B9600, B19200,
	B38400, B57600, B74880, B115200, B230400, B250000,
}

// Valid reports whether b is part of BaudRates
func (b BaudRate) Valid() bool {
	for _, m := range BaudRates {
		if m == b {
			return true
		}
	}
	return false
}

func (b BaudRate) String() string {
	return strconv.FormatUint(uint64(b), 10)
}

// ParseBaudRate converts a decimal string into a supported BaudRate
func ParseBaudRate(s string) (BaudRate, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("baud rate %q: %w", s, err)
	}

	b := BaudRate(v)
	if !b.Valid() {
		return 0, fmt.Errorf("baud rate %d: %w", v, ErrorInvalidBaudRate)
	}

	return b, nil
}
