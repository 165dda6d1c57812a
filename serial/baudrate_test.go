package serial

import (
	"errors"
	"testing"
)

func TestBaudRateValid(t *testing.T) {
	for _, b := range BaudRates {
		if !b.Valid() {
			t.Error("Listed rate not valid", b)
		}
	}

	for _, b := range []BaudRate{0, 110, 14400, 921600} {
		if b.Valid() {
			t.Error("Unlisted rate valid", b)
		}
	}

	if !DefaultBaudRate.Valid() {
		t.Error("Default rate not valid")
	}
}

func TestParseBaudRate(t *testing.T) {
	b, err := ParseBaudRate("74880")
	if err != nil || b != B74880 {
		t.Error("Failed to parse 74880", b, err)
	}

	if _, err := ParseBaudRate("14400"); !errors.Is(err, ErrorInvalidBaudRate) {
		t.Error("Unsupported rate accepted", err)
	}

	if _, err := ParseBaudRate("fast"); err == nil {
		t.Error("Garbage accepted")
	}
}

func TestOpenRejectsBaudRate(t *testing.T) {
	port, err := Open(&PortOptions{PortName: "/dev/null", BaudRate: 14400})
	if err != ErrorInvalidBaudRate || port != nil {
		t.Error("Open accepted unsupported rate", err)
	}
}
