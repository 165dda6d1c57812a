//go:build darwin

package serial

func portNamesOs() ([]string, error) {
	return globPorts([]string{"/dev/tty.usb*"}, nil)
}
