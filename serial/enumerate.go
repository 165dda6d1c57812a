package serial

// PortNames returns the device paths of the serial ports present on this
// system, in a stable order. An empty result is not an error.
func PortNames() ([]string, error) {
	return portNamesOs()
}
