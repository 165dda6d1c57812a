//go:build !linux && !darwin

package serial

import (
	"sort"

	bugst "go.bug.st/serial"
)

// On Windows go.bug.st/serial reads the SERIALCOMM registry key
func portNamesOs() ([]string, error) {
	ports, err := bugst.GetPortsList()
	if err != nil {
		return nil, err
	}

	sort.Strings(ports)
	return ports, nil
}
