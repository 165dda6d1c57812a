//go:build linux

package serial

import (
	"os"
	"path/filepath"
)

var linuxPortPatterns = []string{
	"/dev/ttyS*",
	"/dev/ttyUSB*",
	"/dev/ttyXRUSB*",
	"/dev/ttyACM*",
	"/dev/ttyAMA*",
	"/dev/rfcomm*",
	"/dev/ttyAP*",
}

// sysClassTTY is replaced by tests
var sysClassTTY = "/sys/class/tty"

func portNamesOs() ([]string, error) {
	return globPorts(linuxPortPatterns, func(device string) bool {
		/* Legacy ttyS nodes exist even without hardware behind them */
		_, err := os.Stat(filepath.Join(sysClassTTY, filepath.Base(device), "device"))
		return err == nil
	})
}
