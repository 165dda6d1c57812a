package serial

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestGlobPorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ttyUSB0", "ttyUSB1", "ttyACM0", "ttyS0", "null"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0600); err != nil {
			t.Fatal(err)
		}
	}

	patterns := []string{
		filepath.Join(dir, "ttyS*"),
		filepath.Join(dir, "ttyUSB*"),
		filepath.Join(dir, "tty*"),
		filepath.Join(dir, "ttyACM*"),
	}

	devices, err := globPorts(patterns, func(device string) bool {
		return filepath.Base(device) != "ttyUSB1"
	})
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{
		filepath.Join(dir, "ttyS0"),
		filepath.Join(dir, "ttyUSB0"),
		filepath.Join(dir, "ttyACM0"),
	}
	if !reflect.DeepEqual(devices, expected) {
		t.Error("Wrong devices", devices)
	}

	devices, err = globPorts([]string{filepath.Join(dir, "cu.*")}, nil)
	if err != nil || len(devices) != 0 {
		t.Error("Expected no devices", devices, err)
	}

	if _, err := globPorts([]string{"["}, nil); err == nil {
		t.Error("Bad pattern accepted")
	}
}
