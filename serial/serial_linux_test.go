//go:build linux

package serial

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

func openPty(t *testing.T) (*os.File, Port) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	port, err := Open(&PortOptions{PortName: slave.Name(), BaudRate: B115200})
	require.NoError(t, err)
	t.Cleanup(func() { port.Close() })

	return master, port
}

func TestLinuxPort_TryReadByte(t *testing.T) {
	master, port := openPty(t)

	b, ok, err := TryReadByte(port)
	require.NoError(t, err)
	require.False(t, ok, "byte returned from empty port: %q", b)

	_, err = master.Write([]byte("hi\n"))
	require.NoError(t, err)

	var got []byte
	require.Eventually(t, func() bool {
		for {
			b, ok, err := TryReadByte(port)
			if err != nil {
				return false
			}
			if !ok {
				return len(got) == 3
			}
			got = append(got, b)
		}
	}, time.Second, time.Millisecond)

	require.Equal(t, "hi\n", string(got))
}

func TestLinuxPort_Write(t *testing.T) {
	master, port := openPty(t)

	_, err := port.Write([]byte("pong\r\n"))
	require.NoError(t, err)

	buf := make([]byte, 6)
	n, err := master.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "pong\r\n", string(buf[:n]))
}

func TestLinuxPort_Close(t *testing.T) {
	_, port := openPty(t)

	require.NoError(t, port.Close())
	require.NoError(t, port.Close())

	_, err := port.Buffered()
	require.Equal(t, ErrorClosed, err)

	_, err = port.Read(make([]byte, 1))
	require.Equal(t, ErrorClosed, err)

	_, err = port.Write([]byte("x"))
	require.Equal(t, ErrorClosed, err)

	require.Equal(t, ErrorClosed, port.SetDTR(true))
}

func TestLinuxPort_CloseDuringRead(t *testing.T) {
	_, port := openPty(t)

	done := make(chan error, 1)
	go func() {
		_, err := port.Read(make([]byte, 1))
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, port.Close())

	select {
	case err := <-done:
		require.Equal(t, ErrorClosed, err)
	case <-time.After(time.Second):
		t.Fatal("Read did not return after Close")
	}
}

func TestLinuxPort_OpenMissing(t *testing.T) {
	port, err := Open(&PortOptions{PortName: filepath.Join(t.TempDir(), "ttyUSB9"), BaudRate: B9600})
	require.Error(t, err)
	require.Nil(t, port)
}

func TestLinuxPortNames_SysfsFilter(t *testing.T) {
	sys := t.TempDir()
	old := sysClassTTY
	sysClassTTY = sys
	t.Cleanup(func() { sysClassTTY = old })

	/* Nothing in the fake sysfs has a device link, so every node is dropped */
	names, err := PortNames()
	require.NoError(t, err)
	require.Empty(t, names)
}
