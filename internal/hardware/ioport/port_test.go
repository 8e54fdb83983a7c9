package ioport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newFakeDevice creates a regular file large enough to stand in for /dev/port.
func newFakeDevice(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "port")
	require.NoError(t, os.WriteFile(path, make([]byte, 0x100), 0o600))

	return path
}

// TestDevice_ReadWrite verifies bytes land at the offset equal to the port number.
func TestDevice_ReadWrite(t *testing.T) {
	t.Parallel()

	path := newFakeDevice(t)

	dev, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, dev.WritePort(0x61, 0xAC))

	got, err := dev.ReadPort(0x61)
	require.NoError(t, err)
	require.Equal(t, byte(0xAC), got)

	require.NoError(t, dev.Close())
	require.NoError(t, dev.Close())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, byte(0xAC), contents[0x61])
}

// TestDevice_Closed ensures a released device refuses access.
func TestDevice_Closed(t *testing.T) {
	t.Parallel()

	dev, err := Open(newFakeDevice(t))
	require.NoError(t, err)
	require.NoError(t, dev.Close())

	_, err = dev.ReadPort(0x61)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, dev.WritePort(0x61, 0), ErrClosed)
}

// TestOpen_Missing ensures acquisition failure is reported.
func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = DeviceOpener(filepath.Join(t.TempDir(), "missing"))()
	require.Error(t, err)
}

// TestRecorder verifies register tracking and the access log.
func TestRecorder(t *testing.T) {
	t.Parallel()

	r := NewRecorder(map[uint16]byte{0x61: 0x30})

	port, err := RecorderOpener(r)()
	require.NoError(t, err)
	require.Same(t, r, port)

	v, err := r.ReadPort(0x61)
	require.NoError(t, err)
	require.Equal(t, byte(0x30), v)

	require.NoError(t, r.WritePort(0x61, 0x33))
	require.Equal(t, byte(0x33), r.Register(0x61))

	require.Equal(t, []Op{
		{Port: 0x61, Value: 0x30},
		{Port: 0x61, Value: 0x33, Write: true},
	}, r.Ops())
	require.Equal(t, []Op{{Port: 0x61, Value: 0x33, Write: true}}, r.Writes())

	require.NoError(t, r.Close())
	require.True(t, r.Closed())
	require.ErrorIs(t, r.WritePort(0x61, 0), ErrClosed)
}
