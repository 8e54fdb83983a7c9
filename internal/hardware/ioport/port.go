// Package ioport exposes the privileged x86 I/O-port space behind a narrow
// byte-oriented capability.
//
// Device talks to the kernel through /dev/port, Recorder keeps an in-memory
// register file and a log of every access for tests and dry runs.
package ioport

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// DefaultDevicePath is the Linux character device mapping the I/O-port space.
const DefaultDevicePath = "/dev/port"

// Port is the capability to read and write single bytes of numbered I/O ports.
type Port interface {
	// ReadPort reads one byte from the given port.
	ReadPort(port uint16) (byte, error)
	// WritePort writes one byte to the given port.
	WritePort(port uint16, value byte) error
	// Close releases the capability.
	Close() error
}

// Opener acquires a Port capability.
type Opener func() (Port, error)

// ErrClosed is returned when a released capability is used.
var ErrClosed = errors.New("port capability closed")

// Device accesses I/O ports through a /dev/port style file,
// where the byte at offset N is port N.
type Device struct {
	// file is the opened port device, nil after Close.
	file *os.File
	// path is kept for error messages.
	path string
	// mu serializes accesses and Close.
	mu sync.Mutex
}

// Open acquires the port device at path. Access usually requires root (CAP_SYS_RAWIO).
func Open(path string) (*Device, error) {
	if path == "" {
		path = DefaultDevicePath
	}

	path = filepath.Clean(path)

	//nolint:gosec // The device path comes from trusted configuration.
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &Device{
		file: file,
		path: path,
	}, nil
}

// DeviceOpener returns an Opener acquiring the device at path.
func DeviceOpener(path string) Opener {
	return func() (Port, error) {
		return Open(path)
	}
}

// ReadPort reads one byte from the port.
func (d *Device) ReadPort(port uint16) (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return 0, ErrClosed
	}

	var buf [1]byte

	// ReadAt may report io.EOF together with the last byte of the file.
	n, err := d.file.ReadAt(buf[:], int64(port))
	if n == len(buf) {
		return buf[0], nil
	}

	if err == nil {
		err = io.ErrUnexpectedEOF
	}

	return 0, fmt.Errorf("read port %#x from %s: %w", port, d.path, err)
}

// WritePort writes one byte to the port.
func (d *Device) WritePort(port uint16, value byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return ErrClosed
	}

	if _, err := d.file.WriteAt([]byte{value}, int64(port)); err != nil {
		return fmt.Errorf("write port %#x to %s: %w", port, d.path, err)
	}

	return nil
}

// Close releases the device. Closing twice is a no-op.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return nil
	}

	err := d.file.Close()
	d.file = nil

	if err != nil {
		return fmt.Errorf("close %s: %w", d.path, err)
	}

	return nil
}
