package ioport

import "sync"

// Op is a single recorded port access.
type Op struct {
	// Port is the accessed port number.
	Port uint16
	// Value is the byte read or written.
	Value byte
	// Write is true for writes and false for reads.
	Write bool
}

// Recorder is an in-memory Port. It remembers the last byte written to each
// port and logs every access in order.
type Recorder struct {
	// registers holds the current value of every touched port.
	registers map[uint16]byte
	// ops is the ordered access log.
	ops []Op
	// closed is set by Close.
	closed bool
	// mu protects all fields; the sequencer and a test may race on reads.
	mu sync.Mutex
}

// NewRecorder creates a Recorder with the given initial register values.
func NewRecorder(initial map[uint16]byte) *Recorder {
	registers := make(map[uint16]byte, len(initial))
	for port, value := range initial {
		registers[port] = value
	}

	return &Recorder{
		registers: registers,
	}
}

// RecorderOpener returns an Opener that always hands out r.
func RecorderOpener(r *Recorder) Opener {
	return func() (Port, error) {
		return r, nil
	}
}

// ReadPort returns the current value of the port register.
func (r *Recorder) ReadPort(port uint16) (byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}

	value := r.registers[port]
	r.ops = append(r.ops, Op{Port: port, Value: value})

	return value, nil
}

// WritePort stores value in the port register.
func (r *Recorder) WritePort(port uint16, value byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	r.registers[port] = value
	r.ops = append(r.ops, Op{Port: port, Value: value, Write: true})

	return nil
}

// Close marks the recorder as released. Recorded state stays readable.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true

	return nil
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}

// Register returns the current value of a port without logging an access.
func (r *Recorder) Register(port uint16) byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registers[port]
}

// Ops returns a copy of the access log.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Op(nil), r.ops...)
}

// Writes returns only the recorded writes.
func (r *Recorder) Writes() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()

	writes := make([]Op, 0, len(r.ops))

	for _, op := range r.ops {
		if op.Write {
			writes = append(writes, op)
		}
	}

	return writes
}
