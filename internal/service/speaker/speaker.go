// Package speaker implements the PC speaker protocol: programming PIT
// channel 2 as a square-wave generator and gating its output to the speaker
// through the system control port.
package speaker

import (
	"fmt"

	"github.com/oshokin/pc-beeper/internal/domain/beep"
	"github.com/oshokin/pc-beeper/internal/hardware/ioport"
)

// PIT and system control port addresses.
const (
	PITChannel2Port uint16 = 0x42
	PITCommandPort  uint16 = 0x43
	ControlPort     uint16 = 0x61
)

// PIT command word bits.
const (
	cmdChannel2       byte = 0x02 << 6
	cmdAccessLoHi     byte = 0x03 << 4
	cmdModeSquareWave byte = 0x03 << 1
	cmdCountBinary    byte = 0x00

	// CommandSquareWave selects channel 2, lobyte/hibyte access, mode 3, binary counting (0xB6).
	CommandSquareWave = cmdChannel2 | cmdAccessLoHi | cmdModeSquareWave | cmdCountBinary
)

// Control port bits.
const (
	// SpeakerEnable connects the PIT output to the speaker.
	SpeakerEnable byte = 1 << 0
	// Gate2Enable starts PIT channel 2 counting.
	Gate2Enable byte = 1 << 1

	toneBits = SpeakerEnable | Gate2Enable
)

// Speaker drives the speaker through an I/O-port capability.
type Speaker struct {
	// port is the acquired I/O-port capability.
	port ioport.Port
	// baseClock is the PIT input clock in Hz.
	baseClock uint32
}

// New creates a Speaker. A zero baseClock selects beep.BaseClockHz.
func New(port ioport.Port, baseClock uint32) *Speaker {
	if baseClock == 0 {
		baseClock = beep.BaseClockHz
	}

	return &Speaker{
		port:      port,
		baseClock: baseClock,
	}
}

// Tone programs channel 2 for frequency and turns the speaker on.
// Unrelated bits of the control port are preserved.
func (s *Speaker) Tone(frequency uint32) error {
	div, err := beep.Divisor(s.baseClock, frequency)
	if err != nil {
		return err
	}

	if err = s.port.WritePort(PITCommandPort, CommandSquareWave); err != nil {
		return fmt.Errorf("program PIT: %w", err)
	}

	if err = s.port.WritePort(PITChannel2Port, byte(div)); err != nil {
		return fmt.Errorf("load divisor low byte: %w", err)
	}

	if err = s.port.WritePort(PITChannel2Port, byte(div>>8)); err != nil {
		return fmt.Errorf("load divisor high byte: %w", err)
	}

	reg, err := s.port.ReadPort(ControlPort)
	if err != nil {
		return fmt.Errorf("read speaker control: %w", err)
	}

	if err = s.port.WritePort(ControlPort, reg|toneBits); err != nil {
		return fmt.Errorf("enable speaker: %w", err)
	}

	return nil
}

// Silence clears the speaker and gate bits, leaving all other bits as they are.
// It is safe to call when the speaker is already silent.
func (s *Speaker) Silence() error {
	reg, err := s.port.ReadPort(ControlPort)
	if err != nil {
		return fmt.Errorf("read speaker control: %w", err)
	}

	if err = s.port.WritePort(ControlPort, reg&^toneBits); err != nil {
		return fmt.Errorf("disable speaker: %w", err)
	}

	return nil
}

// Enabled reports whether either the speaker or the gate bit is set.
func (s *Speaker) Enabled() (bool, error) {
	reg, err := s.port.ReadPort(ControlPort)
	if err != nil {
		return false, fmt.Errorf("read speaker control: %w", err)
	}

	return reg&toneBits != 0, nil
}
