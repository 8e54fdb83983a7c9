package speaker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/pc-beeper/internal/domain/beep"
	"github.com/oshokin/pc-beeper/internal/hardware/ioport"
)

// TestTone verifies the exact write order and the read-modify-write of the control port.
func TestTone(t *testing.T) {
	t.Parallel()

	rec := ioport.NewRecorder(map[uint16]byte{ControlPort: 0x30})
	spk := New(rec, 0)

	require.NoError(t, spk.Tone(440))

	// 1193182 / 440 = 2711 = 0x0A97.
	require.Equal(t, []ioport.Op{
		{Port: PITCommandPort, Value: 0xB6, Write: true},
		{Port: PITChannel2Port, Value: 0x97, Write: true},
		{Port: PITChannel2Port, Value: 0x0A, Write: true},
		{Port: ControlPort, Value: 0x30},
		{Port: ControlPort, Value: 0x33, Write: true},
	}, rec.Ops())

	on, err := spk.Enabled()
	require.NoError(t, err)
	require.True(t, on)
}

// TestTone_InvalidFrequency ensures nothing is written for an unrepresentable frequency.
func TestTone_InvalidFrequency(t *testing.T) {
	t.Parallel()

	rec := ioport.NewRecorder(nil)
	spk := New(rec, beep.BaseClockHz)

	require.ErrorIs(t, spk.Tone(0), beep.ErrFrequencyOutOfRange)
	require.ErrorIs(t, spk.Tone(10), beep.ErrFrequencyOutOfRange)
	require.Empty(t, rec.Ops())
}

// TestSilence checks that only the two tone bits are cleared and that stopping twice is harmless.
func TestSilence(t *testing.T) {
	t.Parallel()

	rec := ioport.NewRecorder(map[uint16]byte{ControlPort: 0xF3})
	spk := New(rec, 0)

	require.NoError(t, spk.Silence())
	require.Equal(t, byte(0xF0), rec.Register(ControlPort))

	require.NoError(t, spk.Silence())
	require.Equal(t, byte(0xF0), rec.Register(ControlPort))

	on, err := spk.Enabled()
	require.NoError(t, err)
	require.False(t, on)
}

// TestSpeaker_ClosedPort ensures port errors are propagated.
func TestSpeaker_ClosedPort(t *testing.T) {
	t.Parallel()

	rec := ioport.NewRecorder(nil)
	require.NoError(t, rec.Close())

	spk := New(rec, 0)
	require.ErrorIs(t, spk.Tone(1000), ioport.ErrClosed)
	require.ErrorIs(t, spk.Silence(), ioport.ErrClosed)

	_, err := spk.Enabled()
	require.ErrorIs(t, err, ioport.ErrClosed)
}
