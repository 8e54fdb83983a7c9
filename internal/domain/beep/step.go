package beep

import (
	"errors"
	"fmt"
	"time"
)

const (
	// BaseClockHz is the input clock of the 8253/8254 PIT on PC hardware.
	BaseClockHz uint32 = 1193182

	// MaxDivisor is the largest value the 16-bit PIT counter can be loaded with.
	MaxDivisor uint32 = 0xFFFF

	// DefaultFrequency is the tone frequency of a step nobody configured.
	DefaultFrequency uint32 = 1000
	// DefaultDuration is the tone length of a step nobody configured.
	DefaultDuration = 200 * time.Millisecond
	// DefaultDelay is the pause after a step nobody configured.
	DefaultDelay time.Duration = 0

	// MaxSteps bounds the sequence length to keep malformed input from growing memory.
	MaxSteps = 99999
)

// ErrFrequencyOutOfRange is returned when a frequency cannot be expressed as a PIT divisor.
var ErrFrequencyOutOfRange = errors.New("frequency out of range")

// Step is one configured unit of playback.
type Step struct {
	// Frequency is the requested tone frequency in Hz.
	Frequency uint32
	// Duration is how long the tone is held on.
	Duration time.Duration
	// Delay is the silence inserted after this step (never for the first one).
	Delay time.Duration
}

// DefaultStep returns the step used before any directive is applied.
func DefaultStep() Step {
	return Step{
		Frequency: DefaultFrequency,
		Duration:  DefaultDuration,
		Delay:     DefaultDelay,
	}
}

// Sequence is the ordered list of steps played in one invocation.
type Sequence []Step

// TotalDuration returns the expected wall-clock time of playing the sequence.
// The delay of the first step is not counted because it is never applied.
func (s Sequence) TotalDuration() time.Duration {
	var total time.Duration

	for i, step := range s {
		total += step.Duration

		if i > 0 {
			total += step.Delay
		}
	}

	return total
}

// Divisor returns floor(baseClock / frequency), the value loaded into the PIT.
// The fractional part is dropped, so the emitted tone is baseClock / divisor.
func Divisor(baseClock, frequency uint32) (uint16, error) {
	if frequency == 0 {
		return 0, fmt.Errorf("%w: zero frequency", ErrFrequencyOutOfRange)
	}

	div := baseClock / frequency
	if div == 0 || div > MaxDivisor {
		return 0, fmt.Errorf("%w: %d Hz gives divisor %d", ErrFrequencyOutOfRange, frequency, div)
	}

	return uint16(div), nil
}

// EmittedFrequency returns the frequency the PIT actually produces for a divisor.
func EmittedFrequency(baseClock uint32, divisor uint16) uint32 {
	if divisor == 0 {
		return 0
	}

	return baseClock / uint32(divisor)
}
