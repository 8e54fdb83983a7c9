// Package builder turns an ordered stream of step directives into a
// beep.Sequence.
//
// Directives either overwrite one field of the step under construction or
// commit it. The first failing directive poisons the builder: every later
// call returns the same error and no partial sequence is ever produced.
package builder

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/oshokin/pc-beeper/internal/domain/beep"
)

var (
	// ErrInvalidValue is returned when a field value is not a non-negative 32-bit integer.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidFrequency is returned when a frequency cannot be programmed into the PIT.
	ErrInvalidFrequency = errors.New("invalid frequency")
	// ErrTooManySteps is returned when committing past the step limit.
	ErrTooManySteps = errors.New("too many steps")
)

// Builder accumulates steps from directives.
type Builder struct {
	// steps holds committed steps in order.
	steps beep.Sequence
	// current is the step under construction.
	current beep.Step
	// defaults is what current is reset to after a commit.
	defaults beep.Step
	// dirty is set when current was modified since the last commit.
	dirty bool
	// maxSteps bounds len(steps).
	maxSteps int
	// baseClock is used to validate frequencies.
	baseClock uint32
	// err is the first error encountered.
	err error
}

// Option configures a Builder.
type Option func(*Builder)

// WithMaxSteps overrides the step limit. Non-positive values are ignored.
func WithMaxSteps(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxSteps = n
		}
	}
}

// WithDefaults overrides the values a fresh step starts with.
func WithDefaults(step beep.Step) Option {
	return func(b *Builder) {
		b.defaults = step
	}
}

// WithBaseClock overrides the PIT clock used to validate frequencies. Zero is ignored.
func WithBaseClock(hz uint32) Option {
	return func(b *Builder) {
		if hz > 0 {
			b.baseClock = hz
		}
	}
}

// New creates a Builder with the stock defaults (1000 Hz, 200 ms, no delay).
func New(opts ...Option) *Builder {
	b := &Builder{
		defaults:  beep.DefaultStep(),
		maxSteps:  beep.MaxSteps,
		baseClock: beep.BaseClockHz,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.current = b.defaults

	return b
}

// SetFrequency parses and sets the frequency of the current step, in Hz.
func (b *Builder) SetFrequency(value string) error {
	if b.err != nil {
		return b.err
	}

	hz, err := parseUint("frequency", value)
	if err != nil {
		return b.fail(err)
	}

	if _, err = beep.Divisor(b.baseClock, hz); err != nil {
		return b.fail(fmt.Errorf("%w %q: %w", ErrInvalidFrequency, value, err))
	}

	b.current.Frequency = hz
	b.dirty = true

	return nil
}

// SetDuration parses and sets the tone length of the current step, in milliseconds.
func (b *Builder) SetDuration(value string) error {
	if b.err != nil {
		return b.err
	}

	ms, err := parseUint("duration", value)
	if err != nil {
		return b.fail(err)
	}

	b.current.Duration = time.Duration(ms) * time.Millisecond
	b.dirty = true

	return nil
}

// SetDelay parses and sets the pause after the current step, in milliseconds.
func (b *Builder) SetDelay(value string) error {
	if b.err != nil {
		return b.err
	}

	ms, err := parseUint("delay", value)
	if err != nil {
		return b.fail(err)
	}

	b.current.Delay = time.Duration(ms) * time.Millisecond
	b.dirty = true

	return nil
}

// Commit appends the current step and starts a new one from the defaults.
func (b *Builder) Commit() error {
	if b.err != nil {
		return b.err
	}

	if len(b.steps) >= b.maxSteps {
		return b.fail(fmt.Errorf("%w: limit is %d", ErrTooManySteps, b.maxSteps))
	}

	b.steps = append(b.steps, b.current)
	b.current = b.defaults
	b.dirty = false

	return nil
}

// Len returns the number of committed steps.
func (b *Builder) Len() int {
	return len(b.steps)
}

// Err returns the first error recorded by any directive.
func (b *Builder) Err() error {
	return b.err
}

// Build finishes the sequence. The step under construction is committed when
// nothing was committed yet or when it was modified after the last commit, so
// the result is never empty. The builder hands over ownership of the sequence.
func (b *Builder) Build() (beep.Sequence, error) {
	if b.err != nil {
		return nil, b.err
	}

	if len(b.steps) == 0 || b.dirty {
		if err := b.Commit(); err != nil {
			return nil, err
		}
	}

	steps := b.steps
	b.steps = nil

	return steps, nil
}

// fail records the first error and returns it.
func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}

	return b.err
}

// parseUint parses a decimal non-negative integer that fits in 32 bits.
func parseUint(field, value string) (uint32, error) {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w for %s %q: %w", ErrInvalidValue, field, value, err)
	}

	return uint32(n), nil
}
