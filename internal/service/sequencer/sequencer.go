// Package sequencer plays a beep.Sequence on the PC speaker.
//
// Steps run strictly in order on the caller's goroutine. The speaker is
// forced silent on every exit path, including context cancellation while a
// tone is held, before the I/O-port capability is released.
package sequencer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/oshokin/pc-beeper/internal/domain/beep"
	"github.com/oshokin/pc-beeper/internal/hardware/ioport"
	"github.com/oshokin/pc-beeper/internal/logger"
	"github.com/oshokin/pc-beeper/internal/service/speaker"
)

// ErrCapabilityUnavailable is returned when the I/O-port capability cannot be acquired.
var ErrCapabilityUnavailable = errors.New("I/O-port capability unavailable")

// Sequencer walks a sequence and drives the speaker.
type Sequencer struct {
	// speaker emits and stops tones.
	speaker *speaker.Speaker
	// clock implements holds and inter-step delays.
	clock Clock
}

// config holds the values Options tweak.
type config struct {
	// clock replaces the real timer, mostly in tests.
	clock Clock
	// baseClock is the PIT input clock in Hz.
	baseClock uint32
}

// Option configures a Sequencer.
type Option func(*config)

// WithClock replaces the timer used for holds and delays.
func WithClock(clock Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithBaseClock overrides the PIT input clock. Zero is ignored.
func WithBaseClock(hz uint32) Option {
	return func(c *config) {
		if hz > 0 {
			c.baseClock = hz
		}
	}
}

// New creates a Sequencer on an acquired port.
func New(port ioport.Port, opts ...Option) *Sequencer {
	cfg := &config{
		clock:     timerClock{},
		baseClock: beep.BaseClockHz,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &Sequencer{
		speaker: speaker.New(port, cfg.baseClock),
		clock:   cfg.clock,
	}
}

// Play runs every step: tone on, hold for Duration, tone off, then wait Delay
// unless this is the first step. It returns ctx.Err() when interrupted; the
// speaker is silent whenever Play returns.
func (s *Sequencer) Play(ctx context.Context, seq beep.Sequence) (err error) {
	defer func() {
		if silenceErr := s.speaker.Silence(); silenceErr != nil {
			err = multierr.Append(err, fmt.Errorf("silence speaker: %w", silenceErr))
		}
	}()

	for i, step := range seq {
		if err = s.playStep(ctx, i, step); err != nil {
			return err
		}
	}

	return nil
}

// playStep emits a single step. The delay of step 0 is ignored.
func (s *Sequencer) playStep(ctx context.Context, i int, step beep.Step) error {
	// No new tone once interrupted.
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.DebugKV(ctx, "Playing step",
		"index", i,
		"frequency", step.Frequency,
		"duration", step.Duration,
		"delay", step.Delay,
	)

	if err := s.speaker.Tone(step.Frequency); err != nil {
		return fmt.Errorf("step %d: start tone: %w", i, err)
	}

	if err := s.clock.Sleep(ctx, step.Duration); err != nil {
		return err
	}

	if err := s.speaker.Silence(); err != nil {
		return fmt.Errorf("step %d: stop tone: %w", i, err)
	}

	if i > 0 && step.Delay > 0 {
		if err := s.clock.Sleep(ctx, step.Delay); err != nil {
			return err
		}
	}

	return nil
}

// Run acquires the capability, plays seq and releases the capability.
// Nothing is played when acquisition fails. On every other path the speaker
// is silenced before the capability is closed.
func Run(ctx context.Context, open ioport.Opener, seq beep.Sequence, opts ...Option) (err error) {
	port, err := open()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCapabilityUnavailable, err)
	}

	defer func() {
		if closeErr := port.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("release capability: %w", closeErr))
		}
	}()

	logger.DebugKV(ctx, "Capability acquired", "steps", len(seq), "expected_duration", seq.TotalDuration())

	return New(port, opts...).Play(ctx, seq)
}
