package beeper

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/pc-beeper/internal/config"
	"github.com/oshokin/pc-beeper/internal/domain/beep"
	"github.com/oshokin/pc-beeper/internal/hardware/ioport"
	"github.com/oshokin/pc-beeper/internal/logger"
	"github.com/oshokin/pc-beeper/internal/service/instance"
	"github.com/oshokin/pc-beeper/internal/service/sequencer"
)

// Options controls a single playback run.
type Options struct {
	// Config holds loaded settings; nil selects config.Default().
	Config *config.Config
	// Sequence is the validated list of steps to play.
	Sequence beep.Sequence
	// DryRun plays against an in-memory port instead of the hardware.
	DryRun bool
	// Opener overrides how the I/O-port capability is acquired.
	Opener ioport.Opener
	// Lister overrides the process listing of the instance guard.
	Lister instance.Lister
	// SequencerOptions are passed through to the sequencer.
	SequencerOptions []sequencer.Option
}

// errEmptySequence is returned when there is nothing to play.
var errEmptySequence = errors.New("sequence is empty")

// Run plays opts.Sequence and blocks until it finishes or ctx is canceled.
// Cancellation is a normal early exit and returns nil once the speaker is
// silent and the capability has been released.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "pc-beeper")

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		ctx = logger.WithLevelContext(ctx, level)
	}

	ctx = logger.WithKV(ctx, "dry_run", opts.DryRun)

	if len(opts.Sequence) == 0 {
		return errEmptySequence
	}

	opener, recorder := resolveOpener(cfg, opts)

	// Two sequencers would fight over the same control register.
	if cfg.IsExclusive() && recorder == nil {
		if err := instance.Check(opts.Lister, ""); err != nil {
			return fmt.Errorf("instance check: %w", err)
		}
	}

	logger.InfoKV(ctx, "Starting playback",
		"steps", len(opts.Sequence),
		"expected_duration", opts.Sequence.TotalDuration().String(),
		"device", deviceName(cfg, recorder),
	)

	seqOpts := append([]sequencer.Option{sequencer.WithBaseClock(cfg.BaseClockHz)}, opts.SequencerOptions...)

	err := sequencer.Run(ctx, opener, opts.Sequence, seqOpts...)

	if recorder != nil {
		logRecordedWrites(ctx, recorder)
	}

	switch {
	case err == nil:
		logger.Info(ctx, "Playback finished")

		return nil
	case errors.Is(err, context.Canceled):
		logger.WarnKV(ctx, "Playback interrupted, speaker silenced", "cause", context.Cause(ctx))

		return nil
	case errors.Is(err, sequencer.ErrCapabilityUnavailable):
		logger.ErrorKV(ctx, "Cannot access I/O ports, are you root?", "device", cfg.Device, "error", err)

		return err
	default:
		logger.Errorf(ctx, "Playback failed: %v", err)

		return fmt.Errorf("play: %w", err)
	}
}

// resolveOpener picks the capability source. The recorder is non-nil in dry-run mode.
func resolveOpener(cfg *config.Config, opts *Options) (ioport.Opener, *ioport.Recorder) {
	if opts.DryRun {
		recorder := ioport.NewRecorder(nil)

		return ioport.RecorderOpener(recorder), recorder
	}

	if opts.Opener != nil {
		return opts.Opener, nil
	}

	return ioport.DeviceOpener(cfg.Device), nil
}

// deviceName describes the capability in logs.
func deviceName(cfg *config.Config, recorder *ioport.Recorder) string {
	if recorder != nil {
		return "dry-run"
	}

	return cfg.Device
}

// logRecordedWrites prints what would have reached the hardware.
func logRecordedWrites(ctx context.Context, recorder *ioport.Recorder) {
	writes := recorder.Writes()

	for _, op := range writes {
		logger.DebugKV(ctx, "Port write", "port", fmt.Sprintf("%#04x", op.Port), "value", fmt.Sprintf("%#02x", op.Value))
	}

	logger.InfoKV(ctx, "Dry run complete", "port_writes", len(writes))
}
