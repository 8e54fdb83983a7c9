package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/pc-beeper/internal/config"
	"github.com/oshokin/pc-beeper/internal/hardware/ioport"
	"github.com/oshokin/pc-beeper/internal/logger"
	"github.com/oshokin/pc-beeper/internal/service/beeper"
	"github.com/oshokin/pc-beeper/internal/service/builder"
	"github.com/oshokin/pc-beeper/internal/version"
)

// runFunc plays a prepared session; beeper.Run in production.
type runFunc func(ctx context.Context, opts *beeper.Options) error

// rootFlags holds the non-step flags of the root command.
type rootFlags struct {
	// configPath is the optional YAML settings file.
	configPath string
	// device overrides the I/O-port device from settings.
	device string
	// logLevel overrides the log level from settings.
	logLevel string
	// dryRun plays against an in-memory port.
	dryRun bool
	// directives are the step flags in command-line order.
	directives directiveList
}

// newRootCmd builds the pc-beeper command around run.
func newRootCmd(run runFunc) *cobra.Command {
	flags := new(rootFlags)

	rootCmd := &cobra.Command{
		Use:   "pc-beeper [-f Hz] [-l ms] [-D ms] [-n ...]",
		Short: "Beep the PC speaker through the programmable interval timer.",
		Long: `Plays one or more square-wave beeps on the legacy PC speaker.

Options apply to the current beep; -n/--new starts the next one with default
values (1000 Hz, 200 ms, no delay). The last beep does not need -n.
The delay of the first beep is never applied.

The speaker is programmed through /dev/port, so root privileges are required.
Interrupting with Ctrl+C silences the speaker before exiting.

Examples:
  pc-beeper -f 440 -l 100
  pc-beeper -f 300 -l 50 -n -f 600 -l 50 -D 100`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			seq, err := builder.Replay(flags.directives,
				builder.WithDefaults(cfg.DefaultStep()),
				builder.WithMaxSteps(cfg.MaxSteps),
				builder.WithBaseClock(cfg.BaseClockHz),
			)
			if err != nil {
				return fmt.Errorf("parse steps: %w", err)
			}

			// Setup interruption handling; the speaker is silenced before exit.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return run(ctx, &beeper.Options{
				Config:   cfg,
				Sequence: seq,
				DryRun:   flags.dryRun,
			})
		},
	}

	registerStepFlags(rootCmd.Flags(), &flags.directives)

	rootCmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to an optional YAML configuration file")
	rootCmd.Flags().StringVar(&flags.device, "device", "", "I/O-port device (default "+ioport.DefaultDevicePath+")")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "log port writes instead of touching the hardware")

	// Keep flags in command-line order in help, matching how they are applied.
	rootCmd.Flags().SortFlags = false

	version.AttachCobraVersionCommand(rootCmd)

	return rootCmd
}

// loadConfig reads settings and applies command-line overrides.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg := config.Default()

	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}

		cfg = loaded
	}

	if cmd.Flags().Changed("device") {
		cfg.Device = flags.device
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}

	return cfg, nil
}

// Execute runs the pc-beeper CLI and exits with non-zero status on error.
func Execute() {
	defer logger.Sync()

	rootCmd := newRootCmd(beeper.Run)

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		_, _ = fmt.Fprintln(rootCmd.ErrOrStderr(), "Run 'pc-beeper --help' for usage.")

		logger.Sync()
		os.Exit(1)
	}
}
