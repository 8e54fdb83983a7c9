package cmd

import (
	"strconv"

	"github.com/spf13/pflag"

	"github.com/oshokin/pc-beeper/internal/service/builder"
)

// directiveList collects step flags in the order they appear on the command line.
type directiveList []builder.Directive

// stepFlag is a repeatable pflag.Value appending one directive per occurrence.
type stepFlag struct {
	// kind is the directive recorded by Set.
	kind builder.Kind
	// list receives the directives.
	list *directiveList
	// last is the most recent value, shown as the current value in usage.
	last string
}

// String returns the last value set.
func (f *stepFlag) String() string {
	return f.last
}

// Set records a directive. Values are validated once all flags are parsed.
func (f *stepFlag) Set(value string) error {
	f.last = value
	*f.list = append(*f.list, builder.Directive{Kind: f.kind, Value: value})

	return nil
}

// Type names the value in usage output.
func (f *stepFlag) Type() string {
	return "ms"
}

// frequencyFlag is a stepFlag shown as Hz in usage.
type frequencyFlag struct {
	stepFlag
}

// Type names the value in usage output.
func (f *frequencyFlag) Type() string {
	return "Hz"
}

// commitFlag records a commit directive each time it is set to true.
type commitFlag struct {
	// list receives the directives.
	list *directiveList
}

// String always reports false, the flag has no state of its own.
func (f *commitFlag) String() string {
	return "false"
}

// Set records a commit for any true value.
func (f *commitFlag) Set(value string) error {
	commit, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}

	if commit {
		*f.list = append(*f.list, builder.Directive{Kind: builder.KindCommit})
	}

	return nil
}

// Type lets pflag treat the flag as a switch.
func (f *commitFlag) Type() string {
	return "bool"
}

// registerStepFlags adds -f, -l, -D and -n to flags, all feeding list.
func registerStepFlags(flags *pflag.FlagSet, list *directiveList) {
	flags.VarP(&frequencyFlag{stepFlag{kind: builder.KindFrequency, list: list}},
		"frequency", "f", "beep frequency in Hz (default 1000)")
	flags.VarP(&stepFlag{kind: builder.KindDuration, list: list},
		"length", "l", "beep duration in ms (default 200)")
	flags.VarP(&stepFlag{kind: builder.KindDelay, list: list},
		"delay", "D", "silence after this beep in ms, ignored for the first beep (default 0)")

	commit := flags.VarPF(&commitFlag{list: list}, "new", "n", "start a new beep; following options apply to it")
	commit.NoOptDefVal = "true"
}
