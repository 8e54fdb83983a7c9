// Package instance keeps two pc-beeper processes from driving the speaker
// register at the same time.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"
)

// maxCommLength is the length Linux truncates process names to in /proc/<pid>/stat.
const maxCommLength = 15

// ErrAlreadyRunning is returned when another process with the same executable is alive.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Lister returns the processes of the system.
type Lister func() ([]ps.Process, error)

// Check returns ErrAlreadyRunning if a process other than the current one
// runs the executable named name. An empty name selects the current executable.
func Check(list Lister, name string) error {
	if list == nil {
		list = ps.Processes
	}

	if name == "" {
		name = CurrentExecutable()
	}

	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if !sameExecutable(process.Executable(), name) {
			continue
		}

		return fmt.Errorf("%w: %s (pid %d)", ErrAlreadyRunning, name, process.Pid())
	}

	return nil
}

// sameExecutable compares a listed process name against name, allowing for
// the kernel's truncation of long names.
func sameExecutable(listed, name string) bool {
	if strings.EqualFold(listed, name) {
		return true
	}

	return len(listed) == maxCommLength && len(name) > maxCommLength &&
		strings.EqualFold(listed, name[:maxCommLength])
}

// CurrentExecutable returns the base name of the running binary.
func CurrentExecutable() string {
	return filepath.Base(os.Args[0])
}
