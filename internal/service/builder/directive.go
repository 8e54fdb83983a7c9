package builder

import (
	"errors"
	"fmt"

	"github.com/oshokin/pc-beeper/internal/domain/beep"
)

// Kind names what a directive does to the builder.
type Kind int

// Directive kinds.
const (
	KindFrequency Kind = iota + 1
	KindDuration
	KindDelay
	KindCommit
)

// errUnknownDirective is returned for a directive of an unknown kind.
var errUnknownDirective = errors.New("unknown directive")

// String returns the field name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFrequency:
		return "frequency"
	case KindDuration:
		return "duration"
	case KindDelay:
		return "delay"
	case KindCommit:
		return "commit"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Directive is one recorded instruction; Value is ignored for KindCommit.
type Directive struct {
	Kind  Kind
	Value string
}

// Apply executes a single directive.
func (b *Builder) Apply(d Directive) error {
	switch d.Kind {
	case KindFrequency:
		return b.SetFrequency(d.Value)
	case KindDuration:
		return b.SetDuration(d.Value)
	case KindDelay:
		return b.SetDelay(d.Value)
	case KindCommit:
		return b.Commit()
	default:
		return b.fail(fmt.Errorf("%w: %s", errUnknownDirective, d.Kind))
	}
}

// Replay feeds directives in order into a new Builder and builds the sequence.
func Replay(directives []Directive, opts ...Option) (beep.Sequence, error) {
	b := New(opts...)

	for _, d := range directives {
		if err := b.Apply(d); err != nil {
			return nil, err
		}
	}

	return b.Build()
}
