package builder

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/oshokin/pc-beeper/internal/domain/beep"
)

// TestBuild_NoDirectives ensures an empty directive stream still yields one default step.
func TestBuild_NoDirectives(t *testing.T) {
	t.Parallel()

	seq, err := New().Build()
	require.NoError(t, err)
	require.Equal(t, beep.Sequence{beep.DefaultStep()}, seq)
}

// TestBuild_ImplicitCommit covers a single set of options without a commit marker.
func TestBuild_ImplicitCommit(t *testing.T) {
	t.Parallel()

	b := New()
	require.NoError(t, b.SetFrequency("440"))
	require.NoError(t, b.SetDuration("100"))

	seq, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, beep.Sequence{
		{Frequency: 440, Duration: 100 * time.Millisecond},
	}, seq)
}

// TestBuild_ExplicitCommits ensures a trailing commit marker does not add a default step.
func TestBuild_ExplicitCommits(t *testing.T) {
	t.Parallel()

	b := New()
	require.NoError(t, b.SetFrequency("300"))
	require.NoError(t, b.SetDuration("50"))
	require.NoError(t, b.Commit())
	require.NoError(t, b.SetFrequency("600"))
	require.NoError(t, b.SetDuration("50"))
	require.NoError(t, b.Commit())
	require.Equal(t, 2, b.Len())

	seq, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, beep.Sequence{
		{Frequency: 300, Duration: 50 * time.Millisecond},
		{Frequency: 600, Duration: 50 * time.Millisecond},
	}, seq)
}

// TestBuild_ResetAfterCommit verifies that fields reset to defaults after a commit.
func TestBuild_ResetAfterCommit(t *testing.T) {
	t.Parallel()

	b := New(WithDefaults(beep.Step{Frequency: 750, Duration: 10 * time.Millisecond}))
	require.NoError(t, b.SetDelay("30"))
	require.NoError(t, b.Commit())
	require.NoError(t, b.SetDuration("20"))

	seq, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, beep.Sequence{
		{Frequency: 750, Duration: 10 * time.Millisecond, Delay: 30 * time.Millisecond},
		{Frequency: 750, Duration: 20 * time.Millisecond},
	}, seq)
}

// TestBuild_InvalidValues checks that malformed numbers abort the whole build.
func TestBuild_InvalidValues(t *testing.T) {
	t.Parallel()

	cases := map[string]func(b *Builder) error{
		"empty frequency":    func(b *Builder) error { return b.SetFrequency("") },
		"negative duration":  func(b *Builder) error { return b.SetDuration("-1") },
		"text delay":         func(b *Builder) error { return b.SetDelay("soon") },
		"overflowing delay":  func(b *Builder) error { return b.SetDelay("4294967296") },
		"fractional seconds": func(b *Builder) error { return b.SetDuration("1.5") },
	}

	for name, apply := range cases {
		apply := apply
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b := New()
			require.NoError(t, b.SetFrequency("500"))
			require.NoError(t, b.Commit())

			err := apply(b)
			require.ErrorIs(t, err, ErrInvalidValue)

			// Builder stays poisoned.
			require.ErrorIs(t, b.Commit(), ErrInvalidValue)
			require.ErrorIs(t, b.SetFrequency("600"), ErrInvalidValue)

			seq, err := b.Build()
			require.ErrorIs(t, err, ErrInvalidValue)
			require.Nil(t, seq)
		})
	}
}

// TestBuild_InvalidFrequency ensures frequencies outside the divisor range are rejected.
func TestBuild_InvalidFrequency(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"0", "18", "1193183"} {
		b := New()
		err := b.SetFrequency(value)
		require.ErrorIs(t, err, ErrInvalidFrequency, value)
		require.ErrorIs(t, err, beep.ErrFrequencyOutOfRange, value)
	}

	b := New(WithBaseClock(1000))
	require.ErrorIs(t, b.SetFrequency("1001"), ErrInvalidFrequency)
}

// TestBuild_TooManySteps verifies the step limit on both explicit and trailing commits.
func TestBuild_TooManySteps(t *testing.T) {
	t.Parallel()

	b := New(WithMaxSteps(2))
	require.NoError(t, b.Commit())
	require.NoError(t, b.Commit())
	require.ErrorIs(t, b.Commit(), ErrTooManySteps)

	_, err := b.Build()
	require.ErrorIs(t, err, ErrTooManySteps)

	// Trailing modified step does not fit either.
	b = New(WithMaxSteps(1))
	require.NoError(t, b.Commit())
	require.NoError(t, b.SetFrequency("440"))

	_, err = b.Build()
	require.ErrorIs(t, err, ErrTooManySteps)
	require.ErrorIs(t, b.Err(), ErrTooManySteps)
}

// TestBuild_StepCount checks that the result has one step per commit plus
// at most one trailing step, and is never empty.
func TestBuild_StepCount(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		b := New()

		directives := rapid.SliceOfN(rapid.IntRange(0, 3), 0, 50).Draw(t, "directives")

		var (
			commits int
			dirty   bool
		)

		for _, d := range directives {
			var err error

			switch d {
			case 0:
				err = b.Commit()
				commits++
				dirty = false
			case 1:
				err = b.SetFrequency(strconv.Itoa(rapid.IntRange(19, 20000).Draw(t, "frequency")))
				dirty = true
			case 2:
				err = b.SetDuration(strconv.Itoa(rapid.IntRange(0, 1000).Draw(t, "duration")))
				dirty = true
			default:
				err = b.SetDelay(strconv.Itoa(rapid.IntRange(0, 1000).Draw(t, "delay")))
				dirty = true
			}

			if err != nil {
				t.Fatalf("unexpected directive error: %v", err)
			}
		}

		seq, err := b.Build()
		if err != nil {
			t.Fatalf("unexpected build error: %v", err)
		}

		want := commits
		if commits == 0 || dirty {
			want++
		}

		if len(seq) != want {
			t.Fatalf("got %d steps, want %d", len(seq), want)
		}
	})
}
