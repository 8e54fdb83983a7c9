// Package beeper runs one playback session: it resolves settings, enforces
// the single-instance policy, acquires the I/O-port capability (or an
// in-memory stand-in for dry runs) and hands the sequence to the sequencer.
package beeper
