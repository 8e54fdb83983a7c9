// Package beep contains core domain types for tone playback.
//
// It defines Step (one frequency/duration/delay unit) and Sequence (the
// ordered list handed from the builder to the sequencer), together with the
// PIT divisor arithmetic shared by both.
package beep
