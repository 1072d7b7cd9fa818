// Package speech drives narration: an Engine abstracts a text-to-speech
// backend, and the Sequencer narrates chunk lists through it in order.
package speech

import "context"

// Engine is the interface to a text-to-speech backend.
//
// Speak blocks until the utterance finishes naturally or ctx is cancelled.
// Rate is a speed multiplier where 1.0 is normal speaking pace; backends map
// it to their own unit. Pause, Resume and Cancel act on the utterance
// currently in flight and are safe to call concurrently with Speak.
type Engine interface {
	Speak(ctx context.Context, text string, rate float64) error
	Pause() error
	Resume() error
	Cancel()
	// Supported reports whether the backend can synthesize on this system.
	Supported() bool
	Name() string
}
