// Package chunk groups raw text fragments into the units used for narration
// and highlighting.
package chunk

import (
	"unicode"
	"unicode/utf8"

	"github.com/harkreader/hark/internal/document"
)

// DefaultMaxSize is the default maximum chunk length in characters.
const DefaultMaxSize = 200

// Chunk is a grouped unit of text spoken as one utterance. Page and Box come
// from the first fragment absorbed into the chunk.
type Chunk struct {
	Text string
	Page int
	Box  *document.Box
}

// Group merges fragments into chunks of at most maxSize characters using
// greedy accumulation. A fragment is never split: a single fragment longer
// than maxSize becomes its own oversized chunk. The result is a pure
// function of the input.
func Group(frags []document.Fragment, maxSize int) []Chunk {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	var chunks []Chunk
	var acc Chunk

	flush := func() {
		if acc.Text != "" {
			chunks = append(chunks, acc)
			acc = Chunk{}
		}
	}

	for _, f := range frags {
		if len(acc.Text)+len(f.Text) > maxSize {
			flush()
		}
		if acc.Text == "" {
			acc = Chunk{Text: f.Text, Page: f.Page, Box: f.Box}
			continue
		}
		if !hasBoundaryWhitespace(acc.Text, f.Text) {
			acc.Text += " "
		}
		acc.Text += f.Text
	}
	flush()

	return chunks
}

func hasBoundaryWhitespace(left, right string) bool {
	if left != "" {
		if r, _ := utf8.DecodeLastRuneInString(left); unicode.IsSpace(r) {
			return true
		}
	}
	if right != "" {
		if r, _ := utf8.DecodeRuneInString(right); unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

// Texts returns the chunk texts, mainly for logging and tests.
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
