// Package correct post-processes raw transcripts with a hosted LLM,
// fixing typos and grammatical errors without changing meaning.
package correct

import "context"

// Request is a correction call for one transcript.
type Request struct {
	Text  string
	Style string // "standard", "formal", "casual"; empty means standard
}

// Result is the corrected transcript.
type Result struct {
	Text  string
	Model string
}

// Corrector is implemented by LLM-backed correction engines.
type Corrector interface {
	Correct(ctx context.Context, req Request) (*Result, error)
	Name() string
}
