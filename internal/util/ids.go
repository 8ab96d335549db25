package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const correlationAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewCorrelationID returns a short, URL-safe identifier used to tie a
// discovery request to its worker-side log lines.
func NewCorrelationID() string {
	id, err := gonanoid.Generate(correlationAlphabet, 16)
	if err != nil {
		// nanoid only fails when the platform RNG is broken; fall back to
		// a constant so callers never have to handle an error here.
		return "run_0000000000000000"
	}
	return "run_" + id
}
