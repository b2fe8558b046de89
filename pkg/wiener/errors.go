package wiener

import "github.com/pkg/errors"

var (
	// ErrInvalidInput is returned for malformed parameters, such as a
	// non-positive denominator passed to Expand.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotVulnerable is returned when every convergent of e/N has been
	// tried without a verified candidate. It is the expected outcome for
	// keys outside Wiener's bound.
	ErrNotVulnerable = errors.New("key is not vulnerable to Wiener's attack")
)
