package causelist

import (
	"errors"
)

// Failure taxonomy. Callers classify with errors.Is; the orchestrator
// never lets any of these escape as a panic or an untyped failure.
var (
	// ErrValidation is returned for malformed input parameters, before
	// any network call is attempted.
	ErrValidation = errors.New("invalid request parameters")

	// ErrTimeout is returned when the court website does not answer
	// within the configured deadline.
	ErrTimeout = errors.New("court website timed out")

	// ErrNetwork is returned for DNS or connection failures.
	ErrNetwork = errors.New("could not reach court website")

	// ErrHTTP is returned when the court website answers with a non-2xx
	// status after the retry budget is exhausted.
	ErrHTTP = errors.New("court website returned an error status")

	// ErrParse is returned when the results page cannot be parsed as
	// HTML at all. Zero tables or zero rows is not a parse error.
	ErrParse = errors.New("could not parse causelist page")
)
