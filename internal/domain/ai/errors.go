package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrMissingCredential means no API key was configured. Every call fails with it.
var ErrMissingCredential = errors.New("ai api key is not configured")

// ErrInvalidResponse is the contract violation surfaced to users. The raw model
// text is logged, never attached to this error.
var ErrInvalidResponse = errors.New("Analysis failed: Invalid response format.")

// ErrNoAudio is returned when speech synthesis yields no audio payload.
var ErrNoAudio = errors.New("no audio returned")

// QuotaError marks a provider error as a quota/limit failure while keeping
// the provider's message unchanged.
type QuotaError struct {
	Err error
}

func (e *QuotaError) Error() string { return e.Err.Error() }

func (e *QuotaError) Unwrap() error { return e.Err }

func (e *QuotaError) Is(target error) bool { return target == ErrQuotaExceeded }
