package summarize

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned when the provider settings carry no API key.
	ErrMissingCredential = errors.New("API key is not configured")

	// ErrInputTooLarge is returned when the text exceeds the enabled input token limit.
	ErrInputTooLarge = errors.New("text exceeds the input token limit")

	// ErrUnsupportedProvider is returned for provider names with no registered handler.
	ErrUnsupportedProvider = errors.New("unsupported AI provider")

	// ErrNoModelConfigured is returned when neither the settings nor the registry name a model.
	ErrNoModelConfigured = errors.New("no model configured")

	// ErrNotImplemented is returned by reserved provider kinds.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidSetting is returned when a setting cannot be interpreted.
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrProvider is matched by every *ProviderError.
	ErrProvider = errors.New("provider error")

	errNoCandidates = errors.New("response contained no text candidates")
)

// ProviderError carries a failure reported by, or while reaching, an external API.
type ProviderError struct {
	Provider   string
	StatusCode int // HTTP status when the API answered, 0 otherwise.
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }
