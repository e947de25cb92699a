package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-Party API & LLM Specific Errors
var (
	ErrSuggestionFailed    = errors.New("suggestion failed")
	ErrSuggestionsDisabled = errors.New("suggestions are not configured")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrCircuitBreakerOpen  = errors.New("circuit breaker open")
	ErrUpstreamRejected    = errors.New("upstream rejected request")
)

// Configuration Errors
var (
	ErrConfigInvalid = errors.New("configuration invalid")
)

// Human-readable messages surfaced when suggestions can't be produced.
const (
	SuggestionUnparseableMessage = "AI could not generate suggestions. Please try again."
	SuggestionCallFailedMessage  = "An unexpected error occurred while fetching AI suggestions."
)

// NewSuggestionError is returned when the model call fails or its output
// doesn't match the suggestion contract. message is shown to the applicant.
func NewSuggestionError(message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        tagged(message, ErrSuggestionFailed),
		Cause:      cause,
	}
}

func NewSuggestionsDisabledError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrSuggestionsDisabled,
		Details:    "No AI provider is configured",
	}
}

func NewCircuitBreakerOpenError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrCircuitBreakerOpen,
		Details:    fmt.Sprintf("Calls to %s are temporarily suspended", service),
		Cause:      cause,
	}
}

func NewServiceUnavailableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnavailable,
		Details:    fmt.Sprintf("%s is unavailable", service),
		Cause:      cause,
	}
}

func NewUpstreamRejectedError(service string, status int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUpstreamRejected,
		Details:    fmt.Sprintf("%s responded with status %d", service, status),
	}
}

func NewConfigInvalidError(configName, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Details:    fmt.Sprintf("Invalid value for %s: %s", configName, reason),
		Field:      configName,
	}
}

func IsSuggestionError(err error) bool {
	return errors.Is(err, ErrSuggestionFailed)
}

func IsSuggestionsDisabledError(err error) bool {
	return errors.Is(err, ErrSuggestionsDisabled)
}

func IsCircuitBreakerOpenError(err error) bool {
	return errors.Is(err, ErrCircuitBreakerOpen)
}

func IsServiceUnavailableError(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}

func IsUpstreamRejectedError(err error) bool {
	return errors.Is(err, ErrUpstreamRejected)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigInvalid)
}

