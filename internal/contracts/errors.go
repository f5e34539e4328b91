package contracts

import "errors"

// Error taxonomy for pipeline failures.
// Provider errors wrap these sentinels so the orchestrator can classify
// a stage failure without inspecting message strings.
var (
	// ErrProviderUnavailable means a required credential or configuration
	// for a provider is missing. Triggers the trend-detection fallback;
	// fatal for every other stage.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderRequestFailed is a transport or HTTP-level failure.
	ErrProviderRequestFailed = errors.New("provider request failed")

	// ErrRunInFlight is returned when a run is requested while one is
	// already active for the session (single-flight discipline).
	ErrRunInFlight = errors.New("an investment cycle is already running")
)

// ValidationError carries the advisor validation failure message.
// The message is surfaced to the session observer verbatim, whether it
// describes a schema problem or a business-rule shortfall from the model.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
