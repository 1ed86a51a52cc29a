package err

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrAuthMissing is matched by errors.Is for any AuthMissingError.
var ErrAuthMissing = errors.New("api credential is not configured")

// ConfigurationError represents errors that are a result of bad flags, combinations of
// flags, configuration settings, environment values, or other command usage issues.
type ConfigurationError struct {
	Err error
}

// ExecutionError represents errors that occur after a command has been validated and an
// unsuccessful result occurs. Fetch failures and terminal failures surface as ExecutionErrors
// at the command boundary.
type ExecutionError struct {
	// friendly error message to display to the user
	Msg string
	// Err is the error that occurred during execution
	Err error
	// Optional attributes that can be used to provide additional context to the error
	Attrs []any
}

func (e *ConfigurationError) Error() string {
	return e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// AuthMissingError is returned when no bearer credential is available for the
// remote source. Source names where the credential was looked up.
type AuthMissingError struct {
	Source string
}

func (e *AuthMissingError) Error() string {
	if e.Source == "" {
		return ErrAuthMissing.Error()
	}
	return fmt.Sprintf("%s (set %s)", ErrAuthMissing.Error(), e.Source)
}

func (e *AuthMissingError) Is(target error) bool {
	return target == ErrAuthMissing
}

// TransportError covers network and protocol failures while talking to the
// remote source, including non-2xx responses.
type TransportError struct {
	Resource   string
	Page       int
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s page %d: unexpected status %d", e.Resource, e.Page, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s page %d: %v", e.Resource, e.Page, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a page body is not shaped as expected.
type DecodeError struct {
	Resource string
	Page     int
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s page %d: %v", e.Resource, e.Page, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TerminalError wraps failures acquiring or restoring the terminal.
type TerminalError struct {
	Err error
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("terminal: %v", e.Err)
}

func (e *TerminalError) Unwrap() error {
	return e.Err
}

// TryConvertErrorToAttrs will try and json unmarshal an error string into a slice of
// interfaces that match the slog algorithm for varadic parameters (alternating key value pairs)
func TryConvertErrorToAttrs(err error) []any {
	var result map[string]any
	umError := json.Unmarshal([]byte(err.Error()), &result)
	if umError != nil {
		return nil
	}
	attrs := make([]any, 0, len(result)*2)
	for k, v := range result {
		attrs = append(attrs, k, v)
	}
	return attrs
}

// Attrs returns slog-style key/value pairs describing a fetch error, or nil
// when err carries no fetch context.
func Attrs(err error) []any {
	var transport *TransportError
	if errors.As(err, &transport) {
		attrs := []any{"resource", transport.Resource, "page", transport.Page}
		if transport.StatusCode != 0 {
			attrs = append(attrs, "status", transport.StatusCode)
		}
		return attrs
	}
	var decode *DecodeError
	if errors.As(err, &decode) {
		return []any{"resource", decode.Resource, "page", decode.Page}
	}
	var auth *AuthMissingError
	if errors.As(err, &auth) {
		return []any{"suggestion", fmt.Sprintf("export %s or set jwt-token in the config file", auth.Source)}
	}
	return TryConvertErrorToAttrs(err)
}
