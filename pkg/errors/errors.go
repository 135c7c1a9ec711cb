package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors
type ErrorCode string

const (
	ErrCodeEngine     ErrorCode = "ENGINE_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodePreset     ErrorCode = "PRESET_ERROR"
	ErrCodeIO         ErrorCode = "IO_ERROR"
)

// Preset failure sentinels, matchable with errors.Is.
var (
	ErrPresetNotFound  = errors.New("preset not found")
	ErrNameCollision   = errors.New("preset name collides with a built-in")
	ErrPresetProtected = errors.New("built-in presets cannot be deleted")
)

// ForgeError is the base structured error
type ForgeError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *ForgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ForgeError) Unwrap() error {
	return e.Cause
}

// EngineError represents an engine subprocess failure: either the binary
// could not be run at all, or it exited non-zero during a conversion.
type EngineError struct {
	ForgeError
	Args     []string
	ExitCode int
	Stderr   string
}

func NewEngineError(message string, args []string, exitCode int, stderr string, cause error) *EngineError {
	return &EngineError{
		ForgeError: ForgeError{
			Code:    ErrCodeEngine,
			Message: message,
			Cause:   cause,
		},
		Args:     args,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("[%s] %s (exit=%d, stderr=%q)",
		e.Code, e.Message, e.ExitCode, truncate(e.Stderr, 200))
}

// ValidationError represents input or precondition validation failure
type ValidationError struct {
	ForgeError
	Field string
	Value interface{}
}

func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		ForgeError: ForgeError{
			Code:    ErrCodeValidation,
			Message: message,
		},
		Field: field,
		Value: value,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] field=%s value=%v: %s", e.Code, e.Field, e.Value, e.Message)
}

// PresetError wraps one of the preset sentinels with the offending name.
type PresetError struct {
	ForgeError
	Name string
}

func NewPresetError(name string, cause error) *PresetError {
	return &PresetError{
		ForgeError: ForgeError{
			Code:    ErrCodePreset,
			Message: fmt.Sprintf("preset %q", name),
			Cause:   cause,
		},
		Name: name,
	}
}

// Is enables errors.Is checks
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As enables errors.As checks
func As[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
