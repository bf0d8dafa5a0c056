package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput        = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON       = errors.New("invalid JSON format")
	ErrInvalidYAML       = errors.New("invalid YAML format")
	ErrInvalidHTML       = errors.New("invalid HTML document")
	ErrMultipleJSON      = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound      = errors.New("file not found")
	ErrFileEmpty         = errors.New("file is empty")
	ErrFileTooLarge      = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrNoInput           = errors.New("no input provided: please specify input files or pipe data to stdin")
	ErrInvalidFilePath   = errors.New("invalid file path")
	ErrPathNotFound      = errors.New("path not found")
	ErrNotContainer      = errors.New("value is not an array or object")
	ErrWorkerTerminated  = errors.New("worker has already delivered its result")
	ErrClipboardTooLarge = errors.New("output too large for the clipboard")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput        ErrorType = "input"
	ErrorTypeParsing      ErrorType = "parsing"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypePath         ErrorType = "path"
	ErrorTypeRootNotArray ErrorType = "root_not_array"
	ErrorTypeRootMismatch ErrorType = "root_mismatch"
	ErrorTypeFileRead     ErrorType = "file_read"
	ErrorTypeTooLarge     ErrorType = "too_large"
	ErrorTypeOutput       ErrorType = "output"
	ErrorTypeUnknown      ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	// Check if target is also an *AppError and if the types match
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsType reports whether err wraps an *AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// NewInputError creates a new error related to input acceptance
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error for malformed JSON, JSONL, YAML or HTML text
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a new error for bad configuration values
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Err:     err,
	}
}

// NewInvalidTargetPathError creates a new error for a path that does not resolve to a container
func NewInvalidTargetPathError(path string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePath,
		Message: fmt.Sprintf("path '%s' does not resolve to an array or object", path),
		Err:     err,
	}
}

// NewRootNotArrayError creates a new error for splitting a non-array root without a path
func NewRootNotArrayError(kind string) *AppError {
	return &AppError{
		Type:    ErrorTypeRootNotArray,
		Message: fmt.Sprintf("root value is %s, not an array; provide a path to the array or object to split", kind),
	}
}

// NewRootTypeMismatchError creates a new error for merging documents of differing root kinds
func NewRootTypeMismatchError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeRootMismatch,
		Message: message,
	}
}

// NewFileReadError creates a new error for underlying file I/O failures
func NewFileReadError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFileRead,
		Message: message,
		Err:     err,
	}
}

// NewTooLargeError creates a new soft refusal for outputs too large to copy or display
func NewTooLargeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeTooLarge,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("Parse error: %s", appErr.Message)
		case ErrorTypeValidation:
			return fmt.Sprintf("Invalid option: %s", appErr.Message)
		case ErrorTypePath:
			return fmt.Sprintf("Invalid target path: %s", appErr.Message)
		case ErrorTypeRootNotArray:
			return fmt.Sprintf("Cannot split: %s", appErr.Message)
		case ErrorTypeRootMismatch:
			return fmt.Sprintf("Root type mismatch: %s (use --allow-mixed-roots to wrap each file instead)", appErr.Message)
		case ErrorTypeFileRead:
			return fmt.Sprintf("File read error: %s", appErr.Message)
		case ErrorTypeTooLarge:
			return fmt.Sprintf("Output too large: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON document or use JSONL."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify input files or pipe data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
