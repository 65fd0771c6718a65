package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// StorageErrorMessage describes local storage failures.
	StorageErrorMessage = "storage operation failed"
	// OracleUnavailableMessage is returned when the inference service cannot be reached.
	OracleUnavailableMessage = "inference service unavailable"
	// OracleMalformedMessage is returned when inference output does not match its declared shape.
	OracleMalformedMessage = "inference service returned malformed output"
	// UnknownToolMessage is returned when a tool name is absent from the registry.
	UnknownToolMessage = "unknown tool"
	// ToolRejectedMessage is returned when a tool back end refuses its input.
	ToolRejectedMessage = "tool rejected the request"
)

// Error kinds. Match with errors.Is.
var (
	ErrOracleUnavailable = errors.New("oracle unavailable")
	ErrOracleMalformed   = errors.New("oracle output malformed")
	ErrUnknownTool       = errors.New("unknown tool")
	ErrToolRejected      = errors.New("tool rejected input")
	ErrStorage           = errors.New("storage failure")
	ErrInvalidInput      = errors.New("invalid input")
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Kind    error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

func newKind(kind error, err error, status int, message string) *AppError {
	if err == nil {
		err = kind
	}
	return &AppError{Err: err, Kind: kind, Status: status, Message: message}
}

// Is reports whether the target matches the error kind or the underlying error.
func (e *AppError) Is(target error) bool {
	if e.Kind != nil && target == e.Kind {
		return true
	}
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return errors.As(e.Err, target)
}

// OracleUnavailable marks a failed inference call. Fatal for the current turn.
func OracleUnavailable(err error) error {
	return newKind(ErrOracleUnavailable, err, http.StatusBadGateway, OracleUnavailableMessage)
}

// OracleMalformed marks inference output that is outside its declared schema.
func OracleMalformed(err error) error {
	return newKind(ErrOracleMalformed, err, http.StatusBadGateway, OracleMalformedMessage)
}

// UnknownTool marks a reference to a tool that is absent from the registry.
func UnknownTool(name string) error {
	return newKind(ErrUnknownTool, fmt.Errorf("tool %q is not registered", name), http.StatusNotFound, UnknownToolMessage)
}

// ToolRejected marks a tool refusing valid-shaped input.
func ToolRejected(err error) error {
	return newKind(ErrToolRejected, err, http.StatusBadRequest, ToolRejectedMessage)
}

// Storage wraps a local persistence failure.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	return newKind(ErrStorage, err, http.StatusInternalServerError, StorageErrorMessage)
}

// InvalidInput wraps a caller mistake with a safe message.
func InvalidInput(message string) error {
	return newKind(ErrInvalidInput, errors.New(message), http.StatusBadRequest, message)
}

// StatusOf resolves the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf resolves the user-facing message carried by err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return SystemErrorMessage
}
