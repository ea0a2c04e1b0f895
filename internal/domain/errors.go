package domain

import (
	"errors"
	"fmt"
)

// Category sentinels.
var (
	ErrNotFound      = fmt.Errorf("not found")
	ErrDuplicate     = fmt.Errorf("duplicate")
	ErrTimeout       = fmt.Errorf("operation timed out")
	ErrInvalidInput  = fmt.Errorf("invalid input")
	ErrProviderError = fmt.Errorf("provider error")
)

// Sentinel errors for the domain layer.
var (
	// Submission guards.
	ErrEmptyInput = fmt.Errorf("%w: empty submission", ErrInvalidInput)
	ErrBusy       = fmt.Errorf("a request is already in progress")

	// Routing / dispatch.
	ErrUnknownAgent = fmt.Errorf("unknown agent")
	ErrNoHandler    = fmt.Errorf("no handler registered for agent")

	// Classifier collaborator.
	ErrConfigMissing = fmt.Errorf("classifier credentials not configured")
	ErrConfigLoad    = fmt.Errorf("failed to load configuration")
	ErrDecryption    = fmt.Errorf("decryption failed")
	ErrRateLimit     = fmt.Errorf("rate limit exceeded")
	ErrAuthInvalid   = fmt.Errorf("authentication failed")
	ErrCircuitOpen   = fmt.Errorf("circuit open")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g., "Orchestrator.Submit")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsRetryableError reports whether err is a transient error that may succeed on retry.
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrRateLimit) || errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTimeout)
}

// ErrorCode is a machine-parseable error category for logs and monitoring.
type ErrorCode string

const (
	CodeUnknown       ErrorCode = "UNKNOWN"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeDuplicate     ErrorCode = "DUPLICATE"
	CodeTimeout       ErrorCode = "TIMEOUT"
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeProviderError ErrorCode = "PROVIDER_ERROR"
	CodeEmptyInput    ErrorCode = "EMPTY_INPUT"
	CodeBusy          ErrorCode = "BUSY"
	CodeUnknownAgent  ErrorCode = "UNKNOWN_AGENT"
	CodeNoHandler     ErrorCode = "NO_HANDLER"
	CodeConfigMissing ErrorCode = "CONFIG_MISSING"
	CodeConfigLoad    ErrorCode = "CONFIG_LOAD"
	CodeDecryption    ErrorCode = "DECRYPTION"
	CodeRateLimit     ErrorCode = "RATE_LIMIT"
	CodeAuthInvalid   ErrorCode = "AUTH_INVALID"
	CodeCircuitOpen   ErrorCode = "CIRCUIT_OPEN"
)

// errorCodes is ordered most-specific first: ErrEmptyInput wraps
// ErrInvalidInput and must match before it.
var errorCodes = []struct {
	err  error
	code ErrorCode
}{
	{ErrEmptyInput, CodeEmptyInput},
	{ErrBusy, CodeBusy},
	{ErrUnknownAgent, CodeUnknownAgent},
	{ErrNoHandler, CodeNoHandler},
	{ErrConfigMissing, CodeConfigMissing},
	{ErrConfigLoad, CodeConfigLoad},
	{ErrDecryption, CodeDecryption},
	{ErrRateLimit, CodeRateLimit},
	{ErrAuthInvalid, CodeAuthInvalid},
	{ErrCircuitOpen, CodeCircuitOpen},
	{ErrNotFound, CodeNotFound},
	{ErrDuplicate, CodeDuplicate},
	{ErrTimeout, CodeTimeout},
	{ErrInvalidInput, CodeInvalidInput},
	{ErrProviderError, CodeProviderError},
}

// ErrorCodeOf returns the machine-parseable error code for the given error,
// walking the wrap chain. Returns CodeUnknown if no sentinel matches.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeUnknown
}

// Code returns the ErrorCode for this DomainError's underlying sentinel.
func (e *DomainError) Code() ErrorCode {
	return ErrorCodeOf(e.Err)
}
