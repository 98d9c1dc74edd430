package errors

import "fmt"

// ErrorCode represents a kbagent error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400: bad command arguments
	ErrInvalidPayload ErrorCode = "INVALID_PAYLOAD" // 400: /auth JSON unparseable or incomplete
	ErrAuthRequired   ErrorCode = "AUTH_REQUIRED"   // 401: no stored credential
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrConflict       ErrorCode = "CONFLICT"        // 409
	ErrRemoteCall     ErrorCode = "REMOTE_CALL"     // 502: wiki returned non-2xx or network failure
	ErrBadResponse    ErrorCode = "BAD_RESPONSE"    // 502: wiki JSON did not match the expected shape
	ErrNoModel        ErrorCode = "NO_MODEL"        // 503: no usable chat model for the fallback
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// AgentError represents a structured error with code, status, and details.
type AgentError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *AgentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for malformed command arguments.
func NewInvalidRequest(msg string) *AgentError {
	return &AgentError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidPayload creates a 400 error for a bad /auth payload.
func NewInvalidPayload(msg string) *AgentError {
	return &AgentError{
		Code:    ErrInvalidPayload,
		Status:  400,
		Message: msg,
	}
}

// NewAuthRequired creates a 401 error for commands invoked without a credential.
func NewAuthRequired() *AgentError {
	return &AgentError{
		Code:    ErrAuthRequired,
		Status:  401,
		Message: "not authenticated; run /auth first",
	}
}

// NewNotFound creates a 404 error for a missing record.
func NewNotFound(identifier string) *AgentError {
	return &AgentError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *AgentError {
	return &AgentError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewRemoteStatus creates a 502 error for a non-2xx response from the wiki.
// The upstream status code and text are kept in Details so callers can
// surface them verbatim.
func NewRemoteStatus(statusCode int, statusText string) *AgentError {
	return &AgentError{
		Code:    ErrRemoteCall,
		Status:  502,
		Message: fmt.Sprintf("remote call failed: %d %s", statusCode, statusText),
		Details: map[string]any{"status_code": statusCode, "status_text": statusText},
	}
}

// NewRemoteCall creates a 502 error for a network-level failure.
func NewRemoteCall(err error) *AgentError {
	return &AgentError{
		Code:    ErrRemoteCall,
		Status:  502,
		Message: fmt.Sprintf("remote call failed: %v", err),
	}
}

// NewBadResponse creates a 502 error for a remote body that does not match
// the expected shape.
func NewBadResponse(msg string) *AgentError {
	return &AgentError{
		Code:    ErrBadResponse,
		Status:  502,
		Message: fmt.Sprintf("malformed remote response: %s", msg),
	}
}

// NewNoModel creates a 503 error for the fallback path when no chat model
// is reachable.
func NewNoModel() *AgentError {
	return &AgentError{
		Code:    ErrNoModel,
		Status:  503,
		Message: "no chat model available",
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *AgentError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &AgentError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is an AgentError with the given code.
func Is(err error, code ErrorCode) bool {
	if aErr, ok := err.(*AgentError); ok {
		return aErr.Code == code
	}
	return false
}
