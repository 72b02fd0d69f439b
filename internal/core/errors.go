package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeAlreadyMember        = "already_member"
	ErrCodeNotAMember           = "not_a_member"
	ErrCodeActiveIntervalExists = "active_interval_exists"
	ErrCodeNoActiveInterval     = "no_active_interval"
	ErrCodeNotOwner             = "not_owner"
	ErrCodePersistenceFailure   = "persistence_failure"
	ErrCodeBadRequest           = "bad_request"
)

var (
	ErrAlreadyMember        = errors.New("already in a room")
	ErrNotAMember           = errors.New("not a member of any room")
	ErrActiveIntervalExists = errors.New("room already has a running interval")
	ErrNoActiveInterval     = errors.New("no interval is running")
	ErrNotOwner             = errors.New("interval belongs to another user")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
