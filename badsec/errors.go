package badsec

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthFailure is reported when /auth never answers with 200.
	ErrAuthFailure = errors.New("Auth failed") //nolint:staticcheck // message is part of the CLI contract
	// ErrUserListFailure is reported when /users never answers with 200.
	ErrUserListFailure = errors.New("User list retrieval failed") //nolint:staticcheck // message is part of the CLI contract
)

// Stage identifies the protocol step that failed.
type Stage string

const (
	StageAuth  Stage = "auth"
	StageUsers Stage = "users"
)

// ProtocolError reports a step whose last response was not a 200.
type ProtocolError struct {
	Stage      Stage
	StatusCode int
	Err        error
}

// NewProtocolError creates a ProtocolError for the given stage, picking the
// matching sentinel.
func NewProtocolError(stage Stage, statusCode int) *ProtocolError {
	err := ErrUserListFailure
	if stage == StageAuth {
		err = ErrAuthFailure
	}
	return &ProtocolError{Stage: stage, StatusCode: statusCode, Err: err}
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%v (stage: %s, status: %d)", e.Err, e.Stage, e.StatusCode)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
