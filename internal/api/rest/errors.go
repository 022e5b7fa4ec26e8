package rest

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork means the request never completed.
	ErrNetwork = errors.New("network error")
	// ErrRejected means the server answered with a non-2xx status.
	// Authentication failures are not told apart from other rejections.
	ErrRejected = errors.New("request rejected")
	// ErrDecode means the response payload was malformed.
	ErrDecode = errors.New("decode error")
	// ErrLoginRejected means the login endpoint answered success=false.
	ErrLoginRejected = errors.New("login rejected")

	// errBaseURLRequired is returned when the client is built without a base URL.
	errBaseURLRequired = errors.New("base url must be provided")
	// errIDRequired is returned for alarm operations without an id.
	errIDRequired = errors.New("alarm id must be provided")
)

// StatusError carries the status of a rejected request. It matches ErrRejected.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements error.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: http %d", ErrRejected, e.StatusCode)
	}

	return fmt.Sprintf("%s: http %d: %s", ErrRejected, e.StatusCode, e.Body)
}

// Is makes errors.Is(err, ErrRejected) hold.
func (e *StatusError) Is(target error) bool {
	return target == ErrRejected
}

// LoginError carries the server message of a refused login. It matches ErrLoginRejected.
type LoginError struct {
	Message string
}

// Error implements error.
func (e *LoginError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrLoginRejected) hold.
func (e *LoginError) Is(target error) bool {
	return target == ErrLoginRejected
}
