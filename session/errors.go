package session

import (
	"errors"
	"fmt"
	"net/http"
)

// User facing login failure messages.
const (
	MsgNoUserFound        = "No user found."
	MsgInvalidCredentials = "Invalid credentials"
	MsgLoginFailed        = "Failed to login"
)

// AuthError describes a failed login. Message is safe to show to the user.
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

type statusCoder interface {
	StatusCode() int
}

// newAuthError maps a backend failure onto the fixed set of login messages.
// Anything without an HTTP status, such as a transport failure, is generic.
func newAuthError(err error) *AuthError {
	status := 0
	var sc statusCoder
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	message := MsgLoginFailed
	switch status {
	case http.StatusNotFound:
		message = MsgNoUserFound
	case http.StatusUnauthorized:
		message = MsgInvalidCredentials
	}
	return &AuthError{Status: status, Message: message, Err: err}
}
