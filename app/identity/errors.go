package identity

import (
	"errors"
	"fmt"
)

// Provider error codes.
const (
	CodeEmailInUse    = "auth/email-already-in-use"
	CodeInvalidEmail  = "auth/invalid-email"
	CodeWeakPassword  = "auth/weak-password"
	CodeUserNotFound  = "auth/user-not-found"
	CodeWrongPassword = "auth/wrong-password"
	CodeMissingFields = "auth/missing-fields"
	CodeInvalidToken  = "auth/invalid-token"
)

// Error is a coded identity provider failure.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

func codeErr(code string) error {
	return &Error{Code: code}
}

// Code extracts the provider code from err, or "" when err is not coded.
func Code(err error) string {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

// Message returns the human-readable text shown for err.
func Message(err error) string {
	switch Code(err) {
	case CodeEmailInUse:
		return "Email is already registered"
	case CodeInvalidEmail:
		return "Invalid email address"
	case CodeWeakPassword:
		return "Password is too weak"
	case CodeUserNotFound:
		return "No user found with this email"
	case CodeWrongPassword:
		return "Incorrect password"
	case CodeMissingFields:
		var ie *Error
		if errors.As(err, &ie) && ie.Err != nil {
			return ie.Err.Error()
		}
		return "Please fill in all required fields"
	case CodeInvalidToken:
		return "Please sign in to continue"
	}
	if err != nil {
		return err.Error()
	}
	return "Authentication failed"
}
