// Package auth talks to the service that issues and verifies one-time
// passwords. The sign-in flow only sees the Authenticator interface and the
// field messages produced by Message.
package auth

import (
	"context"
	"errors"
)

var (
	// ErrInvalidForm means the backend refused the submitted input shape.
	ErrInvalidForm = errors.New("auth: invalid form")
	// ErrInvalidCode means the code did not match.
	ErrInvalidCode = errors.New("auth: invalid code")
	// ErrUnauthorized means the backend no longer recognises the session.
	ErrUnauthorized = errors.New("auth: unauthorized")
	// ErrUnavailable covers transport failures and server errors.
	ErrUnavailable = errors.New("auth: backend unavailable")
)

// Authenticator issues codes to an email address and verifies them.
type Authenticator interface {
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) error
}

// Pinger is implemented by authenticators that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Message translates an authenticator error into the text shown under the
// code field.
func Message(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCode), errors.Is(err, ErrInvalidForm):
		return "Invalid OTP. Try again or resend."
	case errors.Is(err, ErrUnauthorized):
		return "Failed to authenticate session."
	case errors.Is(err, ErrUnavailable):
		return "Something went wrong. Please try again later."
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return "Something went wrong. Please try again later."
	}
}

// Prototype is an offline Authenticator matching the workspace prototype:
// codes are always issued and never accepted.
type Prototype struct{}

func (Prototype) RequestCode(ctx context.Context, email string) error {
	return ctx.Err()
}

func (Prototype) VerifyCode(ctx context.Context, email, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrInvalidCode
}
