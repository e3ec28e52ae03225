package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrInvalidCode, "Invalid OTP. Try again or resend."},
		{fmt.Errorf("wrapped: %w", ErrInvalidForm), "Invalid OTP. Try again or resend."},
		{ErrUnauthorized, "Failed to authenticate session."},
		{fmt.Errorf("%w: %w", ErrUnavailable, &APIError{Status: 500, Message: "Internal server error"}), "Something went wrong. Please try again later."},
		{&APIError{Status: 409, Code: "CONFLICT", Message: "Code already used."}, "Code already used."},
		{errors.New("boom"), "Something went wrong. Please try again later."},
	}
	for _, tc := range cases {
		if got := Message(tc.err); got != tc.want {
			t.Fatalf("Message(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestPrototype(t *testing.T) {
	var a Authenticator = Prototype{}
	ctx := context.Background()
	if err := a.RequestCode(ctx, "a@schools.gov.sg"); err != nil {
		t.Fatalf("expected request to succeed, got %v", err)
	}
	if err := a.VerifyCode(ctx, "a@schools.gov.sg", "123456"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := a.RequestCode(cancelled, "a@schools.gov.sg"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
