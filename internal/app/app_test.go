package app

import (
	"testing"
	"time"

	"github.com/atomicstack/teacher-workspace/internal/auth"
)

func TestNewAuthenticatorDefaultsToPrototype(t *testing.T) {
	authn, err := NewAuthenticator(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := authn.(auth.Prototype); !ok {
		t.Fatalf("expected prototype authenticator, got %T", authn)
	}
}

func TestNewAuthenticatorBuildsClient(t *testing.T) {
	authn, err := NewAuthenticator(Config{AuthURL: "http://localhost:3000", AuthTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := authn.(*auth.Client); !ok {
		t.Fatalf("expected HTTP client, got %T", authn)
	}
}

func TestNewAuthenticatorRejectsBadURL(t *testing.T) {
	if _, err := NewAuthenticator(Config{AuthURL: "ftp://example.com"}); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}

func TestNewWatcherWithPinnedWidthAndPrototype(t *testing.T) {
	w := NewWatcher(Config{Width: 100, PollInterval: time.Second}, auth.Prototype{})
	defer w.Stop()
	select {
	case _, ok := <-w.Events():
		if ok {
			t.Fatalf("expected no pollers and a closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("events channel was not closed")
	}
}

func TestRouteAliases(t *testing.T) {
	var r Route = RouteSignIn
	if !r.Valid() || RouteHome != "home" || RouteStudents != "students" {
		t.Fatalf("unexpected route constants")
	}
}
