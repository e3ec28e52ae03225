package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/teacher-workspace/internal/auth"
	"github.com/atomicstack/teacher-workspace/internal/logging"
	"github.com/atomicstack/teacher-workspace/internal/signin"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeAuth struct {
	requested  []string
	verified   []string
	requestErr error
	verifyErr  error
}

func (f *fakeAuth) RequestCode(ctx context.Context, email string) error {
	f.requested = append(f.requested, email)
	return f.requestErr
}

func (f *fakeAuth) VerifyCode(ctx context.Context, email, code string) error {
	f.verified = append(f.verified, email+":"+code)
	return f.verifyErr
}

func newSignInHarness(t *testing.T, authn auth.Authenticator) *Harness {
	t.Helper()
	logging.Configure(filepath.Join(t.TempDir(), "ui.log"))
	t.Cleanup(func() { logging.Configure("") })
	m := NewModel(Options{
		Width:         100,
		Height:        30,
		Route:         RouteSignIn,
		Authenticator: authn,
		SignInOptions: []signin.Option{signin.WithPrefixFunc(func() string { return "abcd1234-" })},
	})
	t.Cleanup(m.Close)
	return NewHarness(m)
}

func flowState(t *testing.T, h *Harness) signin.State {
	t.Helper()
	if h.Model().signIn == nil {
		t.Fatalf("sign-in view is not mounted")
	}
	return h.Model().signIn.flow.State()
}

func TestSignInRejectsForeignEmail(t *testing.T) {
	fa := &fakeAuth{}
	h := newSignInHarness(t, fa)
	h.Type("teacher@gmail.com")
	h.Press(tea.KeyEnter)
	st := flowState(t, h)
	if st.Step != signin.StepEmail {
		t.Fatalf("expected to stay on the email step")
	}
	if !strings.Contains(h.View(), "Use your @schools.gov.sg email") {
		t.Fatalf("expected email error in view:\n%s", h.View())
	}
	if len(fa.requested) != 0 || len(h.PendingTicks()) != 0 {
		t.Fatalf("no code should be requested")
	}
}

func TestSignInHappyPath(t *testing.T) {
	fa := &fakeAuth{}
	h := newSignInHarness(t, fa)
	h.Type("jane.tan@schools.gov.sg")
	h.Press(tea.KeyEnter)

	st := flowState(t, h)
	if st.Step != signin.StepCode || st.Remaining != signin.CountdownWindow {
		t.Fatalf("unexpected state after email %+v", st)
	}
	if len(fa.requested) != 1 || fa.requested[0] != "jane.tan@schools.gov.sg" {
		t.Fatalf("expected one code request, got %v", fa.requested)
	}
	if ticks := h.PendingTicks(); len(ticks) != 1 || ticks[0] != h.Model().signIn.flow.Generation() {
		t.Fatalf("expected one tick for the current generation, got %v", ticks)
	}
	view := h.View()
	for _, want := range []string{"abcd1234-", "Resend OTP (60)", "jane.tan@schools.gov.sg"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}

	h.Type("123456")
	h.Press(tea.KeyEnter)
	if len(fa.verified) != 1 || fa.verified[0] != "jane.tan@schools.gov.sg:123456" {
		t.Fatalf("unexpected verify calls %v", fa.verified)
	}
	m := h.Model()
	if m.Route() != RouteHome || m.signIn != nil {
		t.Fatalf("expected hand-off to home with the flow torn down")
	}
	if m.User() != "jane.tan@schools.gov.sg" {
		t.Fatalf("expected signed-in user, got %q", m.User())
	}
	if !strings.Contains(h.View(), "Jane Tan") {
		t.Fatalf("expected greeting with the user's name:\n%s", h.View())
	}
}

func TestSignInEmptyCode(t *testing.T) {
	fa := &fakeAuth{}
	h := newSignInHarness(t, fa)
	h.Type("a@schools.gov.sg")
	h.Press(tea.KeyEnter)
	h.Press(tea.KeyEnter)
	if len(fa.verified) != 0 {
		t.Fatalf("empty code should not be verified")
	}
	if !strings.Contains(h.View(), "Invalid OTP. Try again or resend.") {
		t.Fatalf("expected code error in view:\n%s", h.View())
	}
}

func TestSignInRejectedCode(t *testing.T) {
	fa := &fakeAuth{verifyErr: auth.ErrInvalidCode}
	h := newSignInHarness(t, fa)
	h.Type("a@schools.gov.sg")
	h.Press(tea.KeyEnter)
	h.Type("000000")
	h.Press(tea.KeyEnter)
	st := flowState(t, h)
	if st.Step != signin.StepCode || st.Verifying {
		t.Fatalf("unexpected state after rejection %+v", st)
	}
	if st.Err == nil || st.Err.Field != signin.FieldCode || st.Err.Message != "Invalid OTP. Try again or resend." {
		t.Fatalf("unexpected error %+v", st.Err)
	}
	if h.Model().signIn.code.Value() != "" {
		t.Fatalf("code input should be cleared after a rejection")
	}
}

func TestSignInPrototypeAlwaysRejects(t *testing.T) {
	h := newSignInHarness(t, auth.Prototype{})
	h.Type("a@schools.gov.sg")
	h.Press(tea.KeyEnter)
	h.Type("123456")
	h.Press(tea.KeyEnter)
	if st := flowState(t, h); st.Err == nil {
		t.Fatalf("prototype should reject every code")
	}
}

func TestSignInIssueFailure(t *testing.T) {
	fa := &fakeAuth{requestErr: auth.ErrUnavailable}
	h := newSignInHarness(t, fa)
	h.Type("a@schools.gov.sg")
	h.Press(tea.KeyEnter)
	if !strings.Contains(h.View(), "Something went wrong. Please try again later.") {
		t.Fatalf("expected issue failure in view:\n%s", h.View())
	}
}

func TestCountdownRunsToZeroThenAllowsResend(t *testing.T) {
	fa := &fakeAuth{}
	h := newSignInHarness(t, fa)
	h.Type("a@schools.gov.sg")
	h.Press(tea.KeyEnter)

	h.Advance(10)
	if st := flowState(t, h); st.Remaining != 50 {
		t.Fatalf("expected 50 seconds left, got %d", st.Remaining)
	}
	h.Press(tea.KeyCtrlR)
	if len(fa.requested) != 1 {
		t.Fatalf("resend during the countdown should be rejected")
	}

	h.Advance(50)
	if st := flowState(t, h); st.Remaining != 0 || !st.CanResend() {
		t.Fatalf("expected countdown finished, got %+v", st)
	}
	if len(h.PendingTicks()) != 0 {
		t.Fatalf("no tick should be scheduled at zero")
	}
	if !strings.Contains(h.View(), "Didn't receive? Resend OTP") {
		t.Fatalf("expected resend link:\n%s", h.View())
	}

	before := h.Model().signIn.flow.Generation()
	h.Press(tea.KeyCtrlR)
	st := flowState(t, h)
	if len(fa.requested) != 2 || st.Remaining != signin.CountdownWindow {
		t.Fatalf("expected second issue, got %v %+v", fa.requested, st)
	}
	if gen := h.Model().signIn.flow.Generation(); gen == before {
		t.Fatalf("resend should arm a new generation")
	}
}

func TestLeavingSignInStopsCountdown(t *testing.T) {
	h := newSignInHarness(t, &fakeAuth{})
	h.Type("a@schools.gov.sg")
	h.Press(tea.KeyEnter)
	flow := h.Model().signIn.flow
	h.Press(tea.KeyEsc)
	if h.Model().Route() != RouteHome || h.Model().signIn != nil {
		t.Fatalf("esc should leave sign-in")
	}
	if !flow.Closed() {
		t.Fatalf("flow should be closed on unmount")
	}
	h.Tick()
	if len(h.PendingTicks()) != 0 {
		t.Fatalf("ticks after unmount must not re-arm")
	}
	if flow.State().Remaining != 0 {
		t.Fatalf("closed flow should not count down")
	}
}

func TestStaleResultsAreDropped(t *testing.T) {
	fa := &fakeAuth{}
	h := newSignInHarness(t, fa)
	h.Type("a@schools.gov.sg")
	h.Press(tea.KeyEnter)
	old := signin.New()
	h.Send(codeIssuedMsg{flow: old, email: "a@schools.gov.sg", err: auth.ErrUnavailable})
	if st := flowState(t, h); st.Err != nil {
		t.Fatalf("result for another flow should be ignored, got %+v", st.Err)
	}
	h.Send(codeVerifiedMsg{flow: old, email: "a@schools.gov.sg"})
	if h.Model().Route() != RouteSignIn {
		t.Fatalf("stale verification should not sign in")
	}
}

func TestIssueFailureAllowsImmediateResend(t *testing.T) {
	fa := &fakeAuth{requestErr: auth.ErrUnavailable}
	h := newSignInHarness(t, fa)
	h.Type("a@schools.gov.sg")
	h.Press(tea.KeyEnter)
	if st := flowState(t, h); st.Remaining != 0 || !st.CanResend() {
		t.Fatalf("failed send should stop the countdown, got %+v", st)
	}
	h.Tick()
	if len(h.PendingTicks()) != 0 {
		t.Fatalf("countdown should not re-arm after a failed send")
	}
	fa.requestErr = nil
	h.Press(tea.KeyCtrlR)
	st := flowState(t, h)
	if len(fa.requested) != 2 || st.Remaining != signin.CountdownWindow || st.Err != nil {
		t.Fatalf("expected a fresh send, got %v %+v", fa.requested, st)
	}
}

func TestIssueFailureForResentCodeIsDropped(t *testing.T) {
	h := newSignInHarness(t, &fakeAuth{})
	h.Type("a@schools.gov.sg")
	h.Press(tea.KeyEnter)
	flow := h.Model().signIn.flow
	h.Send(codeIssuedMsg{flow: flow, gen: flow.Generation() - 1, email: "a@schools.gov.sg", err: auth.ErrUnavailable})
	if st := flowState(t, h); st.Err != nil || st.Remaining != signin.CountdownWindow {
		t.Fatalf("failure for an earlier send should be ignored, got %+v", st)
	}
}

func TestCountdownInfoClearedOnLeavingSignIn(t *testing.T) {
	h := newSignInHarness(t, &fakeAuth{})
	h.Type("a@schools.gov.sg")
	h.Press(tea.KeyEnter)
	h.Press(tea.KeyCtrlR)
	if !strings.Contains(h.View(), "Wait for the countdown") {
		t.Fatalf("expected countdown info:\n%s", h.View())
	}
	h.Press(tea.KeyEsc)
	if strings.Contains(h.View(), "Wait for the countdown") {
		t.Fatalf("info should not follow the user home:\n%s", h.View())
	}
}

func TestSignInKeysTypeIntoInput(t *testing.T) {
	h := newSignInHarness(t, &fakeAuth{})
	h.Type("quit")
	if h.Quit() {
		t.Fatalf("typing q into the email field should not quit")
	}
	if got := h.Model().signIn.email.Value(); got != "quit" {
		t.Fatalf("expected typed value, got %q", got)
	}
	h.Press(tea.KeyCtrlU)
	if got := h.Model().signIn.email.Value(); got != "" {
		t.Fatalf("expected cleared input, got %q", got)
	}
}

func TestSignInFromSidebar(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 100}))
	defer h.Model().Close()
	h.Type("s")
	if h.Model().Route() != RouteSignIn || h.Model().signIn == nil {
		t.Fatalf("expected sign-in view mounted")
	}
	if !strings.Contains(h.View(), "Sign in to Teacher Workspace") {
		t.Fatalf("expected sign-in heading:\n%s", h.View())
	}
}
