package ui

import (
	"context"
	"errors"
	"time"

	"github.com/atomicstack/teacher-workspace/internal/auth"
	"github.com/atomicstack/teacher-workspace/internal/logging"
	"github.com/atomicstack/teacher-workspace/internal/logging/events"
	"github.com/atomicstack/teacher-workspace/internal/signin"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultAuthTimeout = 10 * time.Second

// signInView is the mounted sign-in screen: one flow plus its two inputs.
type signInView struct {
	flow  *signin.Flow
	email textinput.Model
	code  textinput.Model
}

type countdownTickMsg struct {
	gen uint64
}

type codeIssuedMsg struct {
	flow  *signin.Flow
	gen   uint64
	email string
	err   error
}

type codeVerifiedMsg struct {
	flow  *signin.Flow
	email string
	err   error
}

func tickAfterSecond(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownTickMsg{gen: gen}
	})
}

func newSignInView(opts ...signin.Option) *signInView {
	email := newField("e.g. name@schools.gov.sg", 64)
	code := newField("123123", 6)
	return &signInView{
		flow:  signin.New(opts...),
		email: email,
		code:  code,
	}
}

func newField(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 32
	ti.Cursor.SetMode(cursor.CursorStatic)
	if styles.InputPlaceholder != nil {
		ti.PlaceholderStyle = styles.InputPlaceholder.Copy()
	}
	if styles.Cursor != nil {
		ti.Cursor.Style = styles.Cursor.Copy()
	}
	return ti
}

// active returns the input that receives keystrokes for the current step.
func (v *signInView) active() *textinput.Model {
	if v.flow.State().Step == signin.StepCode {
		return &v.code
	}
	return &v.email
}

func (m *Model) mountSignIn() tea.Cmd {
	m.unmountSignIn()
	m.signIn = newSignInView(m.signInOpts...)
	return m.signIn.email.Focus()
}

func (m *Model) unmountSignIn() {
	if m.signIn == nil {
		return
	}
	m.signIn.flow.Close()
	events.SignIn.Closed(m.signIn.flow.Generation())
	m.signIn = nil
}

func (m *Model) handleSignInKey(msg tea.KeyMsg) tea.Cmd {
	v := m.signIn
	switch {
	case key.Matches(msg, m.keys.ForceQ):
		return tea.Quit
	case key.Matches(msg, m.keys.Back):
		return m.navigate(RouteHome)
	case key.Matches(msg, m.keys.Submit):
		if v.flow.State().Step == signin.StepEmail {
			return m.submitEmail()
		}
		return m.submitCode()
	case key.Matches(msg, m.keys.Resend):
		return m.resendCode()
	case key.Matches(msg, m.keys.ClearIn):
		v.active().Reset()
		return nil
	}
	if v.flow.State().Verifying {
		return nil
	}
	input := v.active()
	updated, cmd := input.Update(msg)
	*input = updated
	return cmd
}

func (m *Model) submitEmail() tea.Cmd {
	v := m.signIn
	if !v.flow.SubmitEmail(v.email.Value()) {
		if st := v.flow.State(); st.Err != nil {
			events.SignIn.EmailRejected(st.Err.Message)
		}
		return nil
	}
	st := v.flow.State()
	events.SignIn.EmailAccepted(st.Email)
	v.email.Blur()
	v.code.Reset()
	focus := v.code.Focus()
	return tea.Batch(focus, m.scheduleTick(v.flow.Generation()), m.requestCode(v.flow, st.Email))
}

func (m *Model) submitCode() tea.Cmd {
	v := m.signIn
	code, ok := v.flow.SubmitCode(v.code.Value())
	if !ok {
		if st := v.flow.State(); st.Err != nil {
			events.SignIn.CodeRejected(st.Err.Message)
		}
		return nil
	}
	email := v.flow.State().Email
	events.SignIn.CodeSubmitted(email)
	return m.verifyCode(v.flow, email, code)
}

func (m *Model) resendCode() tea.Cmd {
	v := m.signIn
	email := v.flow.State().Email
	err := v.flow.Resend()
	events.SignIn.Resend(email, err)
	if err != nil {
		if errors.Is(err, signin.ErrCountdownActive) {
			m.setInfo("Wait for the countdown before requesting a new code")
		}
		return nil
	}
	v.code.Reset()
	return tea.Batch(m.scheduleTick(v.flow.Generation()), m.requestCode(v.flow, email))
}

func (m *Model) requestCode(flow *signin.Flow, email string) tea.Cmd {
	authn, timeout := m.authn, m.authTimeoutOrDefault()
	gen := flow.Generation()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := authn.RequestCode(ctx, email)
		return codeIssuedMsg{flow: flow, gen: gen, email: email, err: err}
	}
}

func (m *Model) verifyCode(flow *signin.Flow, email, code string) tea.Cmd {
	authn, timeout := m.authn, m.authTimeoutOrDefault()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := authn.VerifyCode(ctx, email, code)
		return codeVerifiedMsg{flow: flow, email: email, err: err}
	}
}

func (m *Model) authTimeoutOrDefault() time.Duration {
	if m.authTimeout > 0 {
		return m.authTimeout
	}
	return defaultAuthTimeout
}

// mounted reports whether flow is the one currently on screen. Results for
// a flow that has since been torn down are dropped.
func (m *Model) mounted(flow *signin.Flow) bool {
	return m.signIn != nil && m.signIn.flow == flow && !flow.Closed()
}

func (m *Model) handleCountdownTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(countdownTickMsg)
	if !ok || m.signIn == nil {
		return nil
	}
	flow := m.signIn.flow
	again := flow.Tick(tick.gen)
	if tick.gen == flow.Generation() {
		events.SignIn.Tick(tick.gen, flow.State().Remaining)
	}
	if !again {
		return nil
	}
	return m.scheduleTick(tick.gen)
}

func (m *Model) handleCodeIssuedMsg(msg tea.Msg) tea.Cmd {
	issued, ok := msg.(codeIssuedMsg)
	if !ok || !m.mounted(issued.flow) {
		return nil
	}
	// A failure for a code that has since been re-sent is stale.
	if issued.gen != issued.flow.Generation() {
		return nil
	}
	if issued.err != nil {
		logging.Error(issued.err)
		issued.flow.IssueFailed(auth.Message(issued.err))
	}
	return nil
}

func (m *Model) handleCodeVerifiedMsg(msg tea.Msg) tea.Cmd {
	verified, ok := msg.(codeVerifiedMsg)
	if !ok || !m.mounted(verified.flow) {
		return nil
	}
	if verified.err != nil {
		if !errors.Is(verified.err, auth.ErrInvalidCode) {
			logging.Error(verified.err)
		}
		message := auth.Message(verified.err)
		events.SignIn.CodeRejected(message)
		verified.flow.VerificationFailed(message)
		m.signIn.code.Reset()
		return nil
	}
	verified.flow.VerificationSucceeded()
	events.SignIn.Authenticated(verified.email)
	m.user = verified.email
	cmd := m.navigate(RouteHome)
	m.setInfo("Signed in as " + verified.email)
	return cmd
}
