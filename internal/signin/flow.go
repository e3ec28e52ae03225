// Package signin implements the two step email / one-time password sign-in
// flow and its resend countdown.
//
// The flow never schedules timers itself. Each time the countdown is armed
// the flow bumps a generation number; the caller schedules a one second tick
// carrying that generation and feeds it back through Tick. Ticks from an older
// generation, or any tick after Close, are ignored and never re-armed, so
// leaving the code step or tearing the flow down cancels the countdown.
package signin

import (
	"errors"
	"regexp"
	"strings"
)

// CountdownWindow is the number of seconds resend stays disabled after a code
// is issued.
const CountdownWindow = 60

const (
	msgInvalidEmail = "Use your @schools.gov.sg email"
	msgInvalidCode  = "Invalid OTP. Try again or resend."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@schools\.gov\.sg$`)

var (
	// ErrCountdownActive is returned by Resend while the countdown runs.
	ErrCountdownActive = errors.New("signin: countdown active")
	// ErrWrongStep is returned by Resend outside the code step.
	ErrWrongStep = errors.New("signin: no code has been issued")
	// ErrVerifying is returned by Resend while a code is being checked.
	ErrVerifying = errors.New("signin: verification in progress")
	// ErrClosed is returned once the flow has been torn down.
	ErrClosed = errors.New("signin: flow closed")
)

// Step is the stage of the flow.
type Step int

const (
	StepEmail Step = iota
	StepCode
)

func (s Step) String() string {
	switch s {
	case StepEmail:
		return "email"
	case StepCode:
		return "code"
	default:
		return "unknown"
	}
}

// Field identifies the input a FieldError belongs to.
type Field int

const (
	FieldEmail Field = iota
	FieldCode
)

func (f Field) String() string {
	if f == FieldCode {
		return "code"
	}
	return "email"
}

// FieldError is a validation or verification failure shown next to a field.
type FieldError struct {
	Field   Field
	Message string
}

// State is a read-only snapshot of the flow.
type State struct {
	Step       Step
	Email      string
	CodePrefix string
	Remaining  int
	Err        *FieldError
	Verifying  bool
	Done       bool
}

// CanResend reports whether a resend would be accepted.
func (s State) CanResend() bool {
	return s.Step == StepCode && s.Remaining == 0 && !s.Done && !s.Verifying
}

// ValidEmail reports whether value is an organisational address.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// Flow is the sign-in state machine for one mounted sign-in view.
type Flow struct {
	state      State
	window     int
	prefix     PrefixFunc
	generation uint64
	closed     bool
	listeners  []func(State)
}

// Option configures a Flow.
type Option func(*Flow)

// WithPrefixFunc replaces the code prefix generator.
func WithPrefixFunc(fn PrefixFunc) Option {
	return func(f *Flow) {
		if fn != nil {
			f.prefix = fn
		}
	}
}

// WithWindow overrides CountdownWindow. Non-positive values are ignored.
func WithWindow(seconds int) Option {
	return func(f *Flow) {
		if seconds > 0 {
			f.window = seconds
		}
	}
}

// New returns a flow collecting an email address.
func New(opts ...Option) *Flow {
	f := &Flow{
		window: CountdownWindow,
		prefix: RandomPrefix,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns a snapshot of the flow.
func (f *Flow) State() State {
	st := f.state
	if st.Err != nil {
		e := *st.Err
		st.Err = &e
	}
	return st
}

// Generation identifies the currently armed countdown.
func (f *Flow) Generation() uint64 { return f.generation }

// Closed reports whether Close has been called.
func (f *Flow) Closed() bool { return f.closed }

// OnChange registers fn to receive a snapshot after every change.
func (f *Flow) OnChange(fn func(State)) {
	if fn != nil {
		f.listeners = append(f.listeners, fn)
	}
}

// SubmitEmail validates value and, when it is acceptable, moves the flow to
// the code step and arms the countdown. It reports whether the step changed.
// Submissions after the email step are ignored.
func (f *Flow) SubmitEmail(value string) bool {
	if f.closed || f.state.Step != StepEmail {
		return false
	}
	email := strings.TrimSpace(value)
	if !ValidEmail(email) {
		f.state.Err = &FieldError{Field: FieldEmail, Message: msgInvalidEmail}
		f.notify()
		return false
	}
	f.state.Email = email
	f.state.Step = StepCode
	f.state.Err = nil
	f.issue()
	f.notify()
	return true
}

// SubmitCode validates value. An empty code sets a field error. Otherwise the
// flow is marked as verifying and the code is returned for the caller to hand
// to the authentication backend.
func (f *Flow) SubmitCode(value string) (string, bool) {
	if f.closed || f.state.Step != StepCode || f.state.Verifying || f.state.Done {
		return "", false
	}
	code := strings.TrimSpace(value)
	if code == "" {
		f.state.Err = &FieldError{Field: FieldCode, Message: msgInvalidCode}
		f.notify()
		return "", false
	}
	f.state.Err = nil
	f.state.Verifying = true
	f.notify()
	return code, true
}

// VerificationSucceeded records a successful hand-off. The countdown stops.
func (f *Flow) VerificationSucceeded() {
	if f.closed || !f.state.Verifying {
		return
	}
	f.state.Verifying = false
	f.state.Done = true
	f.state.Remaining = 0
	f.state.Err = nil
	f.generation++
	f.notify()
}

// VerificationFailed records a rejected code. An empty message falls back to
// the generic invalid code message.
func (f *Flow) VerificationFailed(message string) {
	if f.closed || !f.state.Verifying {
		return
	}
	if message == "" {
		message = msgInvalidCode
	}
	f.state.Verifying = false
	f.state.Err = &FieldError{Field: FieldCode, Message: message}
	f.notify()
}

// IssueFailed records that the backend could not send a code. The countdown
// stops so the user can resend straight away.
func (f *Flow) IssueFailed(message string) {
	if f.closed || f.state.Step != StepCode {
		return
	}
	f.state.Remaining = 0
	f.state.Err = &FieldError{Field: FieldCode, Message: message}
	f.notify()
}

// Resend issues a new code once the countdown has reached zero.
func (f *Flow) Resend() error {
	switch {
	case f.closed:
		return ErrClosed
	case f.state.Step != StepCode || f.state.Done:
		return ErrWrongStep
	case f.state.Verifying:
		return ErrVerifying
	case f.state.Remaining > 0:
		return ErrCountdownActive
	}
	if f.state.Err != nil && f.state.Err.Field == FieldCode {
		f.state.Err = nil
	}
	f.issue()
	f.notify()
	return nil
}

// Tick advances the countdown by one second if gen is the armed generation.
// It reports whether the caller should schedule another tick.
func (f *Flow) Tick(gen uint64) bool {
	if f.closed || gen != f.generation || f.state.Step != StepCode || f.state.Remaining <= 0 {
		return false
	}
	f.state.Remaining--
	f.notify()
	return f.state.Remaining > 0
}

// Close tears the flow down. Armed ticks become stale.
func (f *Flow) Close() {
	if f.closed {
		return
	}
	f.closed = true
	f.generation++
	f.state.Remaining = 0
	f.listeners = nil
}

func (f *Flow) issue() {
	f.state.CodePrefix = f.prefix()
	f.state.Remaining = f.window
	f.generation++
}

func (f *Flow) notify() {
	st := f.State()
	for _, fn := range f.listeners {
		fn(st)
	}
}
