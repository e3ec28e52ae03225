package events

import "github.com/atomicstack/teacher-workspace/internal/logging"

type SignInTracer struct{}

var SignIn = SignInTracer{}

func (SignInTracer) EmailAccepted(email string) {
	logging.Trace("signin.email.accepted", map[string]interface{}{"email": email})
}

func (SignInTracer) EmailRejected(reason string) {
	logging.Trace("signin.email.rejected", map[string]interface{}{"reason": reason})
}

func (SignInTracer) CodeSubmitted(email string) {
	logging.Trace("signin.code.submit", map[string]interface{}{"email": email})
}

func (SignInTracer) CodeRejected(reason string) {
	logging.Trace("signin.code.rejected", map[string]interface{}{"reason": reason})
}

func (SignInTracer) Authenticated(email string) {
	logging.Trace("signin.authenticated", map[string]interface{}{"email": email})
}

func (SignInTracer) Resend(email string, err error) {
	payload := map[string]interface{}{"email": email}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("signin.resend", payload)
}

func (SignInTracer) Tick(generation uint64, remaining int) {
	logging.Trace("signin.tick", map[string]interface{}{"generation": generation, "remaining": remaining})
}

func (SignInTracer) Closed(generation uint64) {
	logging.Trace("signin.closed", map[string]interface{}{"generation": generation})
}
