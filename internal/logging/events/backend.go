package events

import "github.com/atomicstack/teacher-workspace/internal/logging"

type BackendTracer struct{}

var Backend = BackendTracer{}

func (BackendTracer) Event(kind string, err error) {
	payload := map[string]interface{}{"kind": kind}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("backend.event", payload)
}

func (BackendTracer) Stopped() {
	logging.Trace("backend.stopped", nil)
}
