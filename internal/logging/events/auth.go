package events

import (
	"time"

	"github.com/atomicstack/teacher-workspace/internal/logging"
)

type AuthTracer struct{}

var Auth = AuthTracer{}

func (AuthTracer) Request(requestID, path string) {
	logging.Trace("auth.request", map[string]interface{}{"request_id": requestID, "path": path})
}

func (AuthTracer) Response(requestID, path string, status int, elapsed time.Duration) {
	logging.Trace("auth.response", map[string]interface{}{
		"request_id": requestID,
		"path":       path,
		"status":     status,
		"elapsed_ms": elapsed.Milliseconds(),
	})
}

func (AuthTracer) Retry(path string, err error, next time.Duration) {
	logging.Trace("auth.retry", map[string]interface{}{
		"path":    path,
		"error":   err.Error(),
		"next_ms": next.Milliseconds(),
	})
}
