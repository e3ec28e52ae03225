package events

import "github.com/atomicstack/teacher-workspace/internal/logging"

type NavTracer struct{}

var Nav = NavTracer{}

func (NavTracer) Toggle(mobile, open bool) {
	logging.Trace("nav.toggle", map[string]interface{}{"mobile": mobile, "open": open})
}

func (NavTracer) Close(wasOpen bool) {
	logging.Trace("nav.close", map[string]interface{}{"was_open": wasOpen})
}

func (NavTracer) Viewport(width int, mobile bool) {
	logging.Trace("nav.viewport", map[string]interface{}{"width": width, "mobile": mobile})
}

func (NavTracer) Select(id, label string) {
	logging.Trace("nav.select", map[string]interface{}{"item": id, "label": label})
}

func (NavTracer) Filter(query string, matches int) {
	logging.Trace("nav.filter", map[string]interface{}{"query": query, "matches": matches})
}
