package run

import "time"

// EventType tags scan progress events.
type EventType string

const (
	EventRunStarted      EventType = "run_started"
	EventTargetStarted   EventType = "target_started"
	EventTargetDone      EventType = "target_done"
	EventTargetFailed    EventType = "target_failed"
	EventInstanceDone    EventType = "instance_done"
	EventInstanceSkipped EventType = "instance_skipped"
	EventRunDone         EventType = "run_done"
)

// Event is one progress notification emitted while a scan runs. Consumers
// (console logging, the daemon's websocket hub) must not block.
type Event struct {
	Type      EventType `json:"type"`
	Target    string    `json:"target,omitempty"`
	Instance  string    `json:"instance,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Reports   int       `json:"reports,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventFunc receives progress events; nil disables emission.
type EventFunc func(Event)

func emit(fn EventFunc, ev Event) {
	if fn == nil {
		return
	}
	ev.Timestamp = time.Now()
	fn(ev)
}
