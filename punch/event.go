// CLAUDE:SUMMARY Defines the Event type emitted to sinks at each run decision point.
package punch

import "encoding/json"

// Stage identifies which part of the run produced an Event.
type Stage string

const (
	StageRun      Stage = "run"
	StageAuth     Stage = "auth"
	StageNavigate Stage = "navigate"
	StageEntry    Stage = "entry"
)

// Event is one structured observation from a run. Components emit events
// instead of writing to a global log so consumers (and tests) can subscribe
// through a sink.
type Event struct {
	RunID     string `json:"run_id"` // UUIDv7, constant for the whole run
	Seq       uint64 `json:"seq"`    // monotonically increasing per run (gap detection)
	Stage     Stage  `json:"stage"`
	Action    string `json:"action"`           // e.g. "code_field_found", "kind_selected"
	Target    string `json:"target,omitempty"` // selector or URL acted on
	Success   bool   `json:"success"`
	Detail    string `json:"detail,omitempty"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// MarshalEvent serialises an Event to JSON.
func MarshalEvent(e *Event) ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEvent deserialises an Event from JSON.
func UnmarshalEvent(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
