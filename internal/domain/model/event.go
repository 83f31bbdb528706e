// Package model contains domain models passed between layers.
package model

import "encoding/json"

// Event tags and states carried on the workspace activity log.
const (
	// EventActionDeleted marks a task as deleted; a task with this tag
	// anywhere in its history is excluded from every statistic.
	EventActionDeleted = "DELETE_PROJECT_PROGRESS_ACTION"

	// StateDone is the terminal completion state for a task.
	StateDone = "DONE"
)

// RawEvent is one task mutation record from the workspace activity log.
// Timestamps stay strings on the wire; the stats normalizer parses them
// and rejects the whole batch on the first unparseable required field.
type RawEvent struct {
	Event       string  `json:"event"`
	UserID      int64   `json:"userId"`
	WorkspaceID int64   `json:"workspaceId"`
	Timestamp   string  `json:"timestamp"`
	Details     Details `json:"details"`
}

// Details carries the task attributes nested under an event. State,
// importance and the date fields are nullable upstream and stay nullable
// here; filtering decisions belong to the aggregators, not the schema.
type Details struct {
	ActionID     int64         `json:"actionId"`
	Name         string        `json:"name"`
	State        *string       `json:"state"`
	Importance   *int64        `json:"importance"`
	StartDate    *string       `json:"startDate"`
	EndDate      *string       `json:"endDate"`
	Participants []Participant `json:"participants"`
}

// Participant is one entry of a task's participant list.
type Participant struct {
	UserID *int64 `json:"userId"`
}

// UnmarshalJSON tolerates malformed participant entries (nulls, scalars,
// objects without a userId). They decode to a nil UserID and the normalizer
// drops the resulting row instead of failing the batch.
func (p *Participant) UnmarshalJSON(b []byte) error {
	var entry struct {
		UserID *int64 `json:"userId"`
	}
	if err := json.Unmarshal(b, &entry); err != nil {
		p.UserID = nil
		return nil //nolint:nilerr // malformed entries are dropped downstream
	}
	p.UserID = entry.UserID
	return nil
}
