// Package stats implements the dashboard aggregation pipeline: a raw
// workspace activity log goes in, workload-imbalance counts and mean
// task-completion times come out. The pipeline is a pure batch transform;
// it holds no state across invocations.
package stats

import (
	"fmt"
	"time"

	"github.com/pja-project/mlapi/internal/domain/model"
)

// Row is one normalized (authoritative task, participant) fact. Every
// scalar task attribute of the authoritative event is copied onto each
// participant expansion so the two aggregators can consume rows
// independently.
type Row struct {
	WorkspaceID   int64
	ActionID      int64
	InitiatorID   int64
	ParticipantID int64
	State         *string
	Importance    *int64
	StartDate     *time.Time
	EndDate       *time.Time
	// Timestamp is the authoritative event's own timestamp. For DONE
	// tasks it doubles as the completion instant.
	Timestamp time.Time
}

type taskKey struct {
	workspaceID int64
	actionID    int64
}

// parsedEvent pairs a raw event with its parsed datetimes.
type parsedEvent struct {
	raw       model.RawEvent
	timestamp time.Time
	startDate *time.Time
	endDate   *time.Time
}

// timeLayouts accepted for event datetimes. Naive values (no zone) are
// taken as UTC, matching how the upstream log writer emits them.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseEventTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", s)
}

// parseOptionalTime treats nil/empty as absent; anything else must parse.
func parseOptionalTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseEventTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Normalize flattens a raw event log into participant-level rows:
//
//  1. keep only the latest event per (workspaceId, actionId); on equal
//     timestamps the first-seen event wins, so the result is deterministic
//  2. drop every task whose history - the FULL log, not just the latest
//     events - contains the deletion tag
//  3. expand details.participants into one Row per resolvable participant
//
// Parsing is all-or-nothing: the first event with an unparseable timestamp
// or date fails the whole batch with ErrBadEventLog.
func Normalize(events []model.RawEvent) ([]Row, error) {
	latest := make(map[taskKey]parsedEvent, len(events))
	order := make([]taskKey, 0, len(events))
	deleted := make(map[int64]struct{})

	for i, ev := range events {
		ts, err := parseEventTime(ev.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: event[%d] timestamp: %v", ErrBadEventLog, i, err)
		}
		start, err := parseOptionalTime(ev.Details.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: event[%d] details.startDate: %v", ErrBadEventLog, i, err)
		}
		end, err := parseOptionalTime(ev.Details.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: event[%d] details.endDate: %v", ErrBadEventLog, i, err)
		}

		// Deletion detection scans every event. A delete is normally a
		// task's final event, but it must stick even when a stale
		// non-delete snapshot carries a later timestamp.
		if ev.Event == model.EventActionDeleted {
			deleted[ev.Details.ActionID] = struct{}{}
		}

		key := taskKey{workspaceID: ev.WorkspaceID, actionID: ev.Details.ActionID}
		current, ok := latest[key]
		if !ok {
			order = append(order, key)
		}
		if !ok || ts.After(current.timestamp) {
			latest[key] = parsedEvent{raw: ev, timestamp: ts, startDate: start, endDate: end}
		}
	}

	rows := make([]Row, 0, len(order))
	for _, key := range order {
		if _, gone := deleted[key.actionID]; gone {
			continue
		}
		pe := latest[key]
		for _, participant := range pe.raw.Details.Participants {
			if participant.UserID == nil {
				continue
			}
			rows = append(rows, Row{
				WorkspaceID:   pe.raw.WorkspaceID,
				ActionID:      pe.raw.Details.ActionID,
				InitiatorID:   pe.raw.UserID,
				ParticipantID: *participant.UserID,
				State:         pe.raw.Details.State,
				Importance:    pe.raw.Details.Importance,
				StartDate:     pe.startDate,
				EndDate:       pe.endDate,
				Timestamp:     pe.timestamp,
			})
		}
	}
	return rows, nil
}
