package stats

import (
	"sort"
	"time"

	"github.com/pja-project/mlapi/internal/domain/model"
)

// CompletionRecord is one mean task-completion time. Dotted JSON keys
// follow the same flattened-field convention as ImbalanceRecord.
type CompletionRecord struct {
	UserID     int64   `json:"userId"`
	Importance *int64  `json:"details.importance"`
	MeanHours  float64 `json:"mean_hours"`
}

// doneRow is a completed-task observation attributed to one user in one
// role perspective.
type doneRow struct {
	workspaceID int64
	actionID    int64
	userID      int64
	importance  nullableInt
	timestamp   time.Time
	hours       float64
}

// CompletionTimes computes the mean elapsed hours from task start to the
// completion event, per user per importance level. Initiator and
// participant perspectives are deduplicated and averaged independently,
// then concatenated (participant rows first); a user with means under both
// roles keeps both rows. They are deliberately not re-averaged together.
func CompletionTimes(rows []Row) []CompletionRecord {
	var participantObs, initiatorObs []doneRow
	for _, r := range rows {
		if r.State == nil || *r.State != model.StateDone {
			continue
		}
		if r.StartDate == nil {
			continue
		}
		hours := r.Timestamp.Sub(*r.StartDate).Hours()
		// Negative durations are clock skew or bad data; drop, don't clip.
		if hours < 0 {
			continue
		}
		participantObs = append(participantObs, doneRow{
			workspaceID: r.WorkspaceID,
			actionID:    r.ActionID,
			userID:      r.ParticipantID,
			importance:  toNullableInt(r.Importance),
			timestamp:   r.Timestamp,
			hours:       hours,
		})
		initiatorObs = append(initiatorObs, doneRow{
			workspaceID: r.WorkspaceID,
			actionID:    r.ActionID,
			userID:      r.InitiatorID,
			importance:  toNullableInt(r.Importance),
			timestamp:   r.Timestamp,
			hours:       hours,
		})
	}

	participant := meansByUserImportance(dedupeLatest(participantObs))
	initiator := meansByUserImportance(dedupeLatest(initiatorObs))
	return append(participant, initiator...)
}

// dedupeLatest keeps, per (workspaceId, actionId, userId), only the
// observation with the most recent timestamp. Multiple stale snapshots of
// the same participation, and the initiator repeated once per participant
// expansion, both collapse to a single observation.
func dedupeLatest(obs []doneRow) []doneRow {
	type perspKey struct {
		workspaceID int64
		actionID    int64
		userID      int64
	}
	latest := make(map[perspKey]doneRow, len(obs))
	order := make([]perspKey, 0, len(obs))
	for _, o := range obs {
		key := perspKey{workspaceID: o.workspaceID, actionID: o.actionID, userID: o.userID}
		current, ok := latest[key]
		if !ok {
			order = append(order, key)
		}
		if !ok || o.timestamp.After(current.timestamp) {
			latest[key] = o
		}
	}
	out := make([]doneRow, 0, len(order))
	for _, key := range order {
		out = append(out, latest[key])
	}
	return out
}

// meansByUserImportance averages observation hours per (userId, importance)
// and returns records sorted by userId then importance, nulls first.
func meansByUserImportance(obs []doneRow) []CompletionRecord {
	type group struct {
		userID     int64
		importance nullableInt
	}
	type acc struct {
		sum   float64
		count int
	}
	sums := make(map[group]acc)
	groups := make([]group, 0, len(obs))
	for _, o := range obs {
		g := group{userID: o.userID, importance: o.importance}
		a, seen := sums[g]
		if !seen {
			groups = append(groups, g)
		}
		a.sum += o.hours
		a.count++
		sums[g] = a
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.userID != b.userID {
			return a.userID < b.userID
		}
		return a.importance.compare(b.importance) < 0
	})

	records := make([]CompletionRecord, 0, len(groups))
	for _, g := range groups {
		a := sums[g]
		records = append(records, CompletionRecord{
			UserID:     g.userID,
			Importance: g.importance.ptr(),
			MeanHours:  a.sum / float64(a.count),
		})
	}
	return records
}
