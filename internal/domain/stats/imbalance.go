package stats

import "sort"

// ImbalanceRecord is one workload-imbalance count. The dotted JSON keys
// mirror the flattened-field convention of the dashboard consumer and must
// not change without versioning the endpoint.
type ImbalanceRecord struct {
	UserID     int64   `json:"userId"`
	State      *string `json:"details.state"`
	Importance *int64  `json:"details.importance"`
	Count      int     `json:"count"`
}

type userAction struct {
	userID   int64
	actionID int64
}

// roleFact is a user's relationship to one task, carrying the task
// attributes under which that relationship is counted.
type roleFact struct {
	state      nullableString
	importance nullableInt
	initiator  bool
}

// nullableString and nullableInt are comparable stand-ins for *string and
// *int64 so nullable task attributes can sit inside map keys.
type nullableString struct {
	value string
	valid bool
}

type nullableInt struct {
	value int64
	valid bool
}

func toNullableString(p *string) nullableString {
	if p == nil {
		return nullableString{}
	}
	return nullableString{value: *p, valid: true}
}

func toNullableInt(p *int64) nullableInt {
	if p == nil {
		return nullableInt{}
	}
	return nullableInt{value: *p, valid: true}
}

func (n nullableString) ptr() *string {
	if !n.valid {
		return nil
	}
	v := n.value
	return &v
}

func (n nullableInt) ptr() *int64 {
	if !n.valid {
		return nil
	}
	v := n.value
	return &v
}

// compare orders null before any concrete value, keeping output ordering
// stable for tests and diffing.
func (n nullableString) compare(o nullableString) int {
	switch {
	case !n.valid && !o.valid:
		return 0
	case !n.valid:
		return -1
	case !o.valid:
		return 1
	case n.value < o.value:
		return -1
	case n.value > o.value:
		return 1
	default:
		return 0
	}
}

func (n nullableInt) compare(o nullableInt) int {
	switch {
	case !n.valid && !o.valid:
		return 0
	case !n.valid:
		return -1
	case !o.valid:
		return 1
	case n.value < o.value:
		return -1
	case n.value > o.value:
		return 1
	default:
		return 0
	}
}

// Imbalance counts, per user, per task state, per importance level, how
// many distinct tasks that user touches as initiator or participant. A
// user holding both roles on one task is counted once, with the initiator
// fact's state/importance taken as canonical.
func Imbalance(rows []Row) []ImbalanceRecord {
	facts := make(map[userAction]roleFact)
	order := make([]userAction, 0, len(rows)*2)

	record := func(userID int64, r Row, initiator bool) {
		key := userAction{userID: userID, actionID: r.ActionID}
		existing, ok := facts[key]
		if !ok {
			order = append(order, key)
		}
		// Initiator wins the tie-break; otherwise the first fact sticks.
		if !ok || (initiator && !existing.initiator) {
			facts[key] = roleFact{
				state:      toNullableString(r.State),
				importance: toNullableInt(r.Importance),
				initiator:  initiator,
			}
		}
	}

	for _, r := range rows {
		record(r.InitiatorID, r, true)
		record(r.ParticipantID, r, false)
	}

	type group struct {
		userID     int64
		state      nullableString
		importance nullableInt
	}
	counts := make(map[group]int)
	groups := make([]group, 0, len(order))
	for _, key := range order {
		f := facts[key]
		g := group{userID: key.userID, state: f.state, importance: f.importance}
		if _, seen := counts[g]; !seen {
			groups = append(groups, g)
		}
		// Facts are already unique per (userId, actionId), so each one
		// is a distinct task within its group.
		counts[g]++
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.userID != b.userID {
			return a.userID < b.userID
		}
		if c := a.state.compare(b.state); c != 0 {
			return c < 0
		}
		return a.importance.compare(b.importance) < 0
	})

	records := make([]ImbalanceRecord, 0, len(groups))
	for _, g := range groups {
		records = append(records, ImbalanceRecord{
			UserID:     g.userID,
			State:      g.state.ptr(),
			Importance: g.importance.ptr(),
			Count:      counts[g],
		})
	}
	return records
}
