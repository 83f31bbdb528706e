package stats

import (
	"encoding/json"
	"fmt"

	"github.com/pja-project/mlapi/internal/domain/model"
)

// Dashboard bundles both statistics produced from one log snapshot.
type Dashboard struct {
	Imbalance  []ImbalanceRecord
	Completion []CompletionRecord
}

// BuildDashboard runs the full pipeline over a parsed event log.
func BuildDashboard(events []model.RawEvent) (Dashboard, error) {
	rows, err := Normalize(events)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Imbalance:  Imbalance(rows),
		Completion: CompletionTimes(rows),
	}, nil
}

// ParseEventLog decodes the caller-supplied JSON array of raw events.
// Invalid JSON is a client error, same as unparseable event fields.
func ParseEventLog(userLog string) ([]model.RawEvent, error) {
	var events []model.RawEvent
	if err := json.Unmarshal([]byte(userLog), &events); err != nil {
		return nil, fmt.Errorf("%w: user_log is not a JSON event array: %v", ErrBadEventLog, err)
	}
	return events, nil
}
