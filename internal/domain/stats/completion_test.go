package stats_test

import (
	"testing"
	"time"

	"github.com/pja-project/mlapi/internal/domain/stats"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompletionTimes(t *testing.T) {
	Convey("Given one done task with a distinct initiator and participant", t, func() {
		rows := []stats.Row{doneRowFor(10, 100, 1, 2, 3, "2024-01-01T00:00:00Z", "2024-01-01T05:00:00Z")}

		Convey("When completion times are computed", func() {
			records := stats.CompletionTimes(rows)

			Convey("Then both role perspectives contribute a 5h mean", func() {
				So(len(records), ShouldEqual, 2)
				// Participant perspective rows come first.
				So(records[0].UserID, ShouldEqual, 2)
				So(*records[0].Importance, ShouldEqual, 3)
				So(records[0].MeanHours, ShouldEqual, 5.0)
				So(records[1].UserID, ShouldEqual, 1)
				So(records[1].MeanHours, ShouldEqual, 5.0)
			})
		})
	})

	Convey("Given a user with two done tasks of the same importance", t, func() {
		rows := []stats.Row{
			doneRowFor(10, 100, 1, 2, 3, "2024-01-01T00:00:00Z", "2024-01-01T02:00:00Z"),
			doneRowFor(10, 101, 1, 2, 3, "2024-01-01T00:00:00Z", "2024-01-01T04:00:00Z"),
		}

		Convey("When completion times are computed", func() {
			records := stats.CompletionTimes(rows)

			Convey("Then the mean is exactly 3.0 hours", func() {
				So(len(records), ShouldEqual, 2)
				So(records[0].UserID, ShouldEqual, 2)
				So(records[0].MeanHours, ShouldEqual, 3.0)
				So(records[1].UserID, ShouldEqual, 1)
				So(records[1].MeanHours, ShouldEqual, 3.0)
			})
		})
	})

	Convey("Given a done task whose completion precedes its start", t, func() {
		rows := []stats.Row{doneRowFor(10, 100, 1, 2, 3, "2024-01-02T00:00:00Z", "2024-01-01T00:00:00Z")}

		Convey("When completion times are computed", func() {
			records := stats.CompletionTimes(rows)

			Convey("Then the row is excluded entirely, not clipped to zero", func() {
				So(len(records), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a done task without a start date", t, func() {
		state := "DONE"
		imp := int64(3)
		ts, _ := time.Parse(time.RFC3339, "2024-01-01T05:00:00Z")
		rows := []stats.Row{
			{WorkspaceID: 10, ActionID: 100, InitiatorID: 1, ParticipantID: 2, State: &state, Importance: &imp, Timestamp: ts},
		}

		Convey("When completion times are computed", func() {
			records := stats.CompletionTimes(rows)

			Convey("Then the row is silently dropped", func() {
				So(len(records), ShouldEqual, 0)
			})
		})
	})

	Convey("Given tasks that are not done", t, func() {
		inProgress := "IN_PROGRESS"
		imp := int64(2)
		start, _ := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
		ts, _ := time.Parse(time.RFC3339, "2024-01-01T05:00:00Z")
		rows := []stats.Row{
			{WorkspaceID: 10, ActionID: 100, InitiatorID: 1, ParticipantID: 2, State: &inProgress, Importance: &imp, StartDate: &start, Timestamp: ts},
			{WorkspaceID: 10, ActionID: 101, InitiatorID: 1, ParticipantID: 2, Importance: &imp, StartDate: &start, Timestamp: ts},
		}

		Convey("When completion times are computed", func() {
			records := stats.CompletionTimes(rows)

			Convey("Then nothing is emitted", func() {
				So(len(records), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a done task with several participants", t, func() {
		rows := []stats.Row{
			doneRowFor(10, 100, 1, 2, 3, "2024-01-01T00:00:00Z", "2024-01-01T04:00:00Z"),
			doneRowFor(10, 100, 1, 3, 3, "2024-01-01T00:00:00Z", "2024-01-01T04:00:00Z"),
		}

		Convey("When completion times are computed", func() {
			records := stats.CompletionTimes(rows)

			Convey("Then the initiator's mean counts the task once, not per participant", func() {
				So(len(records), ShouldEqual, 3)
				So(records[0].UserID, ShouldEqual, 2)
				So(records[1].UserID, ShouldEqual, 3)
				So(records[2].UserID, ShouldEqual, 1)
				So(records[2].MeanHours, ShouldEqual, 4.0)
			})
		})
	})

	Convey("Given a user who is both initiator and participant of a done task", t, func() {
		rows := []stats.Row{doneRowFor(10, 100, 5, 5, 3, "2024-01-01T00:00:00Z", "2024-01-01T05:00:00Z")}

		Convey("When completion times are computed", func() {
			records := stats.CompletionTimes(rows)

			Convey("Then both role perspectives keep their own row", func() {
				So(len(records), ShouldEqual, 2)
				So(records[0].UserID, ShouldEqual, 5)
				So(records[1].UserID, ShouldEqual, 5)
				So(records[0].MeanHours, ShouldEqual, 5.0)
				So(records[1].MeanHours, ShouldEqual, 5.0)
			})
		})
	})
}
