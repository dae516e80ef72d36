package resultdb

import (
	"context"
	"testing"
	"time"

	"scenerank/internal/model"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleRows() []model.Row {
	return []model.Row{
		{
			Username: "organizer", Classified: []string{model.CategoryPlayParty},
			Score:   9.2,
			Details: model.Details{PlayParty: 8.1, Followers: 30000},
			Reasons: []string{"Ticket domains: eventbrite.com"},
		},
		{
			Username: "regular", Classified: []string{model.CategoryAttendee},
			Score:   2.9,
			Details: model.Details{Attendee: 2.6},
		},
		{
			Username: "nobody", Classified: []string{model.CategoryNone},
			Score: 0.4,
		},
	}
}

func TestSaveAndListRuns(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	id1, err := db.SaveRun(ctx, time.Unix(1000, 0), "default", 5, sampleRows())
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	id2, err := db.SaveRun(ctx, time.Unix(2000, 0), "kink_heavy", 6, sampleRows()[:2])
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id2 <= id1 {
		t.Fatalf("run ids not increasing: %d then %d", id1, id2)
	}

	runs, err := db.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %+v", runs)
	}
	if runs[0].ID != id2 || runs[0].Preset != "kink_heavy" || runs[0].Profiles != 2 {
		t.Fatalf("newest run = %+v", runs[0])
	}
	if runs[1].Known != 5 {
		t.Fatalf("oldest run = %+v", runs[1])
	}
}

func TestTopRows(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	id, err := db.SaveRun(ctx, time.Now(), "default", 5, sampleRows())
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	rows, err := db.TopRows(ctx, id, 2)
	if err != nil {
		t.Fatalf("TopRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Username != "organizer" || rows[1].Username != "regular" {
		t.Fatalf("row order = %q, %q", rows[0].Username, rows[1].Username)
	}
	if rows[0].Details.PlayParty != 8.1 {
		t.Fatalf("details not round-tripped: %+v", rows[0].Details)
	}
	if len(rows[0].Classified) != 1 || rows[0].Classified[0] != model.CategoryPlayParty {
		t.Fatalf("classified = %v", rows[0].Classified)
	}
}
