package events_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mind-engage/mindengage-quiz/internal/db"
	"github.com/mind-engage/mindengage-quiz/internal/events"
)

func TestRepoAppendAndList(t *testing.T) {
	ctx := context.Background()
	h, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer h.Close()

	repo := events.NewRepo(h, "")
	if err := repo.Append(ctx, events.Event{Type: events.TypeQuizImported, Key: "quiz-1", Data: map[string]int{"items": 3}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Append(ctx, events.Event{SiteID: "school-a", Type: events.TypeAttemptSubmitted, Key: "att-1", Data: nil}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].SiteID != "local" || got[0].Key != "quiz-1" || got[1].SiteID != "school-a" {
		t.Fatalf("unexpected events %+v", got)
	}
	var data map[string]int
	if err := json.Unmarshal(got[0].Data.(json.RawMessage), &data); err != nil || data["items"] != 3 {
		t.Fatalf("data = %v (%v)", data, err)
	}

	after, err := repo.List(ctx, got[0].Seq, 10)
	if err != nil || len(after) != 1 || after[0].Key != "att-1" {
		t.Fatalf("list after: %+v, %v", after, err)
	}
}
