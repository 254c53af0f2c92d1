package store

import (
	"context"
	"testing"
)

func setupEventTestDB(t *testing.T) (*EventStore, string, string) {
	t.Helper()
	db := setupTestDB(t)
	a := createTestUser(t, db, "alice@example.com")
	b := createTestUser(t, db, "bob@example.com")
	return NewEventStore(db), a.ID, b.ID
}

func TestEventCreate(t *testing.T) {
	es, a, _ := setupEventTestDB(t)
	at := "19:30"

	e, err := es.Create(context.Background(), a, "Dinner", "2024-03-14", &at, "#60a5fa")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.Title != "Dinner" || e.EventDate != "2024-03-14" || e.Color != "#60a5fa" {
		t.Errorf("unexpected event %+v", e)
	}
	if e.EventTime == nil || *e.EventTime != "19:30" {
		t.Errorf("time = %v, want 19:30", e.EventTime)
	}
}

func TestEventListOrderAndRange(t *testing.T) {
	es, a, b := setupEventTestDB(t)
	ctx := context.Background()
	morning, evening := "09:00", "20:00"

	es.Create(ctx, a, "Evening", "2024-03-02", &evening, "#f472b6")
	es.Create(ctx, b, "All day", "2024-03-02", nil, "#f472b6")
	es.Create(ctx, a, "Morning", "2024-03-02", &morning, "#f472b6")
	es.Create(ctx, a, "Earlier", "2024-02-20", nil, "#f472b6")
	es.Create(ctx, b, "Later", "2024-04-01", nil, "#f472b6")

	all, err := es.List(ctx, []string{a, b}, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Earlier", "All day", "Morning", "Evening", "Later"}
	if len(all) != len(want) {
		t.Fatalf("len = %d, want %d", len(all), len(want))
	}
	for i, title := range want {
		if all[i].Title != title {
			t.Errorf("all[%d] = %q, want %q", i, all[i].Title, title)
		}
	}

	march, _ := es.List(ctx, []string{a, b}, "2024-03-01", "2024-03-31")
	if len(march) != 3 {
		t.Errorf("march = %d, want 3", len(march))
	}

	own, _ := es.List(ctx, []string{a}, "2024-03-01", "")
	if len(own) != 2 {
		t.Errorf("own from march = %d, want 2", len(own))
	}
}

func TestEventUpdateAndDelete(t *testing.T) {
	es, a, b := setupEventTestDB(t)
	ctx := context.Background()
	e, _ := es.Create(ctx, a, "Dentist", "2024-05-01", nil, "#f472b6")

	updated, err := es.Update(ctx, e.ID, a, "Dentist (moved)", "2024-05-03", nil, "#34d399")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.EventDate != "2024-05-03" || updated.Color != "#34d399" {
		t.Errorf("unexpected update %+v", updated)
	}

	if got, _ := es.Update(ctx, e.ID, b, "x", "2024-05-03", nil, "#000000"); got != nil {
		t.Error("expected partner update to affect nothing")
	}
	if ok, _ := es.Delete(ctx, e.ID, b); ok {
		t.Error("expected partner delete to affect nothing")
	}
	if ok, _ := es.Delete(ctx, e.ID, a); !ok {
		t.Error("expected owner delete to succeed")
	}
}
