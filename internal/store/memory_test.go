package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dutytrack-backend/internal/models"
)

func startDuty(t *testing.T, m *Memory, username, date, clock string) models.Duty {
	t.Helper()
	duty, err := m.Start(context.Background(), models.Duty{
		Username:       username,
		StoreName:      "Big Bazaar Koramangala",
		StartDate:      date,
		StartTime:      clock,
		StartLatitude:  "12.9352",
		StartLongitude: "77.6245",
	})
	if err != nil {
		t.Fatalf("start duty: %v", err)
	}
	return duty
}

func TestStartCreatesOpenDuty(t *testing.T) {
	m := NewMemory()
	duty := startDuty(t, m, "arjun", "2024-01-02", "10:00")

	if duty.ID == "" {
		t.Error("expected an assigned id")
	}
	if duty.Status {
		t.Error("new duty must be open (status=false)")
	}
	if duty.StopDate != "" || duty.StopTime != "" || duty.StopLatitude != "" || duty.StopLongitude != "" {
		t.Errorf("stop fields must be empty at start, got %+v", duty)
	}

	pending, err := m.Pending(context.Background(), "arjun")
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending duty, got %d", len(pending))
	}
}

func TestAppendLocationWithoutOpenDuty(t *testing.T) {
	m := NewMemory()

	_, err := m.AppendLocation(context.Background(), "nobody", "1", "2")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendLocationOrder(t *testing.T) {
	m := NewMemory()
	startDuty(t, m, "arjun", "2024-01-02", "10:00")

	const n = 5
	for i := 0; i < n; i++ {
		lat := fmt.Sprintf("12.%d", i)
		lon := fmt.Sprintf("77.%d", i)
		if _, err := m.AppendLocation(context.Background(), "arjun", lat, lon); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	path, err := m.TravelPath(context.Background(), "arjun")
	if err != nil {
		t.Fatalf("travel path: %v", err)
	}
	if len(path) != n {
		t.Fatalf("expected %d updates, got %d", n, len(path))
	}
	for i, u := range path {
		if u.Latitude != fmt.Sprintf("12.%d", i) || u.Longitude != fmt.Sprintf("77.%d", i) {
			t.Errorf("update %d out of order: %+v", i, u)
		}
		if i > 0 && u.CapturedAt < path[i-1].CapturedAt {
			t.Errorf("capture times must be non-decreasing: %d then %d", path[i-1].CapturedAt, u.CapturedAt)
		}
	}
}

func TestStopTransition(t *testing.T) {
	m := NewMemory()
	duty := startDuty(t, m, "arjun", "2024-01-02", "10:00")

	err := m.Stop(context.Background(), duty.ID, models.DutyStop{
		StopDate:      "2024-01-02",
		StopTime:      "18:00",
		StopLatitude:  "12.94",
		StopLongitude: "77.63",
	})
	if err != nil {
		t.Fatalf("stop: %v", err)
	}

	pending, _ := m.Pending(context.Background(), "arjun")
	if len(pending) != 0 {
		t.Errorf("stopped duty still pending: %+v", pending)
	}

	history, _ := m.History(context.Background(), "arjun")
	if len(history) != 1 {
		t.Fatalf("expected 1 closed duty, got %d", len(history))
	}
	closed := history[0]
	if !closed.Status {
		t.Error("expected status=true after stop")
	}
	if closed.StopDate != "2024-01-02" || closed.StopTime != "18:00" {
		t.Errorf("stop fields not written: %+v", closed)
	}

	// Appending after stop must fail: the trail is frozen with the duty.
	if _, err := m.AppendLocation(context.Background(), "arjun", "1", "2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound appending to closed duty, got %v", err)
	}
}

// Stop has no guard against an already-closed duty: a second stop succeeds
// and re-applies the update, rewriting the stop fields.
func TestDoubleStopRewritesStopFields(t *testing.T) {
	m := NewMemory()
	duty := startDuty(t, m, "arjun", "2024-01-02", "10:00")

	first := models.DutyStop{StopDate: "2024-01-02", StopTime: "18:00", StopLatitude: "12.94", StopLongitude: "77.63"}
	if err := m.Stop(context.Background(), duty.ID, first); err != nil {
		t.Fatalf("first stop: %v", err)
	}

	second := models.DutyStop{StopDate: "2024-01-03", StopTime: "09:00", StopLatitude: "12.95", StopLongitude: "77.64"}
	if err := m.Stop(context.Background(), duty.ID, second); err != nil {
		t.Fatalf("second stop should succeed, got %v", err)
	}

	history, err := m.History(context.Background(), "arjun")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 closed duty, got %d", len(history))
	}
	closed := history[0]
	if closed.StopDate != "2024-01-03" || closed.StopTime != "09:00" ||
		closed.StopLatitude != "12.95" || closed.StopLongitude != "77.64" {
		t.Errorf("second stop must rewrite the stop fields, got %+v", closed)
	}
}

func TestStopUnknownDuty(t *testing.T) {
	m := NewMemory()
	if err := m.Stop(context.Background(), "no-such-id", models.DutyStop{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryOrderDescending(t *testing.T) {
	m := NewMemory()

	older := startDuty(t, m, "arjun", "2024-01-01", "09:00")
	if err := m.Stop(context.Background(), older.ID, models.DutyStop{StopDate: "2024-01-01", StopTime: "17:00"}); err != nil {
		t.Fatalf("stop older: %v", err)
	}
	newer := startDuty(t, m, "arjun", "2024-01-02", "10:00")
	if err := m.Stop(context.Background(), newer.ID, models.DutyStop{StopDate: "2024-01-02", StopTime: "17:00"}); err != nil {
		t.Fatalf("stop newer: %v", err)
	}

	history, err := m.History(context.Background(), "arjun")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 closed duties, got %d", len(history))
	}
	if history[0].ID != newer.ID {
		t.Errorf("expected (2024-01-02, 10:00) to sort before (2024-01-01, 09:00)")
	}
}

// The store does not enforce one open duty per username: a second start
// without an intervening stop leaves two open records, and the open-duty
// lookups pick the most recent one. Asserting current behavior here; see
// DESIGN.md for the open question.
func TestDoubleStartLeavesTwoOpenDuties(t *testing.T) {
	m := NewMemory()
	startDuty(t, m, "arjun", "2024-01-01", "09:00")
	second := startDuty(t, m, "arjun", "2024-01-02", "10:00")

	pending, err := m.Pending(context.Background(), "arjun")
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 open duties, got %d", len(pending))
	}

	update, err := m.AppendLocation(context.Background(), "arjun", "1", "2")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if update.DutyID != second.ID {
		t.Errorf("append should land on the most recent open duty")
	}
}

func TestSearchStores(t *testing.T) {
	m := NewMemory()
	m.AddStore("Big Bazaar Koramangala", "12.9352", "77.6245")
	m.AddStore("Big Bazaar Indiranagar", "12.9784", "77.6408")
	m.AddStore("DMart Marathahalli", "12.9591", "77.6974")

	matches, err := m.Search(context.Background(), "big bazaar")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches for case-insensitive substring, got %d", len(matches))
	}

	all, err := m.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("search all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("empty query must match all stores, got %d", len(all))
	}
}

func TestFindByCredentials(t *testing.T) {
	m := NewMemory()
	m.AddUser("arjun", "arjun123")

	if _, err := m.FindByCredentials(context.Background(), "arjun", "arjun123"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if _, err := m.FindByCredentials(context.Background(), "arjun", "wrong"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong password, got %v", err)
	}
}
