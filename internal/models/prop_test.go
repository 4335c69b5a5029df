package models

import (
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestPropLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	prop := &Prop{Name: "It rains", ExpiryDate: now.Add(time.Hour)}

	if prop.State(now) != PropStateOpen || !prop.AcceptsWagers(now) {
		t.Fatalf("expected open prop, got %s", prop.State(now))
	}
	if prop.CanSetResult(now) {
		t.Error("open prop must not accept a result")
	}

	expiry := prop.ExpiryDate
	if prop.State(expiry) != PropStateExpiredUnresolved {
		t.Errorf("expected prop to expire exactly at its expiry date, got %s", prop.State(expiry))
	}
	if prop.AcceptsWagers(expiry) || !prop.CanSetResult(expiry) || !prop.CanDelete() {
		t.Error("unexpected permissions for expired prop")
	}

	result := true
	prop.Result = &result
	if prop.State(expiry) != PropStateResolved {
		t.Errorf("expected resolved, got %s", prop.State(expiry))
	}
	if prop.CanSetResult(expiry) || prop.CanDelete() {
		t.Error("resolved prop must be final")
	}
}

func TestDeletedPropIsClosed(t *testing.T) {
	now := time.Now()
	prop := &Prop{ExpiryDate: now.Add(time.Hour)}
	prop.DeletedAt = gorm.DeletedAt{Time: now, Valid: true}

	if !prop.Deleted() {
		t.Fatal("expected deleted flag")
	}
	if prop.State(now) != PropStateOpen {
		t.Errorf("deletion must not change state, got %s", prop.State(now))
	}
	if prop.AcceptsWagers(now) || prop.CanDelete() {
		t.Error("deleted prop must refuse wagers and further deletes")
	}
}

func TestWagerOutcome(t *testing.T) {
	w := &Wager{Prediction: false, Bananas: 3}
	if w.Outcome(nil) != WagerOutcomePending {
		t.Error("expected pending without a result")
	}
	no, yes := false, true
	if w.Outcome(&no) != WagerOutcomeWon || w.Outcome(&yes) != WagerOutcomeLost {
		t.Error("unexpected outcome")
	}
	if w.Side() != "no" || SideName(true) != "yes" {
		t.Error("unexpected side names")
	}
}
