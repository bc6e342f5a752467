package repository

import (
	"testing"

	"meetup_bot/internal/model"
)

func TestInviteCreateIdempotent(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)
	invites := NewInviteRepository(db)

	seedUser(t, db, "+79001110001", 100)
	eventID := seedEvent(t, db, events, "+79001110001", "Кино")

	created, err := invites.Create(eventID, "+79001110002")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created {
		t.Fatal("Create = false for a first invite")
	}

	created, err = invites.Create(eventID, "+79001110002")
	if err != nil {
		t.Fatalf("repeat Create: %v", err)
	}
	if created {
		t.Error("repeat Create = true, want false")
	}

	status, err := invites.Status(eventID, "+79001110002")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status == nil || *status != model.InvitePending {
		t.Errorf("status = %v, want %v", status, model.InvitePending)
	}
}

func TestInviteStatusNeverInvited(t *testing.T) {
	db := newTestDB(t)
	invites := NewInviteRepository(db)

	status, err := invites.Status(42, "+79001110002")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status != nil {
		t.Errorf("status = %v, want nil for a never-invited pair", *status)
	}
}

func TestPendingForUser(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)
	invites := NewInviteRepository(db)

	seedUser(t, db, "+79001110001", 100)
	first := seedEvent(t, db, events, "+79001110001", "Выставка")
	second := seedEvent(t, db, events, "+79001110001", "Концерт")

	for _, id := range []uint{first, second} {
		if _, err := invites.Create(id, "+79001110002"); err != nil {
			t.Fatalf("Create invite for event %d: %v", id, err)
		}
	}

	pending, err := invites.PendingForUser("+79001110002")
	if err != nil {
		t.Fatalf("PendingForUser: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}

	if err := invites.UpdateStatus(first, "+79001110002", model.InviteDeclined); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	pending, err = invites.PendingForUser("+79001110002")
	if err != nil {
		t.Fatalf("PendingForUser after decline: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != second {
		t.Errorf("pending after decline = %v, want only the second event", pending)
	}
}
