package repository

import (
	"testing"

	"meetup_bot/internal/model"
)

func TestJoinAndLeave(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)
	participants := NewParticipantRepository(db)

	seedUser(t, db, "+79001110001", 100)
	seedUser(t, db, "+79001110002", 200)
	eventID := seedEvent(t, db, events, "+79001110001", "Квиз")

	res, err := participants.Join(eventID, "+79001110002")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res != JoinOK {
		t.Fatalf("Join = %v, want %v", res, JoinOK)
	}

	res, err = participants.Join(eventID, "+79001110002")
	if err != nil {
		t.Fatalf("repeat Join: %v", err)
	}
	if res != JoinAlreadyIn {
		t.Fatalf("repeat Join = %v, want %v", res, JoinAlreadyIn)
	}

	res, err = participants.Join(9999, "+79001110002")
	if err != nil {
		t.Fatalf("Join missing event: %v", err)
	}
	if res != JoinEventNotFound {
		t.Fatalf("Join missing event = %v, want %v", res, JoinEventNotFound)
	}

	leave, organizer, err := participants.Leave(eventID, "+79001110002")
	if err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if leave != LeaveOK {
		t.Fatalf("Leave = %v, want %v", leave, LeaveOK)
	}
	if organizer != "+79001110001" {
		t.Errorf("Leave organizer = %q, want the event owner", organizer)
	}

	leave, _, err = participants.Leave(eventID, "+79001110002")
	if err != nil {
		t.Fatalf("repeat Leave: %v", err)
	}
	if leave != LeaveNotParticipating {
		t.Fatalf("repeat Leave = %v, want %v", leave, LeaveNotParticipating)
	}

	leave, _, err = participants.Leave(eventID, "+79001110001")
	if err != nil {
		t.Fatalf("organizer Leave: %v", err)
	}
	if leave != LeaveOrganizer {
		t.Fatalf("organizer Leave = %v, want %v", leave, LeaveOrganizer)
	}

	leave, _, err = participants.Leave(9999, "+79001110002")
	if err != nil {
		t.Fatalf("Leave missing event: %v", err)
	}
	if leave != LeaveEventNotFound {
		t.Fatalf("Leave missing event = %v, want %v", leave, LeaveEventNotFound)
	}
}

func TestJoinAcceptsPendingInvite(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)
	participants := NewParticipantRepository(db)
	invites := NewInviteRepository(db)

	seedUser(t, db, "+79001110001", 100)
	seedUser(t, db, "+79001110002", 200)
	eventID := seedEvent(t, db, events, "+79001110001", "Пикник")

	if _, err := invites.Create(eventID, "+79001110002"); err != nil {
		t.Fatalf("Create invite: %v", err)
	}

	if _, err := participants.Join(eventID, "+79001110002"); err != nil {
		t.Fatalf("Join: %v", err)
	}

	status, err := invites.Status(eventID, "+79001110002")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status == nil || *status != model.InviteAccepted {
		t.Errorf("invite status after join = %v, want %v", status, model.InviteAccepted)
	}
}

func TestLeaveDeclinesInvite(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)
	participants := NewParticipantRepository(db)
	invites := NewInviteRepository(db)

	seedUser(t, db, "+79001110001", 100)
	seedUser(t, db, "+79001110002", 200)
	eventID := seedEvent(t, db, events, "+79001110001", "Лекция")

	if _, err := invites.Create(eventID, "+79001110002"); err != nil {
		t.Fatalf("Create invite: %v", err)
	}
	if _, err := participants.Join(eventID, "+79001110002"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, _, err := participants.Leave(eventID, "+79001110002"); err != nil {
		t.Fatalf("Leave: %v", err)
	}

	status, err := invites.Status(eventID, "+79001110002")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status == nil || *status != model.InviteDeclined {
		t.Errorf("invite status after leave = %v, want %v", status, model.InviteDeclined)
	}
}

func TestRemoveParticipant(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)
	participants := NewParticipantRepository(db)
	invites := NewInviteRepository(db)

	seedUser(t, db, "+79001110001", 100)
	removedUser := seedUser(t, db, "+79001110002", 200)
	eventID := seedEvent(t, db, events, "+79001110001", "Поход")

	if _, err := invites.Create(eventID, "+79001110002"); err != nil {
		t.Fatalf("Create invite: %v", err)
	}
	if _, err := participants.Join(eventID, "+79001110002"); err != nil {
		t.Fatalf("Join: %v", err)
	}

	removed, chatID, err := participants.Remove(eventID, "+79001110002")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Fatal("Remove = false for a participant")
	}
	if chatID == nil || *chatID != *removedUser.ChatID {
		t.Errorf("Remove chat id = %v, want %d", chatID, *removedUser.ChatID)
	}

	status, err := invites.Status(eventID, "+79001110002")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status == nil || *status != model.InviteDeclined {
		t.Errorf("invite status after remove = %v, want %v", status, model.InviteDeclined)
	}

	removed, _, err = participants.Remove(eventID, "+79001110002")
	if err != nil {
		t.Fatalf("repeat Remove: %v", err)
	}
	if removed {
		t.Error("repeat Remove = true, want false")
	}
}

func TestParticipantsOrganizerFirst(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)
	participants := NewParticipantRepository(db)

	seedUser(t, db, "+79001110001", 100)
	seedUser(t, db, "+79001110002", 200)
	seedUser(t, db, "+79001110003", 300)
	eventID := seedEvent(t, db, events, "+79001110002", "Настолки")

	if _, err := participants.Join(eventID, "+79001110001"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := participants.Join(eventID, "+79001110003"); err != nil {
		t.Fatalf("Join: %v", err)
	}

	list, err := participants.Participants(eventID)
	if err != nil {
		t.Fatalf("Participants: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("participants = %d, want 3", len(list))
	}
	if list[0].Number != "+79001110002" {
		t.Errorf("first participant = %s, want the organizer", list[0].Number)
	}

	in, err := participants.IsParticipant(eventID, "+79001110003")
	if err != nil {
		t.Fatalf("IsParticipant: %v", err)
	}
	if !in {
		t.Error("IsParticipant = false for a joined user")
	}
}
