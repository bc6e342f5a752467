package repository

import (
	"testing"

	"meetup_bot/internal/model"
)

func TestCreateEnrollsOrganizer(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)
	participants := NewParticipantRepository(db)

	seedUser(t, db, "+79001110001", 100)
	eventID := seedEvent(t, db, events, "+79001110001", "Бег в парке")

	in, err := participants.IsParticipant(eventID, "+79001110001")
	if err != nil {
		t.Fatalf("IsParticipant: %v", err)
	}
	if !in {
		t.Error("organizer is not enrolled after create")
	}

	count, err := events.ParticipantCount(eventID)
	if err != nil {
		t.Fatalf("ParticipantCount: %v", err)
	}
	if count != 1 {
		t.Errorf("ParticipantCount = %d, want 1", count)
	}
}

func TestGetByID(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)

	organizer := seedUser(t, db, "+79001110001", 100)
	eventID := seedEvent(t, db, events, "+79001110001", "Фотопрогулка")

	event, chatID, err := events.GetByID(eventID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if event == nil || event.Name != "Фотопрогулка" {
		t.Fatalf("GetByID event = %v, want the created event", event)
	}
	if chatID == nil || *chatID != *organizer.ChatID {
		t.Errorf("organizer chat id = %v, want %d", chatID, *organizer.ChatID)
	}

	event, chatID, err = events.GetByID(9999)
	if err != nil {
		t.Fatalf("GetByID missing: %v", err)
	}
	if event != nil || chatID != nil {
		t.Errorf("GetByID missing = (%v, %v), want (nil, nil)", event, chatID)
	}
}

func TestFriendsEvents(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)
	participants := NewParticipantRepository(db)

	seedUser(t, db, "+79001110001", 100) // viewer
	seedUser(t, db, "+79001110002", 200) // friend
	seedUser(t, db, "+79001110003", 300) // stranger

	friendEvent := seedEvent(t, db, events, "+79001110002", "Шахматы")
	seedEvent(t, db, events, "+79001110003", "Чужое событие")
	seedEvent(t, db, events, "+79001110001", "Моё событие")

	listings, err := events.FriendsEvents("+79001110001", []int64{200})
	if err != nil {
		t.Fatalf("FriendsEvents: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("listings = %d, want only the friend's event", len(listings))
	}
	if listings[0].Event.ID != friendEvent {
		t.Errorf("listing event = %d, want %d", listings[0].Event.ID, friendEvent)
	}
	if listings[0].IsParticipant {
		t.Error("IsParticipant = true before joining")
	}

	if _, err := participants.Join(friendEvent, "+79001110001"); err != nil {
		t.Fatalf("Join: %v", err)
	}

	listings, err = events.FriendsEvents("+79001110001", []int64{200})
	if err != nil {
		t.Fatalf("FriendsEvents after join: %v", err)
	}
	if !listings[0].IsParticipant {
		t.Error("IsParticipant = false after joining")
	}

	listings, err = events.FriendsEvents("+79001110001", nil)
	if err != nil {
		t.Fatalf("FriendsEvents without friends: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("listings without friends = %d, want 0", len(listings))
	}
}

func TestMyEvents(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)
	participants := NewParticipantRepository(db)

	seedUser(t, db, "+79001110001", 100)
	seedUser(t, db, "+79001110002", 200)

	mine := seedEvent(t, db, events, "+79001110001", "Мой мастер-класс")
	theirs := seedEvent(t, db, events, "+79001110002", "Чужой мастер-класс")

	if _, err := participants.Join(theirs, "+79001110001"); err != nil {
		t.Fatalf("Join: %v", err)
	}

	organized, participating, err := events.MyEvents("+79001110001")
	if err != nil {
		t.Fatalf("MyEvents: %v", err)
	}
	if len(organized) != 1 || organized[0].ID != mine {
		t.Errorf("organized = %v, want only my event", organized)
	}
	if len(participating) != 1 || participating[0].ID != theirs {
		t.Errorf("participating = %v, want only the joined event", participating)
	}
}

func TestReferenceVocabularyReplace(t *testing.T) {
	db := newTestDB(t)
	refs := NewReferenceRepository(db)

	if err := refs.ReplaceInterests([]string{"музыка", "спорт"}); err != nil {
		t.Fatalf("ReplaceInterests: %v", err)
	}
	if err := refs.ReplaceInterests([]string{"кино"}); err != nil {
		t.Fatalf("repeat ReplaceInterests: %v", err)
	}

	names, err := refs.InterestNames()
	if err != nil {
		t.Fatalf("InterestNames: %v", err)
	}
	if len(names) != 1 || names[0] != "кино" {
		t.Errorf("InterestNames = %v, want the replacement list", names)
	}

	var count int64
	if err := db.Model(&model.Interest{}).Count(&count).Error; err != nil {
		t.Fatalf("count interests: %v", err)
	}
	if count != 1 {
		t.Errorf("interest rows = %d, want 1", count)
	}
}
