package repository

import (
	"errors"

	"meetup_bot/internal/model"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

// Create inserts the event and enrolls the organizer as its first
// participant in the same transaction. A failed create leaves nothing behind.
func (r *EventRepository) Create(event *model.Event) (uint, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		participant := &model.EventParticipant{
			EventID:          event.ID,
			ParticipantPhone: event.OrganizerPhone,
		}
		return tx.Create(participant).Error
	})
	if err != nil {
		return 0, err
	}
	return event.ID, nil
}

// GetByID resolves the event together with the organizer's chat id, which
// callers need for notification routing.
func (r *EventRepository) GetByID(eventID uint) (*model.Event, *int64, error) {
	var event model.Event
	err := r.DB.First(&event, eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var organizer model.User
	err = r.DB.Select("chat_id").First(&organizer, "number = ?", event.OrganizerPhone).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	return &event, organizer.ChatID, nil
}

func (r *EventRepository) GetAll() ([]model.Event, error) {
	var events []model.Event
	err := r.DB.Order("created_at").Find(&events).Error
	return events, err
}

// EventListing is an event row annotated with the viewer's participation.
type EventListing struct {
	Event         model.Event
	IsParticipant bool
}

// FriendsEvents lists events organized by the user's friends, ordered by
// date and time, each flagged with whether the user already joined.
func (r *EventRepository) FriendsEvents(userPhone string, friendChatIDs []int64) ([]EventListing, error) {
	if len(friendChatIDs) == 0 {
		return nil, nil
	}

	var events []model.Event
	err := r.DB.
		Joins("JOIN users ON users.number = events.organizer_phone").
		Where("events.organizer_phone <> ?", userPhone).
		Where("users.chat_id IN ?", friendChatIDs).
		Order("events.date, events.time").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	listings := make([]EventListing, 0, len(events))
	for _, e := range events {
		var count int64
		err := r.DB.Model(&model.EventParticipant{}).
			Where("event_id = ? AND participant_phone = ?", e.ID, userPhone).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		listings = append(listings, EventListing{Event: e, IsParticipant: count > 0})
	}
	return listings, nil
}

// MyEvents returns the user's organized events and the ones they joined as a
// plain participant, both newest first.
func (r *EventRepository) MyEvents(userPhone string) (organized, participating []model.Event, err error) {
	err = r.DB.Where("organizer_phone = ?", userPhone).
		Order("created_at DESC").
		Find(&organized).Error
	if err != nil {
		return nil, nil, err
	}

	err = r.DB.
		Joins("JOIN event_participants ON event_participants.event_id = events.id").
		Where("event_participants.participant_phone = ?", userPhone).
		Where("events.organizer_phone <> ?", userPhone).
		Order("events.created_at DESC").
		Find(&participating).Error
	if err != nil {
		return nil, nil, err
	}
	return organized, participating, nil
}

func (r *EventRepository) ParticipantCount(eventID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.EventParticipant{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}
