package repository

import (
	"errors"

	"meetup_bot/internal/model"

	"gorm.io/gorm"
)

type JoinResult string

const (
	JoinOK            JoinResult = "ok"
	JoinEventNotFound JoinResult = "event_not_found"
	JoinAlreadyIn     JoinResult = "already_participating"
)

type LeaveResult string

const (
	LeaveOK               LeaveResult = "ok"
	LeaveEventNotFound    LeaveResult = "event_not_found"
	LeaveNotParticipating LeaveResult = "not_participating"
	LeaveOrganizer        LeaveResult = "organizer"
)

type ParticipantRepository struct {
	DB *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{DB: db}
}

// Join enrolls the user in the event. A pending invite for the pair, if any,
// is marked accepted in the same transaction.
func (r *ParticipantRepository) Join(eventID uint, phone string) (JoinResult, error) {
	var result JoinResult
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			result = JoinEventNotFound
			return nil
		}

		participant := &model.EventParticipant{EventID: eventID, ParticipantPhone: phone}
		if err := tx.Create(participant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result = JoinAlreadyIn
				return nil
			}
			return err
		}

		err := tx.Model(&model.EventInvite{}).
			Where("event_id = ? AND invited_phone = ? AND status = ?",
				eventID, phone, model.InvitePending).
			Update("status", model.InviteAccepted).Error
		if err != nil {
			return err
		}
		result = JoinOK
		return nil
	})
	return result, err
}

// Leave withdraws the user from the event and declines any invite for the
// pair. Organizers cannot leave their own events. The organizer's phone is
// returned on success so the caller can notify them.
func (r *ParticipantRepository) Leave(eventID uint, phone string) (LeaveResult, string, error) {
	var result LeaveResult
	var organizerPhone string
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var event model.Event
		err := tx.First(&event, eventID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result = LeaveEventNotFound
			return nil
		}
		if err != nil {
			return err
		}
		if event.OrganizerPhone == phone {
			result = LeaveOrganizer
			return nil
		}

		res := tx.Delete(&model.EventParticipant{}, "event_id = ? AND participant_phone = ?", eventID, phone)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			result = LeaveNotParticipating
			return nil
		}

		err = tx.Model(&model.EventInvite{}).
			Where("event_id = ? AND invited_phone = ?", eventID, phone).
			Update("status", model.InviteDeclined).Error
		if err != nil {
			return err
		}
		result = LeaveOK
		organizerPhone = event.OrganizerPhone
		return nil
	})
	return result, organizerPhone, err
}

// Remove forcibly withdraws a participant on the organizer's behalf. The
// removed user's chat id is returned for notification; their invite, if any,
// is declined so invite-driven matching stops suggesting the event.
func (r *ParticipantRepository) Remove(eventID uint, phone string) (bool, *int64, error) {
	var removed bool
	var chatID *int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.EventParticipant{}, "event_id = ? AND participant_phone = ?", eventID, phone)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		err := tx.Model(&model.EventInvite{}).
			Where("event_id = ? AND invited_phone = ?", eventID, phone).
			Update("status", model.InviteDeclined).Error
		if err != nil {
			return err
		}

		var user model.User
		err = tx.Select("chat_id").First(&user, "number = ?", phone).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		removed = true
		chatID = user.ChatID
		return nil
	})
	return removed, chatID, err
}

// Participants lists event participants as profile rows, organizer first.
func (r *ParticipantRepository) Participants(eventID uint) ([]model.User, error) {
	var users []model.User
	err := r.DB.
		Joins("JOIN event_participants ON event_participants.participant_phone = users.number").
		Joins("JOIN events ON events.id = event_participants.event_id").
		Where("event_participants.event_id = ?", eventID).
		Order("users.number = events.organizer_phone DESC, event_participants.joined_at").
		Find(&users).Error
	return users, err
}

func (r *ParticipantRepository) IsParticipant(eventID uint, phone string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.EventParticipant{}).
		Where("event_id = ? AND participant_phone = ?", eventID, phone).
		Count(&count).Error
	return count > 0, err
}
