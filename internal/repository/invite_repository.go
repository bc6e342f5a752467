package repository

import (
	"errors"

	"meetup_bot/internal/model"

	"gorm.io/gorm"
)

type InviteRepository struct {
	DB *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{DB: db}
}

// Create records a pending invite. Repeat invites for the same pair are
// absorbed: the call reports false and leaves the existing row untouched.
func (r *InviteRepository) Create(eventID uint, phone string) (bool, error) {
	invite := &model.EventInvite{
		EventID:      eventID,
		InvitedPhone: phone,
		Status:       model.InvitePending,
	}
	err := r.DB.Create(invite).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Status returns the invite status for the pair, or nil when never invited.
func (r *InviteRepository) Status(eventID uint, phone string) (*model.InviteStatus, error) {
	var invite model.EventInvite
	err := r.DB.First(&invite, "event_id = ? AND invited_phone = ?", eventID, phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite.Status, nil
}

func (r *InviteRepository) UpdateStatus(eventID uint, phone string, status model.InviteStatus) error {
	return r.DB.Model(&model.EventInvite{}).
		Where("event_id = ? AND invited_phone = ?", eventID, phone).
		Update("status", status).Error
}

// PendingForUser lists events the user is invited to but has not answered.
func (r *InviteRepository) PendingForUser(phone string) ([]model.Event, error) {
	var events []model.Event
	err := r.DB.
		Joins("JOIN event_invites ON event_invites.event_id = events.id").
		Where("event_invites.invited_phone = ? AND event_invites.status = ?", phone, model.InvitePending).
		Order("events.date, events.time").
		Find(&events).Error
	return events, err
}
