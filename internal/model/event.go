package model

import "time"

// Event is immutable after creation except for its participant set. The
// organizer is enrolled as the first participant in the same transaction
// that creates the event.
type Event struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizerPhone string    `gorm:"size:20;index;not null" json:"organizerPhone"`
	Organizer      User      `gorm:"foreignKey:OrganizerPhone;references:Number;constraint:false" json:"-"`
	Name           string    `gorm:"size:200;not null" json:"name"`
	Date           string    `gorm:"size:10;not null" json:"date"` // DD.MM.YYYY
	Time           string    `gorm:"size:5;not null" json:"time"`  // HH:MM
	Interests      string    `gorm:"type:text" json:"interests"`   // comma-joined tags
	Address        *string   `gorm:"size:500" json:"address"`
	Latitude       *float64  `json:"latitude"`
	Longitude      *float64  `json:"longitude"`
	Description    *string   `gorm:"type:text" json:"description"`
	PhotoFileID    *string   `gorm:"size:200" json:"photoFileId"`
	DocumentFileID *string   `gorm:"size:200" json:"documentFileId"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Event) TableName() string {
	return "events"
}

// InterestTags splits the comma-joined interest tags.
func (e *Event) InterestTags() []string {
	return SplitInterests(e.Interests)
}

type EventParticipant struct {
	EventID          uint      `gorm:"primaryKey" json:"eventId"`
	ParticipantPhone string    `gorm:"primaryKey;size:20" json:"participantPhone"`
	JoinedAt         time.Time `gorm:"autoCreateTime" json:"joinedAt"`
}

func (EventParticipant) TableName() string {
	return "event_participants"
}

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
)

type EventInvite struct {
	EventID      uint         `gorm:"primaryKey" json:"eventId"`
	InvitedPhone string       `gorm:"primaryKey;size:20" json:"invitedPhone"`
	Status       InviteStatus `gorm:"size:20;default:'pending';not null" json:"status"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"createdAt"`
}

func (EventInvite) TableName() string {
	return "event_invites"
}
