package service

import (
	"meetup_bot/internal/model"
	"meetup_bot/internal/repository"
	"meetup_bot/internal/session"
	"meetup_bot/internal/util"
)

// EventService owns the event lifecycle: creation from a finished dialog
// draft, membership changes, and invite issuance including overlap-based
// bulk invites.
type EventService struct {
	Events       *repository.EventRepository
	Participants *repository.ParticipantRepository
	Invites      *repository.InviteRepository
	Users        *repository.UserRepository
	Search       *SearchService
}

func NewEventService(
	events *repository.EventRepository,
	participants *repository.ParticipantRepository,
	invites *repository.InviteRepository,
	users *repository.UserRepository,
	search *SearchService,
) *EventService {
	return &EventService{
		Events:       events,
		Participants: participants,
		Invites:      invites,
		Users:        users,
		Search:       search,
	}
}

// CreateFromDraft turns a completed creation dialog into an event. The
// organizer joins in the same transaction as the insert.
func (s *EventService) CreateFromDraft(draft *session.EventDraft) (uint, error) {
	event := &model.Event{
		OrganizerPhone: draft.Phone,
		Name:           draft.Name,
		Date:           draft.Date,
		Time:           draft.Time,
		Interests:      model.JoinInterests(draft.Interests),
		Address:        draft.Address,
		Latitude:       draft.Latitude,
		Longitude:      draft.Longitude,
		Description:    draft.Description,
		PhotoFileID:    draft.PhotoFileID,
		DocumentFileID: draft.DocumentFileID,
	}
	return s.Events.Create(event)
}

func (s *EventService) Get(eventID uint) (*model.Event, *int64, error) {
	return s.Events.GetByID(eventID)
}

func (s *EventService) All() ([]model.Event, error) {
	return s.Events.GetAll()
}

func (s *EventService) Join(eventID uint, phone string) (repository.JoinResult, error) {
	return s.Participants.Join(eventID, phone)
}

func (s *EventService) Leave(eventID uint, phone string) (repository.LeaveResult, string, error) {
	return s.Participants.Leave(eventID, phone)
}

// RemoveParticipant is organizer-only; the caller must have verified that
// acting identity matches the event's organizer.
func (s *EventService) RemoveParticipant(eventID uint, phone string) (bool, *int64, error) {
	return s.Participants.Remove(eventID, phone)
}

func (s *EventService) ListParticipants(eventID uint) ([]model.User, error) {
	return s.Participants.Participants(eventID)
}

func (s *EventService) ParticipantCount(eventID uint) (int64, error) {
	return s.Events.ParticipantCount(eventID)
}

func (s *EventService) FriendsEvents(phone string, friendChatIDs []int64) ([]repository.EventListing, error) {
	return s.Events.FriendsEvents(phone, friendChatIDs)
}

func (s *EventService) MyEvents(phone string) (organized, participating []model.Event, err error) {
	return s.Events.MyEvents(phone)
}

func (s *EventService) PendingInvites(phone string) ([]model.Event, error) {
	return s.Invites.PendingForUser(phone)
}

// Invite records a pending invite. Returns false on a repeat invite.
func (s *EventService) Invite(eventID uint, phone string) (bool, error) {
	return s.Invites.Create(eventID, phone)
}

func (s *EventService) DeclineInvite(eventID uint, phone string) error {
	return s.Invites.UpdateStatus(eventID, phone, model.InviteDeclined)
}

// InviteMatching invites users whose interests overlap the event's own tags:
// a candidate search filtered by the event's interests followed by one
// invite per hit. Existing participants and repeat invites are skipped.
// Returns the invited users so the caller can notify them.
func (s *EventService) InviteMatching(eventID uint, limit int) ([]model.User, error) {
	event, _, err := s.Events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, util.ErrEventNotFound
	}

	organizer, err := s.Users.GetByPhone(event.OrganizerPhone)
	if err != nil {
		return nil, err
	}
	if organizer == nil {
		return nil, util.ErrUserNotFound
	}

	candidates, err := s.Search.FindCandidates(organizer, SearchFilters{
		Interests: event.InterestTags(),
	}, limit)
	if err != nil {
		return nil, err
	}

	var invited []model.User
	for _, c := range candidates {
		joined, err := s.Participants.IsParticipant(eventID, c.User.Number)
		if err != nil {
			return nil, err
		}
		if joined {
			continue
		}
		created, err := s.Invites.Create(eventID, c.User.Number)
		if err != nil {
			return nil, err
		}
		if created {
			invited = append(invited, c.User)
		}
	}
	return invited, nil
}
