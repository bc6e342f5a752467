package service

import (
	"context"
	"errors"
	"strings"

	"meetup_bot/internal/model"
	"meetup_bot/internal/session"
	"meetup_bot/internal/util"
	"meetup_bot/pkg/logger"

	"go.uber.org/zap"
)

// Validation failure reasons for the event dialog.
const (
	ReasonBadEventName = "bad_event_name"
	ReasonBadDate      = "bad_date"
	ReasonBadTime      = "bad_time"
	ReasonBadAddress   = "bad_address"
)

// EventDialogService runs the event creation dialog. The address step
// geocodes the text and asks the organizer to confirm the hit; a geocoding
// failure re-prompts for the address instead of aborting.
type EventDialogService struct {
	Events   *EventService
	Geocoder *GeocodingService
	Store    session.Store
}

func NewEventDialogService(events *EventService, geocoder *GeocodingService, store session.Store) *EventDialogService {
	return &EventDialogService{Events: events, Geocoder: geocoder, Store: store}
}

// EventStepResult mirrors StepResult for the event dialog. EventID is set
// only on OutcomeCommitted.
type EventStepResult struct {
	Outcome StepOutcome
	Draft   *session.EventDraft
	Reason  string
	EventID uint
}

func (s *EventDialogService) Start(ctx context.Context, chatID int64, phone string) (*session.EventDraft, error) {
	draft := &session.EventDraft{Phone: phone, Step: session.EventStepName}
	if err := s.Store.PutEvent(ctx, chatID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *EventDialogService) Current(ctx context.Context, chatID int64) (*session.EventDraft, error) {
	return s.Store.GetEvent(ctx, chatID)
}

func (s *EventDialogService) Cancel(ctx context.Context, chatID int64) error {
	return s.Store.DeleteEvent(ctx, chatID)
}

// Apply feeds one input to the current step.
func (s *EventDialogService) Apply(ctx context.Context, chatID int64, in StepInput) (*EventStepResult, error) {
	draft, err := s.Store.GetEvent(ctx, chatID)
	if err != nil {
		return nil, err
	}

	switch draft.Step {
	case session.EventStepName:
		if strings.TrimSpace(in.Text) == "" {
			return s.invalid(draft, ReasonBadEventName), nil
		}
		draft.Name = strings.TrimSpace(in.Text)
		draft.Step = session.EventStepDate

	case session.EventStepDate:
		if !util.IsValidDate(in.Text) {
			return s.invalid(draft, ReasonBadDate), nil
		}
		draft.Date = in.Text
		draft.Step = session.EventStepTime

	case session.EventStepTime:
		if !util.IsValidTime(in.Text) {
			return s.invalid(draft, ReasonBadTime), nil
		}
		draft.Time = in.Text
		draft.Step = session.EventStepInterests

	case session.EventStepAddress:
		if in.Latitude != nil && in.Longitude != nil {
			if !util.ValidCoordinates(*in.Latitude, *in.Longitude) {
				return s.invalid(draft, ReasonBadAddress), nil
			}
			draft.Latitude = in.Latitude
			draft.Longitude = in.Longitude
			draft.Step = session.EventStepDescription
			break
		}
		address := strings.TrimSpace(in.Text)
		if address == "" {
			return s.invalid(draft, ReasonBadAddress), nil
		}
		lat, lon, display, err := s.Geocoder.Resolve(ctx, address)
		if errors.Is(err, util.ErrAddressNotFound) {
			return s.invalid(draft, ReasonBadAddress), nil
		}
		if err != nil {
			return nil, err
		}
		if display != "" {
			address = display
		}
		draft.Address = &address
		draft.Latitude = &lat
		draft.Longitude = &lon
		draft.Step = session.EventStepConfirmAddr

	case session.EventStepDescription:
		if in.Skip {
			draft.Description = nil
		} else {
			text := strings.TrimSpace(in.Text)
			draft.Description = &text
		}
		draft.Step = session.EventStepPhoto

	case session.EventStepPhoto:
		switch {
		case in.Skip:
			draft.PhotoFileID = nil
			draft.DocumentFileID = nil
		case in.PhotoFileID != nil:
			draft.PhotoFileID = in.PhotoFileID
			draft.DocumentFileID = nil
		case in.DocumentFileID != nil:
			draft.DocumentFileID = in.DocumentFileID
			draft.PhotoFileID = nil
		default:
			return s.invalid(draft, ReasonNeedPhoto), nil
		}
		draft.Step = session.EventStepInvite

	default:
		return s.invalid(draft, ""), nil
	}

	if err := s.Store.PutEvent(ctx, chatID, draft); err != nil {
		return nil, err
	}
	return &EventStepResult{Outcome: OutcomeAdvanced, Draft: draft}, nil
}

// ConfirmAddress resolves the geocoding confirmation step. Rejection drops
// the resolved pair and re-asks for the address.
func (s *EventDialogService) ConfirmAddress(ctx context.Context, chatID int64, accept bool) (*EventStepResult, error) {
	draft, err := s.Store.GetEvent(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if accept {
		draft.Step = session.EventStepDescription
	} else {
		draft.Address = nil
		draft.Latitude = nil
		draft.Longitude = nil
		draft.Step = session.EventStepAddress
	}
	if err := s.Store.PutEvent(ctx, chatID, draft); err != nil {
		return nil, err
	}
	return &EventStepResult{Outcome: OutcomeAdvanced, Draft: draft}, nil
}

// ToggleInterest flips an event tag while the interests step is active.
func (s *EventDialogService) ToggleInterest(ctx context.Context, chatID int64, name string) (bool, *session.EventDraft, error) {
	draft, err := s.Store.GetEvent(ctx, chatID)
	if err != nil {
		return false, nil, err
	}
	selected := draft.ToggleInterest(name)
	if err := s.Store.PutEvent(ctx, chatID, draft); err != nil {
		return false, nil, err
	}
	return selected, draft, nil
}

// ConfirmInterests closes the tag selection; at least one tag is required so
// invite matching has something to match on.
func (s *EventDialogService) ConfirmInterests(ctx context.Context, chatID int64) (*EventStepResult, error) {
	draft, err := s.Store.GetEvent(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if len(draft.Interests) == 0 {
		return s.invalid(draft, ReasonNoInterests), nil
	}
	draft.Step = session.EventStepAddress
	if err := s.Store.PutEvent(ctx, chatID, draft); err != nil {
		return nil, err
	}
	return &EventStepResult{Outcome: OutcomeAdvanced, Draft: draft}, nil
}

// SkipInterests advances past tag selection with no tags. Offered only while
// the interest vocabulary is empty.
func (s *EventDialogService) SkipInterests(ctx context.Context, chatID int64) (*EventStepResult, error) {
	draft, err := s.Store.GetEvent(ctx, chatID)
	if err != nil {
		return nil, err
	}
	draft.Interests = nil
	draft.Step = session.EventStepAddress
	if err := s.Store.PutEvent(ctx, chatID, draft); err != nil {
		return nil, err
	}
	return &EventStepResult{Outcome: OutcomeAdvanced, Draft: draft}, nil
}

func (s *EventDialogService) invalid(draft *session.EventDraft, reason string) *EventStepResult {
	return &EventStepResult{Outcome: OutcomeInvalid, Draft: draft, Reason: reason}
}

// Finish answers the closing "invite matching users?" question: the event is
// created either way, then invites go out when asked for. Invite failures do
// not undo the creation; the event exists once Create returns.
func (s *EventDialogService) Finish(ctx context.Context, chatID int64, invite bool, inviteLimit int) (*EventStepResult, []model.User, error) {
	draft, err := s.Store.GetEvent(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	draft.Step = session.EventStepDone

	eventID, err := s.Events.CreateFromDraft(draft)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Store.DeleteEvent(ctx, chatID); err != nil {
		return nil, nil, err
	}

	var invited []model.User
	if invite {
		invited, err = s.Events.InviteMatching(eventID, inviteLimit)
		if err != nil {
			logger.Log.Warn("bulk invite after event creation failed",
				zap.Uint("event_id", eventID), zap.Error(err))
			invited = nil
		}
	}
	return &EventStepResult{Outcome: OutcomeCommitted, Draft: draft, EventID: eventID}, invited, nil
}
