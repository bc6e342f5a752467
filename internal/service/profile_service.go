package service

import (
	"context"

	"meetup_bot/internal/model"
	"meetup_bot/internal/repository"
	"meetup_bot/internal/session"
	"meetup_bot/internal/util"
)

// StepInput is one user submission against the current dialog step, already
// decoded from the transport message.
type StepInput struct {
	Text           string
	PhotoFileID    *string
	DocumentFileID *string
	Latitude       *float64
	Longitude      *float64

	// Keep copies the current profile value forward (edit mode only).
	Keep bool
	// Skip clears an optional field.
	Skip bool
}

// StepOutcome describes what the dialog engine did with an input.
type StepOutcome string

const (
	// OutcomeAdvanced accepted the input; Draft.Step is the next prompt.
	OutcomeAdvanced StepOutcome = "advanced"
	// OutcomeInvalid rejected the input; the same step must be re-prompted.
	OutcomeInvalid StepOutcome = "invalid"
	// OutcomeCommitted accepted the input and wrote the profile.
	OutcomeCommitted StepOutcome = "committed"
)

// StepResult carries the outcome plus the updated draft. On OutcomeInvalid
// the draft is unchanged and Reason names the validation failure for the
// handler's error message.
type StepResult struct {
	Outcome StepOutcome
	Draft   *session.Draft
	Reason  string
}

// Validation failure reasons, mapped to user-facing messages by the handlers.
const (
	ReasonBadName       = "bad_name"
	ReasonBadGender     = "bad_gender"
	ReasonBadAge        = "bad_age"
	ReasonUnknownRegion = "unknown_region"
	ReasonNoInterests   = "no_interests"
	ReasonNeedPhoto     = "need_photo"
	ReasonBadLocation   = "bad_location"
)

// Gender options accepted at StepGender.
var GenderOptions = []string{"Муж", "Жен"}

// ProfileService runs the profile dialog: one draft per chat, one input per
// step, a single terminal write. Validation failures never touch the draft.
type ProfileService struct {
	Users *repository.UserRepository
	Refs  *repository.ReferenceRepository
	Store session.Store
}

func NewProfileService(users *repository.UserRepository, refs *repository.ReferenceRepository, store session.Store) *ProfileService {
	return &ProfileService{Users: users, Refs: refs, Store: store}
}

// Start opens a dialog. Edit modes pre-seed the draft from the current
// profile so a "keep unchanged" answer can copy each value forward.
func (s *ProfileService) Start(ctx context.Context, chatID int64, phone string, mode session.Mode) (*session.Draft, error) {
	draft := &session.Draft{Phone: phone, Mode: mode, Step: session.StepName}
	if mode != session.ModeRegister {
		if err := s.seed(draft, phone); err != nil {
			return nil, err
		}
	}
	if err := s.Store.Put(ctx, chatID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// StartSingleEdit opens a dialog that asks exactly one step and commits.
func (s *ProfileService) StartSingleEdit(ctx context.Context, chatID int64, phone string, step session.Step) (*session.Draft, error) {
	draft := &session.Draft{Phone: phone, Mode: session.ModeSingleEdit, Step: step}
	if err := s.seed(draft, phone); err != nil {
		return nil, err
	}
	if err := s.Store.Put(ctx, chatID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *ProfileService) seed(draft *session.Draft, phone string) error {
	user, err := s.Users.GetByPhone(phone)
	if err != nil {
		return err
	}
	if user == nil {
		return util.ErrUserNotFound
	}
	draft.Profile = model.ProfileData{
		Name:           user.Name,
		Surname:        user.Surname,
		Gender:         user.Gender,
		Age:            user.Age,
		Region:         user.Region,
		Interests:      user.InterestList(),
		PhotoFileID:    user.PhotoFileID,
		DocumentFileID: user.DocumentFileID,
		LocationLat:    user.LocationLat,
		LocationLon:    user.LocationLon,
	}
	draft.Selected = append([]string(nil), draft.Profile.Interests...)
	return nil
}

// Current returns the open draft, or util.ErrDraftNotFound.
func (s *ProfileService) Current(ctx context.Context, chatID int64) (*session.Draft, error) {
	return s.Store.Get(ctx, chatID)
}

// Cancel discards the open draft. Nothing was persisted, so this is the
// complete rollback.
func (s *ProfileService) Cancel(ctx context.Context, chatID int64) error {
	return s.Store.Delete(ctx, chatID)
}

// Apply feeds one input to the current step. Invalid input leaves the stored
// draft untouched; valid input advances, or commits when the dialog is over.
func (s *ProfileService) Apply(ctx context.Context, chatID int64, in StepInput) (*StepResult, error) {
	draft, err := s.Store.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if reason, ok := s.applyStep(draft, in); !ok {
		return &StepResult{Outcome: OutcomeInvalid, Draft: draft, Reason: reason}, nil
	}

	return s.advance(ctx, chatID, draft)
}

// ToggleInterest flips one interest in the working selection at
// StepInterests. Reports whether the interest is now selected.
func (s *ProfileService) ToggleInterest(ctx context.Context, chatID int64, name string) (bool, *session.Draft, error) {
	draft, err := s.Store.Get(ctx, chatID)
	if err != nil {
		return false, nil, err
	}
	selected := draft.ToggleInterest(name)
	if err := s.Store.Put(ctx, chatID, draft); err != nil {
		return false, nil, err
	}
	return selected, draft, nil
}

// ConfirmInterests closes the multi-select. At least one interest must be
// picked unless the vocabulary itself is empty.
func (s *ProfileService) ConfirmInterests(ctx context.Context, chatID int64) (*StepResult, error) {
	draft, err := s.Store.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if len(draft.Selected) == 0 {
		names, err := s.Refs.InterestNames()
		if err != nil {
			return nil, err
		}
		if len(names) > 0 {
			return &StepResult{Outcome: OutcomeInvalid, Draft: draft, Reason: ReasonNoInterests}, nil
		}
	}
	draft.Profile.Interests = append([]string(nil), draft.Selected...)
	return s.advance(ctx, chatID, draft)
}

// KeepInterests leaves the seeded interest set untouched and moves on (edit
// modes only; the seeded profile already carries the current set).
func (s *ProfileService) KeepInterests(ctx context.Context, chatID int64) (*StepResult, error) {
	draft, err := s.Store.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return s.advance(ctx, chatID, draft)
}

func (s *ProfileService) advance(ctx context.Context, chatID int64, draft *session.Draft) (*StepResult, error) {
	if draft.Mode == session.ModeSingleEdit {
		draft.Step = session.StepDone
	} else {
		draft.Step = draft.Step.Next()
	}

	if draft.Step == session.StepDone {
		if err := s.Users.UpdateProfile(draft.Phone, &draft.Profile); err != nil {
			return nil, err
		}
		if err := s.Store.Delete(ctx, chatID); err != nil {
			return nil, err
		}
		return &StepResult{Outcome: OutcomeCommitted, Draft: draft}, nil
	}

	if err := s.Store.Put(ctx, chatID, draft); err != nil {
		return nil, err
	}
	return &StepResult{Outcome: OutcomeAdvanced, Draft: draft}, nil
}

// applyStep validates the input against the current step and stores it into
// the draft. Keep is honored in edit modes; the seeded value stays as is.
func (s *ProfileService) applyStep(draft *session.Draft, in StepInput) (string, bool) {
	editing := draft.Mode != session.ModeRegister
	if in.Keep && editing {
		return "", true
	}

	switch draft.Step {
	case session.StepName:
		if !util.IsValidName(in.Text) {
			return ReasonBadName, false
		}
		draft.Profile.Name = in.Text
	case session.StepSurname:
		if !util.IsValidName(in.Text) {
			return ReasonBadName, false
		}
		draft.Profile.Surname = in.Text
	case session.StepGender:
		if in.Skip {
			draft.Profile.Gender = nil
			return "", true
		}
		for _, opt := range GenderOptions {
			if in.Text == opt {
				g := in.Text
				draft.Profile.Gender = &g
				return "", true
			}
		}
		return ReasonBadGender, false
	case session.StepAge:
		age, ok := util.IsValidAge(in.Text)
		if !ok {
			return ReasonBadAge, false
		}
		draft.Profile.Age = &age
	case session.StepRegion:
		// Skip is only offered while the region vocabulary is empty.
		if in.Skip {
			return "", true
		}
		names, err := s.Refs.RegionNames()
		if err != nil {
			return ReasonUnknownRegion, false
		}
		for _, name := range names {
			if in.Text == name {
				draft.Profile.Region = in.Text
				return "", true
			}
		}
		return ReasonUnknownRegion, false
	case session.StepInterests:
		// Selection happens through ToggleInterest/ConfirmInterests; a plain
		// message at this step is not a valid answer.
		return ReasonNoInterests, false
	case session.StepPhoto:
		switch {
		case in.Skip:
			draft.Profile.PhotoFileID = nil
			draft.Profile.DocumentFileID = nil
		case in.PhotoFileID != nil:
			draft.Profile.PhotoFileID = in.PhotoFileID
			draft.Profile.DocumentFileID = nil
		case in.DocumentFileID != nil:
			draft.Profile.DocumentFileID = in.DocumentFileID
			draft.Profile.PhotoFileID = nil
		default:
			return ReasonNeedPhoto, false
		}
	case session.StepLocation:
		switch {
		case in.Skip:
			draft.Profile.LocationLat = nil
			draft.Profile.LocationLon = nil
		case in.Latitude != nil && in.Longitude != nil:
			if !util.ValidCoordinates(*in.Latitude, *in.Longitude) {
				return ReasonBadLocation, false
			}
			draft.Profile.LocationLat = in.Latitude
			draft.Profile.LocationLon = in.Longitude
		default:
			lat, lon, ok := util.ParseCoordinates(in.Text)
			if !ok {
				return ReasonBadLocation, false
			}
			draft.Profile.LocationLat = &lat
			draft.Profile.LocationLon = &lon
		}
	default:
		return "", false
	}
	return "", true
}
