// Package session holds the per-user conversation state that accumulates
// between messages: which dialog the user is in, which step they are on, and
// the draft collected so far. Drafts are transient; nothing here reaches the
// database until the dialog commits.
package session

import "meetup_bot/internal/model"

// Mode identifies which dialog owns the draft.
type Mode string

const (
	// ModeRegister walks a new user through every profile step.
	ModeRegister Mode = "register"
	// ModeEditAll re-walks every step, offering to keep each current value.
	ModeEditAll Mode = "edit_all"
	// ModeSingleEdit asks one step and commits immediately.
	ModeSingleEdit Mode = "single_edit"
)

// Step is a stage of the profile dialog. Steps run in declaration order;
// StepDone marks a committed draft awaiting cleanup.
type Step string

const (
	StepName      Step = "name"
	StepSurname   Step = "surname"
	StepGender    Step = "gender"
	StepAge       Step = "age"
	StepRegion    Step = "region"
	StepInterests Step = "interests"
	StepPhoto     Step = "photo"
	StepLocation  Step = "location"
	StepDone      Step = "done"
)

var stepOrder = []Step{
	StepName, StepSurname, StepGender, StepAge,
	StepRegion, StepInterests, StepPhoto, StepLocation, StepDone,
}

// Next returns the step after s in dialog order. StepDone is terminal.
func (s Step) Next() Step {
	for i, step := range stepOrder {
		if step == s && i+1 < len(stepOrder) {
			return stepOrder[i+1]
		}
	}
	return StepDone
}

// Draft is the profile dialog state for one user.
type Draft struct {
	Phone   string            `json:"phone"`
	Mode    Mode              `json:"mode"`
	Step    Step              `json:"step"`
	Profile model.ProfileData `json:"profile"`

	// Selected accumulates interest toggles while StepInterests is active.
	Selected []string `json:"selected,omitempty"`
}

// ToggleInterest flips an interest in the working selection and reports
// whether it is now selected.
func (d *Draft) ToggleInterest(name string) bool {
	for i, s := range d.Selected {
		if s == name {
			d.Selected = append(d.Selected[:i], d.Selected[i+1:]...)
			return false
		}
	}
	d.Selected = append(d.Selected, name)
	return true
}

// EventStep is a stage of the event creation dialog.
type EventStep string

const (
	EventStepName        EventStep = "name"
	EventStepDate        EventStep = "date"
	EventStepTime        EventStep = "time"
	EventStepInterests   EventStep = "interests"
	EventStepAddress     EventStep = "address"
	EventStepConfirmAddr EventStep = "confirm_address"
	EventStepDescription EventStep = "description"
	EventStepPhoto       EventStep = "photo"
	EventStepInvite      EventStep = "invite"
	EventStepDone        EventStep = "done"
)

// EventDraft is the event creation dialog state for one organizer.
type EventDraft struct {
	Phone          string    `json:"phone"`
	Step           EventStep `json:"step"`
	Name           string    `json:"name"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Interests      []string  `json:"interests,omitempty"`
	Address        *string   `json:"address,omitempty"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Description    *string   `json:"description,omitempty"`
	PhotoFileID    *string   `json:"photoFileId,omitempty"`
	DocumentFileID *string   `json:"documentFileId,omitempty"`
}

// ToggleInterest behaves as Draft.ToggleInterest for the event tag selection.
func (d *EventDraft) ToggleInterest(name string) bool {
	for i, s := range d.Interests {
		if s == name {
			d.Interests = append(d.Interests[:i], d.Interests[i+1:]...)
			return false
		}
	}
	d.Interests = append(d.Interests, name)
	return true
}

// SearchStep is a stage of the advanced friend search dialog.
type SearchStep string

const (
	SearchStepGender    SearchStep = "gender"
	SearchStepRegion    SearchStep = "region"
	SearchStepAge       SearchStep = "age"
	SearchStepInterests SearchStep = "interests"
)

// SearchDraft is the advanced search dialog state for one user.
type SearchDraft struct {
	Step     SearchStep `json:"step"`
	Gender   string     `json:"gender,omitempty"`
	Region   string     `json:"region,omitempty"`
	AgeRange string     `json:"ageRange,omitempty"`
	Selected []string   `json:"selected,omitempty"`
}

// ToggleInterest flips an interest in the search criteria.
func (d *SearchDraft) ToggleInterest(name string) bool {
	for i, s := range d.Selected {
		if s == name {
			d.Selected = append(d.Selected[:i], d.Selected[i+1:]...)
			return false
		}
	}
	d.Selected = append(d.Selected, name)
	return true
}
