package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meetup_bot/internal/config"
	"meetup_bot/internal/model"
	"meetup_bot/internal/repository"
	"meetup_bot/internal/session"

	"gorm.io/gorm"
)

// fakeGeocoder serves one canned Nominatim hit, or an empty result set when
// found is false.
func fakeGeocoder(t *testing.T, found bool) *GeocodingService {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			t.Error("geocoder called without a query")
		}
		w.Header().Set("Content-Type", "application/json")
		if found {
			w.Write([]byte(`[{"lat":"55.7558","lon":"37.6173","display_name":"Москва, Тверская улица, 1"}]`))
		} else {
			w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(srv.Close)

	return NewGeocodingService(config.GeocoderConfig{
		BaseURL:   srv.URL,
		UserAgent: "test",
		Timeout:   2 * time.Second,
	})
}

func newEventDialog(t *testing.T, db *gorm.DB, geocoder *GeocodingService) *EventDialogService {
	t.Helper()

	users := repository.NewUserRepository(db)
	search := NewSearchService(users)
	events := NewEventService(
		repository.NewEventRepository(db),
		repository.NewParticipantRepository(db),
		repository.NewInviteRepository(db),
		users,
		search,
	)
	return NewEventDialogService(events, geocoder, session.NewMemoryStore())
}

func mustApplyEvent(t *testing.T, svc *EventDialogService, chatID int64, in StepInput, want StepOutcome) *EventStepResult {
	t.Helper()

	res, err := svc.Apply(context.Background(), chatID, in)
	if err != nil {
		t.Fatalf("Apply(%+v): %v", in, err)
	}
	if res.Outcome != want {
		t.Fatalf("Apply(%+v) outcome = %v (reason %q), want %v", in, res.Outcome, res.Reason, want)
	}
	return res
}

func TestEventCreationDialog(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newEventDialog(t, db, fakeGeocoder(t, true))
	const chatID int64 = 100
	const phone = "+79001112233"

	seedRegistered(t, db, phone, chatID, nil)

	if _, err := svc.Start(ctx, chatID, phone); err != nil {
		t.Fatalf("Start: %v", err)
	}

	mustApplyEvent(t, svc, chatID, StepInput{Text: "Квиз в баре"}, OutcomeAdvanced)

	res := mustApplyEvent(t, svc, chatID, StepInput{Text: "вчера"}, OutcomeInvalid)
	if res.Reason != ReasonBadDate {
		t.Errorf("reason = %q, want %q", res.Reason, ReasonBadDate)
	}
	mustApplyEvent(t, svc, chatID, StepInput{Text: "01.10.2026"}, OutcomeAdvanced)

	res = mustApplyEvent(t, svc, chatID, StepInput{Text: "полночь"}, OutcomeInvalid)
	if res.Reason != ReasonBadTime {
		t.Errorf("reason = %q, want %q", res.Reason, ReasonBadTime)
	}
	mustApplyEvent(t, svc, chatID, StepInput{Text: "19:00"}, OutcomeAdvanced)

	if _, _, err := svc.ToggleInterest(ctx, chatID, "квизы"); err != nil {
		t.Fatalf("ToggleInterest: %v", err)
	}
	confirmed, err := svc.ConfirmInterests(ctx, chatID)
	if err != nil {
		t.Fatalf("ConfirmInterests: %v", err)
	}
	if confirmed.Draft.Step != session.EventStepAddress {
		t.Fatalf("step after interests = %v, want %v", confirmed.Draft.Step, session.EventStepAddress)
	}

	res = mustApplyEvent(t, svc, chatID, StepInput{Text: "Тверская 1"}, OutcomeAdvanced)
	if res.Draft.Step != session.EventStepConfirmAddr {
		t.Fatalf("step after address = %v, want confirmation", res.Draft.Step)
	}
	if res.Draft.Latitude == nil || *res.Draft.Latitude != 55.7558 {
		t.Errorf("latitude = %v, want the geocoder hit", res.Draft.Latitude)
	}
	if res.Draft.Address == nil || *res.Draft.Address != "Москва, Тверская улица, 1" {
		t.Errorf("address = %v, want the geocoder's formatted hit", res.Draft.Address)
	}

	confirmed, err = svc.ConfirmAddress(ctx, chatID, true)
	if err != nil {
		t.Fatalf("ConfirmAddress: %v", err)
	}
	if confirmed.Draft.Step != session.EventStepDescription {
		t.Fatalf("step after confirm = %v, want description", confirmed.Draft.Step)
	}

	mustApplyEvent(t, svc, chatID, StepInput{Text: "Командный квиз"}, OutcomeAdvanced)
	res = mustApplyEvent(t, svc, chatID, StepInput{PhotoFileID: strPtr("photo42")}, OutcomeAdvanced)
	if res.Draft.Step != session.EventStepInvite {
		t.Fatalf("step after photo = %v, want invite question", res.Draft.Step)
	}

	finish, invited, err := svc.Finish(ctx, chatID, false, 10)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if finish.Outcome != OutcomeCommitted || finish.EventID == 0 {
		t.Fatalf("Finish = %v id %d, want committed with an id", finish.Outcome, finish.EventID)
	}
	if len(invited) != 0 {
		t.Errorf("invited = %d without asking for invites", len(invited))
	}

	event, organizerChat, err := svc.Events.Get(finish.EventID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if event.Name != "Квиз в баре" || event.Date != "01.10.2026" || event.Time != "19:00" {
		t.Errorf("event = %s %s %s, want the drafted values", event.Name, event.Date, event.Time)
	}
	if event.Address == nil || *event.Address != "Москва, Тверская улица, 1" {
		t.Errorf("address = %v, want the confirmed formatted address", event.Address)
	}
	if organizerChat == nil || *organizerChat != chatID {
		t.Errorf("organizer chat = %v, want %d", organizerChat, chatID)
	}

	in, err := svc.Events.Participants.IsParticipant(finish.EventID, phone)
	if err != nil {
		t.Fatalf("IsParticipant: %v", err)
	}
	if !in {
		t.Error("organizer not enrolled in the created event")
	}

	if _, err := svc.Current(ctx, chatID); err == nil {
		t.Error("draft still present after finish")
	}
}

func TestAddressNotFoundReprompts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newEventDialog(t, db, fakeGeocoder(t, false))
	const chatID int64 = 100

	seedRegistered(t, db, "+79001112233", chatID, nil)
	if _, err := svc.Start(ctx, chatID, "+79001112233"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	mustApplyEvent(t, svc, chatID, StepInput{Text: "Пикник"}, OutcomeAdvanced)
	mustApplyEvent(t, svc, chatID, StepInput{Text: "01.10.2026"}, OutcomeAdvanced)
	mustApplyEvent(t, svc, chatID, StepInput{Text: "12:00"}, OutcomeAdvanced)
	if _, _, err := svc.ToggleInterest(ctx, chatID, "пикники"); err != nil {
		t.Fatalf("ToggleInterest: %v", err)
	}
	if _, err := svc.ConfirmInterests(ctx, chatID); err != nil {
		t.Fatalf("ConfirmInterests: %v", err)
	}

	res := mustApplyEvent(t, svc, chatID, StepInput{Text: "Несуществующий адрес"}, OutcomeInvalid)
	if res.Reason != ReasonBadAddress {
		t.Errorf("reason = %q, want %q", res.Reason, ReasonBadAddress)
	}

	draft, err := svc.Current(ctx, chatID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if draft.Step != session.EventStepAddress {
		t.Errorf("step after miss = %v, want to stay on address", draft.Step)
	}

	// direct coordinates bypass geocoding entirely
	lat, lon := 55.0, 37.0
	res = mustApplyEvent(t, svc, chatID, StepInput{Latitude: &lat, Longitude: &lon}, OutcomeAdvanced)
	if res.Draft.Step != session.EventStepDescription {
		t.Errorf("step after coordinates = %v, want description", res.Draft.Step)
	}
}

func TestConfirmAddressRejectionReasks(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newEventDialog(t, db, fakeGeocoder(t, true))
	const chatID int64 = 100

	seedRegistered(t, db, "+79001112233", chatID, nil)
	if _, err := svc.Start(ctx, chatID, "+79001112233"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	mustApplyEvent(t, svc, chatID, StepInput{Text: "Лекция"}, OutcomeAdvanced)
	mustApplyEvent(t, svc, chatID, StepInput{Text: "01.10.2026"}, OutcomeAdvanced)
	mustApplyEvent(t, svc, chatID, StepInput{Text: "18:30"}, OutcomeAdvanced)
	if _, _, err := svc.ToggleInterest(ctx, chatID, "лекции"); err != nil {
		t.Fatalf("ToggleInterest: %v", err)
	}
	if _, err := svc.ConfirmInterests(ctx, chatID); err != nil {
		t.Fatalf("ConfirmInterests: %v", err)
	}
	mustApplyEvent(t, svc, chatID, StepInput{Text: "Арбат 1"}, OutcomeAdvanced)

	res, err := svc.ConfirmAddress(ctx, chatID, false)
	if err != nil {
		t.Fatalf("ConfirmAddress: %v", err)
	}
	if res.Draft.Step != session.EventStepAddress {
		t.Errorf("step after rejection = %v, want address again", res.Draft.Step)
	}
	if res.Draft.Address != nil || res.Draft.Latitude != nil {
		t.Error("rejected address still stored in the draft")
	}
}

func TestFinishWithInvites(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newEventDialog(t, db, fakeGeocoder(t, true))
	const chatID int64 = 100
	const phone = "+79001112233"

	seedRegistered(t, db, phone, chatID, func(u *model.User) {
		u.Interests = "квизы"
	})
	matching := seedRegistered(t, db, "+79001110002", 200, func(u *model.User) {
		u.Interests = "квизы,кино"
	})
	seedRegistered(t, db, "+79001110003", 300, func(u *model.User) {
		u.Interests = "спорт"
	})

	if _, err := svc.Start(ctx, chatID, phone); err != nil {
		t.Fatalf("Start: %v", err)
	}
	mustApplyEvent(t, svc, chatID, StepInput{Text: "Квиз"}, OutcomeAdvanced)
	mustApplyEvent(t, svc, chatID, StepInput{Text: "01.10.2026"}, OutcomeAdvanced)
	mustApplyEvent(t, svc, chatID, StepInput{Text: "19:00"}, OutcomeAdvanced)
	if _, _, err := svc.ToggleInterest(ctx, chatID, "квизы"); err != nil {
		t.Fatalf("ToggleInterest: %v", err)
	}
	if _, err := svc.ConfirmInterests(ctx, chatID); err != nil {
		t.Fatalf("ConfirmInterests: %v", err)
	}
	lat, lon := 55.0, 37.0
	mustApplyEvent(t, svc, chatID, StepInput{Latitude: &lat, Longitude: &lon}, OutcomeAdvanced)
	mustApplyEvent(t, svc, chatID, StepInput{Skip: true}, OutcomeAdvanced)
	mustApplyEvent(t, svc, chatID, StepInput{Skip: true}, OutcomeAdvanced)

	finish, invited, err := svc.Finish(ctx, chatID, true, 10)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(invited) != 1 || invited[0].Number != matching.Number {
		t.Fatalf("invited = %v, want only the interest-matching user", invited)
	}

	status, err := svc.Events.Invites.Status(finish.EventID, matching.Number)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status == nil || *status != model.InvitePending {
		t.Errorf("invite status = %v, want pending", status)
	}
}
