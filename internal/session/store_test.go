package session

import (
	"context"
	"errors"
	"testing"

	"meetup_bot/internal/util"
)

func TestMemoryStoreProfileDraft(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, 1); !errors.Is(err, util.ErrDraftNotFound) {
		t.Fatalf("Get on empty store = %v, want ErrDraftNotFound", err)
	}

	draft := &Draft{
		Phone: "+79001112233",
		Mode:  ModeRegister,
		Step:  StepName,
	}
	if err := store.Put(ctx, 1, draft); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Phone != draft.Phone || got.Step != StepName {
		t.Errorf("Get = %+v, want the stored draft", got)
	}

	// stored copy is isolated from caller mutation
	got.Step = StepAge
	again, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if again.Step != StepName {
		t.Errorf("stored draft step = %v after caller mutation, want %v", again.Step, StepName)
	}

	if err := store.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, 1); !errors.Is(err, util.ErrDraftNotFound) {
		t.Errorf("Get after delete = %v, want ErrDraftNotFound", err)
	}
}

func TestMemoryStoreKeysDraftsIndependently(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Put(ctx, 1, &Draft{Phone: "+79001112233", Step: StepName}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.PutEvent(ctx, 1, &EventDraft{Phone: "+79001112233", Step: EventStepName}); err != nil {
		t.Fatalf("PutEvent: %v", err)
	}
	if err := store.PutSearch(ctx, 1, &SearchDraft{Step: SearchStepGender}); err != nil {
		t.Fatalf("PutSearch: %v", err)
	}

	if err := store.DeleteEvent(ctx, 1); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}

	if _, err := store.Get(ctx, 1); err != nil {
		t.Errorf("profile draft gone after DeleteEvent: %v", err)
	}
	if _, err := store.GetSearch(ctx, 1); err != nil {
		t.Errorf("search draft gone after DeleteEvent: %v", err)
	}
	if _, err := store.GetEvent(ctx, 1); !errors.Is(err, util.ErrDraftNotFound) {
		t.Errorf("GetEvent after delete = %v, want ErrDraftNotFound", err)
	}

	if _, err := store.Get(ctx, 2); !errors.Is(err, util.ErrDraftNotFound) {
		t.Errorf("Get for another chat = %v, want ErrDraftNotFound", err)
	}
}

func TestStepOrder(t *testing.T) {
	order := []Step{StepName, StepSurname, StepGender, StepAge, StepRegion, StepInterests, StepPhoto, StepLocation, StepDone}
	for i := 0; i < len(order)-1; i++ {
		if next := order[i].Next(); next != order[i+1] {
			t.Errorf("%v.Next() = %v, want %v", order[i], next, order[i+1])
		}
	}
	if StepDone.Next() != StepDone {
		t.Errorf("StepDone.Next() = %v, want StepDone", StepDone.Next())
	}
}

func TestToggleInterest(t *testing.T) {
	d := &Draft{}
	if !d.ToggleInterest("музыка") {
		t.Error("first toggle = false, want selected")
	}
	if !d.ToggleInterest("спорт") {
		t.Error("second interest toggle = false, want selected")
	}
	if d.ToggleInterest("музыка") {
		t.Error("repeat toggle = true, want deselected")
	}
	if len(d.Selected) != 1 || d.Selected[0] != "спорт" {
		t.Errorf("Selected = %v, want [спорт]", d.Selected)
	}
}
