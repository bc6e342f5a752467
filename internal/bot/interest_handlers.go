package bot

import (
	"context"
	"errors"

	"meetup_bot/internal/session"
	"meetup_bot/internal/util"

	tele "gopkg.in/telebot.v3"
)

// The interest multi-select keyboard is shared by three dialogs: profile,
// event creation, and advanced search. Each callback resolves which dialog
// owns the keyboard by checking the open drafts in that order.

func (b *Bot) onInterestToggle(c tele.Context) error {
	defer func() { _ = c.Respond() }()
	ctx := context.Background()
	chatID := c.Chat().ID
	name := c.Callback().Data

	if draft, err := b.profiles.Current(ctx, chatID); err == nil {
		if draft.Step != session.StepInterests {
			return nil
		}
		_, updated, err := b.profiles.ToggleInterest(ctx, chatID, name)
		if err != nil {
			return err
		}
		return b.refreshInterestKeyboard(c, updated.Selected, updated.Mode != session.ModeRegister)
	} else if !errors.Is(err, util.ErrDraftNotFound) {
		return err
	}

	if draft, err := b.eventDialog.Current(ctx, chatID); err == nil {
		if draft.Step != session.EventStepInterests {
			return nil
		}
		_, updated, err := b.eventDialog.ToggleInterest(ctx, chatID, name)
		if err != nil {
			return err
		}
		return b.refreshInterestKeyboard(c, updated.Interests, false)
	} else if !errors.Is(err, util.ErrDraftNotFound) {
		return err
	}

	if draft, err := b.sessions.GetSearch(ctx, chatID); err == nil {
		if draft.Step != session.SearchStepInterests {
			return nil
		}
		draft.ToggleInterest(name)
		if err := b.sessions.PutSearch(ctx, chatID, draft); err != nil {
			return err
		}
		return b.refreshInterestKeyboard(c, draft.Selected, false)
	} else if !errors.Is(err, util.ErrDraftNotFound) {
		return err
	}
	return nil
}

func (b *Bot) refreshInterestKeyboard(c tele.Context, selected []string, editMode bool) error {
	all, err := b.refs.Interests()
	if err != nil {
		return err
	}
	return c.Edit(interestsKeyboard(all, selected, editMode))
}

func (b *Bot) onInterestsDone(c tele.Context) error {
	defer func() { _ = c.Respond() }()
	ctx := context.Background()
	chatID := c.Chat().ID

	if _, err := b.profiles.Current(ctx, chatID); err == nil {
		result, err := b.profiles.ConfirmInterests(ctx, chatID)
		if err != nil {
			return err
		}
		return b.renderStepResult(c, result)
	} else if !errors.Is(err, util.ErrDraftNotFound) {
		return err
	}

	if _, err := b.eventDialog.Current(ctx, chatID); err == nil {
		result, err := b.eventDialog.ConfirmInterests(ctx, chatID)
		if err != nil {
			return err
		}
		return b.renderEventStepResult(c, result)
	} else if !errors.Is(err, util.ErrDraftNotFound) {
		return err
	}

	if draft, err := b.sessions.GetSearch(ctx, chatID); err == nil {
		return b.finishAdvancedSearch(c, draft)
	} else if !errors.Is(err, util.ErrDraftNotFound) {
		return err
	}
	return nil
}

func (b *Bot) onInterestsKeep(c tele.Context) error {
	defer func() { _ = c.Respond() }()
	ctx := context.Background()
	chatID := c.Chat().ID

	if _, err := b.profiles.Current(ctx, chatID); err == nil {
		result, err := b.profiles.KeepInterests(ctx, chatID)
		if err != nil {
			return err
		}
		return b.renderStepResult(c, result)
	} else if !errors.Is(err, util.ErrDraftNotFound) {
		return err
	}
	return nil
}

// onInterestsSkip is only reachable while the interest vocabulary is empty.
func (b *Bot) onInterestsSkip(c tele.Context) error {
	defer func() { _ = c.Respond() }()
	ctx := context.Background()
	chatID := c.Chat().ID

	if _, err := b.profiles.Current(ctx, chatID); err == nil {
		result, err := b.profiles.ConfirmInterests(ctx, chatID)
		if err != nil {
			return err
		}
		return b.renderStepResult(c, result)
	} else if !errors.Is(err, util.ErrDraftNotFound) {
		return err
	}

	if _, err := b.eventDialog.Current(ctx, chatID); err == nil {
		result, err := b.eventDialog.SkipInterests(ctx, chatID)
		if err != nil {
			return err
		}
		return b.renderEventStepResult(c, result)
	} else if !errors.Is(err, util.ErrDraftNotFound) {
		return err
	}

	if draft, err := b.sessions.GetSearch(ctx, chatID); err == nil {
		return b.finishAdvancedSearch(c, draft)
	} else if !errors.Is(err, util.ErrDraftNotFound) {
		return err
	}
	return nil
}
