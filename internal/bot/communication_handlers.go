package bot

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"meetup_bot/internal/model"
	"meetup_bot/internal/repository"
	"meetup_bot/internal/service"
	"meetup_bot/internal/session"

	tele "gopkg.in/telebot.v3"
)

func userCardText(u *model.User) string {
	age := "?"
	if u.Age != nil {
		age = fmt.Sprint(*u.Age)
	}
	region := u.Region
	if region == "" {
		region = "Неизвестно"
	}
	return fmt.Sprintf(
		"👤 <b>%s %s</b>\n🎂 Возраст: %s\n📍 Регион: %s\n❤️ Интересы: %s",
		html.EscapeString(orDash(u.Name)),
		html.EscapeString(u.Surname),
		age,
		html.EscapeString(region),
		html.EscapeString(strings.Join(u.InterestList(), ", ")),
	)
}

// sendUserCard renders a profile with its photo when one is set.
func (b *Bot) sendUserCard(c tele.Context, u *model.User, kb *tele.ReplyMarkup) error {
	text := userCardText(u)
	if u.PhotoFileID != nil {
		photo := &tele.Photo{File: tele.File{FileID: *u.PhotoFileID}, Caption: text}
		if err := c.Send(photo, kb, tele.ModeHTML); err == nil {
			return nil
		}
	}
	if kb != nil {
		return c.Send(text, kb, tele.ModeHTML)
	}
	return c.Send(text, tele.ModeHTML)
}

// --- Friends list ---

func (b *Bot) showFriends(c tele.Context) error {
	user := currentUser(c)
	if user == nil {
		return nil
	}

	friends, err := b.friends.FriendsOf(c.Chat().ID)
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		return c.Send("У вас пока нет друзей.")
	}

	if err := c.Send("<b>Ваши друзья:</b>", tele.ModeHTML); err != nil {
		return err
	}
	for _, friend := range friends {
		var kb *tele.ReplyMarkup
		if friend.ChatID != nil {
			kb = friendEntryMenu(*friend.ChatID)
		}
		if err := b.sendUserCard(c, &friend, kb); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) onRemoveFriend(c tele.Context) error {
	user := currentUser(c)
	friendID, err := strconv.ParseInt(c.Callback().Data, 10, 64)
	if user == nil || err != nil {
		return c.Respond()
	}

	if err := b.friends.Unfriend(c.Chat().ID, friendID); err != nil {
		return err
	}
	if err := c.Respond(&tele.CallbackResponse{Text: "Удалено из друзей."}); err != nil {
		return err
	}
	return c.Delete()
}

// --- Incoming requests ---

func (b *Bot) showIncomingRequests(c tele.Context) error {
	user := currentUser(c)
	if user == nil {
		return nil
	}

	requests, err := b.friends.IncomingRequests(c.Chat().ID)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		return c.Send("Входящих заявок нет.")
	}

	if err := c.Send(fmt.Sprintf("Входящих заявок: %d", len(requests))); err != nil {
		return err
	}
	for _, requester := range requests {
		if requester.ChatID == nil {
			continue
		}
		if err := b.sendUserCard(c, &requester, friendRequestMenu(*requester.ChatID)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) onFriendAccept(c tele.Context) error {
	user := currentUser(c)
	requesterID, err := strconv.ParseInt(c.Callback().Data, 10, 64)
	if user == nil || err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при добавлении."})
	}

	result, err := b.friends.Accept(c.Chat().ID, requesterID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при добавлении."})
	}

	_ = c.Edit(&tele.ReplyMarkup{})
	if err := c.Respond(&tele.CallbackResponse{Text: "Заявка принята! ✅"}); err != nil {
		return err
	}
	if err := c.Send("Теперь вы друзья!"); err != nil {
		return err
	}

	name := strings.TrimSpace(user.Name + " " + user.Surname)
	b.notify(requesterID, fmt.Sprintf("👋 %s принял(а) вашу заявку в друзья!", name))

	// Mutual pending requests resolve together; retract the notification
	// tied to the reverse request if we know its message.
	if result.ReverseResolved && result.ReverseMessageID != nil {
		msg := tele.StoredMessage{
			MessageID: fmt.Sprint(*result.ReverseMessageID),
			ChatID:    c.Chat().ID,
		}
		_, _ = b.tb.EditReplyMarkup(&msg, nil)
	}
	return nil
}

func (b *Bot) onFriendDecline(c tele.Context) error {
	user := currentUser(c)
	requesterID, err := strconv.ParseInt(c.Callback().Data, 10, 64)
	if user == nil || err != nil {
		return c.Respond()
	}

	if err := b.friends.Decline(c.Chat().ID, requesterID); err != nil {
		return err
	}
	_ = c.Edit(&tele.ReplyMarkup{})
	return c.Respond(&tele.CallbackResponse{Text: "Заявка отклонена ❌"})
}

func (b *Bot) onAddFriend(c tele.Context) error {
	user := currentUser(c)
	targetID, err := strconv.ParseInt(c.Callback().Data, 10, 64)
	if user == nil || err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при отправке.", ShowAlert: true})
	}

	result, err := b.friends.SendRequest(c.Chat().ID, targetID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при отправке.", ShowAlert: true})
	}

	switch result {
	case repository.SendRequestOK:
		if err := c.Respond(&tele.CallbackResponse{Text: "Заявка отправлена! 📨", ShowAlert: true}); err != nil {
			return err
		}
		name := strings.TrimSpace(user.Name + " " + user.Surname)
		msg, err := b.tb.Send(&tele.User{ID: targetID},
			fmt.Sprintf("👋 Вам пришла заявка в друзья от %s!", name))
		if err == nil && msg != nil {
			// Remember the notification so mutual acceptance can retract it.
			_ = b.friends.BindRequestMessage(c.Chat().ID, targetID, msg.ID)
		}
		return nil
	case repository.SendRequestAlreadyFriends:
		return c.Respond(&tele.CallbackResponse{Text: "Вы уже друзья!", ShowAlert: true})
	case repository.SendRequestAlreadySent:
		return c.Respond(&tele.CallbackResponse{Text: "Заявка уже была отправлена.", ShowAlert: true})
	default:
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при отправке.", ShowAlert: true})
	}
}

// --- Search ---

func (b *Bot) searchByInterests(c tele.Context) error {
	user := currentUser(c)
	if user == nil {
		return nil
	}
	if len(user.InterestList()) == 0 {
		return c.Send("В вашем профиле не указаны интересы.")
	}

	candidates, err := b.search.FindCandidates(user, service.SearchFilters{
		Interests: user.InterestList(),
	}, searchResultLimit)
	if err != nil {
		return err
	}
	return b.showSearchResults(c, candidates)
}

func (b *Bot) startAdvancedSearch(c tele.Context) error {
	ctx := context.Background()
	draft := &session.SearchDraft{Step: session.SearchStepGender}
	if err := b.sessions.PutSearch(ctx, c.Chat().ID, draft); err != nil {
		return err
	}
	return c.Send("Кого ищем? (Пол)", genderSearchMenu())
}

func (b *Bot) cancelSearch(ctx context.Context, chatID int64) error {
	return b.sessions.DeleteSearch(ctx, chatID)
}

func (b *Bot) searchDialogText(c tele.Context, draft *session.SearchDraft) error {
	ctx := context.Background()
	chatID := c.Chat().ID
	text := strings.TrimSpace(c.Text())

	switch draft.Step {
	case session.SearchStepGender:
		if text != btnAny {
			if text != btnGenderMale && text != btnGenderFemale {
				return c.Send("Выберите пол кнопкой или нажмите «Любой».", genderSearchMenu())
			}
			draft.Gender = text
		}
		draft.Step = session.SearchStepRegion
		if err := b.sessions.PutSearch(ctx, chatID, draft); err != nil {
			return err
		}
		regions, err := b.refs.Regions()
		if err != nil {
			return err
		}
		return c.Send("В каком регионе?", regionMenu(regions, false, true))

	case session.SearchStepRegion:
		if text != btnAny && text != btnEmptyRegions {
			draft.Region = text
		}
		draft.Step = session.SearchStepAge
		if err := b.sessions.PutSearch(ctx, chatID, draft); err != nil {
			return err
		}
		return c.Send("Возраст (диапазон, например 20-30, или «Любой»)", removeKeyboard())

	case session.SearchStepAge:
		if !strings.EqualFold(text, btnAny) {
			draft.AgeRange = text
		}
		draft.Step = session.SearchStepInterests
		if err := b.sessions.PutSearch(ctx, chatID, draft); err != nil {
			return err
		}
		interests, err := b.refs.Interests()
		if err != nil {
			return err
		}
		return c.Send("Интересы (выберите или нажмите Готово):", interestsKeyboard(interests, nil, false))
	}
	return nil
}

// finishAdvancedSearch runs the accumulated criteria and clears the draft.
func (b *Bot) finishAdvancedSearch(c tele.Context, draft *session.SearchDraft) error {
	user := currentUser(c)
	if user == nil {
		return nil
	}
	if err := b.sessions.DeleteSearch(context.Background(), c.Chat().ID); err != nil {
		return err
	}

	candidates, err := b.search.FindCandidates(user, service.SearchFilters{
		Gender:    draft.Gender,
		Region:    draft.Region,
		AgeRange:  draft.AgeRange,
		Interests: draft.Selected,
	}, searchResultLimit)
	if err != nil {
		return err
	}
	return b.showSearchResults(c, candidates)
}

func (b *Bot) showSearchResults(c tele.Context, candidates []service.Candidate) error {
	if len(candidates) == 0 {
		return c.Send("Никого не найдено 😔", mainMenu())
	}

	if err := c.Send(fmt.Sprintf("Найдено: %d", len(candidates))); err != nil {
		return err
	}
	for _, candidate := range candidates {
		u := candidate.User
		if u.ChatID == nil {
			continue
		}

		isFriend, err := b.friends.AreFriends(c.Chat().ID, *u.ChatID)
		if err != nil {
			return err
		}
		if isFriend {
			if err := c.Send(userCardText(&u)+"\n\n✅ Уже в друзьях", tele.ModeHTML); err != nil {
				return err
			}
			continue
		}
		if err := b.sendUserCard(c, &u, addFriendMenu(*u.ChatID)); err != nil {
			return err
		}
	}
	return nil
}
