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
	"meetup_bot/internal/util"
	"meetup_bot/pkg/logger"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// notify delivers a best-effort message to another chat. A failed
// notification is logged and swallowed; it must never fail the operation
// that triggered it.
func (b *Bot) notify(chatID int64, what interface{}, opts ...interface{}) {
	if chatID == 0 {
		return
	}
	if _, err := b.tb.Send(&tele.User{ID: chatID}, what, opts...); err != nil {
		logger.Log.Warn("notification delivery failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) eventCardText(e *model.Event) string {
	address := "не указан"
	if e.Address != nil && *e.Address != "" {
		address = *e.Address
	}
	description := "нет описания"
	if e.Description != nil && *e.Description != "" {
		description = *e.Description
	}

	organizer := util.MaskPhone(e.OrganizerPhone)
	if user, err := b.users.ByPhone(e.OrganizerPhone); err == nil && user != nil {
		if full := strings.TrimSpace(user.Name + " " + user.Surname); full != "" {
			organizer = full
		}
	}

	return fmt.Sprintf(
		"📅 <b>%s</b>\n🕒 %s в %s\n📍 %s\n👤 Организатор: %s\n📋 %s\n🏷 %s",
		html.EscapeString(e.Name),
		html.EscapeString(e.Date),
		html.EscapeString(e.Time),
		html.EscapeString(address),
		html.EscapeString(organizer),
		html.EscapeString(description),
		html.EscapeString(e.Interests),
	)
}

// --- Creation dialog ---

func (b *Bot) startEventCreation(c tele.Context) error {
	user := currentUser(c)
	if user == nil {
		return c.Send("Ошибка: пользователь не найден.")
	}
	if _, err := b.eventDialog.Start(context.Background(), c.Chat().ID, user.Number); err != nil {
		return err
	}
	return c.Send("Введите название мероприятия:", eventCreationMenu())
}

func (b *Bot) cancelEventCreation(c tele.Context) error {
	_ = b.eventDialog.Cancel(context.Background(), c.Chat().ID)
	return c.Send("Создание отменено.", eventsMenu())
}

func (b *Bot) eventDialogText(c tele.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID
	text := strings.TrimSpace(c.Text())

	draft, err := b.eventDialog.Current(ctx, chatID)
	if err != nil {
		return err
	}

	switch draft.Step {
	case session.EventStepConfirmAddr:
		switch text {
		case btnAddrYes:
			result, err := b.eventDialog.ConfirmAddress(ctx, chatID, true)
			if err != nil {
				return err
			}
			if err := c.Send("Адрес сохранен!"); err != nil {
				return err
			}
			return b.renderEventStepResult(c, result)
		case btnAddrNo:
			result, err := b.eventDialog.ConfirmAddress(ctx, chatID, false)
			if err != nil {
				return err
			}
			if err := c.Send("Хорошо, введите адрес еще раз:"); err != nil {
				return err
			}
			return b.renderEventStepResult(c, result)
		}
		return c.Send("Выберите: «Да, верно» или «Нет, ввести заново».", confirmAddressMenu())

	case session.EventStepInvite:
		switch text {
		case btnInviteYes, btnInviteNo:
			return b.finishEventCreation(c, text == btnInviteYes)
		}
		return c.Send("Выберите: «Да, пригласить» или «Нет, создать так».", inviteQuestionMenu())

	case session.EventStepAddress:
		if err := c.Send("🔍 Ищем адрес..."); err != nil {
			return err
		}
	}

	in := service.StepInput{Text: text}
	if text == btnSkip {
		in.Skip = true
	}
	result, err := b.eventDialog.Apply(ctx, chatID, in)
	if err != nil {
		return err
	}
	return b.renderEventStepResult(c, result)
}

func (b *Bot) finishEventCreation(c tele.Context, invite bool) error {
	ctx := context.Background()
	chatID := c.Chat().ID

	draft, err := b.eventDialog.Current(ctx, chatID)
	if err != nil {
		return err
	}
	result, invited, err := b.eventDialog.Finish(ctx, chatID, invite, inviteLimit)
	if err != nil {
		_ = b.eventDialog.Cancel(ctx, chatID)
		return c.Send("Ошибка при создании мероприятия.", eventsMenu())
	}

	for _, u := range invited {
		if u.ChatID == nil {
			continue
		}
		b.notify(*u.ChatID,
			fmt.Sprintf("Вас приглашают на мероприятие «%s»!", draft.Name),
			inviteMenu(result.EventID))
	}

	reply := fmt.Sprintf("Мероприятие «%s» создано! 🎉", draft.Name)
	if invite {
		reply += fmt.Sprintf("\nПриглашено пользователей: %d", len(invited))
	}
	return c.Send(reply, eventsMenu())
}

func (b *Bot) renderEventStepResult(c tele.Context, result *service.EventStepResult) error {
	switch result.Outcome {
	case service.OutcomeInvalid:
		return c.Send(eventStepErrorMessage(result.Reason))
	case service.OutcomeCommitted:
		return nil
	}

	switch result.Draft.Step {
	case session.EventStepDate:
		return c.Send("Введите дату (ДД.ММ.ГГГГ):", eventCreationMenu())
	case session.EventStepTime:
		return c.Send("Введите время (ЧЧ:ММ):", eventCreationMenu())
	case session.EventStepInterests:
		interests, err := b.refs.Interests()
		if err != nil {
			return err
		}
		return c.Send("Выберите интересы (теги) мероприятия:", interestsKeyboard(interests, result.Draft.Interests, false))
	case session.EventStepAddress:
		return c.Send("Введите адрес мероприятия (или отправьте геолокацию 📎):", eventCreationMenu())
	case session.EventStepConfirmAddr:
		if result.Draft.Latitude != nil && result.Draft.Longitude != nil {
			loc := &tele.Location{Lat: float32(*result.Draft.Latitude), Lng: float32(*result.Draft.Longitude)}
			if err := c.Send(loc); err != nil {
				return err
			}
		}
		address := ""
		if result.Draft.Address != nil {
			address = *result.Draft.Address
		}
		return c.Send(fmt.Sprintf("Мы нашли этот адрес:\n📍 %s\n\nЭто верное место?", address), confirmAddressMenu())
	case session.EventStepDescription:
		return c.Send("Введите описание мероприятия (или нажмите «Пропустить»):", descriptionMenu())
	case session.EventStepPhoto:
		return c.Send("Прикрепите фото/документ (или нажмите «Пропустить»):", descriptionMenu())
	case session.EventStepInvite:
		return c.Send("Хотите пригласить пользователей, которым это может быть интересно?", inviteQuestionMenu())
	}
	return nil
}

func eventStepErrorMessage(reason string) string {
	switch reason {
	case service.ReasonBadEventName:
		return "🚫 Введите название текстом."
	case service.ReasonBadDate:
		return "🚫 Неверный формат даты. Используйте ДД.ММ.ГГГГ (например, 25.12.2025)"
	case service.ReasonBadTime:
		return "🚫 Неверный формат времени. Используйте ЧЧ:ММ (например, 18:30)"
	case service.ReasonBadAddress:
		return "❌ Не удалось найти такой адрес.\nПопробуйте уточнить (например, добавьте город) или отправьте геолокацию 📎."
	case service.ReasonNoInterests:
		return "🚫 Укажите хотя бы один интерес."
	case service.ReasonNeedPhoto:
		return "🚫 Отправьте фото или нажмите «Пропустить»."
	}
	return "🚫 Неверный ввод. Попробуйте еще раз."
}

// --- Listings ---

func (b *Bot) showFriendsEvents(c tele.Context) error {
	user := currentUser(c)
	if user == nil {
		return nil
	}

	friendIDs, err := b.friends.FriendIDs(c.Chat().ID)
	if err != nil {
		return err
	}
	listings, err := b.events.FriendsEvents(user.Number, friendIDs)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		return c.Send("Ваши друзья пока не создали мероприятий.", eventsMenu())
	}

	for _, l := range listings {
		card := b.eventCardText(&l.Event)
		kb := eventCardMenu(l.Event.ID, l.Event.OrganizerPhone == user.Number, l.IsParticipant)
		if err := c.Send(card, kb, tele.ModeHTML); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) showMyEvents(c tele.Context) error {
	user := currentUser(c)
	if user == nil {
		return nil
	}

	organized, participating, err := b.events.MyEvents(user.Number)
	if err != nil {
		return err
	}
	if len(organized) == 0 && len(participating) == 0 {
		return c.Send("Вы пока не создали и не участвуете ни в одном мероприятии.", eventsMenu())
	}

	if len(organized) > 0 {
		if err := c.Send("<b>Вы организатор:</b>", tele.ModeHTML); err != nil {
			return err
		}
		for _, e := range organized {
			if err := c.Send(b.eventCardText(&e), myEventCardMenu(e.ID, true), tele.ModeHTML); err != nil {
				return err
			}
		}
	}
	if len(participating) > 0 {
		if err := c.Send("<b>Вы участвуете:</b>", tele.ModeHTML); err != nil {
			return err
		}
		for _, e := range participating {
			if err := c.Send(b.eventCardText(&e), myEventCardMenu(e.ID, false), tele.ModeHTML); err != nil {
				return err
			}
		}
	}
	return nil
}

// --- Card actions ---

func callbackEventID(c tele.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Callback().Data), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (b *Bot) onJoinEvent(c tele.Context) error {
	user := currentUser(c)
	eventID, ok := callbackEventID(c)
	if user == nil || !ok {
		return c.Respond()
	}

	result, err := b.events.Join(eventID, user.Number)
	if err != nil {
		return err
	}
	switch result {
	case repository.JoinOK:
		if err := c.Respond(&tele.CallbackResponse{Text: "Вы успешно записались!", ShowAlert: true}); err != nil {
			return err
		}
		event, _, err := b.events.Get(eventID)
		if err != nil || event == nil {
			return err
		}
		return c.Edit(eventCardMenu(eventID, event.OrganizerPhone == user.Number, true))
	case repository.JoinAlreadyIn:
		return c.Respond(&tele.CallbackResponse{Text: "Вы уже участвуете.", ShowAlert: true})
	default:
		return c.Respond(&tele.CallbackResponse{Text: "Мероприятие не найдено.", ShowAlert: true})
	}
}

func (b *Bot) onLeaveEvent(c tele.Context) error {
	user := currentUser(c)
	eventID, ok := callbackEventID(c)
	if user == nil || !ok {
		return c.Respond()
	}

	result, organizerPhone, err := b.events.Leave(eventID, user.Number)
	if err != nil {
		return err
	}
	switch result {
	case repository.LeaveOK:
		if err := c.Respond(&tele.CallbackResponse{Text: "Вы отказались от участия.", ShowAlert: true}); err != nil {
			return err
		}
		if organizer, err := b.users.ByPhone(organizerPhone); err == nil && organizer != nil && organizer.ChatID != nil {
			name := strings.TrimSpace(user.Name + " " + user.Surname)
			b.notify(*organizer.ChatID,
				fmt.Sprintf("⚠️ Пользователь %s отказался от участия в вашем мероприятии.", name))
		}
		return c.Edit(eventCardMenu(eventID, false, false))
	case repository.LeaveOrganizer:
		return c.Respond(&tele.CallbackResponse{Text: "Организатор не может покинуть своё мероприятие.", ShowAlert: true})
	case repository.LeaveNotParticipating:
		return c.Respond(&tele.CallbackResponse{Text: "Вы не участвуете в этом мероприятии.", ShowAlert: true})
	default:
		return c.Respond(&tele.CallbackResponse{Text: "Мероприятие не найдено.", ShowAlert: true})
	}
}

func (b *Bot) onViewMap(c tele.Context) error {
	eventID, ok := callbackEventID(c)
	if !ok {
		return c.Respond()
	}
	event, _, err := b.events.Get(eventID)
	if err != nil {
		return err
	}
	if event == nil || event.Latitude == nil || event.Longitude == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Координаты не указаны.", ShowAlert: true})
	}
	if err := c.Respond(); err != nil {
		return err
	}
	return c.Send(&tele.Location{Lat: float32(*event.Latitude), Lng: float32(*event.Longitude)})
}

func (b *Bot) onViewParticipants(c tele.Context) error {
	user := currentUser(c)
	eventID, ok := callbackEventID(c)
	if user == nil || !ok {
		return c.Respond()
	}

	event, _, err := b.events.Get(eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Мероприятие не найдено.", ShowAlert: true})
	}

	participants, err := b.events.ListParticipants(eventID)
	if err != nil {
		return err
	}
	if len(participants) == 0 {
		return c.Respond(&tele.CallbackResponse{Text: "Участников пока нет.", ShowAlert: true})
	}

	var sb strings.Builder
	sb.WriteString("👥 <b>Участники:</b>\n\n")
	for _, p := range participants {
		fmt.Fprintf(&sb, "• %s %s", html.EscapeString(p.Name), html.EscapeString(p.Surname))
		if p.Age != nil {
			fmt.Fprintf(&sb, " (%d лет)", *p.Age)
		}
		sb.WriteString("\n")
	}
	if err := c.Respond(); err != nil {
		return err
	}

	// The organizer also gets removal buttons.
	if event.OrganizerPhone == user.Number {
		return c.Send(sb.String(), participantsMenu(eventID, participants, event.OrganizerPhone), tele.ModeHTML)
	}
	return c.Send(sb.String(), tele.ModeHTML)
}

func (b *Bot) onInviteToEvent(c tele.Context) error {
	user := currentUser(c)
	eventID, ok := callbackEventID(c)
	if user == nil || !ok {
		return c.Respond()
	}

	event, _, err := b.events.Get(eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Мероприятие не найдено."})
	}
	if event.OrganizerPhone != user.Number {
		return c.Respond(&tele.CallbackResponse{Text: "Приглашать может только организатор.", ShowAlert: true})
	}

	invited, err := b.events.InviteMatching(eventID, inviteLimit)
	if err != nil {
		return err
	}
	if len(invited) == 0 {
		return c.Respond(&tele.CallbackResponse{Text: "Подходящих пользователей не найдено.", ShowAlert: true})
	}

	for _, u := range invited {
		if u.ChatID == nil {
			continue
		}
		b.notify(*u.ChatID,
			fmt.Sprintf("Вас приглашают на мероприятие «%s»!", event.Name),
			inviteMenu(eventID))
	}
	return c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf("Приглашения отправлены: %d", len(invited)), ShowAlert: true})
}

func (b *Bot) onInviteAccept(c tele.Context) error {
	user := currentUser(c)
	eventID, ok := callbackEventID(c)
	if user == nil || !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка пользователя.", ShowAlert: true})
	}

	result, err := b.events.Join(eventID, user.Number)
	if err != nil {
		return err
	}
	switch result {
	case repository.JoinOK:
		if err := c.Respond(); err != nil {
			return err
		}
		if err := c.Edit(c.Message().Text+"\n\n✅ Вы приняли приглашение!", tele.ModeHTML); err != nil {
			return err
		}
		event, organizerChat, err := b.events.Get(eventID)
		if err != nil || event == nil {
			return err
		}
		if organizerChat != nil && *organizerChat != c.Chat().ID {
			name := strings.TrimSpace(user.Name + " " + user.Surname)
			b.notify(*organizerChat,
				fmt.Sprintf("🎉 %s принял(а) ваше приглашение на мероприятие «%s»!", name, event.Name))
		}
		return nil
	case repository.JoinAlreadyIn:
		if err := c.Respond(); err != nil {
			return err
		}
		return c.Edit(c.Message().Text+"\n\nℹ️ Вы уже участвуете.", tele.ModeHTML)
	default:
		return c.Respond(&tele.CallbackResponse{Text: "Мероприятие не найдено.", ShowAlert: true})
	}
}

func (b *Bot) onInviteDecline(c tele.Context) error {
	user := currentUser(c)
	eventID, ok := callbackEventID(c)
	if user == nil || !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка пользователя.", ShowAlert: true})
	}

	if err := b.events.DeclineInvite(eventID, user.Number); err != nil {
		return err
	}
	if err := c.Respond(); err != nil {
		return err
	}
	if err := c.Edit(c.Message().Text+"\n\n❌ Вы отклонили приглашение.", tele.ModeHTML); err != nil {
		return err
	}

	event, organizerChat, err := b.events.Get(eventID)
	if err != nil || event == nil {
		return err
	}
	if organizerChat != nil && *organizerChat != c.Chat().ID {
		name := strings.TrimSpace(user.Name + " " + user.Surname)
		b.notify(*organizerChat,
			fmt.Sprintf("😔 %s отклонил(а) ваше приглашение на мероприятие «%s».", name, event.Name))
	}
	return nil
}

// onRemoveParticipant handles the organizer's removal buttons. Payload is
// "<event id>_<phone>".
func (b *Bot) onRemoveParticipant(c tele.Context) error {
	user := currentUser(c)
	if user == nil {
		return c.Respond()
	}
	parts := strings.SplitN(c.Callback().Data, "_", 2)
	if len(parts) != 2 {
		return c.Respond()
	}
	id, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return c.Respond()
	}
	eventID, phone := uint(id), parts[1]

	event, _, err := b.events.Get(eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Мероприятие не найдено.", ShowAlert: true})
	}
	if event.OrganizerPhone != user.Number {
		return c.Respond(&tele.CallbackResponse{Text: "Удалять участников может только организатор.", ShowAlert: true})
	}

	removed, removedChat, err := b.events.RemoveParticipant(eventID, phone)
	if err != nil {
		return err
	}
	if !removed {
		return c.Respond(&tele.CallbackResponse{Text: "Участник не найден.", ShowAlert: true})
	}

	if removedChat != nil {
		b.notify(*removedChat,
			fmt.Sprintf("Организатор исключил вас из мероприятия «%s».", event.Name))
	}

	participants, err := b.events.ListParticipants(eventID)
	if err != nil {
		return err
	}
	if err := c.Respond(&tele.CallbackResponse{Text: "Участник удален."}); err != nil {
		return err
	}
	return c.Edit(participantsMenu(eventID, participants, event.OrganizerPhone))
}
