package bot

import (
	"fmt"
	"strings"

	"meetup_bot/internal/model"

	tele "gopkg.in/telebot.v3"
)

// Reply keyboard button texts. These are wire-visible: the text router
// matches inbound messages against them verbatim.
const (
	btnLaunch   = "Запустить"
	btnResume   = "▶️ Продолжить регистрацию"
	btnContact  = "Предоставить номер"
	btnBack     = "Назад"
	btnSkip     = "Пропустить"
	btnKeep     = "Оставить без изменений"
	btnCancel   = "отмена"
	btnCancelRu = "Отмена"

	btnProfile = "👤 Мой профиль"
	btnComm    = "💬 Общение"
	btnEvents  = "🎉 Мероприятия"
	btnHelp    = "❓ Помощь"

	btnFriends  = "Друзья"
	btnSearch   = "Поиск друзей"
	btnRequests = "Входящие заявки"

	btnSearchInterests = "🔍 Найти по интересам"
	btnSearchAdvanced  = "🔍 Расширенный поиск"
	btnAny             = "Любой"
	btnGenderMale      = "Муж"
	btnGenderFemale    = "Жен"

	btnFriendsEvents = "Мероприятия друзей"
	btnMyEvents      = "Мои мероприятия"
	btnCreateEvent   = "Создать мероприятие"
	btnCancelCreate  = "❌ Отменить создание"
	btnAddrYes       = "Да, верно"
	btnAddrNo        = "Нет, ввести заново"
	btnInviteYes     = "Да, пригласить"
	btnInviteNo      = "Нет, создать так"

	btnShareLocation = "📱 Поделиться геолокацией"
	btnManualCoords  = "💻 Ручной ввод координат"

	btnAdminUpload       = "📥 Загрузить списки"
	btnAdminUsersReport  = "📊 Отчет по пользователям"
	btnAdminEventsReport = "📅 Отчет по мероприятиям"
)

// Callback uniques. Payloads (chat id, event id, phone) travel in the
// callback data field.
const (
	cbInterest      = "interest"
	cbDone          = "done"
	cbKeepCurrent   = "keep_current"
	cbSkipInterests = "skip_interests"

	cbEditProfile   = "edit_profile"
	cbBackToProfile = "back_to_profile"
	cbEditField     = "edit_field"

	cbAddFriend     = "add_friend"
	cbFriendAccept  = "friend_accept"
	cbFriendDecline = "friend_decline"
	cbRemoveFriend  = "remove_friend"

	cbJoinEvent        = "join_event"
	cbLeaveEvent       = "leave_event"
	cbViewMap          = "view_map"
	cbViewParticipants = "view_parts"
	cbInviteToEvent    = "invite_to_event"
	cbInviteAccept     = "invite_accept"
	cbInviteDecline    = "invite_decline"
	cbRemovePart       = "rm_part"
)

func replyRows(rows ...[]string) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}
	teleRows := make([]tele.Row, 0, len(rows))
	for _, row := range rows {
		btns := make(tele.Row, 0, len(row))
		for _, text := range row {
			btns = append(btns, m.Text(text))
		}
		teleRows = append(teleRows, btns)
	}
	m.Reply(teleRows...)
	return m
}

func startMenu() *tele.ReplyMarkup {
	return replyRows([]string{btnLaunch})
}

func contactMenu() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}
	m.Reply(m.Row(m.Contact(btnContact)))
	return m
}

func resumeMenu() *tele.ReplyMarkup {
	return replyRows([]string{btnResume})
}

func mainMenu() *tele.ReplyMarkup {
	return replyRows(
		[]string{btnProfile},
		[]string{btnComm},
		[]string{btnEvents},
		[]string{btnHelp},
	)
}

func adminMenu() *tele.ReplyMarkup {
	return replyRows(
		[]string{btnAdminUpload},
		[]string{btnAdminUsersReport},
		[]string{btnAdminEventsReport},
	)
}

func communicationMenu() *tele.ReplyMarkup {
	return replyRows(
		[]string{btnFriends},
		[]string{btnSearch},
		[]string{btnRequests},
		[]string{btnBack},
	)
}

func eventsMenu() *tele.ReplyMarkup {
	return replyRows(
		[]string{btnFriendsEvents},
		[]string{btnMyEvents},
		[]string{btnCreateEvent},
		[]string{btnBack},
	)
}

func searchModeMenu() *tele.ReplyMarkup {
	return replyRows(
		[]string{btnSearchInterests},
		[]string{btnSearchAdvanced},
		[]string{btnBack},
	)
}

func genderMenu(editMode bool) *tele.ReplyMarkup {
	rows := [][]string{
		{btnGenderMale, btnGenderFemale},
		{btnSkip},
	}
	if editMode {
		rows = append(rows, []string{btnKeep})
	}
	return replyRows(rows...)
}

func genderSearchMenu() *tele.ReplyMarkup {
	return replyRows(
		[]string{btnGenderMale, btnGenderFemale},
		[]string{btnAny},
	)
}

func regionMenu(regions []string, editMode bool, withAny bool) *tele.ReplyMarkup {
	var rows [][]string
	if withAny {
		rows = append(rows, []string{btnAny})
	}
	if len(regions) == 0 {
		rows = append(rows, []string{btnEmptyRegions})
	}
	for _, region := range regions {
		rows = append(rows, []string{region})
	}
	if editMode {
		rows = append(rows, []string{btnKeep})
	}
	return replyRows(rows...)
}

func skipMenu(editMode bool) *tele.ReplyMarkup {
	rows := [][]string{{btnSkip}}
	if editMode {
		rows = append(rows, []string{btnKeep})
	}
	return replyRows(rows...)
}

func keepMenu() *tele.ReplyMarkup {
	return replyRows([]string{btnKeep})
}

func locationMenu(editMode bool) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}
	rows := []tele.Row{
		m.Row(m.Location(btnShareLocation)),
		m.Row(m.Text(btnManualCoords)),
		m.Row(m.Text(btnSkip)),
	}
	if editMode {
		rows = append(rows, m.Row(m.Text(btnKeep)))
	}
	m.Reply(rows...)
	return m
}

func eventCreationMenu() *tele.ReplyMarkup {
	return replyRows([]string{btnCancelCreate})
}

func descriptionMenu() *tele.ReplyMarkup {
	return replyRows(
		[]string{btnSkip},
		[]string{btnCancelCreate},
	)
}

func confirmAddressMenu() *tele.ReplyMarkup {
	return replyRows(
		[]string{btnAddrYes},
		[]string{btnAddrNo},
	)
}

func inviteQuestionMenu() *tele.ReplyMarkup {
	return replyRows(
		[]string{btnInviteYes},
		[]string{btnInviteNo},
	)
}

// interestsKeyboard renders the multi-select: two toggles per row with a
// check mark on selected entries, then the control row.
func interestsKeyboard(all, selected []string, editMode bool) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}

	if len(all) == 0 {
		m.Inline(m.Row(m.Data("⏭ Интересы еще не добавлены (пропустить)", cbSkipInterests)))
		return m
	}

	selectedSet := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		selectedSet[s] = struct{}{}
	}

	var rows []tele.Row
	var row tele.Row
	for _, name := range all {
		text := name
		if _, ok := selectedSet[name]; ok {
			text = "✅ " + name
		}
		row = append(row, m.Data(text, cbInterest, name))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	control := tele.Row{m.Data("Готово", cbDone)}
	if editMode {
		control = append(control, m.Data(btnKeep, cbKeepCurrent))
	}
	rows = append(rows, control)

	m.Inline(rows...)
	return m
}

func editProfileMenu() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(
		m.Row(m.Data("✏️ Имя", cbEditField, "name"), m.Data("✏️ Фамилия", cbEditField, "surname")),
		m.Row(m.Data("🚻 Пол", cbEditField, "gender"), m.Data("🎂 Возраст", cbEditField, "age")),
		m.Row(m.Data("📍 Регион", cbEditField, "region")),
		m.Row(m.Data("❤️ Интересы", cbEditField, "interests")),
		m.Row(m.Data("📸 Фото", cbEditField, "photo")),
		m.Row(m.Data("🌍 Местоположение", cbEditField, "location")),
		m.Row(m.Data("🔙 Назад в профиль", cbBackToProfile)),
	)
	return m
}

func profileCardMenu() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(m.Data("✏️ Редактировать данные", cbEditProfile)))
	return m
}

func addFriendMenu(chatID int64) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(m.Data("➕ Добавить в друзья", cbAddFriend, fmt.Sprint(chatID))))
	return m
}

func friendRequestMenu(chatID int64) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(
		m.Data("✅ Принять", cbFriendAccept, fmt.Sprint(chatID)),
		m.Data("❌ Отклонить", cbFriendDecline, fmt.Sprint(chatID)),
	))
	return m
}

func friendEntryMenu(chatID int64) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(m.Data("🗑 Удалить из друзей", cbRemoveFriend, fmt.Sprint(chatID))))
	return m
}

// eventCardMenu is the keyboard under a friend's event: map view plus
// join/leave depending on the viewer's participation.
func eventCardMenu(eventID uint, isOrganizer, isParticipant bool) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	rows := []tele.Row{
		m.Row(m.Data("🗺 Смотреть на карте", cbViewMap, fmt.Sprint(eventID))),
	}
	if isParticipant && !isOrganizer {
		rows = append(rows, m.Row(m.Data("❌ Отказаться от участия", cbLeaveEvent, fmt.Sprint(eventID))))
	}
	if !isParticipant {
		rows = append(rows, m.Row(m.Data("✅ Участвовать", cbJoinEvent, fmt.Sprint(eventID))))
	}
	m.Inline(rows...)
	return m
}

func myEventCardMenu(eventID uint, isOrganizer bool) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	rows := []tele.Row{
		m.Row(m.Data("🗺 Смотреть на карте", cbViewMap, fmt.Sprint(eventID))),
		m.Row(m.Data("👥 Смотреть список участников", cbViewParticipants, fmt.Sprint(eventID))),
	}
	if isOrganizer {
		rows = append(rows, m.Row(m.Data("💌 Пригласить друзей", cbInviteToEvent, fmt.Sprint(eventID))))
	} else {
		rows = append(rows, m.Row(m.Data("❌ Отказаться от участия", cbLeaveEvent, fmt.Sprint(eventID))))
	}
	m.Inline(rows...)
	return m
}

func inviteMenu(eventID uint) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(
		m.Row(m.Data("✅ Принять", cbInviteAccept, fmt.Sprint(eventID))),
		m.Row(m.Data("❌ Отклонить", cbInviteDecline, fmt.Sprint(eventID))),
	)
	return m
}

// participantsMenu lists removable participants for the organizer.
func participantsMenu(eventID uint, participants []model.User, organizerPhone string) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, p := range participants {
		if p.Number == organizerPhone {
			continue
		}
		label := strings.TrimSpace(fmt.Sprintf("🚫 %s %s", p.Name, p.Surname))
		rows = append(rows, m.Row(m.Data(label, cbRemovePart, fmt.Sprintf("%d_%s", eventID, p.Number))))
	}
	m.Inline(rows...)
	return m
}
