package bot

import (
	"context"
	"fmt"
	"html"
	"strings"

	"meetup_bot/internal/service"
	"meetup_bot/internal/session"
	"meetup_bot/internal/util"

	tele "gopkg.in/telebot.v3"
)

const btnEmptyRegions = "⏭ Регионы еще не добавлены (пропустить)"

func removeKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

func (b *Bot) onStart(c tele.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID
	_ = b.profiles.Cancel(ctx, chatID)
	_ = b.eventDialog.Cancel(ctx, chatID)
	_ = b.sessions.DeleteSearch(ctx, chatID)

	user := currentUser(c)
	if user == nil {
		welcome := "Что может этот бот:\n\n" +
			"• Организовывать мероприятия\n" +
			"• Искать участников\n" +
			"• Общаться по интересам\n\n" +
			"Нажмите «Запустить»"
		return c.Send(welcome, startMenu())
	}

	if b.users.IsAdmin(user) {
		return c.Send("Добро пожаловать в админ-панель! 👑", adminMenu())
	}
	if user.Registered {
		name := user.Name
		if name == "" {
			name = "пользователь"
		}
		return c.Send(fmt.Sprintf("С возвращением, %s! 👋", name), mainMenu())
	}
	return c.Send("Ваша регистрация не завершена. Продолжим?", resumeMenu())
}

func (b *Bot) onLaunch(c tele.Context) error {
	user := currentUser(c)
	if user == nil {
		return c.Send("Предоставьте номер телефона для регистрации / авторизации", contactMenu())
	}
	if b.users.IsAdmin(user) {
		return c.Send("Добро пожаловать в админ-панель! 👑", adminMenu())
	}
	if user.Registered {
		name := user.Name
		if name == "" {
			name = "пользователь"
		}
		return c.Send(fmt.Sprintf("С возвращением, %s! 👋", name), mainMenu())
	}
	return c.Send("Ваша регистрация не завершена. Продолжим?", resumeMenu())
}

func (b *Bot) onContact(c tele.Context) error {
	ctx := context.Background()
	contact := c.Message().Contact
	if contact == nil {
		return nil
	}
	chatID := c.Chat().ID

	user := currentUser(c)
	if user != nil {
		if b.users.IsAdmin(user) {
			return c.Send("Добро пожаловать в админ-панель! 👑", adminMenu())
		}
		if user.Registered {
			name := user.Name
			if name == "" {
				name = "пользователь"
			}
			return c.Send(fmt.Sprintf("С возвращением, %s!", name), mainMenu())
		}
		if err := c.Send("Давайте завершим регистрацию."); err != nil {
			return err
		}
		return b.beginRegistration(ctx, c, user.Number)
	}

	created, err := b.users.RegisterContact(contact.PhoneNumber, chatID)
	if err != nil {
		return err
	}
	if created {
		if err := c.Send("Номер добавлен. Заполняем профиль."); err != nil {
			return err
		}
	}

	registered, err := b.users.ByChatID(chatID)
	if err != nil {
		return err
	}
	if registered == nil {
		return c.Send("Ошибка. Пользователь не найден.")
	}
	if b.users.IsAdmin(registered) {
		return c.Send("Добро пожаловать в админ-панель! 👑", adminMenu())
	}
	return b.beginRegistration(ctx, c, registered.Number)
}

func (b *Bot) onResume(c tele.Context) error {
	user := currentUser(c)
	if user == nil {
		return c.Send("Ошибка. Пользователь не найден.")
	}
	if user.Registered {
		return c.Send("Регистрация уже завершена ✅", mainMenu())
	}
	if err := c.Send("Продолжаем регистрацию."); err != nil {
		return err
	}
	return b.beginRegistration(context.Background(), c, user.Number)
}

func (b *Bot) beginRegistration(ctx context.Context, c tele.Context, phone string) error {
	if _, err := b.profiles.Start(ctx, c.Chat().ID, phone, session.ModeRegister); err != nil {
		return err
	}
	return c.Send("Введите ваше Имя:", removeKeyboard())
}

// profileDialogText feeds a text message into the open profile dialog.
func (b *Bot) profileDialogText(c tele.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID
	text := strings.TrimSpace(c.Text())

	draft, err := b.profiles.Current(ctx, chatID)
	if err != nil {
		return err
	}

	if draft.Step == session.StepLocation && text == btnManualCoords {
		return c.Send("Введите координаты (широта, долгота), например: 55.7558, 37.6173")
	}
	if draft.Step == session.StepRegion && text == btnEmptyRegions {
		result, err := b.profiles.Apply(ctx, chatID, service.StepInput{Skip: true})
		if err != nil {
			return err
		}
		return b.renderStepResult(c, result)
	}

	in := service.StepInput{Text: text}
	switch text {
	case btnKeep:
		in.Keep = true
	case btnSkip:
		in.Skip = true
	}

	result, err := b.profiles.Apply(ctx, chatID, in)
	if err != nil {
		return err
	}
	return b.renderStepResult(c, result)
}

func (b *Bot) onPhoto(c tele.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID
	photo := c.Message().Photo
	if photo == nil {
		return nil
	}
	fileID := photo.FileID
	in := service.StepInput{PhotoFileID: &fileID}

	if _, err := b.profiles.Current(ctx, chatID); err == nil {
		result, err := b.profiles.Apply(ctx, chatID, in)
		if err != nil {
			return err
		}
		return b.renderStepResult(c, result)
	}
	if _, err := b.eventDialog.Current(ctx, chatID); err == nil {
		result, err := b.eventDialog.Apply(ctx, chatID, in)
		if err != nil {
			return err
		}
		return b.renderEventStepResult(c, result)
	}
	return nil
}

func (b *Bot) onDocument(c tele.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID
	doc := c.Message().Document
	if doc == nil {
		return nil
	}

	user := currentUser(c)
	if b.users.IsAdmin(user) && strings.HasSuffix(strings.ToLower(doc.FileName), ".xlsx") {
		return b.adminProcessUpload(c, doc)
	}

	if doc.MIME == "" || !strings.HasPrefix(doc.MIME, "image/") {
		return c.Send("🚫 Файл не является изображением.")
	}
	fileID := doc.FileID
	in := service.StepInput{DocumentFileID: &fileID}

	if _, err := b.profiles.Current(ctx, chatID); err == nil {
		result, err := b.profiles.Apply(ctx, chatID, in)
		if err != nil {
			return err
		}
		return b.renderStepResult(c, result)
	}
	if _, err := b.eventDialog.Current(ctx, chatID); err == nil {
		result, err := b.eventDialog.Apply(ctx, chatID, in)
		if err != nil {
			return err
		}
		return b.renderEventStepResult(c, result)
	}
	return nil
}

func (b *Bot) onLocation(c tele.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID
	loc := c.Message().Location
	if loc == nil {
		return nil
	}
	lat := float64(loc.Lat)
	lon := float64(loc.Lng)
	in := service.StepInput{Latitude: &lat, Longitude: &lon}

	if _, err := b.profiles.Current(ctx, chatID); err == nil {
		result, err := b.profiles.Apply(ctx, chatID, in)
		if err != nil {
			return err
		}
		return b.renderStepResult(c, result)
	}
	if _, err := b.eventDialog.Current(ctx, chatID); err == nil {
		result, err := b.eventDialog.Apply(ctx, chatID, in)
		if err != nil {
			return err
		}
		return b.renderEventStepResult(c, result)
	}
	return nil
}

// renderStepResult replies to a profile dialog transition: an error message
// on invalid input, the next prompt on advance, the main menu on commit.
func (b *Bot) renderStepResult(c tele.Context, result *service.StepResult) error {
	switch result.Outcome {
	case service.OutcomeInvalid:
		return c.Send(stepErrorMessage(result.Reason))
	case service.OutcomeCommitted:
		if result.Draft.Mode == session.ModeSingleEdit {
			if err := c.Send("Готово!", mainMenu()); err != nil {
				return err
			}
			return c.Send("Данные обновлены!", editProfileMenu())
		}
		return c.Send("Регистрация завершена! 🎉", mainMenu())
	default:
		return b.promptStep(c, result.Draft)
	}
}

func stepErrorMessage(reason string) string {
	switch reason {
	case service.ReasonBadName:
		return "🚫 Не похоже на имя. Только буквы. Попробуйте еще раз."
	case service.ReasonBadGender:
		return "🚫 Выберите пол кнопкой или нажмите «Пропустить»."
	case service.ReasonBadAge:
		return fmt.Sprintf("🚫 Введите возраст числом от %d до %d.", util.MinAge, util.MaxAge)
	case service.ReasonUnknownRegion:
		return "🚫 Выберите регион из списка."
	case service.ReasonNoInterests:
		return "🚫 Выберите хотя бы один интерес и нажмите «Готово»."
	case service.ReasonNeedPhoto:
		return "🚫 Отправьте фото (как изображение или файл JPG/PNG) или нажмите «Пропустить»"
	case service.ReasonBadLocation:
		return "🚫 Не удалось распознать координаты. Формат: широта, долгота (например: 55.7558, 37.6173)"
	}
	return "🚫 Неверный ввод. Попробуйте еще раз."
}

// promptStep sends the question for the draft's current step. Edit modes
// show the current value and a keep button.
func (b *Bot) promptStep(c tele.Context, draft *session.Draft) error {
	edit := draft.Mode == session.ModeEditAll

	switch draft.Step {
	case session.StepName:
		if edit {
			return c.Send(fmt.Sprintf("Текущее имя: %s\nВведите новое имя или оставьте без изменений:", orDash(draft.Profile.Name)), keepMenu())
		}
		return c.Send("Введите ваше Имя:", removeKeyboard())
	case session.StepSurname:
		if edit {
			return c.Send(fmt.Sprintf("Текущая фамилия: %s\nВведите новую фамилию или оставьте без изменений:", orDash(draft.Profile.Surname)), keepMenu())
		}
		return c.Send("Введите вашу фамилию:")
	case session.StepGender:
		return c.Send("Укажите ваш пол:", genderMenu(edit))
	case session.StepAge:
		if edit {
			current := "не указан"
			if draft.Profile.Age != nil {
				current = fmt.Sprint(*draft.Profile.Age)
			}
			return c.Send(fmt.Sprintf("Текущий возраст: %s\nВведите новый возраст:", current), keepMenu())
		}
		return c.Send("Введите ваш возраст:")
	case session.StepRegion:
		regions, err := b.refs.Regions()
		if err != nil {
			return err
		}
		return c.Send("Выберите ваш регион:", regionMenu(regions, edit, false))
	case session.StepInterests:
		interests, err := b.refs.Interests()
		if err != nil {
			return err
		}
		return c.Send("Выберите ваши интересы:", interestsKeyboard(interests, draft.Selected, edit))
	case session.StepPhoto:
		return c.Send("Прикрепите фото (или нажмите «Пропустить»):", skipMenu(edit))
	case session.StepLocation:
		return c.Send(
			"Укажите ваше местоположение:\n\n"+
				"📱 На телефоне — нажмите «Поделиться геолокацией». "+
				"Для этого на устройстве должна быть включена геолокация.\n"+
				"💻 На ПК — выберите «Ручной ввод» и введите координаты вручную "+
				"(широта, долгота, например: 55.7558, 37.6173).\n"+
				"Можно также нажать «Пропустить», если не хотите указывать местоположение.",
			locationMenu(edit))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "не указано"
	}
	return s
}

// showProfile renders the sender's profile card.
func (b *Bot) showProfile(c tele.Context) error {
	user := currentUser(c)
	if user == nil {
		return c.Send("Сначала зарегистрируйтесь.")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 <b>%s %s</b>\n", html.EscapeString(orDash(user.Name)), html.EscapeString(user.Surname))
	if user.Age != nil {
		fmt.Fprintf(&sb, "🎂 Возраст: %d\n", *user.Age)
	}
	if user.Gender != nil {
		fmt.Fprintf(&sb, "🚻 Пол: %s\n", html.EscapeString(*user.Gender))
	}
	if user.Region != "" {
		fmt.Fprintf(&sb, "📍 Регион: %s\n", html.EscapeString(user.Region))
	}
	if interests := strings.Join(user.InterestList(), ", "); interests != "" {
		fmt.Fprintf(&sb, "❤️ Интересы: %s\n", html.EscapeString(interests))
	}
	text := sb.String()

	if user.PhotoFileID != nil {
		photo := &tele.Photo{File: tele.File{FileID: *user.PhotoFileID}, Caption: text}
		return c.Send(photo, profileCardMenu(), tele.ModeHTML)
	}
	if user.DocumentFileID != nil {
		doc := &tele.Document{File: tele.File{FileID: *user.DocumentFileID}, Caption: text}
		return c.Send(doc, profileCardMenu(), tele.ModeHTML)
	}
	return c.Send(text, profileCardMenu(), tele.ModeHTML)
}

func (b *Bot) onEditProfile(c tele.Context) error {
	defer func() { _ = c.Respond() }()
	user := currentUser(c)
	if user == nil {
		return c.Send("Ошибка. Пользователь не найден.")
	}
	return c.Send("Что вы хотите изменить?", editProfileMenu())
}

func (b *Bot) onBackToProfile(c tele.Context) error {
	defer func() { _ = c.Respond() }()
	_ = b.profiles.Cancel(context.Background(), c.Chat().ID)
	_ = c.Delete()
	return b.showProfile(c)
}

// onEditField opens a single-field edit dialog for the chosen step.
func (b *Bot) onEditField(c tele.Context) error {
	defer func() { _ = c.Respond() }()
	ctx := context.Background()
	user := currentUser(c)
	if user == nil {
		return c.Send("Ошибка. Пользователь не найден.")
	}

	field := c.Callback().Data
	step, ok := map[string]session.Step{
		"name":      session.StepName,
		"surname":   session.StepSurname,
		"gender":    session.StepGender,
		"age":       session.StepAge,
		"region":    session.StepRegion,
		"interests": session.StepInterests,
		"photo":     session.StepPhoto,
		"location":  session.StepLocation,
	}[field]
	if !ok {
		return nil
	}

	draft, err := b.profiles.StartSingleEdit(ctx, c.Chat().ID, user.Number, step)
	if err != nil {
		return err
	}

	switch step {
	case session.StepName:
		return c.Send(fmt.Sprintf("Текущее имя: %s\nВведите новое имя:", orDash(draft.Profile.Name)), keepMenu())
	case session.StepSurname:
		return c.Send(fmt.Sprintf("Текущая фамилия: %s\nВведите новую фамилию:", orDash(draft.Profile.Surname)), keepMenu())
	case session.StepGender:
		current := "не выбран"
		if draft.Profile.Gender != nil {
			current = *draft.Profile.Gender
		}
		return c.Send(fmt.Sprintf("Текущий пол: %s\nВыберите пол:", current), genderMenu(true))
	case session.StepAge:
		current := "не указан"
		if draft.Profile.Age != nil {
			current = fmt.Sprint(*draft.Profile.Age)
		}
		return c.Send(fmt.Sprintf("Текущий возраст: %s\nВведите возраст:", current), keepMenu())
	case session.StepRegion:
		regions, err := b.refs.Regions()
		if err != nil {
			return err
		}
		return c.Send(fmt.Sprintf("Текущий регион: %s\nВыберите регион:", orDash(draft.Profile.Region)), regionMenu(regions, true, false))
	case session.StepInterests:
		interests, err := b.refs.Interests()
		if err != nil {
			return err
		}
		current := "не указаны"
		if len(draft.Selected) > 0 {
			current = strings.Join(draft.Selected, ", ")
		}
		return c.Send(fmt.Sprintf("Текущие интересы: %s\nВыберите новые интересы:", current),
			interestsKeyboard(interests, draft.Selected, true))
	case session.StepPhoto:
		current := "нет"
		if draft.Profile.PhotoFileID != nil || draft.Profile.DocumentFileID != nil {
			current = "есть"
		}
		return c.Send(fmt.Sprintf("Текущее фото: %s\nЗагрузите новое фото:", current), skipMenu(true))
	case session.StepLocation:
		current := "нет"
		if draft.Profile.LocationLat != nil {
			current = "есть"
		}
		return c.Send(fmt.Sprintf("Текущее местоположение: %s\nОтправьте новое местоположение:", current), locationMenu(true))
	}
	return nil
}

func (b *Bot) showHelp(c tele.Context) error {
	helpText := "📖 <b>Инструкция по работе с ботом</b>\n\n" +
		"<b>👤 Мой профиль</b>\n" +
		"Просмотр и редактирование ваших данных: имя, фамилия, возраст, пол, регион, интересы, фото.\n\n" +
		"<b>💬 Общение</b>\n" +
		"• <b>Друзья</b> — список ваших друзей\n" +
		"• <b>Поиск друзей</b> — найдите людей по интересам, региону, возрасту и полу\n\n" +
		"<b>🎉 Мероприятия</b>\n" +
		"• <b>Мероприятия друзей</b> — смотрите события от друзей и участвуйте в них\n" +
		"• <b>Мои мероприятия</b> — ваши созданные события и те, в которых вы участвуете\n" +
		"• <b>Создать мероприятие</b> — организуйте своё событие и пригласите друзей\n\n" +
		"💡 Заполните профиль полностью для лучшего поиска друзей.\n" +
		"Если возникли вопросы, используйте команду /start для перезапуска бота."
	return c.Send(helpText, tele.ModeHTML)
}
