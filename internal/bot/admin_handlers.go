package bot

import (
	"errors"
	"fmt"
	"time"

	"meetup_bot/internal/util"

	tele "gopkg.in/telebot.v3"
)

// Admin actions are gated on the configured phone allow-list, not the role
// column; a hot config reload can grant or revoke access without restarts.

func (b *Bot) adminAskUpload(c tele.Context) error {
	if !b.users.IsAdmin(currentUser(c)) {
		return nil
	}
	return c.Send(
		"Отправьте Excel-файл (.xlsx) с двумя листами:\n" +
			"1. Interests (список интересов)\n" +
			"2. Regions (список регионов)")
}

// adminProcessUpload imports the reference vocabularies from an uploaded
// workbook. The file streams straight from Telegram into the importer.
func (b *Bot) adminProcessUpload(c tele.Context, doc *tele.Document) error {
	if !b.users.IsAdmin(currentUser(c)) {
		return nil
	}

	rc, err := b.tb.File(&doc.File)
	if err != nil {
		return c.Send("Не удалось загрузить файл. Попробуйте еще раз.")
	}
	defer rc.Close()

	interests, regions, err := b.refs.ImportWorkbook(rc)
	if errors.Is(err, util.ErrEmptyWorkbook) {
		return c.Send("В файле не найдено ни интересов, ни регионов.")
	}
	if err != nil {
		return c.Send(fmt.Sprintf("Ошибка при обработке файла: %v", err))
	}

	return c.Send(
		fmt.Sprintf("✅ Обновлено:\nИнтересов: %d\nРегионов: %d", interests, regions),
		adminMenu())
}

func (b *Bot) adminUsersReport(c tele.Context) error {
	if !b.users.IsAdmin(currentUser(c)) {
		return nil
	}

	report, err := b.reports.UsersReport()
	if err != nil {
		return c.Send(fmt.Sprintf("Ошибка генерации отчета: %v", err))
	}
	buf, err := report.WriteToBuffer()
	if err != nil {
		return err
	}

	doc := &tele.Document{
		File:     tele.FromReader(buf),
		FileName: fmt.Sprintf("users_report_%s.xlsx", time.Now().Format("02.01.2006")),
		Caption:  "Отчет по пользователям",
	}
	return c.Send(doc)
}

func (b *Bot) adminEventsReport(c tele.Context) error {
	if !b.users.IsAdmin(currentUser(c)) {
		return nil
	}

	report, err := b.reports.EventsReport()
	if err != nil {
		return c.Send(fmt.Sprintf("Ошибка генерации отчета: %v", err))
	}
	buf, err := report.WriteToBuffer()
	if err != nil {
		return err
	}

	doc := &tele.Document{
		File:     tele.FromReader(buf),
		FileName: fmt.Sprintf("events_report_%s.xlsx", time.Now().Format("02.01.2006")),
		Caption:  "Отчет по мероприятиям",
	}
	return c.Send(doc)
}
