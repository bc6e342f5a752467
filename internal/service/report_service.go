package service

import (
	"fmt"
	"strconv"

	"meetup_bot/internal/repository"

	"github.com/xuri/excelize/v2"
)

// ReportService renders the user and event tables into xlsx workbooks for
// the admin API. Read-only; it never mutates state.
type ReportService struct {
	Users  *repository.UserRepository
	Events *repository.EventRepository
}

func NewReportService(users *repository.UserRepository, events *repository.EventRepository) *ReportService {
	return &ReportService{Users: users, Events: events}
}

// UsersReport builds a one-sheet workbook listing every user profile.
func (s *ReportService) UsersReport() (*excelize.File, error) {
	users, err := s.Users.GetAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Users"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Phone", "Name", "Surname", "Gender", "Age", "Region", "Interests", "Registered", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, u := range users {
		gender := ""
		if u.Gender != nil {
			gender = *u.Gender
		}
		age := ""
		if u.Age != nil {
			age = strconv.Itoa(*u.Age)
		}
		values := []interface{}{
			u.Number, u.Name, u.Surname, gender, age, u.Region,
			u.Interests, u.Registered, u.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// EventsReport builds a one-sheet workbook listing every event with its
// current participant count.
func (s *ReportService) EventsReport() (*excelize.File, error) {
	events, err := s.Events.GetAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Events"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"ID", "Name", "Organizer", "Date", "Time", "Interests", "Address", "Participants"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, e := range events {
		count, err := s.Events.ParticipantCount(e.ID)
		if err != nil {
			return nil, err
		}
		address := ""
		if e.Address != nil {
			address = *e.Address
		} else if e.Latitude != nil && e.Longitude != nil {
			address = fmt.Sprintf("%.6f, %.6f", *e.Latitude, *e.Longitude)
		}
		values := []interface{}{
			e.ID, e.Name, e.OrganizerPhone, e.Date, e.Time,
			e.Interests, address, count,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
