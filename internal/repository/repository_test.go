package repository

import (
	"testing"

	"meetup_bot/internal/model"
	"meetup_bot/pkg/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, phone string, chatID int64) *model.User {
	t.Helper()

	user := &model.User{
		Number:     phone,
		Registered: true,
		ChatID:     &chatID,
		Name:       "Тест",
		Surname:    "Пользователь",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", phone, err)
	}
	return user
}

func seedEvent(t *testing.T, db *gorm.DB, repo *EventRepository, organizerPhone, name string) uint {
	t.Helper()

	id, err := repo.Create(&model.Event{
		OrganizerPhone: organizerPhone,
		Name:           name,
		Date:           "01.10.2026",
		Time:           "18:00",
		Interests:      "музыка,спорт",
	})
	if err != nil {
		t.Fatalf("seed event %q: %v", name, err)
	}
	return id
}
