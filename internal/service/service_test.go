package service

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

func seedRegistered(t *testing.T, db *gorm.DB, phone string, chatID int64, mutate func(*model.User)) *model.User {
	t.Helper()

	user := &model.User{
		Number:     phone,
		Registered: true,
		ChatID:     &chatID,
		Name:       "Иван",
		Surname:    "Петров",
	}
	if mutate != nil {
		mutate(user)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", phone, err)
	}
	return user
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
