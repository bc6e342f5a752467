package model

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User is keyed by phone number; the number never changes. ChatID is the
// platform account id, assigned on first contact. The role column is advisory:
// effective admin status comes from the configured phone allow-list.
type User struct {
	Number         string    `gorm:"primaryKey;size:20" json:"number"`
	Role           UserRole  `gorm:"size:10;default:'user'" json:"role"`
	Registered     bool      `gorm:"default:false" json:"registered"`
	ChatID         *int64    `gorm:"uniqueIndex" json:"chatId"`
	Name           string    `gorm:"size:100" json:"name"`
	Surname        string    `gorm:"size:100" json:"surname"`
	Gender         *string   `gorm:"size:10" json:"gender"`
	Age            *int      `json:"age"`
	Region         string    `gorm:"size:100" json:"region"`
	Interests      string    `gorm:"type:text" json:"interests"` // comma-joined
	PhotoFileID    *string   `gorm:"size:200" json:"photoFileId"`
	DocumentFileID *string   `gorm:"size:200" json:"documentFileId"`
	LocationLat    *float64  `json:"locationLat"`
	LocationLon    *float64  `json:"locationLon"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// InterestList splits the comma-joined interests column, dropping empties.
func (u *User) InterestList() []string {
	return SplitInterests(u.Interests)
}

func SplitInterests(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func JoinInterests(list []string) string {
	return strings.Join(list, ",")
}
