package repository

import (
	"errors"

	"meetup_bot/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// GetByPhone returns nil without error when the user does not exist.
func (r *UserRepository) GetByPhone(phone string) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, "number = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByChatID(chatID int64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, "chat_id = ?", chatID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RegisterPhone creates an unregistered user row binding the phone to the
// platform chat id. Returns false when the phone is already known.
func (r *UserRepository) RegisterPhone(phone string, chatID int64, role model.UserRole) (bool, error) {
	existing, err := r.GetByPhone(phone)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	user := &model.User{
		Number:     phone,
		Role:       role,
		ChatID:     &chatID,
		Registered: false,
	}
	if err := r.DB.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdateProfile writes the accumulated draft in a single update and marks the
// user registered. Nil optional fields clear their columns.
func (r *UserRepository) UpdateProfile(phone string, d *model.ProfileData) error {
	updates := map[string]interface{}{
		"name":             d.Name,
		"surname":          d.Surname,
		"gender":           d.Gender,
		"age":              d.Age,
		"region":           d.Region,
		"interests":        model.JoinInterests(d.Interests),
		"photo_file_id":    d.PhotoFileID,
		"document_file_id": d.DocumentFileID,
		"location_lat":     d.LocationLat,
		"location_lon":     d.LocationLon,
		"registered":       true,
	}
	return r.DB.Model(&model.User{}).Where("number = ?", phone).Updates(updates).Error
}

func (r *UserRepository) GetAll() ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("created_at").Find(&users).Error
	return users, err
}

// SearchFilter is the SQL-level part of a candidate search; interest scoring
// happens in the service on top of the returned rows.
type SearchFilter struct {
	ExcludePhone  string
	Gender        string
	Region        string
	MinAge        int
	MaxAge        int
	AgeFiltered   bool
	RequireChatID bool
}

func (r *UserRepository) FindRegistered(f SearchFilter) ([]model.User, error) {
	q := r.DB.Where("registered = ?", true).Where("number <> ?", f.ExcludePhone)
	if f.Gender != "" {
		q = q.Where("gender = ?", f.Gender)
	}
	if f.Region != "" {
		q = q.Where("region = ?", f.Region)
	}
	if f.AgeFiltered {
		q = q.Where("age >= ? AND age <= ?", f.MinAge, f.MaxAge)
	}
	if f.RequireChatID {
		q = q.Where("chat_id IS NOT NULL")
	}

	var users []model.User
	err := q.Find(&users).Error
	return users, err
}
