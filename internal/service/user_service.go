package service

import (
	"meetup_bot/internal/config"
	"meetup_bot/internal/model"
	"meetup_bot/internal/repository"
	"meetup_bot/internal/util"
)

// UserService handles identity: binding a shared phone number to a chat and
// resolving inbound senders to profiles.
type UserService struct {
	Users *repository.UserRepository
	Cfg   *config.Config
}

func NewUserService(users *repository.UserRepository, cfg *config.Config) *UserService {
	return &UserService{Users: users, Cfg: cfg}
}

// RegisterContact binds a shared contact's phone to the chat. The phone is
// normalized before storage; the role comes from the admin allow-list.
// Returns false when the phone is already taken.
func (s *UserService) RegisterContact(phone string, chatID int64) (bool, error) {
	normalized := util.NormalizePhone(phone)
	role := model.RoleUser
	if s.Cfg.IsAdminPhone(normalized) {
		role = model.RoleAdmin
	}
	return s.Users.RegisterPhone(normalized, chatID, role)
}

// ByChatID resolves the sender's profile; nil when the chat is unknown.
func (s *UserService) ByChatID(chatID int64) (*model.User, error) {
	return s.Users.GetByChatID(chatID)
}

func (s *UserService) ByPhone(phone string) (*model.User, error) {
	return s.Users.GetByPhone(util.NormalizePhone(phone))
}

// IsAdmin reports effective admin status: the allow-list decides, the role
// column is advisory.
func (s *UserService) IsAdmin(user *model.User) bool {
	return user != nil && s.Cfg.IsAdminPhone(user.Number)
}

func (s *UserService) All() ([]model.User, error) {
	return s.Users.GetAll()
}
