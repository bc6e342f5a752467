package service

import (
	"meetup_bot/internal/model"
	"meetup_bot/internal/repository"
	"meetup_bot/internal/util"
)

// FriendshipService fronts the social graph. Identity here is the platform
// chat id; handlers resolve phones to chat ids before calling in.
type FriendshipService struct {
	Friends *repository.FriendshipRepository
}

func NewFriendshipService(friends *repository.FriendshipRepository) *FriendshipService {
	return &FriendshipService{Friends: friends}
}

// SendRequest records a pending friend request. Self-requests are rejected
// here so no storage path can create one.
func (s *FriendshipService) SendRequest(fromID, toID int64) (repository.SendRequestResult, error) {
	if fromID == toID {
		return "", util.ErrSelfRequest
	}
	return s.Friends.SendRequest(fromID, toID)
}

// BindRequestMessage attaches the delivered notification's message id to the
// request so a later mutual acceptance can retract it.
func (s *FriendshipService) BindRequestMessage(fromID, toID int64, messageID int) error {
	return s.Friends.UpdateRequestMessageID(fromID, toID, messageID)
}

// Accept establishes the friendship in both directions and resolves any
// mutual reverse request.
func (s *FriendshipService) Accept(acceptorID, requesterID int64) (*repository.AcceptResult, error) {
	return s.Friends.AcceptRequest(acceptorID, requesterID)
}

func (s *FriendshipService) Decline(userID, requesterID int64) error {
	return s.Friends.DeclineRequest(userID, requesterID)
}

// Unfriend removes both directional rows; absent rows are a no-op.
func (s *FriendshipService) Unfriend(userID, friendID int64) error {
	return s.Friends.DeleteFriendship(userID, friendID)
}

func (s *FriendshipService) AreFriends(a, b int64) (bool, error) {
	return s.Friends.AreFriends(a, b)
}

func (s *FriendshipService) FriendsOf(userID int64) ([]model.User, error) {
	return s.Friends.GetFriends(userID)
}

func (s *FriendshipService) FriendIDs(userID int64) ([]int64, error) {
	return s.Friends.GetFriendIDsCached(userID)
}

func (s *FriendshipService) IncomingRequests(userID int64) ([]model.User, error) {
	return s.Friends.GetIncomingRequests(userID)
}
