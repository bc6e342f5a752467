package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"meetup_bot/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SendRequestResult classifies the outcome of a friend request attempt.
// Duplicates are normal outcomes, not errors.
type SendRequestResult string

const (
	SendRequestOK             SendRequestResult = "ok"
	SendRequestAlreadyFriends SendRequestResult = "already_friends"
	SendRequestAlreadySent    SendRequestResult = "already_sent"
)

type FriendshipRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewFriendshipRepository(db *gorm.DB, rdb *redis.Client) *FriendshipRepository {
	return &FriendshipRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func friendCacheKey(userID int64) string {
	return fmt.Sprintf("social:friends:%d", userID)
}

func (r *FriendshipRepository) invalidateCache(ids ...int64) {
	if r.Redis == nil {
		return
	}
	for _, id := range ids {
		r.Redis.Del(r.ctx, friendCacheKey(id))
	}
}

// IsFriend checks one direction; rows are kept symmetric so one check
// suffices for an intact pair, but callers guarding request creation check
// both directions via AreFriends.
func (r *FriendshipRepository) IsFriend(userID, friendID int64) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Friend{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}

func (r *FriendshipRepository) AreFriends(a, b int64) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Friend{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// GetFriendIDs returns the chat ids of the user's friends.
func (r *FriendshipRepository) GetFriendIDs(userID int64) ([]int64, error) {
	var ids []int64
	err := r.DB.Model(&model.Friend{}).
		Where("user_id = ?", userID).
		Pluck("friend_id", &ids).Error
	return ids, err
}

// GetFriendIDsCached serves the id list from a redis set, falling back to the
// database and repopulating on miss.
func (r *FriendshipRepository) GetFriendIDsCached(userID int64) ([]int64, error) {
	if r.Redis == nil {
		return r.GetFriendIDs(userID)
	}

	key := friendCacheKey(userID)
	cached, err := r.Redis.SMembers(r.ctx, key).Result()
	if err == nil && len(cached) > 0 {
		ids := make([]int64, 0, len(cached))
		for _, s := range cached {
			id, _ := strconv.ParseInt(s, 10, 64)
			if id > 0 {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}

	ids, err := r.GetFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		pipe := r.Redis.Pipeline()
		for _, id := range ids {
			pipe.SAdd(r.ctx, key, id)
		}
		pipe.Expire(r.ctx, key, 24*time.Hour)
		pipe.Exec(r.ctx)
	} else {
		// negative entry with a short TTL, keeps misses off the database
		r.Redis.SAdd(r.ctx, key, 0)
		r.Redis.Expire(r.ctx, key, 5*time.Minute)
	}
	return ids, nil
}

func (r *FriendshipRepository) GetFriends(userID int64) ([]model.User, error) {
	ids, err := r.GetFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var friends []model.User
	err = r.DB.Where("chat_id IN ?", ids).Order("name, surname").Find(&friends).Error
	return friends, err
}

// SendRequest inserts a pending request unless the pair is already friends
// (either direction) or an identical request exists.
func (r *FriendshipRepository) SendRequest(fromID, toID int64) (SendRequestResult, error) {
	friends, err := r.AreFriends(fromID, toID)
	if err != nil {
		return "", err
	}
	if friends {
		return SendRequestAlreadyFriends, nil
	}

	var count int64
	err = r.DB.Model(&model.FriendRequest{}).
		Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	if count > 0 {
		return SendRequestAlreadySent, nil
	}

	req := &model.FriendRequest{FromUserID: fromID, ToUserID: toID}
	if err := r.DB.Create(req).Error; err != nil {
		// a concurrent duplicate insert is the same normal outcome
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return SendRequestAlreadySent, nil
		}
		return "", err
	}
	return SendRequestOK, nil
}

func (r *FriendshipRepository) UpdateRequestMessageID(fromID, toID int64, messageID int) error {
	return r.DB.Model(&model.FriendRequest{}).
		Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		Update("message_id", messageID).Error
}

// AcceptResult reports what an accept resolved besides the friendship itself.
type AcceptResult struct {
	// ReverseResolved is true when the acceptor had their own pending request
	// to the requester; that reverse request was deleted too.
	ReverseResolved bool
	// ReverseMessageID carries the platform message reference of the reverse
	// request, if one was stored, so the caller can retract its UI artifact.
	ReverseMessageID *int
}

// AcceptRequest establishes the friendship (two directed rows), deletes the
// originating request, and opportunistically resolves a mutual reverse
// request. Everything happens in one transaction; nothing half-written is
// visible on failure.
func (r *FriendshipRepository) AcceptRequest(acceptorID, requesterID int64) (*AcceptResult, error) {
	res := &AcceptResult{}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		rows := []model.Friend{
			{UserID: acceptorID, FriendID: requesterID},
			{UserID: requesterID, FriendID: acceptorID},
		}
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("from_user_id = ? AND to_user_id = ?", requesterID, acceptorID).
			Delete(&model.FriendRequest{}).Error; err != nil {
			return err
		}

		var reverse model.FriendRequest
		err := tx.Where("from_user_id = ? AND to_user_id = ?", acceptorID, requesterID).
			First(&reverse).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		res.ReverseResolved = true
		res.ReverseMessageID = reverse.MessageID
		return tx.Where("from_user_id = ? AND to_user_id = ?", acceptorID, requesterID).
			Delete(&model.FriendRequest{}).Error
	})
	if err != nil {
		return nil, err
	}

	r.invalidateCache(acceptorID, requesterID)
	return res, nil
}

// DeclineRequest deletes only the requester→user row. Idempotent.
func (r *FriendshipRepository) DeclineRequest(userID, requesterID int64) error {
	return r.DB.Where("from_user_id = ? AND to_user_id = ?", requesterID, userID).
		Delete(&model.FriendRequest{}).Error
}

// DeleteFriendship removes both directed rows unconditionally, so a retry
// after partial failure is a no-op rather than an error.
func (r *FriendshipRepository) DeleteFriendship(userID, friendID int64) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND friend_id = ?", userID, friendID).
			Delete(&model.Friend{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND friend_id = ?", friendID, userID).
			Delete(&model.Friend{}).Error
	})
	if err == nil {
		r.invalidateCache(userID, friendID)
	}
	return err
}

// GetIncomingRequests returns the profiles of pending requesters, filtering
// out anyone who became a friend since requesting.
func (r *FriendshipRepository) GetIncomingRequests(userID int64) ([]model.User, error) {
	var requesterIDs []int64
	err := r.DB.Model(&model.FriendRequest{}).
		Where("to_user_id = ?", userID).
		Pluck("from_user_id", &requesterIDs).Error
	if err != nil {
		return nil, err
	}
	if len(requesterIDs) == 0 {
		return nil, nil
	}

	friendIDs, err := r.GetFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	friendSet := make(map[int64]bool, len(friendIDs))
	for _, id := range friendIDs {
		friendSet[id] = true
	}

	pending := requesterIDs[:0]
	for _, id := range requesterIDs {
		if !friendSet[id] {
			pending = append(pending, id)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	var users []model.User
	err = r.DB.Where("chat_id IN ?", pending).Find(&users).Error
	return users, err
}
