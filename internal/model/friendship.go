package model

import "time"

// Friend is a directed edge over platform chat ids. A real friendship is two
// rows, one in each direction; every check and delete must touch both.
type Friend struct {
	UserID    int64     `gorm:"primaryKey" json:"userId"`
	FriendID  int64     `gorm:"primaryKey" json:"friendId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Friend) TableName() string {
	return "friends"
}

// FriendRequest is a pending directed request. MessageID holds the platform
// message reference of the request notification, so a mutual accept can
// retract the reciprocal request's UI artifact.
type FriendRequest struct {
	FromUserID int64     `gorm:"primaryKey" json:"fromUserId"`
	ToUserID   int64     `gorm:"primaryKey" json:"toUserId"`
	MessageID  *int      `json:"messageId"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}
