package controller

import (
	"meetup_bot/internal/service"
	"meetup_bot/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users   *service.UserService
	Friends *service.FriendshipService
}

func NewUserController(users *service.UserService, friends *service.FriendshipService) *UserController {
	return &UserController{Users: users, Friends: friends}
}

// ListUsers returns every bound account, registered or not.
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.Users.All()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"users": users, "total": len(users)})
}

// GetUser returns one account by phone, with the friend list resolved.
func (c *UserController) GetUser(ctx *gin.Context) {
	user, err := c.Users.ByPhone(ctx.Param("phone"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if user == nil {
		util.NotFound(ctx)
		return
	}

	resp := gin.H{"user": user}
	if user.ChatID != nil {
		friends, err := c.Friends.FriendsOf(*user.ChatID)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		resp["friends"] = friends
	}

	util.Success(ctx, resp)
}
