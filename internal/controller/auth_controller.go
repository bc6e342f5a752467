package controller

import (
	"crypto/subtle"

	"meetup_bot/internal/config"
	"meetup_bot/internal/model"
	"meetup_bot/internal/service"
	"meetup_bot/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Users *service.UserService
	Cfg   *config.Config
}

func NewAuthController(users *service.UserService, cfg *config.Config) *AuthController {
	return &AuthController{Users: users, Cfg: cfg}
}

// LoginRequest carries the shared admin key. There are no per-user
// passwords; identity is the phone from the allow-list.
type LoginRequest struct {
	Phone string `json:"phone" binding:"required"`
	Key   string `json:"key" binding:"required"`
}

// Login issues a JWT for an allow-listed admin phone.
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	phone := util.NormalizePhone(req.Phone)

	if c.Cfg.JWT.AdminKey == "" ||
		subtle.ConstantTimeCompare([]byte(req.Key), []byte(c.Cfg.JWT.AdminKey)) != 1 ||
		!c.Cfg.IsAdminPhone(phone) {
		util.Unauthorized(ctx)
		return
	}

	token, err := util.GenerateJWT(phone, model.RoleAdmin, c.Cfg.JWT.Secret, c.Cfg.JWT.ExpireTime)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"token": token})
}

// Me returns the profile bound to the stored account for the token's phone,
// if the admin also uses the bot.
func (c *AuthController) Me(ctx *gin.Context) {
	claims := util.GetClaimsFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.Users.ByPhone(claims.Phone)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	resp := gin.H{
		"phone": claims.Phone,
		"role":  claims.Role,
	}
	if user != nil {
		resp["profile"] = user
	}

	util.Success(ctx, resp)
}
