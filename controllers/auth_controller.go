package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-billing/services"
	"hotel-billing/utils"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthController struct {
	Staff     *services.StaffService
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthController(staff *services.StaffService, secret string, ttl time.Duration) *AuthController {
	return &AuthController{Staff: staff, JWTSecret: secret, TokenTTL: ttl}
}

func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badPayload(c, err)
		return
	}

	staff, err := ac.Staff.Authenticate(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	role := ""
	if staff.Role != nil {
		role = staff.Role.Name
	}
	token, err := utils.NewAccessToken(ac.JWTSecret, staff.ID, role, ac.TokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token.Token,
		"expiresAt": token.Exp,
		"staff": gin.H{
			"id":       staff.ID,
			"fullName": staff.FullName,
			"username": staff.Username,
			"role":     role,
		},
	})
}
