package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leilao/internal/auth"
	"leilao/internal/entity"
)

// Login authenticates an email/password pair and issues a JWT.
func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidPayload)
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		BadRequest(c, "Email e senha são obrigatórios!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).Error("login: fetch user failed")
			InternalError(c)
			return
		}
		Unauthorized(c, MsgInvalidCredentials)
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		Unauthorized(c, MsgInvalidCredentials)
		return
	}

	token, _, err := h.authManager.GenerateToken(user)
	if err != nil {
		logrus.WithError(err).Error("login: token generation failed")
		InternalError(c)
		return
	}

	c.JSON(http.StatusOK, entity.AuthResponse{
		Token: token,
		User:  makeUserSummary(user),
	})
}

// Me returns the profile of the authenticated user.
func (h *HTTPHandler) Me(c *gin.Context) {
	requestUser := CurrentUser(c)
	if requestUser == nil {
		Unauthorized(c, MsgInvalidToken)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetUserByID(ctx, requestUser.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Unauthorized(c, MsgInvalidToken)
			return
		}
		logrus.WithError(err).Error("me: fetch user failed")
		InternalError(c)
		return
	}

	c.JSON(http.StatusOK, makeUserSummary(user))
}

func makeUserSummary(user *entity.DbUser) entity.UserSummary {
	return entity.UserSummary{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}
