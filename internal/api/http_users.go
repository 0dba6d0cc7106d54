package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leilao/internal/auth"
	"leilao/internal/entity"
	"leilao/internal/model"
)

// ListUsers returns every staff account (admin only).
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, err := h.repo.ListUsers(ctx)
	if err != nil {
		logrus.WithError(err).Error("list users failed")
		InternalError(c)
		return
	}

	summaries := make([]entity.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, makeUserSummary(&users[i]))
	}
	c.JSON(http.StatusOK, summaries)
}

// GetUser returns one staff account by id (admin only).
func (h *HTTPHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		NotFound(c, "Usuário não encontrado!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Usuário não encontrado!")
			return
		}
		logrus.WithError(err).Error("get user failed")
		InternalError(c)
		return
	}
	c.JSON(http.StatusOK, makeUserSummary(user))
}

// CreateUser creates a staff account (admin only) and audits the action.
func (h *HTTPHandler) CreateUser(c *gin.Context) {
	var req entity.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidPayload)
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		BadRequest(c, "Nome, email e senha são obrigatórios!")
		return
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = entity.UserRoleManager
	}
	if !entity.ValidRole(role) {
		BadRequest(c, "Permissão inválida!")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logrus.WithError(err).Error("hash password failed")
		InternalError(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user := entity.DbUser{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	requestUser := CurrentUser(c)
	err = h.repo.Transaction(ctx, func(tx model.Repository) error {
		if err := tx.CreateUser(ctx, &user); err != nil {
			return err
		}
		return appendAudit(ctx, tx, requestUser,
			fmt.Sprintf("Criou o usuário '%s' (%s)", user.Name, user.Email))
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, "Email já cadastrado!")
			return
		}
		logrus.WithError(err).Error("create user failed")
		InternalError(c)
		return
	}

	c.JSON(http.StatusCreated, makeUserSummary(&user))
}

// UpdateUser applies a partial update to a staff account (admin only).
func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		NotFound(c, "Usuário não encontrado!")
		return
	}

	var req entity.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidPayload)
		return
	}

	var updates entity.UserUpdates
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			BadRequest(c, "Nome é obrigatório!")
			return
		}
		updates.Name = &name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			BadRequest(c, "Email é obrigatório!")
			return
		}
		updates.Email = &email
	}
	if req.Password != nil {
		if *req.Password == "" {
			BadRequest(c, "Senha não pode ser vazia!")
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			logrus.WithError(err).Error("hash password failed")
			InternalError(c)
			return
		}
		updates.PasswordHash = &hash
	}
	if req.Role != nil {
		role := strings.TrimSpace(*req.Role)
		if !entity.ValidRole(role) {
			BadRequest(c, "Permissão inválida!")
			return
		}
		updates.Role = &role
	}
	if updates.IsEmpty() {
		BadRequest(c, MsgNoFieldsToUpdate)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Usuário não encontrado!")
			return
		}
		logrus.WithError(err).Error("get user failed")
		InternalError(c)
		return
	}

	requestUser := CurrentUser(c)
	err = h.repo.Transaction(ctx, func(tx model.Repository) error {
		if err := tx.UpdateUser(ctx, id, updates); err != nil {
			return err
		}
		return appendAudit(ctx, tx, requestUser,
			fmt.Sprintf("Atualizou o usuário '%s' (ID: %d)", user.Name, user.ID))
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, "Email já cadastrado!")
			return
		}
		logrus.WithError(err).Error("update user failed")
		InternalError(c)
		return
	}

	updated, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("reload user failed")
		InternalError(c)
		return
	}
	c.JSON(http.StatusOK, makeUserSummary(updated))
}

// DeleteUser removes a staff account (admin only). Admins cannot delete their
// own account, so the system always keeps at least the acting admin.
func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		NotFound(c, "Usuário não encontrado!")
		return
	}

	requestUser := CurrentUser(c)
	if requestUser != nil && requestUser.ID == id {
		BadRequest(c, "Você não pode deletar seu próprio usuário!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Usuário não encontrado!")
			return
		}
		logrus.WithError(err).Error("get user failed")
		InternalError(c)
		return
	}

	err = h.repo.Transaction(ctx, func(tx model.Repository) error {
		if err := tx.DeleteUser(ctx, id); err != nil {
			return err
		}
		return appendAudit(ctx, tx, requestUser,
			fmt.Sprintf("Deletou o usuário '%s' (%s)", user.Name, user.Email))
	})
	if err != nil {
		logrus.WithError(err).Error("delete user failed")
		InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Usuário deletado com sucesso!"})
}
