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

	"leilao/internal/entity"
	"leilao/internal/model"
)

// ListCategories returns every category ordered by name.
func (h *HTTPHandler) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	categories, err := h.repo.ListCategories(ctx)
	if err != nil {
		logrus.WithError(err).Error("list categories failed")
		InternalError(c)
		return
	}

	summaries := make([]entity.CategorySummary, 0, len(categories))
	for _, category := range categories {
		summaries = append(summaries, entity.CategorySummary{ID: category.ID, Name: category.Name})
	}
	c.JSON(http.StatusOK, summaries)
}

// GetCategory returns one category by id.
func (h *HTTPHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		NotFound(c, "Categoria não encontrada!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	category, err := h.repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Categoria não encontrada!")
			return
		}
		logrus.WithError(err).Error("get category failed")
		InternalError(c)
		return
	}
	c.JSON(http.StatusOK, entity.CategorySummary{ID: category.ID, Name: category.Name})
}

// CreateCategory creates a category and audits the action.
func (h *HTTPHandler) CreateCategory(c *gin.Context) {
	var req entity.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidPayload)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		BadRequest(c, "Nome é obrigatório!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	category := entity.DbCategory{Name: name}
	requestUser := CurrentUser(c)
	err := h.repo.Transaction(ctx, func(tx model.Repository) error {
		if err := tx.CreateCategory(ctx, &category); err != nil {
			return err
		}
		return appendAudit(ctx, tx, requestUser,
			fmt.Sprintf("Criou a categoria '%s' (ID: %d)", category.Name, category.ID))
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, "Categoria já existe!")
			return
		}
		logrus.WithError(err).Error("create category failed")
		InternalError(c)
		return
	}

	c.JSON(http.StatusCreated, entity.CategorySummary{ID: category.ID, Name: category.Name})
}

// UpdateCategory renames a category and audits the action.
func (h *HTTPHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		NotFound(c, "Categoria não encontrada!")
		return
	}

	var req entity.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidPayload)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		BadRequest(c, "Nome é obrigatório!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	category, err := h.repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Categoria não encontrada!")
			return
		}
		logrus.WithError(err).Error("get category failed")
		InternalError(c)
		return
	}

	requestUser := CurrentUser(c)
	err = h.repo.Transaction(ctx, func(tx model.Repository) error {
		if err := tx.UpdateCategory(ctx, id, entity.CategoryUpdates{Name: &name}); err != nil {
			return err
		}
		return appendAudit(ctx, tx, requestUser,
			fmt.Sprintf("Atualizou a categoria '%s' para '%s' (ID: %d)", category.Name, name, category.ID))
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, "Categoria já existe!")
			return
		}
		logrus.WithError(err).Error("update category failed")
		InternalError(c)
		return
	}

	c.JSON(http.StatusOK, entity.CategorySummary{ID: id, Name: name})
}

// DeleteCategory removes a category and audits the action.
func (h *HTTPHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		NotFound(c, "Categoria não encontrada!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	category, err := h.repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Categoria não encontrada!")
			return
		}
		logrus.WithError(err).Error("get category failed")
		InternalError(c)
		return
	}

	requestUser := CurrentUser(c)
	err = h.repo.Transaction(ctx, func(tx model.Repository) error {
		if err := tx.DeleteCategory(ctx, id); err != nil {
			return err
		}
		return appendAudit(ctx, tx, requestUser,
			fmt.Sprintf("Deletou a categoria '%s' (ID: %d)", category.Name, category.ID))
	})
	if err != nil {
		logrus.WithError(err).Error("delete category failed")
		InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Categoria deletada com sucesso!"})
}
