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

// ListCampaigns returns campaigns, optionally filtered by ?status=.
func (h *HTTPHandler) ListCampaigns(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	campaigns, err := h.repo.ListCampaigns(ctx, c.Query("status"))
	if err != nil {
		logrus.WithError(err).Error("list campaigns failed")
		InternalError(c)
		return
	}

	summaries := make([]entity.CampaignSummary, 0, len(campaigns))
	for i := range campaigns {
		summaries = append(summaries, makeCampaignSummary(&campaigns[i]))
	}
	c.JSON(http.StatusOK, summaries)
}

// GetCampaign returns one campaign by id.
func (h *HTTPHandler) GetCampaign(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		NotFound(c, "Campanha não encontrada!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	campaign, err := h.repo.GetCampaign(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Campanha não encontrada!")
			return
		}
		logrus.WithError(err).Error("get campaign failed")
		InternalError(c)
		return
	}
	c.JSON(http.StatusOK, makeCampaignSummary(campaign))
}

// CreateCampaign creates a campaign and audits the action.
func (h *HTTPHandler) CreateCampaign(c *gin.Context) {
	var req entity.CampaignCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidPayload)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || req.Year == nil {
		BadRequest(c, "Nome e ano são obrigatórios!")
		return
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = entity.CampaignStatusActive
	}
	if status != entity.CampaignStatusActive && status != entity.CampaignStatusClosed {
		BadRequest(c, "Status inválido!")
		return
	}

	campaign := entity.DbCampaign{
		Name:   name,
		Year:   *req.Year,
		Status: status,
	}
	if req.Banner != nil {
		campaign.Banner = *req.Banner
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	requestUser := CurrentUser(c)
	err := h.repo.Transaction(ctx, func(tx model.Repository) error {
		if err := tx.CreateCampaign(ctx, &campaign); err != nil {
			return err
		}
		return appendAudit(ctx, tx, requestUser,
			fmt.Sprintf("Criou a campanha '%s' (ID: %d)", campaign.Name, campaign.ID))
	})
	if err != nil {
		logrus.WithError(err).Error("create campaign failed")
		InternalError(c)
		return
	}

	c.JSON(http.StatusCreated, makeCampaignSummary(&campaign))
}

// UpdateCampaign applies a partial update and audits the action.
func (h *HTTPHandler) UpdateCampaign(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		NotFound(c, "Campanha não encontrada!")
		return
	}

	var req entity.CampaignUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidPayload)
		return
	}

	updates := entity.CampaignUpdates{
		Year:   req.Year,
		Banner: req.Banner,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			BadRequest(c, "Nome é obrigatório!")
			return
		}
		updates.Name = &name
	}
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if status != entity.CampaignStatusActive && status != entity.CampaignStatusClosed {
			BadRequest(c, "Status inválido!")
			return
		}
		updates.Status = &status
	}
	if updates.IsEmpty() {
		BadRequest(c, MsgNoFieldsToUpdate)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	campaign, err := h.repo.GetCampaign(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Campanha não encontrada!")
			return
		}
		logrus.WithError(err).Error("get campaign failed")
		InternalError(c)
		return
	}

	requestUser := CurrentUser(c)
	err = h.repo.Transaction(ctx, func(tx model.Repository) error {
		if err := tx.UpdateCampaign(ctx, id, updates); err != nil {
			return err
		}
		return appendAudit(ctx, tx, requestUser,
			fmt.Sprintf("Atualizou a campanha '%s' (ID: %d)", campaign.Name, campaign.ID))
	})
	if err != nil {
		logrus.WithError(err).Error("update campaign failed")
		InternalError(c)
		return
	}

	updated, err := h.repo.GetCampaign(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("reload campaign failed")
		InternalError(c)
		return
	}
	c.JSON(http.StatusOK, makeCampaignSummary(updated))
}

// DeleteCampaign removes a campaign and audits the action.
func (h *HTTPHandler) DeleteCampaign(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		NotFound(c, "Campanha não encontrada!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	campaign, err := h.repo.GetCampaign(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Campanha não encontrada!")
			return
		}
		logrus.WithError(err).Error("get campaign failed")
		InternalError(c)
		return
	}

	requestUser := CurrentUser(c)
	err = h.repo.Transaction(ctx, func(tx model.Repository) error {
		if err := tx.DeleteCampaign(ctx, id); err != nil {
			return err
		}
		return appendAudit(ctx, tx, requestUser,
			fmt.Sprintf("Deletou a campanha '%s' (ID: %d)", campaign.Name, campaign.ID))
	})
	if err != nil {
		logrus.WithError(err).Error("delete campaign failed")
		InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campanha deletada com sucesso!"})
}

func makeCampaignSummary(campaign *entity.DbCampaign) entity.CampaignSummary {
	return entity.CampaignSummary{
		ID:     campaign.ID,
		Name:   campaign.Name,
		Year:   campaign.Year,
		Status: campaign.Status,
		Banner: campaign.Banner,
	}
}
