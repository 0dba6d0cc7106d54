package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leilao/internal/entity"
	"leilao/internal/model"
)

// Dashboard aggregates the staff dashboard numbers in one response.
func (h *HTTPHandler) Dashboard(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	activeCampaigns, err := h.repo.CountCampaignsByStatus(ctx, entity.CampaignStatusActive)
	if err != nil {
		logrus.WithError(err).Error("count campaigns failed")
		InternalError(c)
		return
	}
	totalItems, err := h.repo.CountItems(ctx)
	if err != nil {
		logrus.WithError(err).Error("count items failed")
		InternalError(c)
		return
	}
	totalBids, err := h.repo.CountBids(ctx)
	if err != nil {
		logrus.WithError(err).Error("count bids failed")
		InternalError(c)
		return
	}
	totalRaised, err := h.repo.SumBidValues(ctx)
	if err != nil {
		logrus.WithError(err).Error("sum bids failed")
		InternalError(c)
		return
	}
	latest, err := h.repo.LatestBids(ctx, 5)
	if err != nil {
		logrus.WithError(err).Error("latest bids failed")
		InternalError(c)
		return
	}

	response := entity.DashboardResponse{
		ActiveCampaigns: activeCampaigns,
		TotalItems:      totalItems,
		TotalBids:       totalBids,
		TotalRaised:     totalRaised,
		LatestBids:      make([]entity.BidSummary, 0, len(latest)),
	}
	for i := range latest {
		response.LatestBids = append(response.LatestBids, makeBidSummary(&latest[i], false))
	}
	c.JSON(http.StatusOK, response)
}

// GetSettings returns the current site configuration, falling back to the
// built-in defaults when nothing was saved yet.
func (h *HTTPHandler) GetSettings(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	setting, err := h.repo.LatestSetting(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, entity.SettingResponse{
				InstitutionName: entity.DefaultInstitutionName,
				Currency:        entity.DefaultCurrency,
				HomeMessage:     entity.DefaultHomeMessage,
			})
			return
		}
		logrus.WithError(err).Error("load settings failed")
		InternalError(c)
		return
	}

	c.JSON(http.StatusOK, h.makeSettingResponse(setting))
}

// UpdateSettings saves the site configuration (admin only). Creates the row
// on first save, updates it afterwards, and audits the action.
func (h *HTTPHandler) UpdateSettings(c *gin.Context) {
	var req entity.SettingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidPayload)
		return
	}

	updates := entity.SettingUpdates{
		InstitutionName: req.InstitutionName,
		Logo:            req.Logo,
		Phone:           req.Phone,
		Email:           req.Email,
		Currency:        req.Currency,
		HomeMessage:     req.HomeMessage,
	}
	if updates.IsEmpty() {
		BadRequest(c, MsgNoFieldsToUpdate)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.LatestSetting(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).Error("load settings failed")
		InternalError(c)
		return
	}

	requestUser := CurrentUser(c)
	err = h.repo.Transaction(ctx, func(tx model.Repository) error {
		if existing == nil {
			setting := entity.DbSetting{
				InstitutionName: entity.DefaultInstitutionName,
				Currency:        entity.DefaultCurrency,
				HomeMessage:     entity.DefaultHomeMessage,
			}
			applySettingUpdates(&setting, updates)
			if err := tx.CreateSetting(ctx, &setting); err != nil {
				return err
			}
			existing = &setting
		} else {
			if err := tx.UpdateSetting(ctx, existing.ID, updates); err != nil {
				return err
			}
		}
		return appendAudit(ctx, tx, requestUser, "Atualizou as configurações do sistema")
	})
	if err != nil {
		logrus.WithError(err).Error("save settings failed")
		InternalError(c)
		return
	}

	saved, err := h.repo.LatestSetting(ctx)
	if err != nil {
		logrus.WithError(err).Error("reload settings failed")
		InternalError(c)
		return
	}
	c.JSON(http.StatusOK, h.makeSettingResponse(saved))
}

func applySettingUpdates(setting *entity.DbSetting, updates entity.SettingUpdates) {
	if updates.InstitutionName != nil {
		setting.InstitutionName = *updates.InstitutionName
	}
	if updates.Logo != nil {
		setting.Logo = *updates.Logo
	}
	if updates.Phone != nil {
		setting.Phone = *updates.Phone
	}
	if updates.Email != nil {
		setting.Email = *updates.Email
	}
	if updates.Currency != nil {
		setting.Currency = *updates.Currency
	}
	if updates.HomeMessage != nil {
		setting.HomeMessage = *updates.HomeMessage
	}
}

func (h *HTTPHandler) makeSettingResponse(setting *entity.DbSetting) entity.SettingResponse {
	id := setting.ID
	return entity.SettingResponse{
		ID:              &id,
		InstitutionName: setting.InstitutionName,
		Logo:            h.publicURL(setting.Logo),
		Phone:           setting.Phone,
		Email:           setting.Email,
		Currency:        setting.Currency,
		HomeMessage:     setting.HomeMessage,
	}
}
