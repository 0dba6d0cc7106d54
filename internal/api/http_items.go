package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leilao/internal/entity"
	"leilao/internal/model"
)

// ListItems returns items with their derived current price, optionally
// filtered by ?campanha_id=.
func (h *HTTPHandler) ListItems(c *gin.Context) {
	var campaignID uint
	if raw := c.Query("campanha_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			BadRequest(c, "Campanha inválida!")
			return
		}
		campaignID = uint(parsed)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.repo.ListItems(ctx, campaignID)
	if err != nil {
		logrus.WithError(err).Error("list items failed")
		InternalError(c)
		return
	}

	itemIDs := make([]uint, 0, len(items))
	for i := range items {
		itemIDs = append(itemIDs, items[i].ID)
	}
	prices, err := h.repo.CurrentPrices(ctx, itemIDs)
	if err != nil {
		logrus.WithError(err).Error("load current prices failed")
		InternalError(c)
		return
	}

	summaries := make([]entity.ItemSummary, 0, len(items))
	for i := range items {
		summaries = append(summaries, h.makeItemSummary(&items[i], prices))
	}
	c.JSON(http.StatusOK, summaries)
}

// GetItem returns one item with its current price and most recent bids.
func (h *HTTPHandler) GetItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		NotFound(c, "Item não encontrado!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Item não encontrado!")
			return
		}
		logrus.WithError(err).Error("get item failed")
		InternalError(c)
		return
	}

	price, err := h.repo.CurrentPrice(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("load current price failed")
		InternalError(c)
		return
	}

	bids, err := h.repo.ListItemBids(ctx, id, 3)
	if err != nil {
		logrus.WithError(err).Error("load item bids failed")
		InternalError(c)
		return
	}

	detail := entity.ItemDetail{
		ItemSummary: h.makeItemSummary(item, map[uint]float64{id: price}),
		LatestBids:  make([]entity.BidValue, 0, len(bids)),
	}
	for _, bid := range bids {
		detail.LatestBids = append(detail.LatestBids, entity.BidValue{Value: bid.Value, Date: bid.CreatedAt})
	}
	c.JSON(http.StatusOK, detail)
}

// CreateItem creates an item under an active campaign and audits the action.
func (h *HTTPHandler) CreateItem(c *gin.Context) {
	var req entity.ItemCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidPayload)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || req.CampaignID == nil || req.CategoryID == nil || req.StartingBid == nil {
		BadRequest(c, "Nome, campanha, categoria e lance inicial são obrigatórios!")
		return
	}
	if *req.StartingBid <= 0 {
		BadRequest(c, "Lance inicial deve ser maior que zero!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	campaign, err := h.repo.GetCampaign(ctx, *req.CampaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Campanha não encontrada!")
			return
		}
		logrus.WithError(err).Error("get campaign failed")
		InternalError(c)
		return
	}
	if campaign.Status != entity.CampaignStatusActive {
		BadRequest(c, "Apenas campanhas ativas podem receber novos itens!")
		return
	}

	if _, err := h.repo.GetCategory(ctx, *req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Categoria não encontrada!")
			return
		}
		logrus.WithError(err).Error("get category failed")
		InternalError(c)
		return
	}

	item := entity.DbItem{
		Name:        name,
		StartingBid: *req.StartingBid,
		CampaignID:  *req.CampaignID,
		CategoryID:  *req.CategoryID,
	}
	if req.Banner169 != nil {
		item.Banner169 = *req.Banner169
	}
	if req.Banner11 != nil {
		item.Banner11 = *req.Banner11
	}

	requestUser := CurrentUser(c)
	err = h.repo.Transaction(ctx, func(tx model.Repository) error {
		if err := tx.CreateItem(ctx, &item); err != nil {
			return err
		}
		return appendAudit(ctx, tx, requestUser,
			fmt.Sprintf("Criou o item '%s' (ID: %d)", item.Name, item.ID))
	})
	if err != nil {
		logrus.WithError(err).Error("create item failed")
		InternalError(c)
		return
	}

	created, err := h.repo.GetItem(ctx, item.ID)
	if err != nil {
		logrus.WithError(err).Error("reload item failed")
		InternalError(c)
		return
	}
	c.JSON(http.StatusCreated, h.makeItemSummary(created, nil))
}

// UpdateItem applies a partial update and audits the action.
func (h *HTTPHandler) UpdateItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		NotFound(c, "Item não encontrado!")
		return
	}

	var req entity.ItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidPayload)
		return
	}

	updates := entity.ItemUpdates{
		CampaignID: req.CampaignID,
		CategoryID: req.CategoryID,
		Banner169:  req.Banner169,
		Banner11:   req.Banner11,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			BadRequest(c, "Nome é obrigatório!")
			return
		}
		updates.Name = &name
	}
	if req.StartingBid != nil {
		if *req.StartingBid <= 0 {
			BadRequest(c, "Lance inicial deve ser maior que zero!")
			return
		}
		updates.StartingBid = req.StartingBid
	}
	if updates.IsEmpty() {
		BadRequest(c, MsgNoFieldsToUpdate)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Item não encontrado!")
			return
		}
		logrus.WithError(err).Error("get item failed")
		InternalError(c)
		return
	}

	if req.CampaignID != nil {
		if _, err := h.repo.GetCampaign(ctx, *req.CampaignID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				NotFound(c, "Campanha não encontrada!")
				return
			}
			logrus.WithError(err).Error("get campaign failed")
			InternalError(c)
			return
		}
	}
	if req.CategoryID != nil {
		if _, err := h.repo.GetCategory(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				NotFound(c, "Categoria não encontrada!")
				return
			}
			logrus.WithError(err).Error("get category failed")
			InternalError(c)
			return
		}
	}

	requestUser := CurrentUser(c)
	err = h.repo.Transaction(ctx, func(tx model.Repository) error {
		if err := tx.UpdateItem(ctx, id, updates); err != nil {
			return err
		}
		return appendAudit(ctx, tx, requestUser,
			fmt.Sprintf("Atualizou o item '%s' (ID: %d)", item.Name, item.ID))
	})
	if err != nil {
		logrus.WithError(err).Error("update item failed")
		InternalError(c)
		return
	}

	updated, err := h.repo.GetItem(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("reload item failed")
		InternalError(c)
		return
	}

	price, err := h.repo.CurrentPrice(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("load current price failed")
		InternalError(c)
		return
	}
	c.JSON(http.StatusOK, h.makeItemSummary(updated, map[uint]float64{id: price}))
}

// DeleteItem removes an item and audits the action.
func (h *HTTPHandler) DeleteItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		NotFound(c, "Item não encontrado!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Item não encontrado!")
			return
		}
		logrus.WithError(err).Error("get item failed")
		InternalError(c)
		return
	}

	requestUser := CurrentUser(c)
	err = h.repo.Transaction(ctx, func(tx model.Repository) error {
		if err := tx.DeleteItem(ctx, id); err != nil {
			return err
		}
		return appendAudit(ctx, tx, requestUser,
			fmt.Sprintf("Deletou o item '%s' (ID: %d)", item.Name, item.ID))
	})
	if err != nil {
		logrus.WithError(err).Error("delete item failed")
		InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deletado com sucesso!"})
}

// makeItemSummary converts a loaded item. prices maps item id to derived
// current price; a missing entry falls back to the starting bid.
func (h *HTTPHandler) makeItemSummary(item *entity.DbItem, prices map[uint]float64) entity.ItemSummary {
	current, ok := prices[item.ID]
	if !ok {
		current = item.StartingBid
	}
	return entity.ItemSummary{
		ID:          item.ID,
		Name:        item.Name,
		StartingBid: item.StartingBid,
		Banner169:   h.publicURL(item.Banner169),
		Banner11:    h.publicURL(item.Banner11),
		Campaign:    entity.RefSummary{ID: item.Campaign.ID, Name: item.Campaign.Name},
		Category:    entity.RefSummary{ID: item.Category.ID, Name: item.Category.Name},
		CurrentBid:  current,
	}
}
