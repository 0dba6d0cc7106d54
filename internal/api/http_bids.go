package api

import (
	"bytes"
	"context"
	"encoding/csv"
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
)

// CreateBid registers a public bid. The repository enforces that the value
// strictly exceeds the item's current price; ties are rejected.
func (h *HTTPHandler) CreateBid(c *gin.Context) {
	var req entity.BidCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidPayload)
		return
	}

	bidderName := strings.TrimSpace(req.BidderName)
	bidderPhone := strings.TrimSpace(req.BidderPhone)
	if req.ItemID == nil || req.Value == nil || bidderName == "" || bidderPhone == "" {
		BadRequest(c, "Item, valor, nome e telefone são obrigatórios!")
		return
	}
	if *req.Value <= 0 {
		BadRequest(c, "Valor do lance deve ser maior que zero!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	bid := entity.DbBid{
		ItemID:      *req.ItemID,
		Value:       *req.Value,
		BidderName:  bidderName,
		BidderPhone: bidderPhone,
	}
	if err := h.repo.PlaceBid(ctx, &bid); err != nil {
		var below *entity.BidBelowCurrentError
		if errors.As(err, &below) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message":     fmt.Sprintf("O lance deve ser maior que o lance atual de R$ %.2f", below.Current),
				"lance_atual": below.Current,
			})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Item não encontrado!")
			return
		}
		logrus.WithError(err).Error("place bid failed")
		InternalError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Lance registrado com sucesso!",
		"id":      bid.ID,
	})
}

// ListBids returns bids with optional item/category/date filters.
func (h *HTTPHandler) ListBids(c *gin.Context) {
	var query entity.BidQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, "Filtros inválidos!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	bids, err := h.repo.ListBids(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("list bids failed")
		InternalError(c)
		return
	}

	summaries := make([]entity.BidSummary, 0, len(bids))
	for i := range bids {
		summaries = append(summaries, makeBidSummary(&bids[i], true))
	}
	c.JSON(http.StatusOK, summaries)
}

// LatestBids returns the most recent bids across all items.
func (h *HTTPHandler) LatestBids(c *gin.Context) {
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			BadRequest(c, "Limite inválido!")
			return
		}
		if parsed > 50 {
			parsed = 50
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	bids, err := h.repo.LatestBids(ctx, limit)
	if err != nil {
		logrus.WithError(err).Error("latest bids failed")
		InternalError(c)
		return
	}

	summaries := make([]entity.BidSummary, 0, len(bids))
	for i := range bids {
		summaries = append(summaries, makeBidSummary(&bids[i], false))
	}
	c.JSON(http.StatusOK, summaries)
}

// ExportBidsCSV streams the filtered bid list as a CSV download.
func (h *HTTPHandler) ExportBidsCSV(c *gin.Context) {
	var query entity.BidQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, "Filtros inválidos!")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	bids, err := h.repo.ListBids(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("export bids failed")
		InternalError(c)
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{"ID", "Item", "Categoria", "Valor", "Participante", "Telefone", "Data"})
	for i := range bids {
		bid := &bids[i]
		_ = writer.Write([]string{
			strconv.FormatUint(uint64(bid.ID), 10),
			bid.Item.Name,
			bid.Item.Category.Name,
			fmt.Sprintf("R$ %.2f", bid.Value),
			bid.BidderName,
			bid.BidderPhone,
			bid.CreatedAt.Format("02/01/2006 15:04:05"),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logrus.WithError(err).Error("write csv failed")
		InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="lances.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// makeBidSummary converts a loaded bid. withCategory includes the item's
// category, which only the full listing preloads.
func makeBidSummary(bid *entity.DbBid, withCategory bool) entity.BidSummary {
	summary := entity.BidSummary{
		ID:          bid.ID,
		Value:       bid.Value,
		BidderName:  bid.BidderName,
		BidderPhone: bid.BidderPhone,
		Date:        bid.CreatedAt,
		Item:        entity.RefSummary{ID: bid.Item.ID, Name: bid.Item.Name},
	}
	if withCategory {
		summary.Category = &entity.RefSummary{ID: bid.Item.Category.ID, Name: bid.Item.Category.Name}
	}
	return summary
}
