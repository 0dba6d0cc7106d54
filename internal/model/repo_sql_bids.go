package model

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leilao/internal/entity"
)

// PlaceBid validates and records a bid in one transaction. The item row is
// locked for the duration of the transaction so two concurrent bids on the
// same item serialise: the current price each one sees already includes any
// bid committed before it.
//
// Returns gorm.ErrRecordNotFound when the item does not exist and
// *entity.BidBelowCurrentError when the value does not strictly exceed the
// current price.
func (r *GormRepository) PlaceBid(ctx context.Context, bid *entity.DbBid) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if bid == nil {
		return fmt.Errorf("bid is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		itemQuery := tx
		// SQLite has no SELECT ... FOR UPDATE; its single writer already
		// serialises bid inserts.
		if tx.Dialector.Name() != "sqlite" {
			itemQuery = itemQuery.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var item entity.DbItem
		if err := itemQuery.First(&item, bid.ItemID).Error; err != nil {
			return err
		}

		current, err := currentPriceTx(tx, &item)
		if err != nil {
			return err
		}
		if bid.Value <= current {
			return &entity.BidBelowCurrentError{Current: current}
		}

		bid.Item = entity.DbItem{}
		return tx.Create(bid).Error
	})
}

// currentPriceTx computes the current price of an item within tx: the highest
// bid, or the starting bid when the ledger is empty.
func currentPriceTx(tx *gorm.DB, item *entity.DbItem) (float64, error) {
	var max sql.NullFloat64
	err := tx.Model(&entity.DbBid{}).
		Where("item_id = ?", item.ID).
		Select("MAX(valor)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max.Valid {
		return max.Float64, nil
	}
	return item.StartingBid, nil
}

// CurrentPrice returns the derived current price for one item.
func (r *GormRepository) CurrentPrice(ctx context.Context, itemID uint) (float64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var item entity.DbItem
	if err := r.db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		return 0, err
	}
	return currentPriceTx(r.db.WithContext(ctx), &item)
}

// CurrentPrices returns the highest bid per item for the given ids. Items with
// no bids are absent from the map; callers fall back to the starting bid.
func (r *GormRepository) CurrentPrices(ctx context.Context, itemIDs []uint) (map[uint]float64, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	prices := make(map[uint]float64, len(itemIDs))
	if len(itemIDs) == 0 {
		return prices, nil
	}
	var rows []struct {
		ItemID uint
		Max    float64
	}
	err := r.db.WithContext(ctx).Model(&entity.DbBid{}).
		Select("item_id, MAX(valor) AS max").
		Where("item_id IN ?", itemIDs).
		Group("item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		prices[row.ItemID] = row.Max
	}
	return prices, nil
}

// ListItemBids returns the most recent bids for one item, newest first.
func (r *GormRepository) ListItemBids(ctx context.Context, itemID uint, limit int) ([]entity.DbBid, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if limit <= 0 {
		limit = 3
	}
	var bids []entity.DbBid
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("data_lance DESC").
		Limit(limit).
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}

// ListBids returns bids joined with their item and category, newest first,
// honouring the optional query filters.
func (r *GormRepository) ListBids(ctx context.Context, query *entity.BidQuery) ([]entity.DbBid, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	q := r.db.WithContext(ctx).Model(&entity.DbBid{}).
		Joins("JOIN itens ON itens.id = lances.item_id").
		Preload("Item").
		Preload("Item.Category")
	if query != nil {
		if query.ItemID != 0 {
			q = q.Where("lances.item_id = ?", query.ItemID)
		}
		if query.CategoryID != 0 {
			q = q.Where("itens.categoria_id = ?", query.CategoryID)
		}
		if from := strings.TrimSpace(query.DateFrom); from != "" {
			q = q.Where("lances.data_lance >= ?", from)
		}
		if to := strings.TrimSpace(query.DateTo); to != "" {
			q = q.Where("lances.data_lance <= ?", to)
		}
	}
	var bids []entity.DbBid
	if err := q.Order("lances.data_lance DESC").Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

// LatestBids returns the most recent bids with their item, newest first.
func (r *GormRepository) LatestBids(ctx context.Context, limit int) ([]entity.DbBid, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if limit <= 0 {
		limit = 5
	}
	var bids []entity.DbBid
	err := r.db.WithContext(ctx).
		Preload("Item").
		Order("data_lance DESC").
		Limit(limit).
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}

// CountBids returns the total number of bids.
func (r *GormRepository) CountBids(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbBid{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumBidValues returns the sum of all bid values, zero when there are none.
func (r *GormRepository) SumBidValues(ctx context.Context) (float64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var total sql.NullFloat64
	err := r.db.WithContext(ctx).Model(&entity.DbBid{}).
		Select("SUM(valor)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total.Valid {
		return total.Float64, nil
	}
	return 0, nil
}
