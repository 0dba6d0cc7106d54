package model

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"leilao/internal/entity"
)

// CreateItem persists a new item.
func (r *GormRepository) CreateItem(ctx context.Context, item *entity.DbItem) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if item == nil {
		return fmt.Errorf("item is nil")
	}
	return r.db.WithContext(ctx).Omit("Campaign", "Category").Create(item).Error
}

// UpdateItem applies the provided partial update to an item.
func (r *GormRepository) UpdateItem(ctx context.Context, id uint, updates entity.ItemUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid item id")
	}
	if updates.IsEmpty() {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbItem{}).Where("id = ?", id).Updates(updates.ToMap())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetItem loads an item with its campaign and category.
func (r *GormRepository) GetItem(ctx context.Context, id uint) (*entity.DbItem, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid item id")
	}
	var item entity.DbItem
	if err := r.db.WithContext(ctx).Preload("Campaign").Preload("Category").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns items with campaign and category, newest first, optionally
// filtered by campaign.
func (r *GormRepository) ListItems(ctx context.Context, campaignID uint) ([]entity.DbItem, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&entity.DbItem{}).Preload("Campaign").Preload("Category")
	if campaignID != 0 {
		query = query.Where("campanha_id = ?", campaignID)
	}
	var items []entity.DbItem
	if err := query.Order("id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteItem removes an item by ID.
func (r *GormRepository) DeleteItem(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid item id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountItems returns the total item count.
func (r *GormRepository) CountItems(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbItem{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
