package model

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"leilao/internal/entity"
)

// LatestSetting returns the most recent configuration row, or
// gorm.ErrRecordNotFound when none was ever saved.
func (r *GormRepository) LatestSetting(ctx context.Context) (*entity.DbSetting, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var setting entity.DbSetting
	if err := r.db.WithContext(ctx).Order("id DESC").First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// CreateSetting persists the first configuration row.
func (r *GormRepository) CreateSetting(ctx context.Context, setting *entity.DbSetting) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if setting == nil {
		return fmt.Errorf("setting is nil")
	}
	return r.db.WithContext(ctx).Create(setting).Error
}

// UpdateSetting applies the provided partial update to a configuration row.
func (r *GormRepository) UpdateSetting(ctx context.Context, id uint, updates entity.SettingUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid setting id")
	}
	if updates.IsEmpty() {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbSetting{}).Where("id = ?", id).Updates(updates.ToMap())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
