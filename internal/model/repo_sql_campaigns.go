package model

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"leilao/internal/entity"
)

// CreateCampaign persists a new campaign.
func (r *GormRepository) CreateCampaign(ctx context.Context, campaign *entity.DbCampaign) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if campaign == nil {
		return fmt.Errorf("campaign is nil")
	}
	return r.db.WithContext(ctx).Create(campaign).Error
}

// UpdateCampaign applies the provided partial update to a campaign.
func (r *GormRepository) UpdateCampaign(ctx context.Context, id uint, updates entity.CampaignUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid campaign id")
	}
	if updates.IsEmpty() {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbCampaign{}).Where("id = ?", id).Updates(updates.ToMap())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetCampaign loads a campaign by ID.
func (r *GormRepository) GetCampaign(ctx context.Context, id uint) (*entity.DbCampaign, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid campaign id")
	}
	var campaign entity.DbCampaign
	if err := r.db.WithContext(ctx).First(&campaign, id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// ListCampaigns returns campaigns, newest year first, optionally filtered by status.
func (r *GormRepository) ListCampaigns(ctx context.Context, status string) ([]entity.DbCampaign, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&entity.DbCampaign{})
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		query = query.Where("status = ?", trimmed)
	}
	var campaigns []entity.DbCampaign
	if err := query.Order("ano DESC").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// DeleteCampaign removes a campaign by ID.
func (r *GormRepository) DeleteCampaign(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid campaign id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbCampaign{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountCampaignsByStatus counts campaigns with the given status.
func (r *GormRepository) CountCampaignsByStatus(ctx context.Context, status string) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbCampaign{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
