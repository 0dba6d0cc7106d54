package model

import (
	"context"
	"fmt"

	"leilao/internal/entity"
)

// AppendAudit records one privileged action. Entries are never updated or
// deleted afterwards.
func (r *GormRepository) AppendAudit(ctx context.Context, entry *entity.DbAuditEntry) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if entry == nil {
		return fmt.Errorf("audit entry is nil")
	}
	entry.User = nil
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListAudit returns the most recent audit entries with their user (nil when
// the user was deleted in the meantime), newest first.
func (r *GormRepository) ListAudit(ctx context.Context, limit int) ([]entity.DbAuditEntry, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if limit <= 0 {
		limit = 100
	}
	var entries []entity.DbAuditEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("data_acao DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
