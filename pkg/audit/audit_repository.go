package audit

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"context"

	"gorm.io/gorm"
)

type (
	AuditRepository interface {
		CreateAuditLog(ctx context.Context, log *entities.AuditLog) error
		GetAuditLogs(ctx context.Context, filter domain.AuditLogFilter, page, limit int) ([]*entities.AuditLog, int64, error)
	}

	auditRepository struct {
		db *gorm.DB
	}
)

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) CreateAuditLog(ctx context.Context, log *entities.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditRepository) GetAuditLogs(ctx context.Context, filter domain.AuditLogFilter, page, limit int) ([]*entities.AuditLog, int64, error) {
	var logs []*entities.AuditLog
	var count int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&entities.AuditLog{})
	if filter.AdminID != "" {
		q = q.Where("admin_id = ?", filter.AdminID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.TargetType != "" {
		q = q.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != "" {
		q = q.Where("target_id = ?", filter.TargetID)
	}

	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Preload("Admin").
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, count, nil
}
