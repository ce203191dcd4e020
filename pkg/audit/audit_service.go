// Package audit keeps the trail of admin actions.
package audit

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"Recipe-Platform/internal/utils/logging"
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type (
	// Recorder is the write side used by services that perform admin actions.
	Recorder interface {
		Record(ctx context.Context, actor domain.Actor, action, targetType, targetID string, details map[string]any)
	}

	AuditService interface {
		Recorder
		ListAuditLogs(ctx context.Context, filter domain.AuditLogFilter) ([]domain.AuditLog, domain.Pagination, error)
	}

	auditService struct {
		auditRepository AuditRepository
	}
)

func NewAuditService(auditRepository AuditRepository) AuditService {
	return &auditService{auditRepository: auditRepository}
}

// Record stores the entry. A failed write is logged and does not undo the
// action it describes.
func (s *auditService) Record(ctx context.Context, actor domain.Actor, action, targetType, targetID string, details map[string]any) {
	adminID, err := uuid.Parse(actor.ID)
	if err != nil {
		logging.Error().Err(err).Str("action", action).Msg("audit: invalid admin id")
		return
	}

	entry := &entities.AuditLog{
		AdminID:    adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		IPAddress:  actor.IPAddress,
		CreatedAt:  time.Now(),
	}
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			entry.Details = string(b)
		}
	}

	if err := s.auditRepository.CreateAuditLog(ctx, entry); err != nil {
		logging.Error().Err(err).
			Str("admin_id", actor.ID).
			Str("action", action).
			Str("target_id", targetID).
			Msg("audit: failed to store entry")
	}
}

func (s *auditService) ListAuditLogs(ctx context.Context, filter domain.AuditLogFilter) ([]domain.AuditLog, domain.Pagination, error) {
	page, limit := domain.NormalizePage(filter.Page, filter.Limit)

	logs, count, err := s.auditRepository.GetAuditLogs(ctx, filter, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	res := make([]domain.AuditLog, 0, len(logs))
	for _, l := range logs {
		item := domain.AuditLog{
			ID:         l.ID.String(),
			AdminID:    l.AdminID.String(),
			Action:     l.Action,
			TargetType: l.TargetType,
			TargetID:   l.TargetID,
			Details:    l.Details,
			IPAddress:  l.IPAddress,
			CreatedAt:  l.CreatedAt,
		}
		if l.Admin != nil {
			item.AdminName = l.Admin.Name
		}
		res = append(res, item)
	}

	return res, domain.NewPagination(page, limit, count), nil
}
