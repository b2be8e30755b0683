package repository

import (
	"context"

	"app/internal/domain/model"
)

type AuditLogRepository interface {
	Create(ctx context.Context, logEntry model.AuditLog) error
	ListByResourceID(ctx context.Context, resourceID string) ([]model.AuditLog, error)
}
