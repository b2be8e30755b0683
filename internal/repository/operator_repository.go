package repository

import (
	"context"

	"app/internal/domain/model"
)

type OperatorRepository interface {
	FindByEmail(ctx context.Context, email string) (model.Operator, error)
	FindByID(ctx context.Context, id int64) (model.Operator, error)
	Create(ctx context.Context, op model.Operator) (int64, error)
	UpdateLastLoginAt(ctx context.Context, id int64) error
}
