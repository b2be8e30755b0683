package repository

import (
	"context"

	"app/internal/domain/model"
)

type PaymentProofRepository interface {
	Create(ctx context.Context, proof model.PaymentProof) error
	FindByOrderID(ctx context.Context, orderID string) (model.PaymentProof, error)
}
