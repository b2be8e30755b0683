package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type PaymentProofGormRepository struct {
	db *gorm.DB
}

func NewPaymentProofGormRepository(db *gorm.DB) *PaymentProofGormRepository {
	return &PaymentProofGormRepository{db: db}
}

func (r *PaymentProofGormRepository) Create(ctx context.Context, proof model.PaymentProof) error {
	if err := r.db.WithContext(ctx).Create(&proof).Error; err != nil {
		return err
	}
	return nil
}

func (r *PaymentProofGormRepository) FindByOrderID(ctx context.Context, orderID string) (model.PaymentProof, error) {
	var p model.PaymentProof
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PaymentProof{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PaymentProof{}, err
	}
	return p, nil
}
