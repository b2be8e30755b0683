package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	domainrepo "app/internal/repository"

	"gorm.io/gorm"
)

type operatorGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewOperatorGormRepository(db *gorm.DB) domainrepo.OperatorRepository {
	return &operatorGormRepository{db: db}
}

// emailでオペレーターを1件取得
func (r *operatorGormRepository) FindByEmail(ctx context.Context, email string) (model.Operator, error) {
	var op model.Operator

	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&op).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Operator{}, domainrepo.ErrNotFound
	}
	if err != nil {
		return model.Operator{}, err
	}

	return op, nil
}

// IDでオペレーターを1件取得
func (r *operatorGormRepository) FindByID(ctx context.Context, id int64) (model.Operator, error) {
	var op model.Operator

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&op).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Operator{}, domainrepo.ErrNotFound
	}
	if err != nil {
		return model.Operator{}, err
	}

	return op, nil
}

func (r *operatorGormRepository) Create(ctx context.Context, op model.Operator) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&op).Error; err != nil {
		return 0, err
	}
	return op.ID, nil
}

func (r *operatorGormRepository) UpdateLastLoginAt(ctx context.Context, id int64) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.Operator{}).
		Where("id = ?", id).
		Update("last_login_at", &now)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}
