package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

type OrderListFilter struct {
	Page   int
	Limit  int
	Status string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	Create(ctx context.Context, order model.Order) error

	//作成日時の降順で返す（コンソールのポーリング用）。
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)

	//from のときだけ status を更新する条件付き更新。
	//更新できなければ ErrNotFound を返す（存在しないか、別の遷移が先に勝った）。
	UpdateStatusIf(ctx context.Context, orderID string, from model.OrderStatus, to model.OrderStatus) error

	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, key string) (model.Order, bool, error)
}
