package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// 許可される遷移だけを持つ。
// PENDING -> CONFIRMED / CANCELLED
// CONFIRMED -> DELIVERED
// CANCELLED / DELIVERED は終端。
var legalTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusDelivered},
}

// CanTransitionTo は s -> target が正当な遷移かを返す。
// 同一ステータスへの遷移も不正扱い。
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range legalTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsValid はenumに含まれる値かを返す。
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// IsTerminal は以後の遷移が無いステータスかを返す。
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusDelivered
}

type Order struct {
	ID             string          `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerName   string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone  string          `gorm:"type:varchar(20);not null" json:"customer_phone"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	IdempotencyKey string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
