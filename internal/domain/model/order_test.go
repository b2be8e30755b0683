package model_test

import (
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

// 遷移表の全組み合わせ。許すのは
// PENDING→CONFIRMED / PENDING→CANCELLED / CONFIRMED→DELIVERED の3つだけ。
func TestCanTransitionTo(t *testing.T) {
	all := []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusConfirmed,
		model.OrderStatusCancelled,
		model.OrderStatusDelivered,
	}

	allowed := map[model.OrderStatus]map[model.OrderStatus]bool{
		model.OrderStatusPending: {
			model.OrderStatusConfirmed: true,
			model.OrderStatusCancelled: true,
		},
		model.OrderStatusConfirmed: {
			model.OrderStatusDelivered: true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

// 同じステータスへの遷移も不正
func TestCanTransitionTo_SameStatus(t *testing.T) {
	assert.False(t, model.OrderStatusPending.CanTransitionTo(model.OrderStatusPending))
	assert.False(t, model.OrderStatusConfirmed.CanTransitionTo(model.OrderStatusConfirmed))
}

func TestIsValid(t *testing.T) {
	assert.True(t, model.OrderStatusPending.IsValid())
	assert.True(t, model.OrderStatusDelivered.IsValid())
	assert.False(t, model.OrderStatus("SHIPPED").IsValid())
	assert.False(t, model.OrderStatus("").IsValid())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, model.OrderStatusPending.IsTerminal())
	assert.False(t, model.OrderStatusConfirmed.IsTerminal())
	assert.True(t, model.OrderStatusCancelled.IsTerminal())
	assert.True(t, model.OrderStatusDelivered.IsTerminal())
}
