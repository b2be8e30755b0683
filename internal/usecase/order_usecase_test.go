package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type queryFixture struct {
	uc     *usecase.OrderUsecase
	orders *OrderRepoMock
	items  *OrderItemRepoMock
	proofs *PaymentProofRepoMock
	audits *AuditLogRepoMock
}

func newQueryFixture() *queryFixture {
	orders := &OrderRepoMock{}
	items := &OrderItemRepoMock{}
	proofs := &PaymentProofRepoMock{}
	audits := &AuditLogRepoMock{}

	tx := &TxManagerMock{Repos: &TxReposMock{
		orders:        orders,
		orderItems:    items,
		paymentProofs: proofs,
		auditLogs:     audits,
	}}
	tx.On("WithinTx", mock.Anything).Return(nil)

	return &queryFixture{
		uc:     usecase.NewOrderUsecase(tx),
		orders: orders,
		items:  items,
		proofs: proofs,
		audits: audits,
	}
}

func TestOrderList_ReturnsItemsAndReceipt(t *testing.T) {
	f := newQueryFixture()

	createdAt := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	f.orders.On("List", mock.Anything, mock.MatchedBy(func(lf repo.OrderListFilter) bool {
		//未指定はデフォルトのページングに補正される
		return lf.Page == 1 && lf.Limit == 50
	})).Return([]model.Order{
		{ID: "o1", CustomerName: "Juan", Status: model.OrderStatusPending, TotalAmount: price("80"), CreatedAt: createdAt},
	}, int64(1), nil)
	f.items.On("ListByOrderID", mock.Anything, "o1").Return([]model.OrderItem{
		{OrderID: "o1", ItemName: "Pizza", Quantity: 1, Price: price("20")},
	}, nil)
	f.proofs.On("FindByOrderID", mock.Anything, "o1").
		Return(model.PaymentProof{OrderID: "o1", ImageURL: "https://res.cloudinary.com/x.jpg"}, nil)

	outs, err := f.uc.List(context.Background(), repo.OrderListFilter{})

	assert.NoError(t, err)
	assert.Len(t, outs, 1)
	assert.Equal(t, "o1", outs[0].ID)
	assert.Equal(t, "PENDING", outs[0].Status)
	assert.Len(t, outs[0].Items, 1)
	assert.Equal(t, "https://res.cloudinary.com/x.jpg", outs[0].ReceiptURL)
}

func TestOrderList_InvalidStatusFilter(t *testing.T) {
	f := newQueryFixture()

	_, err := f.uc.List(context.Background(), repo.OrderListFilter{Status: "SHIPPED"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestOrderDetail_NotFound(t *testing.T) {
	f := newQueryFixture()

	f.orders.On("FindByID", mock.Anything, "missing").Return(model.Order{}, repo.ErrNotFound)

	_, err := f.uc.Detail(context.Background(), "missing")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

// レシート行が無い注文はURL空で返す（エラーにしない）
func TestOrderDetail_NoReceipt(t *testing.T) {
	f := newQueryFixture()

	f.orders.On("FindByID", mock.Anything, "o1").
		Return(model.Order{ID: "o1", Status: model.OrderStatusConfirmed, TotalAmount: price("80")}, nil)
	f.items.On("ListByOrderID", mock.Anything, "o1").Return([]model.OrderItem{}, nil)
	f.proofs.On("FindByOrderID", mock.Anything, "o1").Return(model.PaymentProof{}, repo.ErrNotFound)

	out, err := f.uc.Detail(context.Background(), "o1")

	assert.NoError(t, err)
	assert.Empty(t, out.ReceiptURL)
}

func TestOrderHistory(t *testing.T) {
	f := newQueryFixture()

	f.orders.On("FindByID", mock.Anything, "o1").
		Return(model.Order{ID: "o1", Status: model.OrderStatusConfirmed}, nil)
	f.audits.On("ListByResourceID", mock.Anything, "o1").Return([]model.AuditLog{
		{
			ActorOperatorID: 7,
			Action:          model.AuditActionUpdateOrderStatus,
			ResourceID:      "o1",
			BeforeJSON:      `{"status":"PENDING"}`,
			AfterJSON:       `{"status":"CONFIRMED"}`,
		},
	}, nil)

	outs, err := f.uc.History(context.Background(), "o1")

	assert.NoError(t, err)
	assert.Len(t, outs, 1)
	assert.Equal(t, int64(7), outs[0].ActorOperatorID)
	assert.Equal(t, "UPDATE_ORDER_STATUS", outs[0].Action)
	assert.Equal(t, `{"status":"CONFIRMED"}`, outs[0].After)
}

func TestOrderHistory_OrderNotFound(t *testing.T) {
	f := newQueryFixture()

	f.orders.On("FindByID", mock.Anything, "missing").Return(model.Order{}, repo.ErrNotFound)

	_, err := f.uc.History(context.Background(), "missing")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
	f.audits.AssertNotCalled(t, "ListByResourceID", mock.Anything, mock.Anything)
}
