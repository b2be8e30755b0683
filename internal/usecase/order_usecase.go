package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderItemOutput struct {
	ItemName string          `json:"itemName"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type OrderOutput struct {
	ID            string            `json:"id"`
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
	TotalAmount   decimal.Decimal   `json:"totalAmount"`
	Status        string            `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	Items         []OrderItemOutput `json:"items"`
	ReceiptURL    string            `json:"receiptUrl"`
}

// 注文の参照系。コンソールのポーリングはここを叩く。
type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

func (u *OrderUsecase) List(ctx context.Context, f repo.OrderListFilter) ([]OrderOutput, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 50
	}
	if f.Status != "" && !model.OrderStatus(f.Status).IsValid() {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().List(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			out, err := buildOrderOutput(ctx, r, o)
			if err != nil {
				return err
			}
			outs = append(outs, out)
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) Detail(ctx context.Context, orderID string) (OrderOutput, error) {
	if orderID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildOrderOutput(ctx, r, o)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

type AuditEntryOutput struct {
	ActorOperatorID int64     `json:"actorOperatorId"`
	Action          string    `json:"action"`
	Before          string    `json:"before"`
	After           string    `json:"after"`
	CreatedAt       time.Time `json:"createdAt"`
}

// History は注文に対するオペレーター操作の履歴を返す。
func (u *OrderUsecase) History(ctx context.Context, orderID string) ([]AuditEntryOutput, error) {
	if orderID == "" {
		return []AuditEntryOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var outs []AuditEntryOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().FindByID(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		logs, err := r.AuditLogs().ListByResourceID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]AuditEntryOutput, 0, len(logs))
		for _, l := range logs {
			outs = append(outs, AuditEntryOutput{
				ActorOperatorID: l.ActorOperatorID,
				Action:          string(l.Action),
				Before:          l.BeforeJSON,
				After:           l.AfterJSON,
				CreatedAt:       l.CreatedAt,
			})
		}
		return nil
	})

	if err != nil {
		return []AuditEntryOutput{}, err
	}
	return outs, nil
}

func buildOrderOutput(ctx context.Context, r repo.TxRepos, o model.Order) (OrderOutput, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	receiptURL := ""
	proof, err := r.PaymentProofs().FindByOrderID(ctx, o.ID)
	if err == nil {
		receiptURL = proof.ImageURL
	} else if !errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toOrderOutput(o, items, receiptURL), nil
}

func toOrderOutput(o model.Order, items []model.OrderItem, receiptURL string) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ItemName: it.ItemName,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	return OrderOutput{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		TotalAmount:   o.TotalAmount,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		Items:         outItems,
		ReceiptURL:    receiptURL,
	}
}
