package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 注文ステータスの状態機械。遷移はここを通る以外に許さない。
type LifecycleUsecase struct {
	tx repo.TransactionManager
}

func NewLifecycleUsecase(tx repo.TransactionManager) *LifecycleUsecase {
	return &LifecycleUsecase{tx: tx}
}

type TransitionInput struct {
	OrderID string
	Status  string
}

// Transition は orderID のステータスを target へ進める。
// 不正な遷移は409で拒否する（黙って無視しない）。
// 同じPENDING注文へのconfirm/cancel競合は条件付き更新で必ず片方だけ勝つ。
func (u *LifecycleUsecase) Transition(ctx context.Context, actorOperatorID int64, in TransitionInput) (OrderOutput, error) {
	if actorOperatorID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.OrderID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	target := model.OrderStatus(in.Status)
	if !target.IsValid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, in.OrderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if !o.Status.CanTransitionTo(target) {
			return NewHTTPError(http.StatusConflict, "illegal transition")
		}

		//読んだステータスからの条件付き更新。0件なら先に別の遷移が確定している。
		if err := r.Orders().UpdateStatusIf(ctx, in.OrderID, o.Status, target); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				if _, err2 := r.Orders().FindByID(ctx, in.OrderID); errors.Is(err2, repo.ErrNotFound) {
					return NewHTTPError(http.StatusNotFound, "not found")
				}
				//負けた側はIllegalTransition
				return NewHTTPError(http.StatusConflict, "illegal transition")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON := `{"status":"` + string(o.Status) + `"}`
		afterJSON := `{"status":"` + string(target) + `"}`
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorOperatorID: actorOperatorID,
			Action:          model.AuditActionUpdateOrderStatus,
			ResourceType:    model.AuditResourceOrder,
			ResourceID:      in.OrderID,
			BeforeJSON:      beforeJSON,
			AfterJSON:       afterJSON,
			CreatedAt:       time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = target
		out, err = buildOrderOutput(ctx, r, o)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}
