package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/cart"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// チェックアウト1回分の受信データ。
type OrderRequest struct {
	CustomerName   string
	CustomerPhone  string
	DeclaredTotal  decimal.Decimal
	Items          []cart.Line
	Receipt        Receipt
	IdempotencyKey string
}

// レシート画像本体。
type Receipt struct {
	Data     []byte
	MimeType string
	Size     int64
}

type PlaceOrderOutput struct {
	OrderID    string `json:"orderId"`
	ReceiptURL string `json:"receiptUrl"`
}

// Blobストアへのアップロードの約束。1回だけ呼ぶ。
type ReceiptUploader interface {
	Upload(ctx context.Context, data []byte, mimeType string) (string, error)
}

// 入力検証の約束。副作用なし。
type OrderValidator interface {
	//不正ならHTTPError（4xx）を返す。
	Validate(in OrderRequest) error
	//電話番号から数字以外を除いて返す。9桁でなければfalse。
	NormalizePhone(phone string) (string, bool)
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 注文取り込みパイプライン。
// 検証 → アップロード → 単一トランザクションの永続化、の順で進める。
type PlaceOrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	proofs    repo.PaymentProofRepository
	uploader  ReceiptUploader
	validator OrderValidator
	idGen     IDGenerator
	clock     Clock
}

func NewPlaceOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	proofs repo.PaymentProofRepository,
	uploader ReceiptUploader,
	validator OrderValidator,
	idGen IDGenerator,
	clock Clock,
) *PlaceOrderUsecase {
	return &PlaceOrderUsecase{
		tx:        tx,
		orders:    orders,
		proofs:    proofs,
		uploader:  uploader,
		validator: validator,
		idGen:     idGen,
		clock:     clock,
	}
}

func (u *PlaceOrderUsecase) PlaceOrder(ctx context.Context, in OrderRequest) (PlaceOrderOutput, error) {
	//検証は外部呼び出しより先。ここで落ちればBlobストアには一切触れない。
	if err := u.validator.Validate(in); err != nil {
		return PlaceOrderOutput{}, err
	}

	phone, ok := u.validator.NormalizePhone(in.CustomerPhone)
	if !ok {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid customer phone")
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	// 同じキーの再送なら既存注文を返す。重複アップロードも防げる。
	if existing, found, err := u.orders.FindByIdempotencyKey(ctx, key); err == nil && found {
		return u.replay(ctx, existing)
	} else if err != nil {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//アップロードはトランザクションの外。失敗したらDBには何も書かない。
	receiptURL, err := u.uploader.Upload(ctx, in.Receipt.Data, in.Receipt.MimeType)
	if err != nil {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadGateway, "failed to upload receipt")
	}

	orderID := u.idGen.NewID()
	now := u.clock.Now()

	var out PlaceOrderOutput

	//注文・証憑・明細は1トランザクション。途中で失敗したら全部巻き戻る。
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			replayed, err := u.replayTx(ctx, r, existing)
			if err != nil {
				return err
			}
			out = replayed
			return nil
		}

		order := model.Order{
			ID:             orderID,
			CustomerName:   strings.TrimSpace(in.CustomerName),
			CustomerPhone:  phone,
			TotalAmount:    in.DeclaredTotal,
			Status:         model.OrderStatusPending,
			IdempotencyKey: key,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := r.Orders().Create(ctx, order); err != nil {
			//競合（同時で同じキーが入った等）はもう一回検索して同じ結果を返す
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, key)
			if err2 == nil && found2 {
				replayed, err3 := u.replayTx(ctx, r, ex2)
				if err3 != nil {
					return err3
				}
				out = replayed
				return nil
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.PaymentProofs().Create(ctx, model.PaymentProof{
			OrderID:  orderID,
			ImageURL: receiptURL,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderItems := make([]model.OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			orderItems = append(orderItems, model.OrderItem{
				ItemName:  line.Name,
				Quantity:  line.Quantity,
				Price:     line.UnitPrice,
				CreatedAt: now,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = PlaceOrderOutput{OrderID: orderID, ReceiptURL: receiptURL}
		return nil
	})

	if err != nil {
		return PlaceOrderOutput{}, err
	}
	return out, nil
}

// 既存注文のIDと証憑URLをそのまま返す。
func (u *PlaceOrderUsecase) replay(ctx context.Context, existing model.Order) (PlaceOrderOutput, error) {
	proof, err := u.proofs.FindByOrderID(ctx, existing.ID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return PlaceOrderOutput{OrderID: existing.ID, ReceiptURL: proof.ImageURL}, nil
}

func (u *PlaceOrderUsecase) replayTx(ctx context.Context, r repo.TxRepos, existing model.Order) (PlaceOrderOutput, error) {
	proof, err := r.PaymentProofs().FindByOrderID(ctx, existing.ID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return PlaceOrderOutput{OrderID: existing.ID, ReceiptURL: proof.ImageURL}, nil
}
