package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"app/internal/cart"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	placeUC     *usecase.PlaceOrderUsecase
	orderUC     *usecase.OrderUsecase
	lifecycleUC *usecase.LifecycleUsecase
}

func NewOrderHandler(
	placeUC *usecase.PlaceOrderUsecase,
	orderUC *usecase.OrderUsecase,
	lifecycleUC *usecase.LifecycleUsecase,
) *OrderHandler {
	return &OrderHandler{
		placeUC:     placeUC,
		orderUC:     orderUC,
		lifecycleUC: lifecycleUC,
	}
}

// POST /orders の成功レスポンス。
type OrderCreateResponse struct {
	Success    bool   `json:"success"`
	OrderID    string `json:"orderId"`
	ReceiptURL string `json:"receiptUrl"`
}

type OrderListResponse struct {
	Orders []usecase.OrderOutput `json:"orders"`
}

// PATCH /orders のリクエストボディ。
type OrderStatusUpdateRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// 明細の価格は数値でも "S/29.00" のような文字列でも受ける。
type itemPrice struct {
	decimal.Decimal
}

func (p *itemPrice) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		d, err := cart.ParsePrice(raw)
		if err != nil {
			return err
		}
		p.Decimal = d
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	p.Decimal = d
	return nil
}

type itemPayload struct {
	Name     string    `json:"name"`
	Quantity int64     `json:"quantity"`
	Price    itemPrice `json:"price"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	//注文の投入は客側なので認証なし
	e.POST("/orders", h.create)

	//参照と遷移はオペレーターのみ
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.GET("/:id/history", h.history)
	e.PATCH("/orders", h.updateStatus, middleware.AuthJWT(cfg))
}

func (h *OrderHandler) create(c echo.Context) error {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return c.JSON(http.StatusUnsupportedMediaType, errorBody("content type must be multipart/form-data"))
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("receipt is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("receipt is required"))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("failed to read receipt"))
	}

	itemsJSON := c.FormValue("items")
	if itemsJSON == "" {
		return c.JSON(http.StatusBadRequest, errorBody("items are required"))
	}

	var payload []itemPayload
	if err := json.Unmarshal([]byte(itemsJSON), &payload); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid items"))
	}

	lines := make([]cart.Line, 0, len(payload))
	for _, it := range payload {
		lines = append(lines, cart.Line{
			Name:      it.Name,
			UnitPrice: it.Price.Decimal,
			Quantity:  it.Quantity,
		})
	}

	totalRaw := c.FormValue("totalAmount")
	if totalRaw == "" {
		return c.JSON(http.StatusBadRequest, errorBody("totalAmount is required"))
	}
	total, err := cart.ParsePrice(totalRaw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid totalAmount"))
	}

	//二重送信防止キーはヘッダーから受け取る（bodyには入れない）
	idemKey := c.Request().Header.Get("X-Idempotency-Key")

	out, err := h.placeUC.PlaceOrder(c.Request().Context(), usecase.OrderRequest{
		CustomerName:  c.FormValue("customerName"),
		CustomerPhone: c.FormValue("customerPhone"),
		DeclaredTotal: total,
		Items:         lines,
		Receipt: usecase.Receipt{
			Data:     data,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Size:     fileHeader.Size,
		},
		IdempotencyKey: idemKey,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, OrderCreateResponse{
		Success:    true,
		OrderID:    out.OrderID,
		ReceiptURL: out.ReceiptURL,
	})
}

func (h *OrderHandler) list(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody("invalid page"))
		}
		page = p
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody("invalid limit"))
		}
		limit = l
	}

	status := c.QueryParam("status")

	var fromPtr *time.Time
	if v := c.QueryParam("from"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody("invalid from"))
		}
		fromPtr = &tm
	}

	var toPtr *time.Time
	if v := c.QueryParam("to"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody("invalid to"))
		}
		toPtr = &tm
	}

	out, err := h.orderUC.List(c.Request().Context(), repository.OrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: status,
		From:   fromPtr,
		To:     toPtr,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OrderListResponse{Orders: out})
}

func (h *OrderHandler) detail(c echo.Context) error {
	out, err := h.orderUC.Detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) history(c echo.Context) error {
	out, err := h.orderUC.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	operatorID, ok := getOperatorIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("unauthorized"))
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid body"))
	}

	out, err := h.lifecycleUC.Transition(c.Request().Context(), operatorID, usecase.TransitionInput{
		OrderID: req.OrderID,
		Status:  req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
