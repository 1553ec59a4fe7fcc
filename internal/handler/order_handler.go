package handler

import (
	"net/http"
	"strconv"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc       *usecase.OrderUsecase
	sessions *SessionResolver
}

func NewOrderHandler(uc *usecase.OrderUsecase, sessions *SessionResolver) *OrderHandler {
	return &OrderHandler{uc: uc, sessions: sessions}
}

type CheckoutRequest struct {
	CustomerName   string `json:"customer_name"`
	Phone          string `json:"phone"`
	City           string `json:"city"`
	ShippingCost   int64  `json:"shipping_cost"`
	ShippingMethod string `json:"shipping_method"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/orders")
	g.Use(middleware.GuestSession())

	g.POST("", h.checkout)
	g.GET("/:reference", h.getByReference)

	// 在庫照会は公開（max(0, stock - reserved)だけ返す）
	e.GET("/variants/:id/stock", h.getStock)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	guestID, err := h.sessions.forWrite(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Checkout(c.Request().Context(), guestID, usecase.CheckoutInput{
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		City:          req.City,
		ShippingCost:  req.ShippingCost,
		ShippingLabel: req.ShippingMethod,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

// 注文確認ページ用。参照コードを知っていれば誰でも見られる（メール導線を想定）。
// セッションの発行はしない。
func (h *OrderHandler) getByReference(c echo.Context) error {
	out, err := h.uc.GetByReference(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

type StockResponse struct {
	VariantID int64 `json:"variant_id"`
	Available int64 `json:"available"`
}

func (h *OrderHandler) getStock(c echo.Context) error {
	variantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	available, err := h.uc.GetAvailableStock(c.Request().Context(), variantID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, StockResponse{VariantID: variantID, Available: available})
}
