package handler

import (
	"net/http"
	"strconv"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc       *usecase.CartUsecase
	sessions *SessionResolver
}

// DI
func NewCartHandler(uc *usecase.CartUsecase, sessions *SessionResolver) *CartHandler {
	return &CartHandler{uc: uc, sessions: sessions}
}

type AddCartLineRequest struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int64 `json:"quantity"`
}

type UpdateCartLineRequest struct {
	Quantity int64 `json:"quantity"`
}

// /cart, /cart/{id} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart")
	g.Use(middleware.GuestSession())

	g.GET("", h.getCart)
	g.POST("", h.addLine)
	g.PATCH("/:id", h.patchLine)
	g.DELETE("/:id", h.deleteLine)
}

// 閲覧はセッションを作らない。cookieが無ければ空カートを返すだけ。
func (h *CartHandler) getCart(c echo.Context) error {
	guestID, err := h.sessions.forRead(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListLines(c.Request().Context(), guestID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addLine(c echo.Context) error {
	var req AddCartLineRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//書き込みなのでここでセッションを発行・延長する
	guestID, err := h.sessions.forWrite(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.AddLine(c.Request().Context(), guestID, usecase.AddLineInput{
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) patchLine(c echo.Context) error {
	lineID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateCartLineRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	guestID, err := h.sessions.forWrite(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.UpdateQuantity(c.Request().Context(), guestID, lineID, usecase.UpdateLineInput{
		Quantity: req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteLine(c echo.Context) error {
	lineID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	guestID, err := h.sessions.forWrite(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.RemoveLine(c.Request().Context(), guestID, lineID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
