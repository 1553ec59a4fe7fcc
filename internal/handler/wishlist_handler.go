package handler

import (
	"net/http"
	"strconv"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type WishlistHandler struct {
	uc       *usecase.WishlistUsecase
	sessions *SessionResolver
}

func NewWishlistHandler(uc *usecase.WishlistUsecase, sessions *SessionResolver) *WishlistHandler {
	return &WishlistHandler{uc: uc, sessions: sessions}
}

type AddWishlistRequest struct {
	VariantID int64 `json:"variant_id"`
}

func (h *WishlistHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/wishlist")
	g.Use(middleware.GuestSession())

	g.GET("", h.list)
	g.POST("", h.add)
	g.DELETE("/:id", h.remove)
}

func (h *WishlistHandler) list(c echo.Context) error {
	guestID, err := h.sessions.forRead(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), guestID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *WishlistHandler) add(c echo.Context) error {
	var req AddWishlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	guestID, err := h.sessions.forWrite(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Add(c.Request().Context(), guestID, req.VariantID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *WishlistHandler) remove(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	guestID, err := h.sessions.forWrite(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Remove(c.Request().Context(), guestID, itemID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
