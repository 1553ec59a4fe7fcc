package usecase

import (
	"context"
	"net/http"

	repo "app/internal/repository"
)

type WishlistUsecase struct {
	wishlistRepo repo.WishlistRepository
	variantRepo  repo.VariantRepository
	productRepo  repo.ProductRepository
}

func NewWishlistUsecase(
	wishlistRepo repo.WishlistRepository,
	variantRepo repo.VariantRepository,
	productRepo repo.ProductRepository,
) *WishlistUsecase {
	return &WishlistUsecase{
		wishlistRepo: wishlistRepo,
		variantRepo:  variantRepo,
		productRepo:  productRepo,
	}
}

type WishlistItemResponse struct {
	ID        int64  `json:"id"`
	VariantID int64  `json:"variant_id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Price     int64  `json:"price"`
	Available int64  `json:"available"`
}

type WishlistResponse struct {
	Items []WishlistItemResponse `json:"items"`
}

// Add は追加。既にあれば何もしない（エラーにしない）。
func (u *WishlistUsecase) Add(ctx context.Context, guestID int64, variantID int64) (WishlistResponse, error) {
	if guestID <= 0 {
		return WishlistResponse{}, NewHTTPError(http.StatusUnauthorized, "no session")
	}
	if variantID <= 0 {
		return WishlistResponse{}, NewHTTPError(http.StatusBadRequest, "invalid variant_id")
	}

	v, err := u.variantRepo.FindByID(ctx, variantID)
	if err == repo.ErrNotFound {
		return WishlistResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return WishlistResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p, err := u.productRepo.FindByID(ctx, v.ProductID)
	if err == repo.ErrNotFound || (err == nil && !p.IsActive) {
		return WishlistResponse{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}
	if err != nil {
		return WishlistResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.wishlistRepo.AddIfAbsent(ctx, guestID, variantID); err != nil {
		return WishlistResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildResponse(ctx, guestID)
}

func (u *WishlistUsecase) Remove(ctx context.Context, guestID int64, itemID int64) (WishlistResponse, error) {
	if guestID <= 0 {
		return WishlistResponse{}, NewHTTPError(http.StatusUnauthorized, "no session")
	}
	if itemID <= 0 {
		return WishlistResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.wishlistRepo.IsOwnedByGuest(ctx, itemID, guestID)
	if err != nil {
		return WishlistResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return WishlistResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.wishlistRepo.DeleteByID(ctx, itemID); err != nil {
		if err == repo.ErrNotFound {
			return WishlistResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return WishlistResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildResponse(ctx, guestID)
}

// List は表示用の読み取り。セッションが無ければ空を返す。
func (u *WishlistUsecase) List(ctx context.Context, guestID int64) (WishlistResponse, error) {
	if guestID <= 0 {
		return WishlistResponse{Items: []WishlistItemResponse{}}, nil
	}
	return u.buildResponse(ctx, guestID)
}

func (u *WishlistUsecase) buildResponse(ctx context.Context, guestID int64) (WishlistResponse, error) {
	items, err := u.wishlistRepo.ListByGuestID(ctx, guestID)
	if err != nil {
		return WishlistResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]WishlistItemResponse, 0, len(items))

	for _, it := range items {
		v, err := u.variantRepo.FindByID(ctx, it.VariantID)
		if err != nil {
			continue
		}
		p, err := u.productRepo.FindByID(ctx, v.ProductID)
		if err != nil {
			continue
		}
		if !p.IsActive {
			continue
		}

		respItems = append(respItems, WishlistItemResponse{
			ID:        it.ID,
			VariantID: it.VariantID,
			ProductID: p.ID,
			Name:      p.Name,
			Color:     v.Color,
			Size:      v.Size,
			Price:     p.EffectivePrice(),
			Available: v.Available(),
		})
	}

	return WishlistResponse{Items: respItems}, nil
}
