package usecase

import (
	"context"
	"net/http"

	repo "app/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// guestIDは解決済みのものを受け取る（セッションの解決はhandler側でSessionUsecaseが行う）。
// 在庫カウンタには触れない。available のチェックだけ行う。
type CartUsecase struct {
	cartLineRepo repo.CartLineRepository
	variantRepo  repo.VariantRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartLineRepo repo.CartLineRepository,
	variantRepo repo.VariantRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartLineRepo: cartLineRepo,
		variantRepo:  variantRepo,
		productRepo:  productRepo,
	}
}

// price は unit_price_snapshot（追加時点の販売価格）を返します。
type CartLineResponse struct {
	ID        int64  `json:"id"`
	VariantID int64  `json:"variant_id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	Total int64              `json:"total"`
}

type AddLineInput struct {
	VariantID int64
	Quantity  int64
}

type UpdateLineInput struct {
	Quantity int64
}

// AddLine はカートに追加（同一バリアントは数量加算）。
// 既存数量＋追加数量が available を超えるなら在庫不足で失敗する。
func (u *CartUsecase) AddLine(ctx context.Context, guestID int64, in AddLineInput) (CartResponse, error) {
	if guestID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "no session")
	}
	if in.VariantID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid variant_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	//バリアントチェック
	v, err := u.variantRepo.FindByID(ctx, in.VariantID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, v.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}

	//既存数量を調べる（カート明細は予約ではないのでavailableにそのまま比較できる）
	lines, err := u.cartLineRepo.ListByGuestID(ctx, guestID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var existingQty int64 = 0
	for _, l := range lines {
		if l.VariantID == in.VariantID {
			existingQty = l.Quantity
			break
		}
	}

	newQty := existingQty + in.Quantity
	if newQty > v.Available() {
		return CartResponse{}, &InsufficientStockError{
			VariantID:   v.ID,
			ProductName: p.Name,
			Requested:   newQty,
			Available:   v.Available(),
		}
	}

	// Upsert（同一バリアントは加算）
	// unit_price_snapshot は「追加時点の販売価格」を渡す
	if err := u.cartLineRepo.UpsertByGuestAndVariant(ctx, guestID, in.VariantID, in.Quantity, p.EffectivePrice()); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, guestID)
}

// 数量変更（所有チェック＋在庫チェック）。quantity=0 は削除と同じ。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, guestID int64, lineID int64, in UpdateLineInput) (CartResponse, error) {
	if guestID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "no session")
	}
	if lineID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	if in.Quantity == 0 {
		return u.RemoveLine(ctx, guestID, lineID)
	}

	owned, err := u.cartLineRepo.IsOwnedByGuest(ctx, lineID, guestID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	line, err := u.cartLineRepo.FindByID(ctx, lineID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//バリアントの在庫チェック
	v, err := u.variantRepo.FindByID(ctx, line.VariantID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if in.Quantity > v.Available() {
		p, perr := u.productRepo.FindByID(ctx, v.ProductID)
		name := ""
		if perr == nil {
			name = p.Name
		}
		return CartResponse{}, &InsufficientStockError{
			VariantID:   v.ID,
			ProductName: name,
			Requested:   in.Quantity,
			Available:   v.Available(),
		}
	}

	if err := u.cartLineRepo.UpdateQuantity(ctx, lineID, in.Quantity); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, guestID)
}

// 明細削除。存在しない明細は404（no-opにはしない）。
func (u *CartUsecase) RemoveLine(ctx context.Context, guestID int64, lineID int64) (CartResponse, error) {
	if guestID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "no session")
	}
	if lineID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.cartLineRepo.IsOwnedByGuest(ctx, lineID, guestID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartLineRepo.DeleteByID(ctx, lineID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, guestID)
}

// ListLines はカート表示用。読み取りのみで何も作らない。
func (u *CartUsecase) ListLines(ctx context.Context, guestID int64) (CartResponse, error) {
	if guestID <= 0 {
		//セッションが無いなら空のカート（エラーにしない）
		return CartResponse{Items: []CartLineResponse{}}, nil
	}
	return u.buildCartResponse(ctx, guestID)
}

// guestIDの明細をまとめてCartResponseを作る。
func (u *CartUsecase) buildCartResponse(ctx context.Context, guestID int64) (CartResponse, error) {
	lines, err := u.cartLineRepo.ListByGuestID(ctx, guestID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartLineResponse, 0, len(lines))
	var total int64 = 0

	for _, l := range lines {
		v, err := u.variantRepo.FindByID(ctx, l.VariantID)
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

		respItems = append(respItems, CartLineResponse{
			ID:        l.ID,
			VariantID: l.VariantID,
			ProductID: p.ID,
			Name:      p.Name,
			Color:     v.Color,
			Size:      v.Size,
			Price:     l.UnitPriceSnapshot,
			Quantity:  l.Quantity,
		})

		total += l.UnitPriceSnapshot * l.Quantity
	}

	return CartResponse{Items: respItems, Total: total}, nil
}
