package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartLineRepository interface {
	ListByGuestID(ctx context.Context, guestID int64) ([]model.CartLine, error)
	FindByID(ctx context.Context, lineID int64) (model.CartLine, error)

	// 同一バリアントは数量加算（行ロック付きupsert）
	UpsertByGuestAndVariant(ctx context.Context, guestID int64, variantID int64, addQty int64, unitPriceSnapshot int64) error

	UpdateQuantity(ctx context.Context, lineID int64, qty int64) error
	DeleteByID(ctx context.Context, lineID int64) error
	DeleteByGuestID(ctx context.Context, guestID int64) error
	DeleteByGuestIDs(ctx context.Context, guestIDs []int64) error
	IsOwnedByGuest(ctx context.Context, lineID int64, guestID int64) (bool, error)
}
