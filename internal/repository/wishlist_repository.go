package repository

import (
	"context"

	"app/internal/domain/model"
)

type WishlistRepository interface {
	ListByGuestID(ctx context.Context, guestID int64) ([]model.WishlistItem, error)

	// 既にあれば何もしない
	AddIfAbsent(ctx context.Context, guestID int64, variantID int64) error

	DeleteByID(ctx context.Context, itemID int64) error
	DeleteByGuestIDs(ctx context.Context, guestIDs []int64) error
	IsOwnedByGuest(ctx context.Context, itemID int64, guestID int64) (bool, error)
}
