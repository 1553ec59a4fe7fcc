package repository

import (
	"context"

	"app/internal/domain/model"
)

// バリアント（色×サイズ）の在庫台帳。
// reserved/stock の増減はすべて条件付きUPDATEで行う（read-modify-writeしない）。
type VariantRepository interface {
	FindByID(ctx context.Context, variantID int64) (model.Variant, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.Variant, error)

	// available >= qty のときだけ reserved += qty。足りなければ false。
	ReserveIfAvailable(ctx context.Context, variantID int64, qty int64) (bool, error)

	// 予約の解放（キャンセル）。reserved -= qty。
	ReleaseReserved(ctx context.Context, variantID int64, qty int64) error

	// 予約の確定（承認）。stock -= qty, reserved -= qty を同時に行う。
	CommitReserved(ctx context.Context, variantID int64, qty int64) error

	// 在庫戻し（減算済み注文のキャンセル）。stock += qty。
	RestoreStock(ctx context.Context, variantID int64, qty int64) error
}
