package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
)

// 参照コードの一意制約違反。呼び出し側は再生成してリトライする。
var ErrDuplicateReference = errors.New("duplicate order reference")

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//注文確認ページの公開キーで引く
	FindByReference(ctx context.Context, reference string) (model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//予約中/減算済みフラグの更新
	SetStockFlags(ctx context.Context, orderID int64, reserved bool, reduced bool) error

	//承認の記録（confirmed_at / confirmed_by）
	SetConfirmed(ctx context.Context, orderID int64, adminUserID int64, at time.Time) error

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
