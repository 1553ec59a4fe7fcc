package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

// ゲストセッションの永続化。
// 読み取り経路は FindByToken のみ使う（行を作らない）。
type GuestRepository interface {
	FindByToken(ctx context.Context, token string) (model.GuestIdentity, error)
	Create(ctx context.Context, guest model.GuestIdentity) (model.GuestIdentity, error)

	// 書き込み経路での延長。期限を expiresAt まで伸ばす。
	ExtendExpiry(ctx context.Context, guestID int64, expiresAt time.Time) error

	// 期限切れゲストのID一覧（スイープ用）
	ListExpiredIDs(ctx context.Context, now time.Time, limit int) ([]int64, error)
	DeleteByIDs(ctx context.Context, guestIDs []int64) (int64, error)
}
