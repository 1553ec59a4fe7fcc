package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

// 管理ユーザーの取得だけを約束（登録はシード／運用ツール側）。
type UserRepository interface {
	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
}
