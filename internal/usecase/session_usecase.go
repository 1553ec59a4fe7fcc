package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// ゲストセッションの有効期間。書き込みのたびにここまで延長する。
const GuestSessionTTL = 30 * 24 * time.Hour

// スイープ1回あたりの削除上限
const sweepBatchSize = 500

type Clock interface {
	Now() time.Time
}

type TokenGenerator interface {
	NewToken() string
}

// SessionUsecase はゲストセッションの解決を担当する。
//
// 読み取りと書き込みで入口を分けるのは仕様上のルール：
// 匿名の閲覧だけでDBに行を作らない。ResolveForRead は絶対に書かない。
type SessionUsecase struct {
	guestRepo repo.GuestRepository
	tx        repo.TransactionManager
	tokenGen  TokenGenerator
	clock     Clock
}

func NewSessionUsecase(
	guestRepo repo.GuestRepository,
	tx repo.TransactionManager,
	tokenGen TokenGenerator,
	clock Clock,
) *SessionUsecase {
	return &SessionUsecase{
		guestRepo: guestRepo,
		tx:        tx,
		tokenGen:  tokenGen,
		clock:     clock,
	}
}

// ResolveForRead はトークンからゲストを引く。見つからなければ false（エラーにしない）。
// 行の作成も期限延長もしない。
func (u *SessionUsecase) ResolveForRead(ctx context.Context, token string) (model.GuestIdentity, bool, error) {
	if token == "" {
		return model.GuestIdentity{}, false, nil
	}

	g, err := u.guestRepo.FindByToken(ctx, token)
	if errors.Is(err, repo.ErrNotFound) {
		return model.GuestIdentity{}, false, nil
	}
	if err != nil {
		return model.GuestIdentity{}, false, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//期限切れはスイープ待ちでもヒットさせない
	if g.Expired(u.clock.Now()) {
		return model.GuestIdentity{}, false, nil
	}

	return g, true, nil
}

// ResolveOrProvisionForWrite は書き込み経路の入口。
// 既存トークンなら期限を延長し、無ければ新規セッションを作って返す。
func (u *SessionUsecase) ResolveOrProvisionForWrite(ctx context.Context, token string) (model.GuestIdentity, error) {
	now := u.clock.Now()

	if token != "" {
		g, err := u.guestRepo.FindByToken(ctx, token)
		if err == nil && !g.Expired(now) {
			expiresAt := now.Add(GuestSessionTTL)
			if err := u.guestRepo.ExtendExpiry(ctx, g.ID, expiresAt); err != nil {
				return model.GuestIdentity{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			g.ExpiresAt = expiresAt
			return g, nil
		}
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return model.GuestIdentity{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		//見つからない・期限切れは新規作成に落ちる
	}

	g, err := u.guestRepo.Create(ctx, model.GuestIdentity{
		Token:     u.tokenGen.NewToken(),
		CreatedAt: now,
		ExpiresAt: now.Add(GuestSessionTTL),
	})
	if err != nil {
		return model.GuestIdentity{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return g, nil
}

// SweepExpired は期限切れゲストを1バッチ削除する。
// カート明細とウィッシュリストも同じトランザクションで消す。
// 注文は消さない（期限切れで消えるのは放置カートだけ）。
func (u *SessionUsecase) SweepExpired(ctx context.Context) (int64, error) {
	var deleted int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ids, err := r.Guests().ListExpiredIDs(ctx, u.clock.Now(), sweepBatchSize)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := r.CartLines().DeleteByGuestIDs(ctx, ids); err != nil {
			return err
		}
		if err := r.Wishlist().DeleteByGuestIDs(ctx, ids); err != nil {
			return err
		}

		n, err := r.Guests().DeleteByIDs(ctx, ids)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})

	if err != nil {
		return 0, err
	}
	return deleted, nil
}
