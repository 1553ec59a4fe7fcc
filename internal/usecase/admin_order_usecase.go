package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, auditRepo: auditRepo}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" {
		f.Status = strings.ToLower(strings.TrimSpace(f.Status))
		if !model.ValidOrderStatus(model.OrderStatus(f.Status)) {
			return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			lines, err := r.OrderLines().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, lines))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 注文詳細（管理画面用）
func (u *AdminOrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lines, err := r.OrderLines().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, lines)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// UpdateStatus は状態機械どおりの遷移だけ許可する。
// pending→confirmed で予約を実在庫の減算に確定し、cancelled への遷移で
// 予約解放または在庫戻しを行う。すべて1トランザクション。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	//表示側は大文字で送ってくることがあるので小文字に寄せる
	newStatus := model.OrderStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if !model.ValidOrderStatus(newStatus) {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			return nil
		}

		if !model.CanTransition(o.Status, newStatus) {
			return NewHTTPError(http.StatusBadRequest,
				"invalid transition: "+string(o.Status)+" -> "+string(newStatus))
		}

		switch newStatus {
		case model.OrderStatusConfirmed:
			//承認：予約を実在庫の減算に確定する
			if err := u.commitReservation(ctx, r, actorAdminUserID, o); err != nil {
				return err
			}
		case model.OrderStatusCancelled:
			//キャンセル：予約解放 or 在庫戻し
			if err := u.reverseStock(ctx, r, o); err != nil {
				return err
			}
		}

		beforeStatus := string(o.Status)
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON := `{"status":"` + beforeStatus + `"}`
		afterJSON := `{"status":"` + string(newStatus) + `"}`
		if err := u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

// Cancel は明示ガード付きのキャンセル。
// cancelled済みとdelivered（終端）は専用メッセージで弾く。
func (u *AdminOrderUsecase) Cancel(ctx context.Context, actorAdminUserID int64, orderID int64) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if o.Status == model.OrderStatusCancelled {
			return NewHTTPError(http.StatusConflict, "already cancelled")
		}
		if o.Status == model.OrderStatusDelivered {
			return NewHTTPError(http.StatusConflict, "order is delivered")
		}
		if !model.CanTransition(o.Status, model.OrderStatusCancelled) {
			return NewHTTPError(http.StatusBadRequest,
				"invalid transition: "+string(o.Status)+" -> cancelled")
		}

		if err := u.reverseStock(ctx, r, o); err != nil {
			return err
		}

		beforeStatus := string(o.Status)
		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ（CANCEL_ORDER）
		beforeJSON := `{"status":"` + beforeStatus + `"}`
		afterJSON := `{"status":"cancelled"}`
		if err := u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionCancelOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

// 監査ログ一覧（管理画面用）
func (u *AdminOrderUsecase) ListAuditLogs(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}

// commitReservation は pending→confirmed の在庫確定。
// stockとreservedを同時に減らすのでavailableは変わらない（買い物客から見た在庫は動かない）。
func (u *AdminOrderUsecase) commitReservation(ctx context.Context, r repo.TxRepos, actorAdminUserID int64, o model.Order) error {
	lines, err := r.OrderLines().ListByOrderID(ctx, o.ID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	for _, l := range lines {
		if err := r.Variants().CommitReserved(ctx, l.VariantID, l.Quantity); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	if err := r.Orders().SetStockFlags(ctx, o.ID, false, true); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := r.Orders().SetConfirmed(ctx, o.ID, actorAdminUserID, time.Now()); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// reverseStock はキャンセル時の在庫側の巻き戻し。
//   - 予約中（未減算）なら reserved を解放する
//   - 減算済みなら stock を全量戻す
func (u *AdminOrderUsecase) reverseStock(ctx context.Context, r repo.TxRepos, o model.Order) error {
	lines, err := r.OrderLines().ListByOrderID(ctx, o.ID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if o.StockReserved && !o.StockReduced {
		for _, l := range lines {
			if err := r.Variants().ReleaseReserved(ctx, l.VariantID, l.Quantity); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
	}

	if o.StockReduced {
		for _, l := range lines {
			if err := r.Variants().RestoreStock(ctx, l.VariantID, l.Quantity); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
	}

	if err := r.Orders().SetStockFlags(ctx, o.ID, false, false); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
