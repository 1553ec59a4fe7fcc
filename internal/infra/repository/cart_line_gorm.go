package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartLineGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartLineGormRepository(db *gorm.DB) *CartLineGormRepository {
	return &CartLineGormRepository{db: db}
}

// 新しい順で明細を返す（カート表示用）
func (r *CartLineGormRepository) ListByGuestID(ctx context.Context, guestID int64) ([]model.CartLine, error) {
	var lines []model.CartLine

	if err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("id desc").
		Find(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}

	return lines, nil
}

func (r *CartLineGormRepository) FindByID(ctx context.Context, lineID int64) (model.CartLine, error) {
	var line model.CartLine

	err := r.db.WithContext(ctx).
		Where("id = ?", lineID).
		First(&line).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartLine{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartLine{}, err
	}
	return line, nil
}

// 同一バリアントは数量加算。
// 行ロックを取ってから読む→書くなので、並行addでも加算が消えない。
func (r *CartLineGormRepository) UpsertByGuestAndVariant(ctx context.Context, guestID int64, variantID int64, addQty int64, unitPriceSnapshot int64) error {

	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var line model.CartLine

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("guest_id = ? AND variant_id = ?", guestID, variantID).
			First(&line).Error

		if err == nil {
			// 既存ありだったら数量を増やす
			newQty := line.Quantity + addQty

			res := tx.Model(&model.CartLine{}).
				Where("id = ?", line.ID).
				Update("quantity", newQty)

			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		now := time.Now()
		newLine := model.CartLine{
			GuestID:           guestID,
			VariantID:         variantID,
			Quantity:          addQty,
			UnitPriceSnapshot: unitPriceSnapshot,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		if err := tx.Create(&newLine).Error; err != nil {
			return err
		}

		return nil
	})
}

// 明細の数量を更新
func (r *CartLineGormRepository) UpdateQuantity(ctx context.Context, lineID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartLineGormRepository) DeleteByID(ctx context.Context, lineID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartLine{}, lineID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// チェックアウト時の一括クリア
func (r *CartLineGormRepository) DeleteByGuestID(ctx context.Context, guestID int64) error {
	return r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Delete(&model.CartLine{}).Error
}

// スイープ用（期限切れゲストの明細をまとめて消す）
func (r *CartLineGormRepository) DeleteByGuestIDs(ctx context.Context, guestIDs []int64) error {
	if len(guestIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("guest_id IN ?", guestIDs).
		Delete(&model.CartLine{}).Error
}

// 明細がそのゲストのものかを判定
func (r *CartLineGormRepository) IsOwnedByGuest(ctx context.Context, lineID int64, guestID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("id = ? AND guest_id = ?", lineID, guestID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}
