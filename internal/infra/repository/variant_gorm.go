package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type VariantGormRepository struct {
	db *gorm.DB
}

func NewVariantGormRepository(db *gorm.DB) *VariantGormRepository {
	return &VariantGormRepository{db: db}
}

func (r *VariantGormRepository) FindByID(ctx context.Context, variantID int64) (model.Variant, error) {
	var v model.Variant
	err := r.db.WithContext(ctx).First(&v, variantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Variant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Variant{}, err
	}
	return v, nil
}

func (r *VariantGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Variant, error) {
	var vs []model.Variant
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id asc").
		Find(&vs).Error
	if err != nil {
		return []model.Variant{}, err
	}
	return vs, nil
}

// available >= qty のときだけ予約する。
// チェックと加算を1つのUPDATEで行うので、並行チェックアウトでも超過予約しない。
func (r *VariantGormRepository) ReserveIfAvailable(ctx context.Context, variantID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Variant{}).
		Where("id = ? AND stock - reserved >= ?", variantID, qty).
		Update("reserved", gorm.Expr("reserved + ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 予約の解放（キャンセル）。reservedが負にならないようガードする。
func (r *VariantGormRepository) ReleaseReserved(ctx context.Context, variantID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Variant{}).
		Where("id = ? AND reserved >= ?", variantID, qty).
		Update("reserved", gorm.Expr("reserved - ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 予約の確定（承認）。stockとreservedを同時に減らすのでavailableは変わらない。
func (r *VariantGormRepository) CommitReserved(ctx context.Context, variantID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Variant{}).
		Where("id = ? AND reserved >= ? AND stock >= ?", variantID, qty, qty).
		Updates(map[string]interface{}{
			"stock":    gorm.Expr("stock - ?", qty),
			"reserved": gorm.Expr("reserved - ?", qty),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫戻し（減算済み注文のキャンセル）
func (r *VariantGormRepository) RestoreStock(ctx context.Context, variantID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Variant{}).
		Where("id = ?", variantID).
		Update("stock", gorm.Expr("stock + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
