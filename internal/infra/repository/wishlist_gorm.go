package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistGormRepository struct {
	db *gorm.DB
}

func NewWishlistGormRepository(db *gorm.DB) *WishlistGormRepository {
	return &WishlistGormRepository{db: db}
}

func (r *WishlistGormRepository) ListByGuestID(ctx context.Context, guestID int64) ([]model.WishlistItem, error) {
	var items []model.WishlistItem

	if err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("id desc").
		Find(&items).Error; err != nil {
		return []model.WishlistItem{}, err
	}

	return items, nil
}

// 既にあれば何もしない（(guest, variant)の一意制約に任せる）
func (r *WishlistGormRepository) AddIfAbsent(ctx context.Context, guestID int64, variantID int64) error {
	item := model.WishlistItem{
		GuestID:   guestID,
		VariantID: variantID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&item).Error
}

func (r *WishlistGormRepository) DeleteByID(ctx context.Context, itemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.WishlistItem{}, itemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *WishlistGormRepository) DeleteByGuestIDs(ctx context.Context, guestIDs []int64) error {
	if len(guestIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("guest_id IN ?", guestIDs).
		Delete(&model.WishlistItem{}).Error
}

func (r *WishlistGormRepository) IsOwnedByGuest(ctx context.Context, itemID int64, guestID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.WishlistItem{}).
		Where("id = ? AND guest_id = ?", itemID, guestID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
