package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type GuestGormRepository struct {
	db *gorm.DB
}

func NewGuestGormRepository(db *gorm.DB) *GuestGormRepository {
	return &GuestGormRepository{db: db}
}

func (r *GuestGormRepository) FindByToken(ctx context.Context, token string) (model.GuestIdentity, error) {
	var g model.GuestIdentity
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&g).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.GuestIdentity{}, repo.ErrNotFound
	}
	if err != nil {
		return model.GuestIdentity{}, err
	}
	return g, nil
}

func (r *GuestGormRepository) Create(ctx context.Context, guest model.GuestIdentity) (model.GuestIdentity, error) {
	if err := r.db.WithContext(ctx).Create(&guest).Error; err != nil {
		return model.GuestIdentity{}, err
	}
	return guest, nil
}

func (r *GuestGormRepository) ExtendExpiry(ctx context.Context, guestID int64, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.GuestIdentity{}).
		Where("id = ?", guestID).
		Update("expires_at", expiresAt)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// スイープ用。一度に全部消さないようlimitを付ける。
func (r *GuestGormRepository) ListExpiredIDs(ctx context.Context, now time.Time, limit int) ([]int64, error) {
	if limit <= 0 {
		limit = 500
	}

	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.GuestIdentity{}).
		Where("expires_at < ?", now).
		Order("id asc").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GuestGormRepository) DeleteByIDs(ctx context.Context, guestIDs []int64) (int64, error) {
	if len(guestIDs) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Where("id IN ?", guestIDs).
		Delete(&model.GuestIdentity{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
