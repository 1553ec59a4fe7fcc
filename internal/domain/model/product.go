package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	//基本価格（最小通貨単位）
	BasePrice int64 `gorm:"not null" json:"base_price"`

	//割引率（0〜100）
	DiscountPercentage int64 `gorm:"not null;default:0" json:"discount_percentage"`

	IsActive  bool           `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 現在の販売価格（割引適用後）。
func (p Product) EffectivePrice() int64 {
	return EffectivePrice(p.BasePrice, p.DiscountPercentage)
}
