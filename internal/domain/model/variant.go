package model

import "time"

// 商品のバリエーション（色×サイズ）。在庫管理の単位。
// 不変条件: 0 <= reserved <= stock。available = stock - reserved（常に導出、保存しない）。
type Variant struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index;uniqueIndex:uq_variant" json:"product_id"`
	Color     string `gorm:"type:varchar(50);not null;uniqueIndex:uq_variant" json:"color"`
	Size      string `gorm:"type:varchar(20);not null;uniqueIndex:uq_variant" json:"size"`

	//物理在庫
	Stock int64 `gorm:"not null;default:0" json:"stock"`

	//未確定注文が押さえている数
	Reserved int64 `gorm:"not null;default:0" json:"reserved"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 今すぐ売れる数。マイナスにはしない。
func (v Variant) Available() int64 {
	a := v.Stock - v.Reserved
	if a < 0 {
		return 0
	}
	return a
}
