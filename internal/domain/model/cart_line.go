package model

import "time"

// カート明細。(guest, variant) につき1行（同一バリアント追加は数量加算）。
// unit_price_snapshot は追加時点の販売価格。
type CartLine struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	GuestID           int64     `gorm:"not null;index;uniqueIndex:uq_cart_line" json:"guest_id"`
	VariantID         int64     `gorm:"not null;index;uniqueIndex:uq_cart_line" json:"variant_id"`
	Quantity          int64     `gorm:"not null" json:"quantity"`
	UnitPriceSnapshot int64     `gorm:"not null;column:unit_price_snapshot" json:"unit_price_snapshot"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
