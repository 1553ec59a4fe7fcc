package model

import "time"

// ウィッシュリスト。(guest, variant) につき1行。
type WishlistItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	GuestID   int64     `gorm:"not null;index;uniqueIndex:uq_wishlist_item" json:"guest_id"`
	VariantID int64     `gorm:"not null;index;uniqueIndex:uq_wishlist_item" json:"variant_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
