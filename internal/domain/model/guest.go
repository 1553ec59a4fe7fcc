package model

import "time"

// 匿名ショッパーのセッション。cookieのトークンで引く。
// 期限切れはスイープで削除され、カート明細とウィッシュリストはカスケードで消える。
type GuestIdentity struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

func (g GuestIdentity) Expired(now time.Time) bool {
	return now.After(g.ExpiresAt)
}
