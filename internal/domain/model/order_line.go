package model

import "time"

// 注文明細。作成後は不変。
// 単価は注文時点の販売価格を凍結する（カタログが値上げしても合計は変わらない）。
type OrderLine struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64     `gorm:"not null;index" json:"order_id"`
	VariantID           int64     `gorm:"not null;index" json:"variant_id"`
	ProductNameSnapshot string    `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	Color               string    `gorm:"type:varchar(50);not null" json:"color"`
	Size                string    `gorm:"type:varchar(20);not null" json:"size"`
	UnitPriceSnapshot   int64     `gorm:"not null" json:"unit_price_snapshot"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
