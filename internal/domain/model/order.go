package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// 許可される遷移。cancelledへは pending / confirmed からのみ。
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition は from→to が状態機械として合法かを返す。
func CanTransition(from OrderStatus, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// 終端（これ以上動かせない）か。
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

type Order struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	GuestID int64 `gorm:"not null;index" json:"-"`

	//注文確認ページの公開キー（例: ORD-123456-A7K9）
	Reference string `gorm:"type:varchar(30);not null;uniqueIndex" json:"reference"`

	//連絡先（住所録は持たない。注文に直接持つ）
	CustomerName string `gorm:"type:varchar(255);not null" json:"customer_name"`
	Phone        string `gorm:"type:varchar(30);not null" json:"phone"`
	City         string `gorm:"type:varchar(100);not null" json:"city"`

	ShippingCost  int64  `gorm:"not null" json:"shipping_cost"`
	ShippingLabel string `gorm:"type:varchar(100);not null" json:"shipping_label"`

	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	//予約中フラグ（作成時true、キャンセルまたは在庫確定でfalse）
	StockReserved bool `gorm:"not null;default:true" json:"stock_reserved"`

	//在庫を実際に減算済みか（承認で立つ）
	StockReduced bool `gorm:"not null;default:false" json:"stock_reduced"`

	TotalPrice int64 `gorm:"not null" json:"total_price"`

	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ConfirmedBy *int64     `json:"-"`
}
