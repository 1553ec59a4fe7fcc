package model

// EffectivePrice は割引適用後の販売価格を返す。
// カート・注文・ウィッシュリストの各経路はすべてここを通す（重複実装しない）。
func EffectivePrice(basePrice int64, discountPercentage int64) int64 {
	if discountPercentage <= 0 {
		return basePrice
	}
	if discountPercentage >= 100 {
		return 0
	}
	return basePrice * (100 - discountPercentage) / 100
}
