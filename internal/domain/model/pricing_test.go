package model_test

import (
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	//割引なし
	assert.Equal(t, int64(3000), model.EffectivePrice(3000, 0))

	//通常の割引（切り捨て）
	assert.Equal(t, int64(2400), model.EffectivePrice(3000, 20))
	assert.Equal(t, int64(999), model.EffectivePrice(1999, 50))

	//範囲外はそのまま / ゼロ
	assert.Equal(t, int64(3000), model.EffectivePrice(3000, -5))
	assert.Equal(t, int64(0), model.EffectivePrice(3000, 100))
	assert.Equal(t, int64(0), model.EffectivePrice(3000, 150))
}

func TestProduct_EffectivePrice(t *testing.T) {
	p := model.Product{BasePrice: 5000, DiscountPercentage: 10}
	assert.Equal(t, int64(4500), p.EffectivePrice())
}
