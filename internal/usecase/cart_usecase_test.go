package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCartUsecase_AddLine_NoSession(t *testing.T) {
	cartRepo := new(CartLineRepoMock)
	variantRepo := new(VariantRepoMock)
	productRepo := new(ProductRepoMock)

	uc := usecase.NewCartUsecase(cartRepo, variantRepo, productRepo)

	_, err := uc.AddLine(context.Background(), 0, usecase.AddLineInput{VariantID: 1, Quantity: 1})
	assertErrContains(t, err, "no session")
}

func TestCartUsecase_AddLine_InvalidQuantity(t *testing.T) {
	cartRepo := new(CartLineRepoMock)
	variantRepo := new(VariantRepoMock)
	productRepo := new(ProductRepoMock)

	uc := usecase.NewCartUsecase(cartRepo, variantRepo, productRepo)

	_, err := uc.AddLine(context.Background(), 1, usecase.AddLineInput{VariantID: 1, Quantity: 0})
	assertErrContains(t, err, "invalid quantity")
}

func TestCartUsecase_AddLine_VariantNotFound(t *testing.T) {
	cartRepo := new(CartLineRepoMock)
	variantRepo := new(VariantRepoMock)
	productRepo := new(ProductRepoMock)

	variantRepo.On("FindByID", mock.Anything, int64(9)).Return(model.Variant{}, repo.ErrNotFound)

	uc := usecase.NewCartUsecase(cartRepo, variantRepo, productRepo)

	_, err := uc.AddLine(context.Background(), 1, usecase.AddLineInput{VariantID: 9, Quantity: 1})
	assertErrContains(t, err, "not found")
}

// 既存数量＋追加数量が available を超えたら在庫不足で失敗する
func TestCartUsecase_AddLine_InsufficientStock(t *testing.T) {
	ctx := context.Background()

	cartRepo := new(CartLineRepoMock)
	variantRepo := new(VariantRepoMock)
	productRepo := new(ProductRepoMock)

	variantRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Variant{
		ID: 5, ProductID: 100, Stock: 10, Reserved: 7, // available = 3
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, Name: "Tシャツ", BasePrice: 3000, IsActive: true,
	}, nil)

	// すでに2個カートに入っている
	cartRepo.On("ListByGuestID", mock.Anything, int64(1)).Return([]model.CartLine{
		{ID: 1, GuestID: 1, VariantID: 5, Quantity: 2},
	}, nil)

	uc := usecase.NewCartUsecase(cartRepo, variantRepo, productRepo)

	_, err := uc.AddLine(ctx, 1, usecase.AddLineInput{VariantID: 5, Quantity: 2})

	ise, ok := usecase.AsInsufficientStock(err)
	assert.True(t, ok)
	assert.Equal(t, int64(5), ise.VariantID)
	assert.Equal(t, int64(4), ise.Requested) // 既存2 + 追加2
	assert.Equal(t, int64(3), ise.Available)

	cartRepo.AssertNotCalled(t, "UpsertByGuestAndVariant", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 追加成功時は「追加時点の販売価格」をスナップショットとして渡す
func TestCartUsecase_AddLine_Success_SnapshotsEffectivePrice(t *testing.T) {
	ctx := context.Background()

	cartRepo := new(CartLineRepoMock)
	variantRepo := new(VariantRepoMock)
	productRepo := new(ProductRepoMock)

	variantRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Variant{
		ID: 5, ProductID: 100, Color: "black", Size: "M", Stock: 10, Reserved: 0,
	}, nil)

	// 20%オフ → 2400
	product := model.Product{ID: 100, Name: "Tシャツ", BasePrice: 3000, DiscountPercentage: 20, IsActive: true}
	productRepo.On("FindByID", mock.Anything, int64(100)).Return(product, nil)

	cartRepo.On("ListByGuestID", mock.Anything, int64(1)).Return([]model.CartLine{}, nil).Once()
	cartRepo.On("UpsertByGuestAndVariant", mock.Anything, int64(1), int64(5), int64(2), int64(2400)).Return(nil)

	// buildCartResponse 用
	cartRepo.On("ListByGuestID", mock.Anything, int64(1)).Return([]model.CartLine{
		{ID: 1, GuestID: 1, VariantID: 5, Quantity: 2, UnitPriceSnapshot: 2400},
	}, nil)

	uc := usecase.NewCartUsecase(cartRepo, variantRepo, productRepo)

	out, err := uc.AddLine(ctx, 1, usecase.AddLineInput{VariantID: 5, Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(4800), out.Total)

	cartRepo.AssertExpectations(t)
}

func TestCartUsecase_UpdateQuantity_ZeroRemovesLine(t *testing.T) {
	ctx := context.Background()

	cartRepo := new(CartLineRepoMock)
	variantRepo := new(VariantRepoMock)
	productRepo := new(ProductRepoMock)

	cartRepo.On("IsOwnedByGuest", mock.Anything, int64(7), int64(1)).Return(true, nil)
	cartRepo.On("DeleteByID", mock.Anything, int64(7)).Return(nil)
	cartRepo.On("ListByGuestID", mock.Anything, int64(1)).Return([]model.CartLine{}, nil)

	uc := usecase.NewCartUsecase(cartRepo, variantRepo, productRepo)

	out, err := uc.UpdateQuantity(ctx, 1, 7, usecase.UpdateLineInput{Quantity: 0})
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))

	cartRepo.AssertCalled(t, "DeleteByID", mock.Anything, int64(7))
	cartRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

// 他人の明細は触れない（404扱い）
func TestCartUsecase_UpdateQuantity_NotOwned(t *testing.T) {
	cartRepo := new(CartLineRepoMock)
	variantRepo := new(VariantRepoMock)
	productRepo := new(ProductRepoMock)

	cartRepo.On("IsOwnedByGuest", mock.Anything, int64(7), int64(1)).Return(false, nil)

	uc := usecase.NewCartUsecase(cartRepo, variantRepo, productRepo)

	_, err := uc.UpdateQuantity(context.Background(), 1, 7, usecase.UpdateLineInput{Quantity: 3})
	assertErrContains(t, err, "not found")
}

func TestCartUsecase_RemoveLine_NotOwned(t *testing.T) {
	cartRepo := new(CartLineRepoMock)
	variantRepo := new(VariantRepoMock)
	productRepo := new(ProductRepoMock)

	cartRepo.On("IsOwnedByGuest", mock.Anything, int64(7), int64(2)).Return(false, nil)

	uc := usecase.NewCartUsecase(cartRepo, variantRepo, productRepo)

	_, err := uc.RemoveLine(context.Background(), 2, 7)
	assertErrContains(t, err, "not found")

	cartRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

// セッションが無い閲覧は空カート（エラーにも作成にもならない）
func TestCartUsecase_ListLines_NoSession_ReturnsEmpty(t *testing.T) {
	cartRepo := new(CartLineRepoMock)
	variantRepo := new(VariantRepoMock)
	productRepo := new(ProductRepoMock)

	uc := usecase.NewCartUsecase(cartRepo, variantRepo, productRepo)

	out, err := uc.ListLines(context.Background(), 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))
	assert.Equal(t, int64(0), out.Total)

	cartRepo.AssertNotCalled(t, "ListByGuestID", mock.Anything, mock.Anything)
}
