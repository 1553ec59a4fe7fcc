package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderLines repo.OrderLineRepository
	cartLines  repo.CartLineRepository
	variants   repo.VariantRepository
	guests     repo.GuestRepository
	products   repo.ProductRepository
	wishlist   repo.WishlistRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderLines() repo.OrderLineRepository { return r.orderLines }
func (r *TxReposMock) CartLines() repo.CartLineRepository   { return r.cartLines }
func (r *TxReposMock) Variants() repo.VariantRepository     { return r.variants }
func (r *TxReposMock) Guests() repo.GuestRepository         { return r.guests }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.products }
func (r *TxReposMock) Wishlist() repo.WishlistRepository    { return r.wishlist }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByReference(ctx context.Context, reference string) (model.Order, error) {
	args := m.Called(ctx, reference)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) SetStockFlags(ctx context.Context, orderID int64, reserved bool, reduced bool) error {
	args := m.Called(ctx, orderID, reserved, reduced)
	return args.Error(0)
}

func (m *OrderRepoMock) SetConfirmed(ctx context.Context, orderID int64, adminUserID int64, at time.Time) error {
	args := m.Called(ctx, orderID, adminUserID, at)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderLineRepoMock struct{ mock.Mock }

func (m *OrderLineRepoMock) CreateBulk(ctx context.Context, orderID int64, lines []model.OrderLine) error {
	args := m.Called(ctx, orderID, lines)
	return args.Error(0)
}

func (m *OrderLineRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	args := m.Called(ctx, orderID)
	lines, _ := args.Get(0).([]model.OrderLine)
	return lines, args.Error(1)
}

type CartLineRepoMock struct{ mock.Mock }

func (m *CartLineRepoMock) ListByGuestID(ctx context.Context, guestID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, guestID)
	lines, _ := args.Get(0).([]model.CartLine)
	return lines, args.Error(1)
}

func (m *CartLineRepoMock) FindByID(ctx context.Context, lineID int64) (model.CartLine, error) {
	args := m.Called(ctx, lineID)
	l, _ := args.Get(0).(model.CartLine)
	return l, args.Error(1)
}

func (m *CartLineRepoMock) UpsertByGuestAndVariant(ctx context.Context, guestID int64, variantID int64, addQty int64, unitPriceSnapshot int64) error {
	args := m.Called(ctx, guestID, variantID, addQty, unitPriceSnapshot)
	return args.Error(0)
}

func (m *CartLineRepoMock) UpdateQuantity(ctx context.Context, lineID int64, qty int64) error {
	args := m.Called(ctx, lineID, qty)
	return args.Error(0)
}

func (m *CartLineRepoMock) DeleteByID(ctx context.Context, lineID int64) error {
	args := m.Called(ctx, lineID)
	return args.Error(0)
}

func (m *CartLineRepoMock) DeleteByGuestID(ctx context.Context, guestID int64) error {
	args := m.Called(ctx, guestID)
	return args.Error(0)
}

func (m *CartLineRepoMock) DeleteByGuestIDs(ctx context.Context, guestIDs []int64) error {
	args := m.Called(ctx, guestIDs)
	return args.Error(0)
}

func (m *CartLineRepoMock) IsOwnedByGuest(ctx context.Context, lineID int64, guestID int64) (bool, error) {
	args := m.Called(ctx, lineID, guestID)
	return args.Bool(0), args.Error(1)
}

type VariantRepoMock struct{ mock.Mock }

func (m *VariantRepoMock) FindByID(ctx context.Context, variantID int64) (model.Variant, error) {
	args := m.Called(ctx, variantID)
	v, _ := args.Get(0).(model.Variant)
	return v, args.Error(1)
}

func (m *VariantRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.Variant, error) {
	args := m.Called(ctx, productID)
	vs, _ := args.Get(0).([]model.Variant)
	return vs, args.Error(1)
}

func (m *VariantRepoMock) ReserveIfAvailable(ctx context.Context, variantID int64, qty int64) (bool, error) {
	args := m.Called(ctx, variantID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *VariantRepoMock) ReleaseReserved(ctx context.Context, variantID int64, qty int64) error {
	args := m.Called(ctx, variantID, qty)
	return args.Error(0)
}

func (m *VariantRepoMock) CommitReserved(ctx context.Context, variantID int64, qty int64) error {
	args := m.Called(ctx, variantID, qty)
	return args.Error(0)
}

func (m *VariantRepoMock) RestoreStock(ctx context.Context, variantID int64, qty int64) error {
	args := m.Called(ctx, variantID, qty)
	return args.Error(0)
}

type GuestRepoMock struct{ mock.Mock }

func (m *GuestRepoMock) FindByToken(ctx context.Context, token string) (model.GuestIdentity, error) {
	args := m.Called(ctx, token)
	g, _ := args.Get(0).(model.GuestIdentity)
	return g, args.Error(1)
}

func (m *GuestRepoMock) Create(ctx context.Context, guest model.GuestIdentity) (model.GuestIdentity, error) {
	args := m.Called(ctx, guest)
	g, _ := args.Get(0).(model.GuestIdentity)
	return g, args.Error(1)
}

func (m *GuestRepoMock) ExtendExpiry(ctx context.Context, guestID int64, expiresAt time.Time) error {
	args := m.Called(ctx, guestID, expiresAt)
	return args.Error(0)
}

func (m *GuestRepoMock) ListExpiredIDs(ctx context.Context, now time.Time, limit int) ([]int64, error) {
	args := m.Called(ctx, now, limit)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *GuestRepoMock) DeleteByIDs(ctx context.Context, guestIDs []int64) (int64, error) {
	args := m.Called(ctx, guestIDs)
	return args.Get(0).(int64), args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

type WishlistRepoMock struct{ mock.Mock }

func (m *WishlistRepoMock) ListByGuestID(ctx context.Context, guestID int64) ([]model.WishlistItem, error) {
	args := m.Called(ctx, guestID)
	items, _ := args.Get(0).([]model.WishlistItem)
	return items, args.Error(1)
}

func (m *WishlistRepoMock) AddIfAbsent(ctx context.Context, guestID int64, variantID int64) error {
	args := m.Called(ctx, guestID, variantID)
	return args.Error(0)
}

func (m *WishlistRepoMock) DeleteByID(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *WishlistRepoMock) DeleteByGuestIDs(ctx context.Context, guestIDs []int64) error {
	args := m.Called(ctx, guestIDs)
	return args.Error(0)
}

func (m *WishlistRepoMock) IsOwnedByGuest(ctx context.Context, itemID int64, guestID int64) (bool, error) {
	args := m.Called(ctx, itemID, guestID)
	return args.Bool(0), args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

// =====================
// clock / token stubs
// =====================

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type stubTokenGen struct{ token string }

func (g *stubTokenGen) NewToken() string { return g.token }

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}
