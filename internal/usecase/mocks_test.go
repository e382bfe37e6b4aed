package usecase_test

import (
	"context"
	"testing"

	"turismo/internal/domain/model"
	repo "turismo/internal/repository"
	"turismo/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == 0 {
		user.ID = 1 //DBが採番するIDの代わり
	}
	return args.Error(0)
}

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

func (m *UserRepoMock) FindByEmailOrGoogleID(ctx context.Context, email string, googleID string) (model.User, error) {
	args := m.Called(ctx, email, googleID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) SetGoogleID(ctx context.Context, userID int64, googleID string) error {
	args := m.Called(ctx, userID, googleID)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	args := m.Called(ctx, cartID, productID, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) SetPaymentID(ctx context.Context, orderID int64, paymentID string) error {
	args := m.Called(ctx, orderID, paymentID)
	return args.Error(0)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreatePreference(ctx context.Context, orderID int64, items []usecase.PaymentItem) (usecase.PaymentPreference, error) {
	args := m.Called(ctx, orderID, items)
	pref, _ := args.Get(0).(usecase.PaymentPreference)
	return pref, args.Error(1)
}

func (m *GatewayMock) FindPayment(ctx context.Context, paymentID string) (usecase.PaymentInfo, error) {
	args := m.Called(ctx, paymentID)
	info, _ := args.Get(0).(usecase.PaymentInfo)
	return info, args.Error(1)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) OrderCreated(to string, data usecase.OrderEmailData) error {
	args := m.Called(to, data)
	return args.Error(0)
}

func (m *NotifierMock) PurchaseConfirmed(to string, data usecase.OrderEmailData) error {
	args := m.Called(to, data)
	return args.Error(0)
}

func (m *NotifierMock) OrderStatusChanged(to string, data usecase.OrderEmailData, status model.OrderStatus) error {
	args := m.Called(to, data, status)
	return args.Error(0)
}

func (m *NotifierMock) VerificationCode(to string, code string) error {
	args := m.Called(to, code)
	return args.Error(0)
}

// TxManagerMock はコールバックに渡すTxReposを差し替えられる
type TxReposMock struct {
	UsersRepo      *UserRepoMock
	CartsRepo      *CartRepoMock
	CartItemsRepo  *CartItemRepoMock
	OrdersRepo     *OrderRepoMock
	OrderItemsRepo *OrderItemRepoMock
	ProductsRepo   *ProductRepoMock
}

func (r *TxReposMock) Users() repo.UserRepository           { return r.UsersRepo }
func (r *TxReposMock) Carts() repo.CartRepository           { return r.CartsRepo }
func (r *TxReposMock) CartItems() repo.CartItemRepository   { return r.CartItemsRepo }
func (r *TxReposMock) Orders() repo.OrderRepository         { return r.OrdersRepo }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.OrderItemsRepo }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.ProductsRepo }

type TxManagerMock struct {
	Repos *TxReposMock
	Err   error //nil以外ならコールバックを呼ばず失敗させる
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(m.Repos)
}

// =====================
// Helpers
// =====================

func assertHTTPError(t *testing.T, err error, wantStatus int) *usecase.HTTPError {
	t.Helper()
	assert.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected *usecase.HTTPError, got %T", err) {
		assert.Equal(t, wantStatus, he.Status)
	}
	return he
}
