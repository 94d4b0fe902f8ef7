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

// =====================
// Repository mocks (Cart向け：衝突回避)
// =====================

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

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Get(0).(bool), args.Error(1)
}

type CartProductRepoMock struct{ mock.Mock }

func (m *CartProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CartProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) Update(ctx context.Context, p model.Product) error {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	panic("not used in CartUsecase tests")
}

func newCartTestEnv() (*CartRepoMock, *CartItemRepoMock, *CartProductRepoMock, *usecase.CartUsecase) {
	carts := new(CartRepoMock)
	items := new(CartItemRepoMock)
	products := new(CartProductRepoMock)
	uc := usecase.NewCartUsecase(carts, items, products)
	return carts, items, products, uc
}

// =====================
// GetCart tests
// =====================

func TestCartUsecase_GetCart_CreatesEmptyCart(t *testing.T) {
	carts, items, _, uc := newCartTestEnv()

	carts.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)

	out, err := uc.GetCart(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))
	assert.Equal(t, int64(0), out.ItemsPrice)
}

// 表示は常に現在の商品価格で計算する
func TestCartUsecase_GetCart_UsesCurrentPrices(t *testing.T) {
	carts, items, products, uc := newCartTestEnv()

	carts.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 100, Quantity: 2},
	}, nil)
	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, Name: "Fresh Apples", Price: 175, Stock: 50, Unit: model.UnitKg, IsActive: true,
	}, nil)

	out, err := uc.GetCart(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(175), out.Items[0].Price)
	assert.Equal(t, int64(350), out.ItemsPrice)
}

// 消えた・非公開になった商品は表示から外す
func TestCartUsecase_GetCart_SkipsInactiveProducts(t *testing.T) {
	carts, items, products, uc := newCartTestEnv()

	carts.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 100, Quantity: 1},
		{ID: 2, CartID: 5, ProductID: 101, Quantity: 1},
	}, nil)
	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, Name: "Bread", Price: 40, IsActive: true,
	}, nil)
	products.On("FindByID", mock.Anything, int64(101)).Return(model.Product{
		ID: 101, Name: "Old Item", Price: 99, IsActive: false,
	}, nil)

	out, err := uc.GetCart(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(40), out.ItemsPrice)
}

// =====================
// AddToCart tests
// =====================

func TestCartUsecase_AddToCart_ProductNotFound(t *testing.T) {
	_, _, products, uc := newCartTestEnv()

	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 100, Quantity: 1})
	assertErrContains(t, err, "product not found")
}

func TestCartUsecase_AddToCart_InactiveProduct(t *testing.T) {
	_, _, products, uc := newCartTestEnv()

	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, Name: "Old Item", IsActive: false,
	}, nil)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 100, Quantity: 1})
	assertErrContains(t, err, "product not found")
}

func TestCartUsecase_AddToCart_InvalidQuantity(t *testing.T) {
	_, _, _, uc := newCartTestEnv()

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 100, Quantity: 0})
	assertErrContains(t, err, "invalid quantity")
}

// 在庫チェックは「既存数量＋追加数量」の累計で行う
func TestCartUsecase_AddToCart_CumulativeStockCheck(t *testing.T) {
	carts, items, products, uc := newCartTestEnv()

	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, Name: "Milk", Price: 60, Stock: 5, IsActive: true,
	}, nil)
	carts.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 100, Quantity: 4},
	}, nil)

	// 4 + 2 = 6 > 5
	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 100, Quantity: 2})
	assertErrContains(t, err, "insufficient stock")

	items.AssertNotCalled(t, "UpsertByCartAndProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddToCart_Success_MergesSameProduct(t *testing.T) {
	carts, items, products, uc := newCartTestEnv()

	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, Name: "Milk", Price: 60, Stock: 10, IsActive: true,
	}, nil)
	carts.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)

	// 1回目のList：在庫チェック用、2回目：レスポンス構築用
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 100, Quantity: 2},
	}, nil)
	items.On("UpsertByCartAndProduct", mock.Anything, int64(5), int64(100), int64(3)).Return(nil)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 100, Quantity: 3})
	assert.NoError(t, err)

	items.AssertExpectations(t)
}

// =====================
// UpdateCartItem tests
// =====================

func TestCartUsecase_UpdateCartItem_InvalidQuantity(t *testing.T) {
	_, _, _, uc := newCartTestEnv()

	_, err := uc.UpdateCartItem(context.Background(), 1, 1, usecase.UpdateCartItemInput{Quantity: 0})
	assertErrContains(t, err, "invalid quantity")
}

func TestCartUsecase_UpdateCartItem_NoCart(t *testing.T) {
	carts, _, _, uc := newCartTestEnv()

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	_, err := uc.UpdateCartItem(context.Background(), 1, 1, usecase.UpdateCartItemInput{Quantity: 2})
	assertErrContains(t, err, "cart not found")
}

// 他人の明細は存在ごと隠す（404）
func TestCartUsecase_UpdateCartItem_NotOwned(t *testing.T) {
	carts, items, _, uc := newCartTestEnv()

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	items.On("IsOwnedByUser", mock.Anything, int64(9), int64(1)).Return(false, nil)

	_, err := uc.UpdateCartItem(context.Background(), 1, 9, usecase.UpdateCartItemInput{Quantity: 2})
	assertErrContains(t, err, "item not found in cart")
}

func TestCartUsecase_UpdateCartItem_ExceedsStock(t *testing.T) {
	carts, items, products, uc := newCartTestEnv()

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	items.On("IsOwnedByUser", mock.Anything, int64(9), int64(1)).Return(true, nil)
	items.On("FindByID", mock.Anything, int64(9)).Return(model.CartItem{
		ID: 9, CartID: 5, ProductID: 100, Quantity: 1,
	}, nil)
	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, Name: "Eggs", Price: 90, Stock: 3, IsActive: true,
	}, nil)

	_, err := uc.UpdateCartItem(context.Background(), 1, 9, usecase.UpdateCartItemInput{Quantity: 4})
	assertErrContains(t, err, "insufficient stock")

	items.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_UpdateCartItem_Success(t *testing.T) {
	carts, items, products, uc := newCartTestEnv()

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	items.On("IsOwnedByUser", mock.Anything, int64(9), int64(1)).Return(true, nil)
	items.On("FindByID", mock.Anything, int64(9)).Return(model.CartItem{
		ID: 9, CartID: 5, ProductID: 100, Quantity: 1,
	}, nil)
	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, Name: "Eggs", Price: 90, Stock: 10, IsActive: true,
	}, nil)
	items.On("UpdateQuantity", mock.Anything, int64(9), int64(4)).Return(nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 9, CartID: 5, ProductID: 100, Quantity: 4},
	}, nil)

	out, err := uc.UpdateCartItem(context.Background(), 1, 9, usecase.UpdateCartItemInput{Quantity: 4})
	assert.NoError(t, err)
	assert.Equal(t, int64(360), out.ItemsPrice)
}

// =====================
// DeleteCartItem / ClearCart tests
// =====================

func TestCartUsecase_DeleteCartItem_NotOwned(t *testing.T) {
	carts, items, _, uc := newCartTestEnv()

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	items.On("IsOwnedByUser", mock.Anything, int64(9), int64(1)).Return(false, nil)

	_, err := uc.DeleteCartItem(context.Background(), 1, 9)
	assertErrContains(t, err, "item not found in cart")

	items.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestCartUsecase_DeleteCartItem_Success(t *testing.T) {
	carts, items, _, uc := newCartTestEnv()

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	items.On("IsOwnedByUser", mock.Anything, int64(9), int64(1)).Return(true, nil)
	items.On("DeleteByID", mock.Anything, int64(9)).Return(nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)

	out, err := uc.DeleteCartItem(context.Background(), 1, 9)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))
}

func TestCartUsecase_ClearCart_NoCart(t *testing.T) {
	carts, _, _, uc := newCartTestEnv()

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	_, err := uc.ClearCart(context.Background(), 1)
	assertErrContains(t, err, "cart not found")
}

func TestCartUsecase_ClearCart_Success(t *testing.T) {
	carts, items, _, uc := newCartTestEnv()

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	carts.On("Clear", mock.Anything, int64(5)).Return(nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)

	out, err := uc.ClearCart(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))
	assert.Equal(t, int64(0), out.ItemsPrice)
}
