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
// Repository mocks (Product向け：衝突回避)
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
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

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProductInventoryRepoMock struct{ mock.Mock }

func (m *ProductInventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *ProductInventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProductInventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	panic("not used in ProductUsecase tests")
}

func (m *ProductInventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type ProductAuditRepoMock struct{ mock.Mock }

func (m *ProductAuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *ProductAuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	panic("not used in ProductUsecase tests")
}

func newProductTestEnv() (*ProductRepoMock, *ProductInventoryRepoMock, *ProductAuditRepoMock, *usecase.ProductUsecase) {
	products := new(ProductRepoMock)
	inventory := new(ProductInventoryRepoMock)
	audit := new(ProductAuditRepoMock)
	uc := usecase.NewProductUsecase(products, inventory, audit)
	return products, inventory, audit, uc
}

// =====================
// ListPublicProducts tests
// =====================

func TestProductUsecase_List_InvalidPage(t *testing.T) {
	_, _, _, uc := newProductTestEnv()

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 0, Limit: 20})
	assertErrContains(t, err, "invalid page")
}

func TestProductUsecase_List_InvalidLimit(t *testing.T) {
	_, _, _, uc := newProductTestEnv()

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 1, Limit: 101})
	assertErrContains(t, err, "invalid limit")
}

func TestProductUsecase_List_InvalidCategory(t *testing.T) {
	_, _, _, uc := newProductTestEnv()

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page: 1, Limit: 20, Category: "Electronics",
	})
	assertErrContains(t, err, "invalid category")
}

func TestProductUsecase_List_InvalidSort(t *testing.T) {
	_, _, _, uc := newProductTestEnv()

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page: 1, Limit: 20, Sort: "name_desc",
	})
	assertErrContains(t, err, "invalid sort")
}

func TestProductUsecase_List_PriceRangeInverted(t *testing.T) {
	_, _, _, uc := newProductTestEnv()

	minP := int64(100)
	maxP := int64(50)
	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page: 1, Limit: 20, MinPrice: &minP, MaxPrice: &maxP,
	})
	assertErrContains(t, err, "min_price must be <= max_price")
}

func TestProductUsecase_List_Success(t *testing.T) {
	products, _, _, uc := newProductTestEnv()

	products.On("ListPublic", mock.Anything, mock.MatchedBy(func(q repo.ProductListQuery) bool {
		return q.Page == 1 && q.Limit == 20 && q.Q == "apple"
	})).Return([]model.Product{{ID: 1, Name: "Fresh Apples"}}, int64(1), nil)

	out, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page: 1, Limit: 20, Q: " apple ",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Equal(t, 1, len(out.Items))
}

// =====================
// GetProductDetail tests
// =====================

func TestProductUsecase_Detail_NotFound(t *testing.T) {
	products, _, _, uc := newProductTestEnv()

	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetProductDetail(context.Background(), 1)
	assertErrContains(t, err, "not found")
}

// 非公開商品は存在しない扱い
func TestProductUsecase_Detail_InactiveHidden(t *testing.T) {
	products, _, _, uc := newProductTestEnv()

	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, Name: "Old Item", IsActive: false,
	}, nil)

	_, err := uc.GetProductDetail(context.Background(), 1)
	assertErrContains(t, err, "not found")
}

// =====================
// Admin tests
// =====================

func TestProductUsecase_AdminCreate_NameRequired(t *testing.T) {
	_, _, _, uc := newProductTestEnv()

	_, err := uc.AdminCreateProduct(context.Background(), 1, usecase.AdminCreateProductInput{
		Name: "  ", Price: 100, Category: "Pantry", Unit: "kg",
	})
	assertErrContains(t, err, "name required")
}

func TestProductUsecase_AdminCreate_InvalidUnit(t *testing.T) {
	_, _, _, uc := newProductTestEnv()

	_, err := uc.AdminCreateProduct(context.Background(), 1, usecase.AdminCreateProductInput{
		Name: "Rice", Price: 100, Category: "Pantry", Unit: "box",
	})
	assertErrContains(t, err, "invalid unit")
}

func TestProductUsecase_AdminCreate_Success_Audits(t *testing.T) {
	products, _, audit, uc := newProductTestEnv()

	products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "Rice" && p.Category == model.CategoryPantry && p.Unit == model.UnitKg
	})).Return(model.Product{ID: 10, Name: "Rice", Price: 120, Stock: 75}, nil)

	audit.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.ActorUserID == 1 && a.ResourceType == model.AuditResourceProduct && a.ResourceID == 10
	})).Return(nil)

	id, err := uc.AdminCreateProduct(context.Background(), 1, usecase.AdminCreateProductInput{
		Name: "Rice", Description: "Basmati rice", Price: 120, Category: "Pantry",
		Stock: 75, Unit: "kg", IsActive: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), id)

	products.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestProductUsecase_AdminUpdateInventory_ReasonRequired(t *testing.T) {
	_, _, _, uc := newProductTestEnv()

	err := uc.AdminUpdateInventory(context.Background(), 1, 10, 50, "  ")
	assertErrContains(t, err, "reason required")
}

func TestProductUsecase_AdminUpdateInventory_NegativeStock(t *testing.T) {
	_, _, _, uc := newProductTestEnv()

	err := uc.AdminUpdateInventory(context.Background(), 1, 10, -1, "recount")
	assertErrContains(t, err, "stock must be >= 0")
}

// 在庫更新は現在値の更新＋差分履歴＋監査ログの3点セット
func TestProductUsecase_AdminUpdateInventory_Success(t *testing.T) {
	products, inventory, audit, uc := newProductTestEnv()

	products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "Rice", Stock: 75, IsActive: true,
	}, nil)
	inventory.On("SetStock", mock.Anything, int64(10), int64(60)).Return(nil)
	inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.ProductID == 10 && a.AdminUserID == 1 && a.Delta == -15 && a.Reason == "recount"
	})).Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.BeforeJSON == `{"stock":75}` && a.AfterJSON == `{"stock":60}`
	})).Return(nil)

	err := uc.AdminUpdateInventory(context.Background(), 1, 10, 60, "recount")
	assert.NoError(t, err)

	inventory.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestProductUsecase_AdminDelete_NotFound(t *testing.T) {
	products, _, _, uc := newProductTestEnv()

	products.On("SoftDelete", mock.Anything, int64(99)).Return(repo.ErrNotFound)

	err := uc.AdminDeleteProduct(context.Background(), 1, 99)
	assertErrContains(t, err, "not found")
}
