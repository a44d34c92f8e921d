package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/GersebO/commerce-microservices/internal/dto"
	"github.com/GersebO/commerce-microservices/internal/model"
	"github.com/GersebO/commerce-microservices/internal/repository"
	"github.com/GersebO/commerce-microservices/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory ProductRepository stub ─────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for _, existing := range r.products {
		if strings.EqualFold(existing.SKU, p.SKU) {
			return gorm.ErrDuplicatedKey
		}
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if strings.EqualFold(p.SKU, sku) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	result := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		result = append(result, *p)
	}
	return result, nil
}

func (r *stubProductRepo) ListActive(_ context.Context) ([]model.Product, error) {
	var result []model.Product
	for _, p := range r.products {
		if p.Active {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductRepo) ListByCategoryID(_ context.Context, categoryID uuid.UUID) ([]model.Product, error) {
	var result []model.Product
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductRepo) ListByStatus(_ context.Context, status model.ProductStatus) ([]model.Product, error) {
	var result []model.Product
	for _, p := range r.products {
		if p.Status == status {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	p.UpdatedAt = time.Now()
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) ExistsBySKU(_ context.Context, sku string) (bool, error) {
	for _, p := range r.products {
		if strings.EqualFold(p.SKU, sku) {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func newProductFixture(t *testing.T) (service.ProductService, *model.Category) {
	t.Helper()
	categories := newStubCategoryRepo()
	category := &model.Category{Name: "Drinks", Active: true}
	require.NoError(t, categories.Create(context.Background(), category))
	svc := service.NewProductService(newStubProductRepo(), categories, nil, time.Minute)
	return svc, category
}

func productReq(category *model.Category, sku string) dto.ProductRequest {
	return dto.ProductRequest{
		SKU:        sku,
		Name:       "Sparkling Water",
		Price:      decimal.NewFromInt(1200),
		Stock:      10,
		Status:     "ACTIVE",
		CategoryID: category.ID.String(),
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestProductCreate(t *testing.T) {
	svc, category := newProductFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, productReq(category, "D-001"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "D-001", created.SKU)
	assert.Equal(t, "Drinks", created.CategoryName)
	assert.True(t, created.Active)
	assert.False(t, created.StockCritical)
}

func TestProductCreateDuplicateSKUCaseInsensitive(t *testing.T) {
	svc, category := newProductFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, productReq(category, "D-001"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, productReq(category, "d-001"))
	assert.ErrorIs(t, err, service.ErrDuplicate)
}

func TestProductCreateMissingCategory(t *testing.T) {
	svc, _ := newProductFixture(t)

	req := dto.ProductRequest{
		SKU:        "D-002",
		Name:       "Cola",
		Price:      decimal.NewFromInt(900),
		Status:     "ACTIVE",
		CategoryID: uuid.NewString(),
	}
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestProductCreateInactiveCategory(t *testing.T) {
	categories := newStubCategoryRepo()
	category := &model.Category{Name: "Retired", Active: false}
	require.NoError(t, categories.Create(context.Background(), category))
	svc := service.NewProductService(newStubProductRepo(), categories, nil, time.Minute)

	_, err := svc.Create(context.Background(), productReq(category, "D-003"))
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestProductCreateInvalidStatus(t *testing.T) {
	svc, category := newProductFixture(t)

	req := productReq(category, "D-004")
	req.Status = "RETIRED"
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestProductGetBySKUCaseInsensitive(t *testing.T) {
	svc, category := newProductFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, productReq(category, "D-001"))
	require.NoError(t, err)

	got, err := svc.GetBySKU(ctx, "d-001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetBySKU(ctx, "X-999")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestProductUpdateStock(t *testing.T) {
	svc, category := newProductFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, productReq(category, "D-001"))
	require.NoError(t, err)

	updated, err := svc.UpdateStock(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)

	_, err = svc.UpdateStock(ctx, created.ID, -1)
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestProductUpdatePrice(t *testing.T) {
	svc, category := newProductFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, productReq(category, "D-001"))
	require.NoError(t, err)

	updated, err := svc.UpdatePrice(ctx, created.ID, decimal.NewFromInt(1500))
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(1500)))

	_, err = svc.UpdatePrice(ctx, created.ID, decimal.Zero)
	assert.ErrorIs(t, err, service.ErrInvalidArgument)

	_, err = svc.UpdatePrice(ctx, created.ID, decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestProductHasStock(t *testing.T) {
	svc, category := newProductFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, productReq(category, "D-001"))
	require.NoError(t, err)

	has, err := svc.HasStock(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, has)

	_, err = svc.UpdateStock(ctx, created.ID, 0)
	require.NoError(t, err)

	has, err = svc.HasStock(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestProductStockCriticalInResponse(t *testing.T) {
	svc, category := newProductFixture(t)
	ctx := context.Background()

	critical := 5
	req := productReq(category, "D-001")
	req.CriticalStock = &critical
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.False(t, created.StockCritical)

	updated, err := svc.UpdateStock(ctx, created.ID, 5)
	require.NoError(t, err)
	assert.True(t, updated.StockCritical)
}

func TestProductChangeStatus(t *testing.T) {
	svc, category := newProductFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, productReq(category, "D-001"))
	require.NoError(t, err)

	updated, err := svc.ChangeStatus(ctx, created.ID, "inactive")
	require.NoError(t, err)
	assert.Equal(t, "INACTIVE", updated.Status)

	_, err = svc.ChangeStatus(ctx, created.ID, "BROKEN")
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestProductSoftDelete(t *testing.T) {
	svc, category := newProductFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, productReq(category, "D-001"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	active, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestProductUpdateAllowsInactiveCategory(t *testing.T) {
	categories := newStubCategoryRepo()
	ctx := context.Background()
	active := &model.Category{Name: "Drinks", Active: true}
	require.NoError(t, categories.Create(ctx, active))
	inactive := &model.Category{Name: "Retired", Active: false}
	require.NoError(t, categories.Create(ctx, inactive))
	svc := service.NewProductService(newStubProductRepo(), categories, nil, time.Minute)

	created, err := svc.Create(ctx, productReq(active, "D-001"))
	require.NoError(t, err)

	req := productReq(inactive, "D-001")
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, inactive.ID, updated.CategoryID)
}
