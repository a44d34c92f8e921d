package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/GersebO/commerce-microservices/internal/dto"
	"github.com/GersebO/commerce-microservices/internal/model"
	"github.com/GersebO/commerce-microservices/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService defines the business logic contract for products.
type ProductService interface {
	Create(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error)
	GetAll(ctx context.Context) ([]dto.ProductResponse, error)
	GetActive(ctx context.Context) ([]dto.ProductResponse, error)
	GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]dto.ProductResponse, error)
	GetByStatus(ctx context.Context, status string) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) (*dto.ProductResponse, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*dto.ProductResponse, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	HasStock(ctx context.Context, id uuid.UUID) (bool, error)
}

type productService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	rdb          *redis.Client
	cacheTTL     time.Duration
}

func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, rdb *redis.Client, cacheTTL time.Duration) ProductService {
	return &productService{repo: repo, categoryRepo: categoryRepo, rdb: rdb, cacheTTL: cacheTTL}
}

func mapProduct(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Stock:         p.Stock,
		CriticalStock: p.CriticalStock,
		ImageURL:      p.ImageURL,
		Status:        string(p.Status),
		CategoryID:    p.CategoryID,
		StockCritical: p.StockCritical(),
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	return resp
}

func (s *productService) Create(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error) {
	status, err := model.ParseProductStatus(strings.ToUpper(req.Status))
	if err != nil {
		return nil, invalidf("%v", err)
	}

	exists, err := s.repo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicatef("product with SKU %q", req.SKU)
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, invalidf("category id %q", req.CategoryID)
	}
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("category %s", categoryID)
		}
		return nil, err
	}
	if !category.Active {
		return nil, invalidf("cannot create product in inactive category %q", category.Name)
	}

	p := &model.Product{
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Stock:         req.Stock,
		CriticalStock: req.CriticalStock,
		ImageURL:      req.ImageURL,
		Status:        status,
		CategoryID:    category.ID,
		Active:        true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		// Unique index on lower(sku) backstops the check above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicatef("product with SKU %q", req.SKU)
		}
		return nil, err
	}
	p.Category = category
	return mapProduct(p), nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapProduct(p), nil
}

// GetBySKU serves the public lookup endpoint through a read-through Redis
// cache; every product mutation invalidates the entry.
func (s *productService) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	key := skuCacheKey(sku)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var resp dto.ProductResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("product with SKU %q", sku)
		}
		return nil, err
	}
	resp := mapProduct(p)

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("sku", sku).Msg("sku cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *productService) GetAll(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapProducts(list), nil
}

func (s *productService) GetActive(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapProducts(list), nil
}

func (s *productService) GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]dto.ProductResponse, error) {
	list, err := s.repo.ListByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return mapProducts(list), nil
}

func (s *productService) GetByStatus(ctx context.Context, status string) ([]dto.ProductResponse, error) {
	parsed, err := model.ParseProductStatus(strings.ToUpper(status))
	if err != nil {
		return nil, invalidf("%v", err)
	}
	list, err := s.repo.ListByStatus(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return mapProducts(list), nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error) {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := model.ParseProductStatus(strings.ToUpper(req.Status))
	if err != nil {
		return nil, invalidf("%v", err)
	}

	if !strings.EqualFold(p.SKU, req.SKU) {
		exists, err := s.repo.ExistsBySKU(ctx, req.SKU)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, duplicatef("product with SKU %q", req.SKU)
		}
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, invalidf("category id %q", req.CategoryID)
	}
	// Updates only require the category to exist; it may be inactive.
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("category %s", categoryID)
		}
		return nil, err
	}

	oldSKU := p.SKU
	p.SKU = req.SKU
	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	p.Stock = req.Stock
	p.CriticalStock = req.CriticalStock
	p.ImageURL = req.ImageURL
	p.Status = status
	p.CategoryID = category.ID
	p.Category = category

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicatef("product with SKU %q", req.SKU)
		}
		return nil, err
	}
	s.invalidateSKU(ctx, oldSKU, p.SKU)
	return mapProduct(p), nil
}

func (s *productService) UpdateStock(ctx context.Context, id uuid.UUID, stock int) (*dto.ProductResponse, error) {
	if stock < 0 {
		return nil, invalidf("stock must not be negative")
	}
	return s.patch(ctx, id, func(p *model.Product) error {
		p.Stock = stock
		return nil
	})
}

func (s *productService) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*dto.ProductResponse, error) {
	if !price.IsPositive() {
		return nil, invalidf("price must be positive")
	}
	return s.patch(ctx, id, func(p *model.Product) error {
		p.Price = price
		return nil
	})
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}
	p.Active = false
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.invalidateSKU(ctx, p.SKU)
	return nil
}

func (s *productService) Activate(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	return s.patch(ctx, id, func(p *model.Product) error {
		p.Active = true
		return nil
	})
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	return s.patch(ctx, id, func(p *model.Product) error {
		p.Active = false
		return nil
	})
}

func (s *productService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*dto.ProductResponse, error) {
	parsed, err := model.ParseProductStatus(strings.ToUpper(status))
	if err != nil {
		return nil, invalidf("%v", err)
	}
	return s.patch(ctx, id, func(p *model.Product) error {
		p.Status = parsed
		return nil
	})
}

func (s *productService) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	return s.repo.ExistsBySKU(ctx, sku)
}

func (s *productService) HasStock(ctx context.Context, id uuid.UUID) (bool, error) {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return false, err
	}
	return p.Stock > 0, nil
}

// patch loads, mutates and saves a product, then drops its cache entry.
func (s *productService) patch(ctx context.Context, id uuid.UUID, mutate func(*model.Product) error) (*dto.ProductResponse, error) {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(p); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateSKU(ctx, p.SKU)
	return mapProduct(p), nil
}

func (s *productService) findProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("product %s", id)
		}
		return nil, err
	}
	return p, nil
}

func (s *productService) invalidateSKU(ctx context.Context, skus ...string) {
	if s.rdb == nil {
		return
	}
	keys := make([]string, 0, len(skus))
	for _, sku := range skus {
		keys = append(keys, skuCacheKey(sku))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("skus", skus).Msg("sku cache invalidation failed")
	}
}

func skuCacheKey(sku string) string {
	return "product:sku:" + strings.ToLower(sku)
}

func mapProducts(list []model.Product) []dto.ProductResponse {
	result := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		result = append(result, *mapProduct(&list[i]))
	}
	return result
}
