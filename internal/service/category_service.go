package service

import (
	"context"
	"errors"
	"strings"

	"github.com/GersebO/commerce-microservices/internal/dto"
	"github.com/GersebO/commerce-microservices/internal/model"
	"github.com/GersebO/commerce-microservices/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryService defines business operations for product categories.
type CategoryService interface {
	Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	GetAll(ctx context.Context) ([]dto.CategoryResponse, error)
	GetActive(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func mapCategory(c *model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (s *categoryService) Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	exists, err := s.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicatef("category with name %q", req.Name)
	}

	c := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		// Unique index on lower(name) backstops the check above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicatef("category with name %q", req.Name)
		}
		return nil, err
	}
	return mapCategory(c), nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	c, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapCategory(c), nil
}

func (s *categoryService) GetAll(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapCategories(list), nil
}

func (s *categoryService) GetActive(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapCategories(list), nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	// Re-check uniqueness only when the name actually changes.
	if !strings.EqualFold(c.Name, req.Name) {
		exists, err := s.repo.ExistsByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, duplicatef("category with name %q", req.Name)
		}
	}

	c.Name = req.Name
	c.Description = req.Description
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicatef("category with name %q", req.Name)
		}
		return nil, err
	}
	return mapCategory(c), nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.findCategory(ctx, id)
	if err != nil {
		return err
	}
	c.Active = false
	return s.repo.Update(ctx, c)
}

func (s *categoryService) Activate(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	return s.setActive(ctx, id, true)
}

func (s *categoryService) Deactivate(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *categoryService) ExistsByName(ctx context.Context, name string) (bool, error) {
	return s.repo.ExistsByName(ctx, name)
}

func (s *categoryService) setActive(ctx context.Context, id uuid.UUID, active bool) (*dto.CategoryResponse, error) {
	c, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Active = active
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return mapCategory(c), nil
}

func (s *categoryService) findCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("category %s", id)
		}
		return nil, err
	}
	return c, nil
}

func mapCategories(list []model.Category) []dto.CategoryResponse {
	result := make([]dto.CategoryResponse, 0, len(list))
	for i := range list {
		result = append(result, *mapCategory(&list[i]))
	}
	return result
}
