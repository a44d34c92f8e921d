package repository

import (
	"context"

	"github.com/GersebO/commerce-microservices/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepository defines the data access contract for customers.
type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	FindByEmail(ctx context.Context, email string) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	ListActive(ctx context.Context) ([]model.Customer, error)
	ListByStatus(ctx context.Context, status model.CustomerStatus) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByRUN(ctx context.Context, run string) (bool, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *customerRepo) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&c).Error
	return &c, err
}

func (r *customerRepo) List(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) ListActive(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("created_at ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) ListByStatus(ctx context.Context, status model.CustomerStatus) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("lower(email) = lower(?)", email).Count(&count).Error
	return count > 0, err
}

func (r *customerRepo) ExistsByRUN(ctx context.Context, run string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("lower(run) = lower(?)", run).Count(&count).Error
	return count > 0, err
}
