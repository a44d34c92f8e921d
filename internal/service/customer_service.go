package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GersebO/commerce-microservices/internal/config"
	"github.com/GersebO/commerce-microservices/internal/dto"
	"github.com/GersebO/commerce-microservices/internal/model"
	"github.com/GersebO/commerce-microservices/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CustomerService defines business operations for storefront customers.
type CustomerService interface {
	Create(ctx context.Context, req dto.CustomerRequest) (*dto.CustomerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	GetByEmail(ctx context.Context, email string) (*dto.CustomerResponse, error)
	GetAll(ctx context.Context) ([]dto.CustomerResponse, error)
	GetActive(ctx context.Context) ([]dto.CustomerResponse, error)
	GetByStatus(ctx context.Context, status string) ([]dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CustomerRequest) (*dto.CustomerResponse, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, newPassword string) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*dto.CustomerResponse, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Authenticate(ctx context.Context, req dto.AuthenticateRequest) (*dto.CustomerAuthResponse, error)
}

type customerService struct {
	repo repository.CustomerRepository
	cfg  *config.Config
}

func NewCustomerService(repo repository.CustomerRepository, cfg *config.Config) CustomerService {
	return &customerService{repo: repo, cfg: cfg}
}

func mapCustomer(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		RUN:       c.RUN,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Region:    c.Region,
		Commune:   c.Commune,
		BirthDate: formatBirthDate(c.BirthDate),
		Status:    string(c.Status),
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (s *customerService) Create(ctx context.Context, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	status, err := model.ParseCustomerStatus(strings.ToUpper(req.Status))
	if err != nil {
		return nil, invalidf("%v", err)
	}
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, req.Email, req.RUN); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	c := &model.Customer{
		RUN:          req.RUN,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Address:      req.Address,
		Region:       req.Region,
		Commune:      req.Commune,
		BirthDate:    birthDate,
		Status:       status,
		Active:       true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicatef("customer with email %q or RUN %q", req.Email, req.RUN)
		}
		return nil, err
	}
	return mapCustomer(c), nil
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapCustomer(c), nil
}

func (s *customerService) GetByEmail(ctx context.Context, email string) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("customer with email %q", email)
		}
		return nil, err
	}
	return mapCustomer(c), nil
}

func (s *customerService) GetAll(ctx context.Context) ([]dto.CustomerResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapCustomers(list), nil
}

func (s *customerService) GetActive(ctx context.Context) ([]dto.CustomerResponse, error) {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapCustomers(list), nil
}

func (s *customerService) GetByStatus(ctx context.Context, status string) ([]dto.CustomerResponse, error) {
	parsed, err := model.ParseCustomerStatus(strings.ToUpper(status))
	if err != nil {
		return nil, invalidf("%v", err)
	}
	list, err := s.repo.ListByStatus(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return mapCustomers(list), nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := model.ParseCustomerStatus(strings.ToUpper(req.Status))
	if err != nil {
		return nil, invalidf("%v", err)
	}
	if !c.Status.CanTransition(status) {
		return nil, invalidf("status transition %s -> %s not allowed", c.Status, status)
	}
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(c.Email, req.Email) {
		exists, err := s.repo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, duplicatef("customer with email %q", req.Email)
		}
	}
	if !strings.EqualFold(c.RUN, req.RUN) {
		exists, err := s.repo.ExistsByRUN(ctx, req.RUN)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, duplicatef("customer with RUN %q", req.RUN)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	c.RUN = req.RUN
	c.FirstName = req.FirstName
	c.LastName = req.LastName
	c.Email = req.Email
	c.PasswordHash = string(hash)
	c.Phone = req.Phone
	c.Address = req.Address
	c.Region = req.Region
	c.Commune = req.Commune
	c.BirthDate = birthDate
	c.Status = status

	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicatef("customer with email %q or RUN %q", req.Email, req.RUN)
		}
		return nil, err
	}
	return mapCustomer(c), nil
}

func (s *customerService) UpdatePassword(ctx context.Context, id uuid.UUID, newPassword string) (*dto.CustomerResponse, error) {
	c, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return nil, err
	}
	c.PasswordHash = string(hash)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return mapCustomer(c), nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.findCustomer(ctx, id)
	if err != nil {
		return err
	}
	c.Active = false
	return s.repo.Update(ctx, c)
}

// Activate refuses blocked accounts: they must be moved to INACTIVE via
// a status change first.
func (s *customerService) Activate(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Status.CanTransition(model.CustomerActive) {
		return nil, invalidf("status transition %s -> %s not allowed", c.Status, model.CustomerActive)
	}
	c.Active = true
	c.Status = model.CustomerActive
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return mapCustomer(c), nil
}

func (s *customerService) Deactivate(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Active = false
	c.Status = model.CustomerInactive
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return mapCustomer(c), nil
}

func (s *customerService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*dto.CustomerResponse, error) {
	parsed, err := model.ParseCustomerStatus(strings.ToUpper(status))
	if err != nil {
		return nil, invalidf("%v", err)
	}
	c, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Status.CanTransition(parsed) {
		return nil, invalidf("status transition %s -> %s not allowed", c.Status, parsed)
	}
	c.Status = parsed
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return mapCustomer(c), nil
}

func (s *customerService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email)
}

func (s *customerService) Authenticate(ctx context.Context, req dto.AuthenticateRequest) (*dto.CustomerAuthResponse, error) {
	c, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrUnauthorized
	}
	if !c.Active {
		return nil, fmt.Errorf("account is inactive: %w", ErrUnauthorized)
	}
	if c.Status == model.CustomerBlocked {
		return nil, fmt.Errorf("account is blocked: %w", ErrUnauthorized)
	}

	token, err := signToken(s.cfg, jwt.MapClaims{
		"customer_id": c.ID.String(),
		"email":       c.Email,
	})
	if err != nil {
		return nil, err
	}
	return &dto.CustomerAuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		Customer:    *mapCustomer(c),
	}, nil
}

func (s *customerService) checkUnique(ctx context.Context, email, run string) error {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return duplicatef("customer with email %q", email)
	}
	exists, err = s.repo.ExistsByRUN(ctx, run)
	if err != nil {
		return err
	}
	if exists {
		return duplicatef("customer with RUN %q", run)
	}
	return nil
}

func (s *customerService) findCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("customer %s", id)
		}
		return nil, err
	}
	return c, nil
}

func mapCustomers(list []model.Customer) []dto.CustomerResponse {
	result := make([]dto.CustomerResponse, 0, len(list))
	for i := range list {
		result = append(result, *mapCustomer(&list[i]))
	}
	return result
}
