package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GersebO/commerce-microservices/internal/config"
	"github.com/GersebO/commerce-microservices/internal/dto"
	"github.com/GersebO/commerce-microservices/internal/model"
	"github.com/GersebO/commerce-microservices/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

// UserService defines business operations for back-office users.
type UserService interface {
	Create(ctx context.Context, req dto.UserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error)
	GetAll(ctx context.Context) ([]dto.UserResponse, error)
	GetActive(ctx context.Context) ([]dto.UserResponse, error)
	GetByRole(ctx context.Context, role string) ([]dto.UserResponse, error)
	GetByStatus(ctx context.Context, status string) ([]dto.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UserRequest) (*dto.UserResponse, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, newPassword string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*dto.UserResponse, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Authenticate(ctx context.Context, req dto.AuthenticateRequest) (*dto.AuthResponse, error)
}

type userService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewUserService(repo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{repo: repo, cfg: cfg}
}

func mapUser(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		RUN:       u.RUN,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Region:    u.Region,
		Commune:   u.Commune,
		BirthDate: formatBirthDate(u.BirthDate),
		Role:      string(u.Role),
		Status:    string(u.Status),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (s *userService) Create(ctx context.Context, req dto.UserRequest) (*dto.UserResponse, error) {
	role, err := model.ParseUserRole(strings.ToUpper(req.Role))
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

	u := &model.User{
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
		Role:         role,
		Status:       model.UserActive,
		Active:       true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicatef("user with email %q or RUN %q", req.Email, req.RUN)
		}
		return nil, err
	}
	return mapUser(u), nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapUser(u), nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user with email %q", email)
		}
		return nil, err
	}
	return mapUser(u), nil
}

func (s *userService) GetAll(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapUsers(list), nil
}

func (s *userService) GetActive(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapUsers(list), nil
}

func (s *userService) GetByRole(ctx context.Context, role string) ([]dto.UserResponse, error) {
	parsed, err := model.ParseUserRole(strings.ToUpper(role))
	if err != nil {
		return nil, invalidf("%v", err)
	}
	list, err := s.repo.ListByRole(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return mapUsers(list), nil
}

func (s *userService) GetByStatus(ctx context.Context, status string) ([]dto.UserResponse, error) {
	parsed, err := model.ParseUserStatus(strings.ToUpper(status))
	if err != nil {
		return nil, invalidf("%v", err)
	}
	list, err := s.repo.ListByStatus(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return mapUsers(list), nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req dto.UserRequest) (*dto.UserResponse, error) {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := model.ParseUserRole(strings.ToUpper(req.Role))
	if err != nil {
		return nil, invalidf("%v", err)
	}
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	// Natural keys are re-checked only when they change.
	if !strings.EqualFold(u.Email, req.Email) {
		exists, err := s.repo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, duplicatef("user with email %q", req.Email)
		}
	}
	if !strings.EqualFold(u.RUN, req.RUN) {
		exists, err := s.repo.ExistsByRUN(ctx, req.RUN)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, duplicatef("user with RUN %q", req.RUN)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	u.RUN = req.RUN
	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Email = req.Email
	u.PasswordHash = string(hash)
	u.Phone = req.Phone
	u.Address = req.Address
	u.Region = req.Region
	u.Commune = req.Commune
	u.BirthDate = birthDate
	u.Role = role

	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicatef("user with email %q or RUN %q", req.Email, req.RUN)
		}
		return nil, err
	}
	return mapUser(u), nil
}

func (s *userService) UpdatePassword(ctx context.Context, id uuid.UUID, newPassword string) (*dto.UserResponse, error) {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = string(hash)
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return mapUser(u), nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	u.Active = false
	return s.repo.Update(ctx, u)
}

// Activate and Deactivate mirror the active flag into the status field.
func (s *userService) Activate(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	return s.setActive(ctx, id, true)
}

func (s *userService) Deactivate(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *userService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*dto.UserResponse, error) {
	parsed, err := model.ParseUserStatus(strings.ToUpper(status))
	if err != nil {
		return nil, invalidf("%v", err)
	}
	u, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Status = parsed
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return mapUser(u), nil
}

func (s *userService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email)
}

func (s *userService) Authenticate(ctx context.Context, req dto.AuthenticateRequest) (*dto.AuthResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Unknown email and wrong password are indistinguishable to the caller.
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrUnauthorized
	}
	if !u.Active {
		return nil, fmt.Errorf("account is inactive: %w", ErrUnauthorized)
	}

	token, err := signToken(s.cfg, jwt.MapClaims{
		"user_id": u.ID.String(),
		"email":   u.Email,
		"role":    string(u.Role),
	})
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User:        *mapUser(u),
	}, nil
}

func (s *userService) setActive(ctx context.Context, id uuid.UUID, active bool) (*dto.UserResponse, error) {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Active = active
	if active {
		u.Status = model.UserActive
	} else {
		u.Status = model.UserInactive
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return mapUser(u), nil
}

func (s *userService) checkUnique(ctx context.Context, email, run string) error {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return duplicatef("user with email %q", email)
	}
	exists, err = s.repo.ExistsByRUN(ctx, run)
	if err != nil {
		return err
	}
	if exists {
		return duplicatef("user with RUN %q", run)
	}
	return nil
}

func (s *userService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user %s", id)
		}
		return nil, err
	}
	return u, nil
}

func mapUsers(list []model.User) []dto.UserResponse {
	result := make([]dto.UserResponse, 0, len(list))
	for i := range list {
		result = append(result, *mapUser(&list[i]))
	}
	return result
}

// ── Shared helpers (users + customers) ───────────────────────────────────────

const birthDateLayout = "2006-01-02"

func parseBirthDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(birthDateLayout, *s)
	if err != nil {
		return nil, invalidf("birth date %q", *s)
	}
	return &t, nil
}

func formatBirthDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(birthDateLayout)
	return &s
}

func signToken(cfg *config.Config, claims jwt.MapClaims) (string, error) {
	now := time.Now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(time.Duration(cfg.JWTExpirationHours) * time.Hour).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}
