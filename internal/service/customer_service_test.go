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

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory CustomerRepository stub ────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for _, existing := range r.customers {
		if strings.EqualFold(existing.Email, c.Email) || strings.EqualFold(existing.RUN, c.RUN) {
			return gorm.ErrDuplicatedKey
		}
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCustomerRepo) FindByEmail(_ context.Context, email string) (*model.Customer, error) {
	for _, c := range r.customers {
		if strings.EqualFold(c.Email, email) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	result := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		result = append(result, *c)
	}
	return result, nil
}

func (r *stubCustomerRepo) ListActive(_ context.Context) ([]model.Customer, error) {
	var result []model.Customer
	for _, c := range r.customers {
		if c.Active {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *stubCustomerRepo) ListByStatus(_ context.Context, status model.CustomerStatus) ([]model.Customer, error) {
	var result []model.Customer
	for _, c := range r.customers {
		if c.Status == status {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c.UpdatedAt = time.Now()
	clone := *c
	r.customers[c.ID] = &clone
	return nil
}

func (r *stubCustomerRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, c := range r.customers {
		if strings.EqualFold(c.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCustomerRepo) ExistsByRUN(_ context.Context, run string) (bool, error) {
	for _, c := range r.customers {
		if strings.EqualFold(c.RUN, run) {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

func customerReq(run, email, status string) dto.CustomerRequest {
	return dto.CustomerRequest{
		RUN:       run,
		FirstName: "Pedro",
		LastName:  "Soto",
		Email:     email,
		Password:  "s3cret-pass",
		Status:    status,
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCustomerCreateTakesStatusFromRequest(t *testing.T) {
	svc := service.NewCustomerService(newStubCustomerRepo(), testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, customerReq("11111111-1", "pedro@example.com", "INACTIVE"))
	require.NoError(t, err)
	assert.Equal(t, "INACTIVE", created.Status)
	assert.True(t, created.Active)

	_, err = svc.Create(ctx, customerReq("22222222-2", "other@example.com", "SUSPENDED"))
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestCustomerBlockedCannotBeActivated(t *testing.T) {
	svc := service.NewCustomerService(newStubCustomerRepo(), testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, customerReq("11111111-1", "pedro@example.com", "ACTIVE"))
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, created.ID, "BLOCKED")
	require.NoError(t, err)

	// A blocked account must pass through INACTIVE before reactivation.
	_, err = svc.ChangeStatus(ctx, created.ID, "ACTIVE")
	assert.ErrorIs(t, err, service.ErrInvalidArgument)

	_, err = svc.Activate(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrInvalidArgument)

	_, err = svc.ChangeStatus(ctx, created.ID, "INACTIVE")
	require.NoError(t, err)

	got, err := svc.ChangeStatus(ctx, created.ID, "ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", got.Status)
}

func TestCustomerUpdateChecksTransition(t *testing.T) {
	svc := service.NewCustomerService(newStubCustomerRepo(), testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, customerReq("11111111-1", "pedro@example.com", "ACTIVE"))
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, created.ID, "BLOCKED")
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, customerReq("11111111-1", "pedro@example.com", "ACTIVE"))
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestCustomerDeactivateSetsInactiveStatus(t *testing.T) {
	svc := service.NewCustomerService(newStubCustomerRepo(), testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, customerReq("11111111-1", "pedro@example.com", "ACTIVE"))
	require.NoError(t, err)

	got, err := svc.Deactivate(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, "INACTIVE", got.Status)
}

func TestCustomerAuthenticate(t *testing.T) {
	svc := service.NewCustomerService(newStubCustomerRepo(), testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, customerReq("11111111-1", "pedro@example.com", "ACTIVE"))
	require.NoError(t, err)

	resp, err := svc.Authenticate(ctx, dto.AuthenticateRequest{
		Email:    "pedro@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.Customer.ID)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, created.ID.String(), claims["customer_id"])
	assert.Equal(t, "pedro@example.com", claims["email"])
}

func TestCustomerAuthenticateRejections(t *testing.T) {
	svc := service.NewCustomerService(newStubCustomerRepo(), testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, customerReq("11111111-1", "pedro@example.com", "ACTIVE"))
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, dto.AuthenticateRequest{Email: "pedro@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.ChangeStatus(ctx, created.ID, "BLOCKED")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, dto.AuthenticateRequest{Email: "pedro@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.ChangeStatus(ctx, created.ID, "INACTIVE")
	require.NoError(t, err)
	_, err = svc.Deactivate(ctx, created.ID)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, dto.AuthenticateRequest{Email: "pedro@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestCustomerDuplicateEmail(t *testing.T) {
	svc := service.NewCustomerService(newStubCustomerRepo(), testConfig())
	ctx := context.Background()

	_, err := svc.Create(ctx, customerReq("11111111-1", "pedro@example.com", "ACTIVE"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, customerReq("22222222-2", "PEDRO@example.com", "ACTIVE"))
	assert.ErrorIs(t, err, service.ErrDuplicate)
}
