package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/GersebO/commerce-microservices/internal/config"
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

const testSecret = "test-secret"

func testConfig() *config.Config {
	return &config.Config{JWTSecret: testSecret, JWTExpirationHours: 1}
}

// ── In-memory UserRepository stub ────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) || strings.EqualFold(existing.RUN, u.RUN) {
			return gorm.ErrDuplicatedKey
		}
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, *u)
	}
	return result, nil
}

func (r *stubUserRepo) ListActive(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		if u.Active {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *stubUserRepo) ListByRole(_ context.Context, role model.UserRole) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *stubUserRepo) ListByStatus(_ context.Context, status model.UserStatus) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		if u.Status == status {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	u.UpdatedAt = time.Now()
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByRUN(_ context.Context, run string) (bool, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.RUN, run) {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func userReq(run, email string) dto.UserRequest {
	return dto.UserRequest{
		RUN:       run,
		FirstName: "Ana",
		LastName:  "Rojas",
		Email:     email,
		Password:  "s3cret-pass",
		Role:      "ADMIN",
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestUserCreate(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewUserService(repo, testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, userReq("11111111-1", "ana@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", created.Role)
	// New users always start active regardless of input.
	assert.Equal(t, "ACTIVE", created.Status)
	assert.True(t, created.Active)

	// Stored credential is a hash, never the raw password.
	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))
}

func TestUserCreateInvalidRole(t *testing.T) {
	svc := service.NewUserService(newStubUserRepo(), testConfig())

	req := userReq("11111111-1", "ana@example.com")
	req.Role = "SUPERUSER"
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestUserCreateDuplicateEmailAndRUN(t *testing.T) {
	svc := service.NewUserService(newStubUserRepo(), testConfig())
	ctx := context.Background()

	_, err := svc.Create(ctx, userReq("11111111-1", "ana@example.com"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, userReq("22222222-2", "ANA@EXAMPLE.COM"))
	assert.ErrorIs(t, err, service.ErrDuplicate)

	_, err = svc.Create(ctx, userReq("11111111-1", "other@example.com"))
	assert.ErrorIs(t, err, service.ErrDuplicate)
}

func TestUserUpdateKeepsOwnNaturalKeys(t *testing.T) {
	svc := service.NewUserService(newStubUserRepo(), testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, userReq("11111111-1", "ana@example.com"))
	require.NoError(t, err)

	req := userReq("11111111-1", "Ana@Example.com")
	req.FirstName = "Anita"
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Anita", updated.FirstName)
}

func TestUserSoftDeleteKeepsStatus(t *testing.T) {
	svc := service.NewUserService(newStubUserRepo(), testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, userReq("11111111-1", "ana@example.com"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, "ACTIVE", got.Status)
}

func TestUserDeactivateMirrorsStatus(t *testing.T) {
	svc := service.NewUserService(newStubUserRepo(), testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, userReq("11111111-1", "ana@example.com"))
	require.NoError(t, err)

	got, err := svc.Deactivate(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, "INACTIVE", got.Status)

	got, err = svc.Activate(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.Equal(t, "ACTIVE", got.Status)
}

func TestUserAuthenticate(t *testing.T) {
	svc := service.NewUserService(newStubUserRepo(), testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, userReq("11111111-1", "ana@example.com"))
	require.NoError(t, err)

	resp, err := svc.Authenticate(ctx, dto.AuthenticateRequest{
		Email:    "ana@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, created.ID, resp.User.ID)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, created.ID.String(), claims["user_id"])
	assert.Equal(t, "ana@example.com", claims["email"])
	assert.Equal(t, "ADMIN", claims["role"])
}

func TestUserAuthenticateRejections(t *testing.T) {
	svc := service.NewUserService(newStubUserRepo(), testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, userReq("11111111-1", "ana@example.com"))
	require.NoError(t, err)

	// Unknown email and wrong password report the same kind.
	_, err = svc.Authenticate(ctx, dto.AuthenticateRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, dto.AuthenticateRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.Deactivate(ctx, created.ID)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, dto.AuthenticateRequest{Email: "ana@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestUserUpdatePassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewUserService(repo, testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, userReq("11111111-1", "ana@example.com"))
	require.NoError(t, err)

	_, err = svc.UpdatePassword(ctx, created.ID, "new-pass-123")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, dto.AuthenticateRequest{Email: "ana@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, dto.AuthenticateRequest{Email: "ana@example.com", Password: "new-pass-123"})
	assert.NoError(t, err)
}

func TestUserBirthDateRoundTrip(t *testing.T) {
	svc := service.NewUserService(newStubUserRepo(), testConfig())

	birth := "1990-06-15"
	req := userReq("11111111-1", "ana@example.com")
	req.BirthDate = &birth
	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, created.BirthDate)
	assert.Equal(t, birth, *created.BirthDate)

	bad := "15/06/1990"
	req2 := userReq("22222222-2", "other@example.com")
	req2.BirthDate = &bad
	_, err = svc.Create(context.Background(), req2)
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}
