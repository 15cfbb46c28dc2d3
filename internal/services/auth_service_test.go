package services_test

import (
	"testing"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture() (*services.AuthService, *MockUserRepository) {
	userRepo := new(MockUserRepository)
	svc := services.NewAuthService(userRepo, newTestTokenService())
	return svc, userRepo
}

func TestAuthService_Register(t *testing.T) {
	svc, userRepo := newAuthFixture()

	userRepo.On("GetByEmail", "dana@example.com").Return(nil, repositories.ErrNotFound).Once()
	userRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = "u1"
	}).Return(nil).Once()

	// Email is case-insensitive and the password must never be stored as-is.
	user, pair, err := svc.Register("Dana", "  DANA@example.com ", "hunter2hunter2")

	assert.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "hunter2hunter2", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter2hunter2")))
	assert.NotEmpty(t, pair.AccessToken)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, userRepo := newAuthFixture()

	userRepo.On("GetByEmail", "dana@example.com").Return(&models.User{ID: "u1"}, nil).Once()

	_, _, err := svc.Register("Dana", "dana@example.com", "hunter2hunter2")

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_SignIn(t *testing.T) {
	svc, userRepo := newAuthFixture()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	userRepo.On("GetByEmail", "dana@example.com").Return(&models.User{
		ID: "u1", Email: "dana@example.com", Password: string(hashed), IsActive: true,
	}, nil).Once()

	user, pair, err := svc.SignIn("dana@example.com", "hunter2hunter2")

	assert.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestAuthService_SignIn_UniformFailures(t *testing.T) {
	svc, userRepo := newAuthFixture()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	userRepo.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	userRepo.On("GetByEmail", "dana@example.com").Return(&models.User{
		ID: "u1", Password: string(hashed), IsActive: true,
	}, nil).Once()
	userRepo.On("GetByEmail", "gone@example.com").Return(&models.User{
		ID: "u2", Password: string(hashed), IsActive: false,
	}, nil).Once()

	// Unknown email, wrong password and deactivated account must all be
	// indistinguishable to the caller.
	for _, attempt := range []struct{ email, password string }{
		{"nobody@example.com", "hunter2hunter2"},
		{"dana@example.com", "wrong-password"},
		{"gone@example.com", "hunter2hunter2"},
	} {
		_, _, err := svc.SignIn(attempt.email, attempt.password)
		assert.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthenticated))
		assert.Contains(t, err.Error(), "invalid email or password")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc, userRepo := newAuthFixture()

	tokens := newTestTokenService()
	pair, err := tokens.IssuePair("u1")
	assert.NoError(t, err)

	userRepo.On("GetByID", "u1").Return(&models.User{ID: "u1", IsActive: true}, nil).Once()

	user, newPair, err := svc.Refresh(pair.RefreshToken)

	assert.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.NotEmpty(t, newPair.AccessToken)
	assert.NotEmpty(t, newPair.RefreshToken)
}

func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	svc, userRepo := newAuthFixture()

	pair, err := newTestTokenService().IssuePair("u1")
	assert.NoError(t, err)

	_, _, err = svc.Refresh(pair.AccessToken)

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindTokenMalformed))
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestAuthService_Refresh_InactiveUser(t *testing.T) {
	svc, userRepo := newAuthFixture()

	pair, err := newTestTokenService().IssuePair("u1")
	assert.NoError(t, err)

	userRepo.On("GetByID", "u1").Return(&models.User{ID: "u1", IsActive: false}, nil).Once()

	_, _, err = svc.Refresh(pair.RefreshToken)

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthenticated))
}
