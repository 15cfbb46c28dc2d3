package services_test

import (
	"testing"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func newTestTokenService() *services.TokenService {
	return services.NewTokenService(testAccessSecret, testRefreshSecret, time.Hour, 24*time.Hour)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestTokenService()

	pair, err := svc.IssuePair("user-123")
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	userID, err := svc.VerifyAccess(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	userID, err = svc.VerifyRefresh(pair.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenService_CrossVerificationRejected(t *testing.T) {
	svc := newTestTokenService()

	pair, err := svc.IssuePair("user-123")
	assert.NoError(t, err)

	// An access token presented as a refresh token (and vice versa) must fail:
	// the two sides are signed with different secrets.
	_, err = svc.VerifyRefresh(pair.AccessToken)
	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindTokenMalformed))

	_, err = svc.VerifyAccess(pair.RefreshToken)
	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindTokenMalformed))
}

func TestTokenService_ExpiredToken(t *testing.T) {
	expired := services.NewTokenService(testAccessSecret, testRefreshSecret, -time.Hour, -time.Hour)
	pair, err := expired.IssuePair("user-123")
	assert.NoError(t, err)

	svc := newTestTokenService()
	_, err = svc.VerifyAccess(pair.AccessToken)
	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindTokenExpired))

	_, err = svc.VerifyRefresh(pair.RefreshToken)
	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindTokenExpired))
}

func TestTokenService_MalformedToken(t *testing.T) {
	svc := newTestTokenService()

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.VerifyAccess(token)
		assert.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindTokenMalformed))
	}
}

func TestTokenService_NotYetValidToken(t *testing.T) {
	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:   "user-123",
		Issuer:    "storefront-backend",
		Audience:  "storefront-ios",
		IssuedAt:  now.Unix(),
		NotBefore: now.Add(time.Hour).Unix(),
		ExpiresAt: now.Add(2 * time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAccessSecret))
	assert.NoError(t, err)

	svc := newTestTokenService()
	_, err = svc.VerifyAccess(signed)
	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindTokenNotYetValid))
}

func TestTokenService_WrongIssuerRejected(t *testing.T) {
	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:   "user-123",
		Issuer:    "someone-else",
		Audience:  "storefront-ios",
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAccessSecret))
	assert.NoError(t, err)

	svc := newTestTokenService()
	_, err = svc.VerifyAccess(signed)
	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindTokenMalformed))
}
