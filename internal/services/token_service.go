package services

import (
	"errors"
	"time"

	"storefront/internal/apperrors"

	"github.com/dgrijalva/jwt-go"
)

const (
	tokenIssuer   = "storefront-backend"
	tokenAudience = "storefront-ios"
)

// TokenPair is a freshly issued access/refresh credential pair. ExpiresIn is
// the access token lifetime in seconds, reported to clients.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// TokenService issues and verifies signed, time-bounded credentials. It is
// stateless: verification never touches the database, and there is no
// revocation list; logout is client-side credential discard.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a TokenService. Access and refresh tokens use
// separate secrets so one can never be presented as the other.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssuePair signs a new access/refresh pair carrying only the user identifier
// plus the standard issuer and audience claims.
func (s *TokenService) IssuePair(userID string) (TokenPair, error) {
	access, err := s.sign(userID, s.accessSecret, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(userID, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *TokenService) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:   userID,
		Issuer:    tokenIssuer,
		Audience:  tokenAudience,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindInternal, "failed to sign token", err)
	}
	return signed, nil
}

// VerifyAccess validates an access token and returns the user identifier.
// Expired, malformed and not-yet-valid tokens fail with distinct kinds so
// callers can branch refresh-vs-reject.
func (s *TokenService) VerifyAccess(token string) (string, error) {
	return s.verify(token, s.accessSecret, "access")
}

// VerifyRefresh validates a refresh token and returns the user identifier.
func (s *TokenService) VerifyRefresh(token string) (string, error) {
	return s.verify(token, s.refreshSecret, "refresh")
}

func (s *TokenService) verify(tokenString string, secret []byte, label string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				return "", apperrors.Newf(apperrors.KindTokenExpired, "%s token has expired", label)
			case ve.Errors&jwt.ValidationErrorNotValidYet != 0:
				return "", apperrors.Newf(apperrors.KindTokenNotYetValid, "%s token not active yet", label)
			}
		}
		return "", apperrors.Newf(apperrors.KindTokenMalformed, "invalid %s token", label)
	}
	if !token.Valid ||
		!claims.VerifyIssuer(tokenIssuer, true) ||
		!claims.VerifyAudience(tokenAudience, true) ||
		claims.Subject == "" {
		return "", apperrors.Newf(apperrors.KindTokenMalformed, "invalid %s token", label)
	}
	return claims.Subject, nil
}
