package services

import (
	"errors"
	"strings"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, sign-in and token refresh.
type AuthService struct {
	userRepo repositories.UserRepository
	tokens   *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

// Register creates a user with a hashed password and issues a token pair.
// Email uniqueness is case-insensitive.
func (s *AuthService) Register(name, email, password string) (*models.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, TokenPair{}, apperrors.New(apperrors.KindConflict, "user with this email already exists")
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, TokenPair{}, apperrors.Wrap(apperrors.KindInternal, "failed to check existing user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, TokenPair{}, apperrors.Wrap(apperrors.KindInternal, "failed to hash password", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		IsActive: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, TokenPair{}, apperrors.Wrap(apperrors.KindInternal, "failed to register user", err)
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// SignIn authenticates by email and password. Unknown email, wrong password
// and deactivated accounts all fail with the same message so credentials are
// not probeable.
func (s *AuthService) SignIn(email, password string) (*models.User, TokenPair, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, TokenPair{}, apperrors.New(apperrors.KindUnauthenticated, "invalid email or password")
		}
		return nil, TokenPair{}, apperrors.Wrap(apperrors.KindInternal, "failed to look up user", err)
	}
	if !user.IsActive {
		return nil, TokenPair{}, apperrors.New(apperrors.KindUnauthenticated, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, TokenPair{}, apperrors.New(apperrors.KindUnauthenticated, "invalid email or password")
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh rotates the token pair. The refresh token's kind-specific failures
// (expired vs malformed) propagate unchanged; the user must still exist and be
// active.
func (s *AuthService) Refresh(refreshToken string) (*models.User, TokenPair, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, TokenPair{}, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, TokenPair{}, apperrors.New(apperrors.KindUnauthenticated, "user not found or inactive")
		}
		return nil, TokenPair{}, apperrors.Wrap(apperrors.KindInternal, "failed to look up user", err)
	}
	if !user.IsActive {
		return nil, TokenPair{}, apperrors.New(apperrors.KindUnauthenticated, "user not found or inactive")
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}
