package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lms/api/internal/ids"
	"lms/api/internal/metrics"
	"lms/api/internal/models"
	"lms/api/internal/repository"
	"lms/api/internal/security"
)

type AuthService struct {
	users   UserStore
	tokens  RefreshTokenStore
	issuer  *security.TokenIssuer
	hasher  *security.PasswordHasher
	metrics metrics.Recorder
	log     zerolog.Logger
	now     func() time.Time
}

func NewAuthService(
	users UserStore,
	tokens RefreshTokenStore,
	issuer *security.TokenIssuer,
	hasher *security.PasswordHasher,
	recorder metrics.Recorder,
	log zerolog.Logger,
) *AuthService {
	if recorder == nil {
		recorder = metrics.Nop
	}
	return &AuthService{
		users:   users,
		tokens:  tokens,
		issuer:  issuer,
		hasher:  hasher,
		metrics: recorder,
		log:     log,
		now:     time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         models.User
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// Register creates a learner account. Admins only come from the seeder.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	email := normalizeEmail(input.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.Create(ctx, models.User{
		ID:           ids.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.UserRoleLearner,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	s.metrics.RecordRegistration()
	return user, nil
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.RecordLogin(false)
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("stored password hash unreadable")
	}
	if err != nil || !ok {
		s.metrics.RecordLogin(false)
		return AuthResult{}, ErrInvalidCredentials
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}
	s.metrics.RecordLogin(true)
	return result, nil
}

// Refresh trades a refresh token for a new pair. The presented token is
// consumed atomically, so it works at most once even under concurrent use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	claims, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return AuthResult{}, ErrInvalidRefreshToken
	}

	stored, err := s.tokens.Consume(ctx, security.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return AuthResult{}, ErrInvalidRefreshToken
		}
		return AuthResult{}, err
	}
	if stored.Expired(s.now()) || stored.UserID != claims.UserID {
		return AuthResult{}, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidRefreshToken
		}
		return AuthResult{}, err
	}

	return s.issueTokens(ctx, user)
}

// Logout forgets the refresh token. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.DeleteByHash(ctx, security.HashRefreshToken(refreshToken))
}

// Authenticate verifies an access token and loads its user. The stored role
// is authoritative, not the one embedded in the token.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	claims, err := s.issuer.ParseAccess(accessToken)
	if err != nil {
		return models.User{}, err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

type UpdateMeInput struct {
	Name     *string
	Email    *string
	Password *string
}

func (s *AuthService) UpdateMe(ctx context.Context, userID string, input UpdateMeInput) (models.User, error) {
	var patch models.UserPatch

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		patch.Name = &name
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		existing, err := s.users.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != userID:
			return models.User{}, ErrEmailTaken
		case err != nil && !errors.Is(err, repository.ErrUserNotFound):
			return models.User{}, err
		}
		patch.Email = &email
	}

	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return models.User{}, err
		}
		patch.PasswordHash = hash
	}

	user, err := s.users.Update(ctx, userID, patch)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return models.User{}, ErrUserNotFound
	case errors.Is(err, repository.ErrEmailTaken):
		return models.User{}, ErrEmailTaken
	}
	return user, err
}

func (s *AuthService) issueTokens(ctx context.Context, user models.User) (AuthResult, error) {
	accessToken, err := s.issuer.IssueAccess(user.ID, string(user.Role))
	if err != nil {
		return AuthResult{}, err
	}

	refresh, err := s.issuer.IssueRefresh(user.ID)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.tokens.Create(ctx, models.RefreshToken{
		ID:        ids.New(),
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		ExpiresAt: refresh.ExpiresAt,
	}); err != nil {
		return AuthResult{}, fmt.Errorf("store refresh token: %w", err)
	}

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		User:         user,
	}, nil
}
