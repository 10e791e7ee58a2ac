package security

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/segmentio/ksuid"
)

const refreshTokenType = "refresh"

var ErrInvalidToken = errors.New("invalid token")

type AccessClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID string `json:"id"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// IssuedRefreshToken is a freshly signed refresh token together with what
// the server stores about it.
type IssuedRefreshToken struct {
	Token     string
	Hash      []byte
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies access and refresh tokens. Access and
// refresh tokens use separate secrets so one can never pass for the other.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

func (t *TokenIssuer) IssueAccess(userID string, role string) (string, error) {
	now := t.now()
	claims := AccessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.AccessTTL)),
			Subject:   userID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(t.cfg.AccessSecret))
	if err != nil {
		return "", fmt.Errorf("sign access jwt: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) ParseAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := t.parse(tokenStr, claims, t.cfg.AccessSecret); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueRefresh signs a refresh token. The ksuid jti keeps two tokens issued
// to the same user within one second distinct.
func (t *TokenIssuer) IssueRefresh(userID string) (IssuedRefreshToken, error) {
	now := t.now()
	expiresAt := now.Add(t.cfg.RefreshTTL)
	claims := RefreshClaims{
		UserID: userID,
		Type:   refreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ksuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   userID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(t.cfg.RefreshSecret))
	if err != nil {
		return IssuedRefreshToken{}, fmt.Errorf("sign refresh jwt: %w", err)
	}
	return IssuedRefreshToken{
		Token:     signed,
		Hash:      HashRefreshToken(signed),
		ExpiresAt: expiresAt,
	}, nil
}

func (t *TokenIssuer) ParseRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := t.parse(tokenStr, claims, t.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	if claims.Type != refreshTokenType || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (t *TokenIssuer) parse(tokenStr string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

func HashRefreshToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
