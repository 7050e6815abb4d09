package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Amish929/Eco-Gamify-Project/internal/models"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const issuer = "eco-gamify"

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	AccountID string
	Role      models.Role
	Name      string
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

type Claims struct {
	jwt.RegisteredClaims
	AccountID string      `json:"id"`
	Role      models.Role `json:"role"`
	Name      string      `json:"name"`
}

type TokenManager interface {
	Issue(account *models.Account) (string, error)
	Parse(token string) (*Identity, error)
}

type tokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *tokenManager) Issue(account *models.Account) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		AccountID: account.ID,
		Role:      account.Role,
		Name:      account.Name,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *tokenManager) Parse(token string) (*Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.AccountID == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		AccountID: claims.AccountID,
		Role:      claims.Role,
		Name:      claims.Name,
	}, nil
}
