// Package token issues and verifies the four signed token types used by the
// auth flows. Every type carries its own secret and lifetime, so a leaked
// reset secret cannot be used to forge access tokens. Tokens are stateless:
// verification never touches storage.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Type string

const (
	Access  Type = "access"
	Refresh Type = "refresh"
	Reset   Type = "reset"
	Verify  Type = "verify"
)

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrUnknownTokenType = errors.New("unknown token type")
)

// TypeConfig binds one token type to its signing secret and lifetime.
type TypeConfig struct {
	Secret []byte
	TTL    time.Duration
}

// Config maps each token type to its TypeConfig. It is built once at
// startup and treated as immutable.
type Config map[Type]TypeConfig

// DefaultConfig mirrors the production lifetimes: access 15m, refresh 7d and
// verify 24h on the main secret, reset 1h on its own secret.
func DefaultConfig(secret, resetSecret string) Config {
	return Config{
		Access:  {Secret: []byte(secret), TTL: 15 * time.Minute},
		Refresh: {Secret: []byte(secret), TTL: 7 * 24 * time.Hour},
		Reset:   {Secret: []byte(resetSecret), TTL: time.Hour},
		Verify:  {Secret: []byte(secret), TTL: 24 * time.Hour},
	}
}

type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type Service struct {
	configs Config
}

func NewService(configs Config) *Service {
	return &Service{configs: configs}
}

// Issue signs a token of the given type embedding the user ID.
func (s *Service) Issue(userID uint, t Type) (string, error) {
	config, ok := s.configs[t]
	if !ok {
		return "", ErrUnknownTokenType
	}

	now := time.Now()
	claims := Claims{
		UserID:    userID,
		TokenType: string(t),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.Secret)
}

// Verify checks signature, expiry and the type claim against the secret
// bound to t, and returns the embedded user ID.
func (s *Service) Verify(tokenString string, t Type) (uint, error) {
	config, ok := s.configs[t]
	if !ok {
		return 0, ErrUnknownTokenType
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.TokenType != string(t) {
		return 0, ErrTokenInvalid
	}

	return claims.UserID, nil
}
