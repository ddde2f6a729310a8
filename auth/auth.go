// Package auth guards the HTTP surface. The form wizard exchanges a shared
// API credential for a short-lived token; only the credential's bcrypt hash
// is ever configured on the server.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredential signals a wrong or unknown API credential.
var ErrInvalidCredential = errors.New("auth: invalid credential")

const tokenTTL = 24 * time.Hour

// Service issues and verifies API tokens.
type Service struct {
	jwtSecret []byte
	keyHash   []byte
	now       func() time.Time
}

// NewService builds the token service. Both arguments empty disables auth;
// Enabled reports that state so the server can skip the middleware.
func NewService(jwtSecret, apiKeyHash string) *Service {
	return &Service{
		jwtSecret: []byte(jwtSecret),
		keyHash:   []byte(apiKeyHash),
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Enabled reports whether the surface requires tokens.
func (s *Service) Enabled() bool {
	return len(s.jwtSecret) > 0 && len(s.keyHash) > 0
}

// Login exchanges the shared credential for a signed token naming the
// client.
func (s *Service) Login(client, apiKey string) (string, error) {
	if client == "" {
		return "", fmt.Errorf("auth: client name required")
	}
	if err := bcrypt.CompareHashAndPassword(s.keyHash, []byte(apiKey)); err != nil {
		return "", ErrInvalidCredential
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub": client,
		"exp": now.Add(tokenTTL).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a bearer token and returns the client it names.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("auth: parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("auth: invalid subject in token")
	}
	return sub, nil
}
