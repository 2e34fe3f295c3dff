package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials signals a wrong email or password.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

const tokenTTL = 24 * time.Hour

// Service authenticates the single administrator account the tracker is
// operated with. There is no user table; the admin email and bcrypt password
// hash come from configuration.
type Service struct {
	adminEmail string
	adminHash  []byte
	jwtSecret  []byte
	now        func() time.Time
}

// NewService creates an authentication service for the configured admin
// credential. adminHash must be a bcrypt hash of the admin password.
func NewService(adminEmail, adminHash, jwtSecret string) *Service {
	return &Service{
		adminEmail: adminEmail,
		adminHash:  []byte(adminHash),
		jwtSecret:  []byte(jwtSecret),
		now:        time.Now,
	}
}

// WithClock overrides the time source, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Login verifies the admin credential and returns a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if !strings.EqualFold(strings.TrimSpace(email), s.adminEmail) {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.generateToken()
	if err != nil {
		return "", fmt.Errorf("auth: generate token: %w", err)
	}
	return token, nil
}

// VerifyToken validates a session token and returns its subject email.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("auth: parse token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, ok := claims["sub"].(string)
		if !ok {
			return "", fmt.Errorf("auth: invalid subject in token")
		}
		return sub, nil
	}

	return "", fmt.Errorf("auth: invalid token")
}

func (s *Service) generateToken() (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": s.adminEmail,
		"exp": now.Add(tokenTTL).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
