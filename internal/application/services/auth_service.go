package services

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/security"
	"github.com/LeadPulse/leadpulse-go/pkg/config"
)

// ErrInvalidCredentials indicates a failed admin login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles admin dashboard authentication.
type AuthService struct {
	jwtSecret     string
	passwordHash  string
	tokenLifetime time.Duration
	logger        *logging.ChanneledLogger
}

// NewAuthService creates a new auth service from the configured secrets.
func NewAuthService(logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		jwtSecret:     config.JWTSecret,
		passwordHash:  config.AdminPasswordHash,
		tokenLifetime: config.TokenLifetime,
		logger:        logger,
	}
}

// Login checks the admin password against the configured bcrypt hash and
// returns a signed JWT on success.
func (s *AuthService) Login(password string) (string, error) {
	if s.passwordHash == "" {
		s.logger.Auth().Error("Admin login attempted with no password hash configured")
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		s.logger.Auth().Warn("Admin login failed")
		return "", ErrInvalidCredentials
	}

	token, err := security.GenerateAdminToken(s.jwtSecret, s.tokenLifetime)
	if err != nil {
		return "", err
	}

	s.logger.Auth().Info("Admin login succeeded")
	return token, nil
}

// Validate checks a bearer token and reports whether it carries the admin role.
func (s *AuthService) Validate(token string) bool {
	claims, err := security.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		return false
	}
	return security.IsAdminClaims(claims)
}
