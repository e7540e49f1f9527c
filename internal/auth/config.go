package auth

import (
	"fmt"
	"time"
)

// AuthConfig holds authentication configuration for the application
type AuthConfig struct {
	JWTSecret     string
	TokenExpiry   time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// NewAuthConfig builds an auth configuration from the resolved settings
func NewAuthConfig(jwtSecret string, tokenExpiryMinutes, refreshExpiryMinutes int) *AuthConfig {
	return &AuthConfig{
		JWTSecret:     jwtSecret,
		TokenExpiry:   time.Duration(tokenExpiryMinutes) * time.Minute,
		RefreshExpiry: time.Duration(refreshExpiryMinutes) * time.Minute,
		Issuer:        "crou-management-system",
	}
}

// ValidateConfig validates the authentication configuration
func (c *AuthConfig) ValidateConfig() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.TokenExpiry <= 0 {
		return fmt.Errorf("token expiry must be positive")
	}

	if c.RefreshExpiry <= c.TokenExpiry {
		return fmt.Errorf("refresh expiry must exceed token expiry")
	}

	return nil
}
