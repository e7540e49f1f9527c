package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// RefreshTokenData stores information about a refresh token
type RefreshTokenData struct {
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRepository defines the user lookup operations needed by the auth service
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uuid.UUID) (*models.User, error)
}

// AuthService provides password authentication and JWT issuance
type AuthService struct {
	config        *AuthConfig
	userRepo      UserRepository
	resolver      *tenancy.Resolver
	refreshTokens map[string]*RefreshTokenData // In-memory store for refresh tokens
	tokenMutex    sync.RWMutex                 // Protect the refresh token store
}

// AuthClaims represents JWT token claims. Only the user identity is carried in
// the token; tenant and hierarchy data are resolved fresh on every request so
// a stale token cannot outlive a tenant reassignment.
type AuthClaims struct {
	UserID               string `json:"user_id" example:"8f14e45f-ceea-467f-a048-52a9cbdf6afc"`
	Email                string `json:"email" example:"agent@crou-niamey.ne"`
	jwt.RegisteredClaims `swaggerignore:"true"`
}

// LoginRequest represents the credentials for the login endpoint
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response from the login endpoint
type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	TokenType    string      `json:"tokenType" example:"Bearer"`
	ExpiresIn    int64       `json:"expiresIn" example:"3600"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	Profile      UserProfile `json:"profile"`
}

// UserProfile describes the authenticated user to the client
type UserProfile struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"fullName"`
	Role           string `json:"role"`
	TenantID       string `json:"tenantId"`
	HierarchyLevel string `json:"hierarchyLevel"`
}

// RefreshTokenRequest represents the request for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthLogoutResponse represents the response from the logout endpoint
type AuthLogoutResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}

// AuthValidateResponse represents the response from the token validation endpoint
type AuthValidateResponse struct {
	Valid  bool        `json:"valid" example:"true"`
	Claims *AuthClaims `json:"claims"`
}

// NewAuthService creates a new authentication service
func NewAuthService(config *AuthConfig, userRepo UserRepository, resolver *tenancy.Resolver) (*AuthService, error) {
	if err := config.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}

	return &AuthService{
		config:        config,
		userRepo:      userRepo,
		resolver:      resolver,
		refreshTokens: make(map[string]*RefreshTokenData),
		tokenMutex:    sync.RWMutex{},
	}, nil
}

// Login verifies the credentials and issues a token pair. The tenant context
// is resolved as part of login so disabled users and inactive tenants are
// rejected before any token exists.
func (s *AuthService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	tc, err := s.resolver.Resolve(user.ID)
	if err != nil {
		return nil, err
	}

	jwtToken, err := s.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT: %w", err)
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	s.tokenMutex.Lock()
	s.refreshTokens[refreshToken] = &RefreshTokenData{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.config.RefreshExpiry),
		CreatedAt: time.Now(),
	}
	s.tokenMutex.Unlock()

	return &LoginResponse{
		AccessToken:  jwtToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.config.TokenExpiry.Seconds()),
		RefreshToken: refreshToken,
		Profile: UserProfile{
			ID:             user.ID.String(),
			Email:          user.Email,
			FullName:       user.FullName,
			Role:           string(user.Role),
			TenantID:       tc.TenantID.String(),
			HierarchyLevel: string(tc.HierarchyLevel),
		},
	}, nil
}

// RefreshToken rotates a refresh token and issues a new JWT
func (s *AuthService) RefreshToken(refreshToken string) (*LoginResponse, error) {
	s.tokenMutex.RLock()
	tokenData, exists := s.refreshTokens[refreshToken]
	s.tokenMutex.RUnlock()

	if !exists {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	if time.Now().After(tokenData.ExpiresAt) {
		s.tokenMutex.Lock()
		delete(s.refreshTokens, refreshToken)
		s.tokenMutex.Unlock()
		return nil, apperrors.ErrRefreshTokenExpired
	}

	// Re-resolve so a user deactivated since login cannot refresh
	tc, err := s.resolver.Resolve(tokenData.UserID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(tokenData.UserID)
	if err != nil {
		return nil, err
	}

	jwtToken, err := s.GenerateJWT(tokenData.UserID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate new JWT: %w", err)
	}

	newRefreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate new refresh token: %w", err)
	}

	s.tokenMutex.Lock()
	delete(s.refreshTokens, refreshToken)
	s.refreshTokens[newRefreshToken] = &RefreshTokenData{
		UserID:    tokenData.UserID,
		ExpiresAt: time.Now().Add(s.config.RefreshExpiry),
		CreatedAt: time.Now(),
	}
	s.tokenMutex.Unlock()

	return &LoginResponse{
		AccessToken:  jwtToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.config.TokenExpiry.Seconds()),
		RefreshToken: newRefreshToken,
		Profile: UserProfile{
			ID:             tokenData.UserID.String(),
			Email:          user.Email,
			FullName:       user.FullName,
			Role:           string(user.Role),
			TenantID:       tc.TenantID.String(),
			HierarchyLevel: string(tc.HierarchyLevel),
		},
	}, nil
}

// GenerateJWT creates a JWT token for the user
func (s *AuthService) GenerateJWT(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := &AuthClaims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// ValidateJWT validates and parses a JWT token
func (s *AuthService) ValidateJWT(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*AuthClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// Logout discards the refresh token so it cannot be rotated again
func (s *AuthService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	s.tokenMutex.Lock()
	delete(s.refreshTokens, refreshToken)
	s.tokenMutex.Unlock()
	return nil
}

// generateRefreshToken generates a random refresh token
func (s *AuthService) generateRefreshToken() (string, error) {
	bytes := make([]byte, 64)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// HashPassword produces a bcrypt hash for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
