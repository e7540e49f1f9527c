package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// fakeUserRepo serves a single user by email and id
type fakeUserRepo struct {
	user *models.User
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// fakeDirectory serves canned tenant and user records
type fakeDirectory struct {
	tenants map[uuid.UUID]*tenancy.TenantRecord
	users   map[uuid.UUID]*tenancy.UserRecord
}

func (f *fakeDirectory) GetTenant(id uuid.UUID) (*tenancy.TenantRecord, error) {
	if t, ok := f.tenants[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDirectory) GetUser(id uuid.UUID) (*tenancy.UserRecord, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestFixture(t *testing.T) (*AuthService, *models.User, uuid.UUID) {
	t.Helper()

	tenantID := uuid.New()
	userID := uuid.New()

	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	user := &models.User{
		TenantID:     tenantID,
		Email:        "agent@crou-niamey.ne",
		FullName:     "Amina Oumarou",
		PasswordHash: hash,
		Role:         tenancy.RoleAgent,
		IsActive:     true,
	}
	user.ID = userID

	directory := &fakeDirectory{
		tenants: map[uuid.UUID]*tenancy.TenantRecord{
			tenantID: {
				ID:             tenantID,
				Code:           "CROU-NIA",
				Name:           "CROU Niamey",
				HierarchyLevel: tenancy.LevelCrou,
				IsActive:       true,
			},
		},
		users: map[uuid.UUID]*tenancy.UserRecord{
			userID: {
				ID:       userID,
				TenantID: tenantID,
				Role:     tenancy.RoleAgent,
				IsActive: true,
			},
		},
	}

	config := NewAuthConfig("test-signing-key", 60, 7*24*60)
	service, err := NewAuthService(config, &fakeUserRepo{user: user}, tenancy.NewResolver(directory))
	require.NoError(t, err)

	return service, user, tenantID
}

func TestAuthConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		config := NewAuthConfig("test-signing-key", 60, 7*24*60)
		assert.NoError(t, config.ValidateConfig())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		config := NewAuthConfig("", 60, 7*24*60)
		err := config.ValidateConfig()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "JWT secret is required")
	})

	t.Run("refresh expiry must exceed token expiry", func(t *testing.T) {
		config := NewAuthConfig("test-signing-key", 60, 30)
		err := config.ValidateConfig()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "refresh expiry")
	})
}

func TestJWTOperations(t *testing.T) {
	service, user, _ := newTestFixture(t)

	t.Run("generate and validate", func(t *testing.T) {
		token, err := service.GenerateJWT(user.ID, user.Email)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := service.ValidateJWT(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, "crou-management-system", claims.Issuer)
	})

	t.Run("reject garbage token", func(t *testing.T) {
		_, err := service.ValidateJWT("not-a-token")
		assert.Error(t, err)
	})

	t.Run("reject token signed with another key", func(t *testing.T) {
		otherConfig := NewAuthConfig("another-signing-key", 60, 7*24*60)
		other, err := NewAuthService(otherConfig, nil, nil)
		require.NoError(t, err)

		token, err := other.GenerateJWT(user.ID, user.Email)
		require.NoError(t, err)

		_, err = service.ValidateJWT(token)
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		service, user, tenantID := newTestFixture(t)

		response, err := service.Login(user.Email, "correct-password")
		require.NoError(t, err)
		assert.NotEmpty(t, response.AccessToken)
		assert.NotEmpty(t, response.RefreshToken)
		assert.Equal(t, "Bearer", response.TokenType)
		assert.Equal(t, tenantID.String(), response.Profile.TenantID)
		assert.Equal(t, string(tenancy.LevelCrou), response.Profile.HierarchyLevel)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, user, _ := newTestFixture(t)

		_, err := service.Login(user.Email, "wrong-password")
		assert.Error(t, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		service, _, _ := newTestFixture(t)

		_, err := service.Login("nobody@example.ne", "correct-password")
		assert.Error(t, err)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("rotates the refresh token", func(t *testing.T) {
		service, user, _ := newTestFixture(t)

		login, err := service.Login(user.Email, "correct-password")
		require.NoError(t, err)

		refreshed, err := service.RefreshToken(login.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

		// Old token is burned after rotation
		_, err = service.RefreshToken(login.RefreshToken)
		assert.Error(t, err)
	})

	t.Run("rejects unknown token", func(t *testing.T) {
		service, _, _ := newTestFixture(t)

		_, err := service.RefreshToken("no-such-token")
		assert.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		service, user, _ := newTestFixture(t)

		login, err := service.Login(user.Email, "correct-password")
		require.NoError(t, err)

		service.tokenMutex.Lock()
		service.refreshTokens[login.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)
		service.tokenMutex.Unlock()

		_, err = service.RefreshToken(login.RefreshToken)
		assert.Error(t, err)
	})
}

func TestLogout(t *testing.T) {
	service, user, _ := newTestFixture(t)

	login, err := service.Login(user.Email, "correct-password")
	require.NoError(t, err)

	require.NoError(t, service.Logout(login.RefreshToken))

	_, err = service.RefreshToken(login.RefreshToken)
	assert.Error(t, err)
}

func TestRequireAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	service, user, tenantID := newTestFixture(t)
	resolver := service.resolver
	middleware := NewAuthMiddleware(service, resolver)

	router := gin.New()
	router.GET("/protected", middleware.RequireAuth(), func(c *gin.Context) {
		tc, ok := GetTenantContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"tenant_id": tc.TenantID.String()})
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token resolves tenant context", func(t *testing.T) {
		token, err := service.GenerateJWT(user.ID, user.Email)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tenantID.String(), body["tenant_id"])
	})
}

func TestRequireRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	middleware := NewAuthMiddleware(nil, nil)

	// routerFor injects a resolved context for the given role, the way
	// RequireAuth would, then applies the role gate.
	routerFor := func(role tenancy.Role) *gin.Engine {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("tenant_context", &tenancy.Context{
				UserID:         uuid.New(),
				TenantID:       uuid.New(),
				HierarchyLevel: tenancy.LevelCrou,
				Role:           role,
			})
		})
		router.POST("/users", middleware.RequireRole(tenancy.RoleSuperAdmin, tenancy.RoleAdmin), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		return router
	}

	cases := []struct {
		role tenancy.Role
		want int
	}{
		{tenancy.RoleSuperAdmin, http.StatusOK},
		{tenancy.RoleAdmin, http.StatusOK},
		{tenancy.RoleManager, http.StatusForbidden},
		{tenancy.RoleAgent, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/users", nil)
			routerFor(tc.role).ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}

	t.Run("missing context is unauthorized", func(t *testing.T) {
		router := gin.New()
		router.POST("/users", middleware.RequireRole(tenancy.RoleAdmin), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
