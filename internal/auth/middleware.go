package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	service  *AuthService
	resolver *tenancy.Resolver
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(service *AuthService, resolver *tenancy.Resolver) *AuthMiddleware {
	return &AuthMiddleware{service: service, resolver: resolver}
}

// RequireAuth validates the JWT and resolves the tenant context for the
// request. The context is rebuilt from the directory on every request, so a
// token issued before a tenant change or deactivation stops working at once.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// Extract token from Bearer header
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.service.ValidateJWT(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "details": err.Error()})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token subject"})
			c.Abort()
			return
		}

		tc, err := m.resolver.Resolve(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Tenant context could not be resolved", "details": err.Error()})
			c.Abort()
			return
		}

		// Set user context
		c.Set("user_id", tc.UserID.String())
		c.Set("tenant_id", tc.TenantID.String())
		c.Set("tenant_context", tc)
		c.Set("auth_claims", claims)

		c.Next()
	}
}

// RequireRole restricts a route to the given roles. RequireAuth must run first.
func (m *AuthMiddleware) RequireRole(allowedRoles ...tenancy.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := GetTenantContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		allowed := false
		for _, role := range allowedRoles {
			if tc.Role == role {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not allowed for this resource"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireLevel restricts a route to tenants at or above the given level
func (m *AuthMiddleware) RequireLevel(level tenancy.HierarchyLevel) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := GetTenantContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		if tc.HierarchyLevel.Rank() > level.Rank() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Hierarchy level not allowed for this resource"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetTenantContext is a helper function to extract the tenant context
func GetTenantContext(c *gin.Context) (*tenancy.Context, bool) {
	value, exists := c.Get("tenant_context")
	if !exists {
		return nil, false
	}

	tc, ok := value.(*tenancy.Context)
	return tc, ok
}

// GetUserID is a helper function to extract user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	tc, ok := GetTenantContext(c)
	if !ok {
		return uuid.Nil, false
	}
	return tc.UserID, true
}

// GetAuthClaims is a helper function to extract full auth claims from context
func GetAuthClaims(c *gin.Context) (*AuthClaims, bool) {
	claims, exists := c.Get("auth_claims")
	if !exists {
		return nil, false
	}

	authClaims, ok := claims.(*AuthClaims)
	return authClaims, ok
}
