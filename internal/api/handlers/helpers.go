package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roufai-ne/crou-management-system-sub007/internal/auth"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// tenantContext pulls the resolved tenant context out of the request. The
// auth middleware guarantees it on every /api/v1 route; a miss means the
// route was wired without RequireAuth.
func tenantContext(c *gin.Context) (*tenancy.Context, bool) {
	tc, ok := auth.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	return tc, ok
}

// pagination reads page/page_size query parameters with defaults
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}

// extendedScope reads the all=true flag that asks for the cross-tenant view.
// The scope layer ignores it for anyone below the ministry.
func extendedScope(c *gin.Context) bool {
	return c.DefaultQuery("all", "false") == "true"
}
