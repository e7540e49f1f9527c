package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roufai-ne/crou-management-system-sub007/internal/auth"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// MeHandler exposes the caller's own resolved identity and capabilities
type MeHandler struct{}

// NewMeHandler creates a new me handler
func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

// MeResponse represents the caller's resolved identity
type MeResponse struct {
	UserID         uuid.UUID  `json:"user_id"`
	Email          string     `json:"email"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	HierarchyLevel string     `json:"hierarchy_level"`
	Role           string     `json:"role"`
	MinistryID     *uuid.UUID `json:"ministry_id,omitempty"`
	RegionID       *uuid.UUID `json:"region_id,omitempty"`
	CrouID         *uuid.UUID `json:"crou_id,omitempty"`
}

// PermissionsResponse mirrors the server-side capability checks so the front
// end can hide what the API would reject anyway.
type PermissionsResponse struct {
	HierarchyLevel    string          `json:"hierarchy_level"`
	Role              string          `json:"role"`
	AccessibleLevels  []string        `json:"accessible_levels"`
	ExtendedAccess    bool            `json:"extended_access"`
	CanManageChildren bool            `json:"can_manage_children"`
	LevelAccess       map[string]bool `json:"level_access"`
}

// Me handles GET /api/v1/me
// @Summary Get the caller's identity
// @Description Get the caller's resolved tenant context
// @Tags me
// @Accept json
// @Produce json
// @Success 200 {object} MeResponse "Successfully retrieved identity"
// @Failure 401 {object} map[string]interface{} "Authentication required"
// @Security BearerAuth
// @Router /me [get]
func (h *MeHandler) Me(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	resp := MeResponse{
		UserID:         tc.UserID,
		TenantID:       tc.TenantID,
		HierarchyLevel: string(tc.HierarchyLevel),
		Role:           string(tc.Role),
		MinistryID:     tc.MinistryID,
		RegionID:       tc.RegionID,
		CrouID:         tc.CrouID,
	}
	if claims, ok := auth.GetAuthClaims(c); ok {
		resp.Email = claims.Email
	}

	c.JSON(http.StatusOK, resp)
}

// Permissions handles GET /api/v1/me/permissions
// @Summary Get the caller's capabilities
// @Description Get the capability flags derived from the caller's hierarchy level and role
// @Tags me
// @Accept json
// @Produce json
// @Success 200 {object} PermissionsResponse "Successfully retrieved capabilities"
// @Failure 401 {object} map[string]interface{} "Authentication required"
// @Security BearerAuth
// @Router /me/permissions [get]
func (h *MeHandler) Permissions(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	levels := []tenancy.HierarchyLevel{tenancy.LevelMinistry, tenancy.LevelRegion, tenancy.LevelCrou}
	levelAccess := make(map[string]bool, len(levels))
	var accessible []string
	for _, level := range levels {
		allowed := tenancy.CanAccessLevel(tc.HierarchyLevel, level)
		levelAccess[string(level)] = allowed
		if allowed {
			accessible = append(accessible, string(level))
		}
	}

	c.JSON(http.StatusOK, PermissionsResponse{
		HierarchyLevel:    string(tc.HierarchyLevel),
		Role:              string(tc.Role),
		AccessibleLevels:  accessible,
		ExtendedAccess:    tc.HierarchyLevel == tenancy.LevelMinistry,
		CanManageChildren: tc.HierarchyLevel != tenancy.LevelCrou || tc.Role == tenancy.RoleSuperAdmin,
		LevelAccess:       levelAccess,
	})
}
