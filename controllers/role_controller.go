package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-billing/services"
)

type rolePermissionsPayload struct {
	Permissions []string `json:"permissions"`
}

type RoleController struct {
	Roles *services.RoleService
}

func NewRoleController(roles *services.RoleService) *RoleController {
	return &RoleController{Roles: roles}
}

func (rc *RoleController) List(c *gin.Context) {
	roles, err := rc.Roles.List(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// PUT /api/roles/:id/permissions, where :id is a role id or name.
func (rc *RoleController) UpdatePermissions(c *gin.Context) {
	var payload rolePermissionsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badPayload(c, err)
		return
	}
	if err := rc.Roles.UpdatePermissions(c.Request.Context(), identity(c), c.Param("id"), payload.Permissions); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Permissions updated"})
}
