package admin

import (
	"github.com/ambava-store/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AdminListRoles 列出授权角色
func (h *Handler) AdminListRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"roles": roles})
}
