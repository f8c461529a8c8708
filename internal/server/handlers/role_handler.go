package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agritrace/agritrace/internal/repository/mongodb"
	"github.com/agritrace/agritrace/internal/service/roles"
)

// RoleHandler serves the user-to-role persistence endpoints.
type RoleHandler struct {
	svc    *roles.Service
	logger *zap.Logger
}

// NewRoleHandler constructs the HTTP handler adapter.
func NewRoleHandler(svc *roles.Service, logger *zap.Logger) *RoleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleHandler{svc: svc, logger: logger}
}

type saveRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// SaveRole upserts a user's role. A repeated save overwrites the previous
// role.
func (h *RoleHandler) SaveRole(c *gin.Context) {
	var req saveRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role and userId required"})
		return
	}

	role, err := h.svc.SaveRole(c.Request.Context(), req.UserID, req.Role)
	if errors.Is(err, roles.ErrInvalidRole) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}
	if err != nil {
		h.logger.Error("failed saving role", zap.String("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "role": role})
}

// GetRole returns the role saved for a user id.
func (h *RoleHandler) GetRole(c *gin.Context) {
	userID := c.Param("userId")

	role, err := h.svc.GetRole(c.Request.Context(), userID)
	if errors.Is(err, mongodb.ErrRoleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed fetching role", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": role})
}
