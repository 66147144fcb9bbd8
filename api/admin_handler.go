package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zamflow/internal/users"
)

// adminHandler implements the user management endpoints of the admin panel.
type adminHandler struct {
	users  *users.Service
	logger *zap.Logger
}

func newAdminHandler(usersService *users.Service, logger *zap.Logger) *adminHandler {
	return &adminHandler{users: usersService, logger: logger}
}

func (h *adminHandler) handleList(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		abortError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": list})
}

func (h *adminHandler) handlePending(c *gin.Context) {
	list, err := h.users.ListPending(c.Request.Context())
	if err != nil {
		abortError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": list})
}

// handleAction handles POST /api/admin/users/:id/:action. approve and
// changeRole read {"role": "..."} from the body.
func (h *adminHandler) handleAction(c *gin.Context) {
	var req struct {
		Role users.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id := c.Param("id")
	action := users.Action(c.Param("action"))
	updated, err := h.users.Apply(c.Request.Context(), id, action, req.Role)
	if err != nil {
		abortError(c, h.logger, err)
		return
	}

	h.logger.Info("admin action applied",
		zap.String("admin_id", profileFrom(c).ID),
		zap.String("user_id", id),
		zap.String("action", string(action)),
	)
	c.JSON(http.StatusOK, updated)
}
