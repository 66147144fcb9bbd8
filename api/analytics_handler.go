package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zamflow/internal/analytics"
)

type analyticsHandler struct {
	service *analytics.Service
	logger  *zap.Logger
}

func newAnalyticsHandler(service *analytics.Service, logger *zap.Logger) *analyticsHandler {
	return &analyticsHandler{service: service, logger: logger}
}

func (h *analyticsHandler) handleDashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		abortError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// handleReport handles GET /api/analytics?range=7|30|90|all.
func (h *analyticsHandler) handleReport(c *gin.Context) {
	r, err := analytics.ParseRange(c.Query("range"))
	if err != nil {
		abortError(c, h.logger, err)
		return
	}
	rep, err := h.service.Report(c.Request.Context(), r)
	if err != nil {
		abortError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
