package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zamflow/internal/sales"
)

// salesHandler holds the sales service and implements HTTP handlers for sales operations.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

func newSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// handleCreate handles the POST /api/sales endpoint.
func (h *salesHandler) handleCreate(ctx *gin.Context) {
	var req sales.NewSale
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	seller := profileFrom(ctx)
	sale, err := h.salesService.CreateSale(ctx.Request.Context(), seller, req)
	if err != nil {
		h.logger.Info("sale rejected",
			zap.String("product_id", req.ProductID),
			zap.String("salesperson_id", seller.ID),
			zap.Error(err),
		)
		abortError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, sale)
}

func filterFromQuery(ctx *gin.Context) sales.Filter {
	return sales.Filter{
		Term:        ctx.Query("q"),
		Range:       sales.Range(ctx.Query("range")),
		Salesperson: ctx.Query("salesperson"),
	}
}

// handleSearch handles GET /api/sales?q=&range=&salesperson=.
func (h *salesHandler) handleSearch(ctx *gin.Context) {
	results, metadata, err := h.salesService.Search(ctx.Request.Context(), profileFrom(ctx), filterFromQuery(ctx))
	if err != nil {
		abortError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"results": results, "metadata": metadata})
}

// handleExport streams the filtered history as a CSV attachment.
func (h *salesHandler) handleExport(ctx *gin.Context) {
	results, _, err := h.salesService.Search(ctx.Request.Context(), profileFrom(ctx), filterFromQuery(ctx))
	if err != nil {
		abortError(ctx, h.logger, err)
		return
	}

	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition", `attachment; filename="`+sales.ExportFilename(time.Now())+`"`)
	ctx.Status(http.StatusOK)
	if err := sales.ExportCSV(ctx.Writer, results); err != nil {
		h.logger.Error("failed to write sales export", zap.Error(err))
	}
}
