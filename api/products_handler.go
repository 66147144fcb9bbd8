package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zamflow/internal/products"
)

type productsHandler struct {
	service *products.Service
	logger  *zap.Logger
}

func newProductsHandler(service *products.Service, logger *zap.Logger) *productsHandler {
	return &productsHandler{service: service, logger: logger}
}

// productView adds the stock badge shown next to each product.
type productView struct {
	*products.Product
	StockStatus products.StockStatus `json:"stock_status"`
}

func viewOf(p *products.Product) productView {
	return productView{Product: p, StockStatus: products.StatusFor(p.Stock)}
}

func (h *productsHandler) handleList(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		abortError(c, h.logger, err)
		return
	}
	out := make([]productView, 0, len(list))
	for _, p := range list {
		out = append(out, viewOf(p))
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}

func (h *productsHandler) handleCreate(c *gin.Context) {
	var in products.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("failed to bind product request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	p, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		abortError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, viewOf(p))
}

func (h *productsHandler) handleUpdate(c *gin.Context) {
	var in products.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("failed to bind product request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	p, err := h.service.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		abortError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(p))
}

func (h *productsHandler) handleDelete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleSetStock handles PATCH /api/products/:id/stock with {"stock": n}.
func (h *productsHandler) handleSetStock(c *gin.Context) {
	var req struct {
		Stock *int `json:"stock" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p, err := h.service.SetStock(c.Request.Context(), c.Param("id"), *req.Stock)
	if err != nil {
		abortError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(p))
}
