package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zamflow/internal/access"
	"zamflow/internal/analytics"
	"zamflow/internal/auth"
	"zamflow/internal/events"
	"zamflow/internal/identity"
	"zamflow/internal/products"
	"zamflow/internal/sales"
	"zamflow/internal/users"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Users     *users.Service
	Products  *products.Service
	Sales     *sales.Service
	Analytics *analytics.Service
	Identity  identity.Provider
	Tokens    *auth.Tokens
	Events    events.Broker
	Logger    *zap.Logger
}

// InitRoutes registers every endpoint on the given Gin engine. Routes under
// /api require a bearer token except signup and login.
func InitRoutes(e *gin.Engine, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	gate := newGatekeeper(d.Tokens, d.Users, logger)
	authH := newAuthHandler(d.Identity, d.Users, d.Tokens, logger)
	salesH := newSalesHandler(d.Sales, logger)
	productsH := newProductsHandler(d.Products, logger)
	analyticsH := newAnalyticsHandler(d.Analytics, logger)
	adminH := newAdminHandler(d.Users, logger)
	eventsH := newEventsHandler(d.Events, logger)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	g := e.Group("/api")
	g.POST("/auth/signup", authH.handleSignup)
	g.POST("/auth/login", authH.handleLogin)

	authed := g.Group("", gate.authenticate)
	authed.GET("/me", authH.handleMe)

	active := authed.Group("", gate.require(access.AnyActive))
	active.GET("/navigation", authH.handleNavigation)
	active.GET("/dashboard", analyticsH.handleDashboard)
	active.GET("/sales", salesH.handleSearch)
	active.POST("/sales", salesH.handleCreate)
	active.GET("/sales/export", salesH.handleExport)
	active.GET("/products", productsH.handleList)
	active.GET("/events", eventsH.handleStream)

	managers := authed.Group("", gate.require(access.ManagersAndUp))
	managers.POST("/products", productsH.handleCreate)
	managers.PUT("/products/:id", productsH.handleUpdate)
	managers.DELETE("/products/:id", productsH.handleDelete)
	managers.PATCH("/products/:id/stock", productsH.handleSetStock)
	managers.GET("/analytics", analyticsH.handleReport)

	admin := authed.Group("/admin", gate.require(access.AdminOnly))
	admin.GET("/users", adminH.handleList)
	admin.GET("/users/pending", adminH.handlePending)
	admin.POST("/users/:id/:action", adminH.handleAction)
}
