package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zamflow/internal/access"
	"zamflow/internal/auth"
	"zamflow/internal/identity"
	"zamflow/internal/users"
)

// authHandler implements signup, login and the profile endpoints.
type authHandler struct {
	identity identity.Provider
	users    *users.Service
	tokens   *auth.Tokens
	logger   *zap.Logger
}

func newAuthHandler(provider identity.Provider, usersService *users.Service, tokens *auth.Tokens, logger *zap.Logger) *authHandler {
	return &authHandler{identity: provider, users: usersService, tokens: tokens, logger: logger}
}

type sessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *users.User `json:"user"`
}

// handleSignup handles POST /api/auth/signup. The new account starts as a
// pending salesperson.
func (h *authHandler) handleSignup(c *gin.Context) {
	var form identity.SignupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.logger.Warn("failed to bind signup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	if err := form.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	id, err := h.identity.SignUp(ctx, form.Email, form.Password)
	if err != nil {
		if !errors.Is(err, identity.ErrEmailInUse) {
			h.logger.Error("signup failed", zap.String("email", form.Email), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}
		abortError(c, h.logger, err)
		return
	}

	profile, err := h.users.Register(ctx, id.UID, id.Email)
	if err != nil {
		h.logger.Error("failed to create profile for new identity",
			zap.String("uid", id.UID), zap.String("email", id.Email), zap.Error(err))
		h.discardIdentity(ctx, id)
		abortError(c, h.logger, err)
		return
	}
	h.respondSession(c, http.StatusCreated, id, profile)
}

// handleLogin handles POST /api/auth/login.
func (h *authHandler) handleLogin(c *gin.Context) {
	var form identity.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.logger.Warn("failed to bind login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	if err := form.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	id, err := h.identity.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		abortError(c, h.logger, err)
		return
	}

	// An identity without a profile may still log in; the gate reports it.
	profile, err := h.users.Get(ctx, id.UID)
	if err != nil && !errors.Is(err, users.ErrNotFound) {
		abortError(c, h.logger, err)
		return
	}
	h.respondSession(c, http.StatusOK, id, profile)
}

// discardIdentity removes an identity left without a profile so the email
// can sign up again. Providers that cannot delete keep the orphan.
func (h *authHandler) discardIdentity(ctx context.Context, id *identity.Identity) {
	d, ok := h.identity.(identity.Deleter)
	if !ok {
		h.logger.Error("orphaned identity left without profile", zap.String("uid", id.UID), zap.String("email", id.Email))
		return
	}
	if err := d.Delete(ctx, id.Email); err != nil {
		h.logger.Error("failed to remove orphaned identity", zap.String("uid", id.UID), zap.Error(err))
	}
}

func (h *authHandler) respondSession(c *gin.Context, status int, id *identity.Identity, profile *users.User) {
	token, exp, err := h.tokens.Issue(id.UID, id.Email)
	if err != nil {
		h.logger.Error("failed to issue token", zap.String("uid", id.UID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, sessionResponse{Token: token, ExpiresAt: exp, User: profile})
}

// handleMe returns the caller's profile whatever its status, so a pending
// account can show its waiting page.
func (h *authHandler) handleMe(c *gin.Context) {
	profile := profileFrom(c)
	if profile == nil {
		deny(c, access.DenyNoProfile)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *authHandler) handleNavigation(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": access.Navigation(profileFrom(c).Role)})
}
