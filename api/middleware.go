package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zamflow/internal/access"
	"zamflow/internal/auth"
	"zamflow/internal/users"
)

const profileKey = "profile"

// gatekeeper resolves the bearer token and the caller's profile.
type gatekeeper struct {
	tokens *auth.Tokens
	users  *users.Service
	logger *zap.Logger
}

func newGatekeeper(tokens *auth.Tokens, usersService *users.Service, logger *zap.Logger) *gatekeeper {
	return &gatekeeper{tokens: tokens, users: usersService, logger: logger}
}

// authenticate rejects requests without a valid token. The profile is read
// on every request so approval and role changes apply immediately; a
// missing profile is stored as nil.
func (g *gatekeeper) authenticate(c *gin.Context) {
	p, err := g.tokens.ParseBearer(c.GetHeader("Authorization"))
	if err != nil {
		deny(c, access.DenyUnauthenticated)
		return
	}
	c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))

	profile, err := g.users.Get(c.Request.Context(), p.UID)
	switch {
	case err == nil:
		c.Set(profileKey, profile)
	case errors.Is(err, users.ErrNotFound):
		c.Set(profileKey, (*users.User)(nil))
	default:
		g.logger.Error("failed to load profile", zap.String("user_id", p.UID), zap.Error(err))
		abortError(c, g.logger, err)
		return
	}
	c.Next()
}

// require enforces rule on the profile loaded by authenticate.
func (g *gatekeeper) require(rule access.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, authenticated := auth.FromContext(c.Request.Context())
		if d := access.Authorize(authenticated, profileFrom(c), rule); d != access.Allow {
			g.logger.Debug("request denied",
				zap.String("path", c.FullPath()),
				zap.String("reason", d.Message()),
			)
			deny(c, d)
			return
		}
		c.Next()
	}
}

func deny(c *gin.Context, d access.Decision) {
	body := gin.H{"error": d.Message()}
	if r := d.Redirect(); r != "" {
		body["redirect"] = r
	}
	c.AbortWithStatusJSON(d.Status(), body)
}

func profileFrom(c *gin.Context) *users.User {
	v, ok := c.Get(profileKey)
	if !ok {
		return nil
	}
	u, _ := v.(*users.User)
	return u
}
