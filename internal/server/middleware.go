package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/brewhaus/internal/auth/token"
	"github.com/smallbiznis/brewhaus/internal/observability/obscontext"
	profiledomain "github.com/smallbiznis/brewhaus/internal/profile/domain"
)

const (
	contextUserIDKey = "user_id"
	contextRoleKey   = "user_role"
)

func bearerToken(c *gin.Context) string {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := token.Parse(s.cfg.AuthJWTSecret, raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		s.setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth resolves the identity when a bearer token is present but
// lets anonymous requests through.
func (s *Server) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if claims, err := token.Parse(s.cfg.AuthJWTSecret, raw); err == nil {
				s.setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

func (s *Server) RequireRole(roles ...profiledomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := profiledomain.Role(c.GetString(contextRoleKey))
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

// FeedbackRateLimit throttles public feedback submissions per client IP.
func (s *Server) FeedbackRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.feedbackLimiter.Enabled() {
			c.Next()
			return
		}

		allowed, err := s.feedbackLimiter.AllowClient(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Limiter outage must not take feedback down with it.
			c.Next()
			return
		}
		if !allowed {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

func (s *Server) setIdentity(c *gin.Context, claims *token.Claims) {
	c.Set(contextUserIDKey, claims.UserID)
	c.Set(contextRoleKey, claims.Role)

	ctx := obscontext.WithActorID(c.Request.Context(), claims.UserID)
	c.Request = c.Request.WithContext(ctx)
}

// currentUserID returns the authenticated user's ID, or nil for anonymous
// requests.
func currentUserID(c *gin.Context) *int64 {
	raw := strings.TrimSpace(c.GetString(contextUserIDKey))
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
