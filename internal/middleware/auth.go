package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"supplytrace/internal/auth"
	"supplytrace/pkg/response"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"

	accessTokenCookie = "access_token"
)

// TokenValidator resolves a raw access token to its claims.
type TokenValidator interface {
	ValidateAccessToken(token string) (auth.Claims, error)
}

// CookieOptions controls how the access token cookie is written.
type CookieOptions struct {
	// Secure switches to SameSite=None plus the Secure flag for cross-origin deployments.
	Secure bool
	MaxAge time.Duration
}

// SetTokenCookie sets access_token as an HttpOnly cookie
func SetTokenCookie(c *gin.Context, accessToken string, opts CookieOptions) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	if opts.Secure {
		sameSite = http.SameSiteNoneMode
	}

	c.SetSameSite(sameSite)
	c.SetCookie(accessTokenCookie, accessToken, int(opts.MaxAge.Seconds()), "/", "", opts.Secure, true)
}

// ClearTokenCookie removes the access_token cookie
func ClearTokenCookie(c *gin.Context, opts CookieOptions) {
	sameSite := http.SameSiteLaxMode
	if opts.Secure {
		sameSite = http.SameSiteNoneMode
	}

	c.SetSameSite(sameSite)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", opts.Secure, true)
}

// Authenticate validates the access token and stores the caller identity and
// role in the gin context.
func Authenticate(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try cookie first, fallback to Authorization header
		tokenString, cookieErr := c.Cookie(accessTokenCookie)
		if cookieErr != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorWithCode(http.StatusUnauthorized, "UNAUTHORIZED", "Authorization is missing", nil))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorWithCode(http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format. Expected 'Bearer <token>'", nil))
				return
			}
			tokenString = parts[1]
		}

		claims, err := tokens.ValidateAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorWithCode(http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", nil))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	}
}

// RequirePermission checks that the authenticated caller's role grants every
// required permission. It must run after Authenticate.
func RequirePermission(requiredPerms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorWithCode(http.StatusUnauthorized, "UNAUTHORIZED", "Authorization is missing", nil))
			return
		}

		for _, required := range requiredPerms {
			if !auth.HasPermission(role, required) {
				c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorWithCode(http.StatusForbidden, "FORBIDDEN", "Access denied: missing permission '"+required+"'", nil))
				return
			}
		}

		c.Next()
	}
}

// CallerIdentity returns the identity stored by Authenticate.
func CallerIdentity(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// CallerRole returns the role stored by Authenticate.
func CallerRole(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}
