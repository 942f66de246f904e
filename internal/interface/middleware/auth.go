package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/policy"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
	"github.com/oksasatya/shamba-farm/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	ctxPrincipalKey = "principal"
	ctxClaimsKey    = "claims"
)

// tokenFromRequest reads "Authorization: Bearer <t>", "Authorization: Token <t>"
// or the access_token cookie, in that order.
func tokenFromRequest(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && (strings.EqualFold(scheme, "Bearer") || strings.EqualFold(scheme, "Token")) {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
		return token
	}
	return ""
}

// Auth accepts a request only when its token verifies and the session it
// names is still the user's live session. The session's role is authoritative.
func Auth(sessions repository.SessionRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "authentication credentials were not provided", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}

		sess, err := sessions.Get(c.Request.Context(), claims.UserID)
		if errors.Is(err, apperr.ErrNotFound) {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			return
		}
		if err != nil {
			response.FromError(c, err)
			return
		}
		if sess.SessionID != claims.SessionID || !sess.Role.Valid() {
			response.Error[any](c, http.StatusUnauthorized, "session expired", nil)
			return
		}

		setPrincipal(c, policy.Principal{UserID: claims.UserID, Username: sess.Username, Role: sess.Role}, claims)
		c.Next()
	}
}

func setPrincipal(c *gin.Context, p policy.Principal, claims *helpers.Claims) {
	c.Set(ctxPrincipalKey, p)
	c.Set(ctxClaimsKey, claims)
	c.Set(CtxUserIDKey, p.UserID)
}

// PrincipalFrom returns the caller set by Auth or SignedToken; anonymous otherwise.
func PrincipalFrom(c *gin.Context) policy.Principal {
	if v, ok := c.Get(ctxPrincipalKey); ok {
		if p, ok := v.(policy.Principal); ok {
			return p
		}
	}
	return policy.Principal{}
}

func ClaimsFrom(c *gin.Context) *helpers.Claims {
	if v, ok := c.Get(ctxClaimsKey); ok {
		if claims, ok := v.(*helpers.Claims); ok {
			return claims
		}
	}
	return nil
}

// RequireRole rejects callers holding none of roles with 403. It must run after Auth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := policy.RequireRole(PrincipalFrom(c), roles...); err != nil {
			response.FromError(c, err)
			return
		}
		c.Next()
	}
}
