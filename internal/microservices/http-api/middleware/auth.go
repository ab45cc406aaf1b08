package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"bookrental/internal/apperror"
	"bookrental/internal/microservices/http-api/service"
)

const (
	// SessionCookie holds the session token set at login.
	SessionCookie = "session"

	principalKey = "principal"
)

// TokenValidator is the part of service.AuthService the session middleware needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*service.Principal, error)
}

// SessionToken extracts the token from the session cookie or, failing
// that, an "Authorization: Bearer" header.
func SessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// Session attaches the principal of a valid session token to the context.
// Requests without one pass through anonymously.
func Session(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		principal, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if apperror.KindOf(err) != apperror.KindUnauthenticated {
				AbortWithError(c, err)
				return
			}
			c.Next()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the principal set by Session, if any.
func PrincipalFrom(c *gin.Context) (*service.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*service.Principal)
	return p, ok && p != nil
}

// RequireSession rejects anonymous requests with 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := PrincipalFrom(c); !ok {
			AbortWithError(c, service.ErrUnauthenticated)
			return
		}
		c.Next()
	}
}

// NonAdmin keeps administrators off the borrower routes.
func NonAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			AbortWithError(c, service.ErrUnauthenticated)
			return
		}
		if p.IsAdmin {
			AbortWithError(c, service.ErrAdminCannotBorrow)
			return
		}
		c.Next()
	}
}

// RequireAdmin asks the gate, which re-reads the admin flag from storage.
func RequireAdmin(gate service.AdminGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		if err := gate.RequireAdmin(c.Request.Context(), p); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// AbortWithError writes the {"kind", "error"} body for err and stops the
// chain. Errors that are not *apperror.Error become a bare 500.
func AbortWithError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		appErr = apperror.Internal("internal server error")
	}
	c.AbortWithStatusJSON(appErr.Kind.HTTPStatus(), appErr)
}
