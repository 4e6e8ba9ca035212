package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"relationship-mediator/internal/model"
	"relationship-mediator/pkg/response"
)

// Identity headers set by the authenticating gateway in front of this service.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
)

const scopeKey = "scope"

var errUnauthenticated = errors.New("missing user identity")

// Auth extracts the caller's identity from the gateway headers and stores it
// as a model.Scope on the request context. Requests without a user id are
// rejected.
func (m Middleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		if userID == "" {
			m.l.Warnf(c.Request.Context(), "middleware: request to %s without %s header", c.Request.URL.Path, HeaderUserID)
			response.Unauthorized(c, errUnauthenticated)
			c.Abort()
			return
		}

		c.Set(scopeKey, model.Scope{
			UserID:      userID,
			DisplayName: c.GetHeader(HeaderUserName),
		})
		c.Next()
	}
}

// ScopeFromContext returns the scope stored by Auth. The zero scope means the
// route was not behind Auth.
func ScopeFromContext(c *gin.Context) model.Scope {
	v, ok := c.Get(scopeKey)
	if !ok {
		return model.Scope{}
	}
	sc, ok := v.(model.Scope)
	if !ok {
		return model.Scope{}
	}
	return sc
}
