package http

import (
	"github.com/gin-gonic/gin"

	"relationship-mediator/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
// Every route requires the authenticated caller identity and is rate limited
// per user.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	rg.POST("/message", mw.Auth(), mw.RateLimit(), h.ProcessMessage)
}
