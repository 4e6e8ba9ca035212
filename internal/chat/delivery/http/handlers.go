package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/middleware"
	"relationship-mediator/pkg/response"
)

// ProcessMessage godoc
// @Summary     Process a chat message
// @Description Routes one inbound message through intent detection and handler dispatch, returning the reply.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       X-User-ID   header string     true  "Authenticated user id"
// @Param       X-User-Name header string     false "Authenticated user display name"
// @Param       body        body   messageReq true  "Inbound message"
// @Success     200 {object} messageResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     429 {object} response.Resp "Too Many Requests"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/chat/message [POST]
func (h *handler) ProcessMessage(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processMessageReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	sc := middleware.ScopeFromContext(c)

	output, err := h.uc.ProcessMessage(ctx, sc, req.toInput())
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) || errors.Is(err, chat.ErrMissingUser) {
			response.Error(c, err, nil)
			return
		}
		h.l.Errorf(ctx, "uc.ProcessMessage: %v", err)
		response.InternalError(c, err)
		return
	}

	response.OK(c, h.newMessageResp(output))
}
