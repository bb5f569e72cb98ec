package api

import (
	"net/http"

	reqdto "gamezone-booking/internal/handler/dto/request"
	resdto "gamezone-booking/internal/handler/dto/response"
	"gamezone-booking/internal/handler/httperr"
	"gamezone-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type WaitlistHandler struct {
	waitlistCommands commands.WaitlistCommands
}

func NewWaitlistHandler(waitlistCommands commands.WaitlistCommands) *WaitlistHandler {
	return &WaitlistHandler{waitlistCommands: waitlistCommands}
}

// @Summary Leave the queue
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Queue entry ID"
// @Success 200 {object} resdto.QueueStatusResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /waitlist/{id}/cancel [post]
func (h *WaitlistHandler) Cancel(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "queue entry")
	if !ok {
		return
	}

	view, err := h.waitlistCommands.CancelEntry(c.Request.Context(), id, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQueueStatusView(view))
}

// @Summary Queue a walk-in customer
// @Description Counter staff queue a customer who has already paid
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.EnqueueWalkInRequest true "Walk-in"
// @Success 201 {object} resdto.QueueStatusResponse
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /admin/waitlist [post]
func (h *WaitlistHandler) Enqueue(c *gin.Context) {
	var req reqdto.EnqueueWalkInRequest
	if !bindJSON(c, &req) {
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	view, err := h.waitlistCommands.Enqueue(c.Request.Context(), cmd)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromQueueStatusView(view))
}

// @Summary Promote queue
// @Description Seat waiting customers on any free stations of the type
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Station type ID"
// @Success 200 {object} resdto.PromotionResponse
// @Failure 409 {object} httperr.Response
// @Router /admin/station-types/{id}/promote [post]
func (h *WaitlistHandler) Promote(c *gin.Context) {
	id, ok := pathID(c, "station type")
	if !ok {
		return
	}

	result, err := h.waitlistCommands.Promote(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPromotionResult(result))
}
