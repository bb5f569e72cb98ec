package api

import (
	"context"
	"net/http"

	"gamezone-booking/internal/domain/user"
	reqdto "gamezone-booking/internal/handler/dto/request"
	resdto "gamezone-booking/internal/handler/dto/response"
	"gamezone-booking/internal/handler/httperr"
	"gamezone-booking/internal/usecase/commands"
	"gamezone-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	sessionCommands commands.SessionCommands
	bookingQueries  queries.BookingQueries
}

func NewSessionHandler(sessionCommands commands.SessionCommands, bookingQueries queries.BookingQueries) *SessionHandler {
	return &SessionHandler{
		sessionCommands: sessionCommands,
		bookingQueries:  bookingQueries,
	}
}

type sessionAction func(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.SessionView, error)

// runAction covers the transitions that take nothing but the session id.
func (h *SessionHandler) runAction(c *gin.Context, action sessionAction) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "session")
	if !ok {
		return
	}

	view, err := action(c.Request.Context(), id, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSessionView(view))
}

// @Summary Get session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} httperr.Response
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	h.runAction(c, h.bookingQueries.GetSession)
}

// @Summary Start scheduled session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 409 {object} httperr.Response
// @Router /sessions/{id}/start [post]
func (h *SessionHandler) Start(c *gin.Context) {
	h.runAction(c, h.sessionCommands.StartSession)
}

// @Summary Pause session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body reqdto.PauseSessionRequest false "Pause reason"
// @Success 200 {object} resdto.SessionResponse
// @Failure 409 {object} httperr.Response
// @Router /sessions/{id}/pause [post]
func (h *SessionHandler) Pause(c *gin.Context) {
	var req reqdto.PauseSessionRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	h.runAction(c, func(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.SessionView, error) {
		return h.sessionCommands.PauseSession(ctx, id, req.Reason, actor)
	})
}

// @Summary Resume session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 409 {object} httperr.Response
// @Router /sessions/{id}/resume [post]
func (h *SessionHandler) Resume(c *gin.Context) {
	h.runAction(c, h.sessionCommands.ResumeSession)
}

// @Summary Extend session
// @Description Adds minutes to a running session; the extension is billed separately
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body reqdto.ExtendSessionRequest true "Extension"
// @Success 200 {object} resdto.ExtendSessionResponse
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /sessions/{id}/extend [post]
func (h *SessionHandler) Extend(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "session")
	if !ok {
		return
	}
	var req reqdto.ExtendSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.sessionCommands.ExtendSession(c.Request.Context(), id, req.AdditionalMinutes, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.ExtendSessionResponse{
		Session: resdto.FromSessionView(result.Session),
		Charge:  result.Charge,
	})
}

// @Summary End session
// @Description Settles the final amount and hands the station to the queue
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 409 {object} httperr.Response
// @Router /sessions/{id}/end [post]
func (h *SessionHandler) End(c *gin.Context) {
	h.runAction(c, h.sessionCommands.EndSession)
}

// @Summary Cancel session
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 409 {object} httperr.Response
// @Router /admin/sessions/{id}/cancel [post]
func (h *SessionHandler) Cancel(c *gin.Context) {
	h.runAction(c, h.sessionCommands.CancelSession)
}

// @Summary Select challenge winner
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body reqdto.SelectWinnerRequest true "Winner"
// @Success 200 {object} resdto.SessionResponse
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /admin/sessions/{id}/winner [post]
func (h *SessionHandler) Winner(c *gin.Context) {
	var req reqdto.SelectWinnerRequest
	if !bindJSON(c, &req) {
		return
	}
	h.runAction(c, func(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.SessionView, error) {
		return h.sessionCommands.SelectWinner(ctx, id, req.WinnerID, actor)
	})
}
