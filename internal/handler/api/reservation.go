package api

import (
	"net/http"

	reqdto "gamezone-booking/internal/handler/dto/request"
	resdto "gamezone-booking/internal/handler/dto/response"
	"gamezone-booking/internal/handler/httperr"
	"gamezone-booking/internal/usecase/commands"
	"gamezone-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const idempotencyKeyHeader = "Idempotency-Key"

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	bookingQueries      queries.BookingQueries
}

func NewReservationHandler(reservationCommands commands.ReservationCommands, bookingQueries queries.BookingQueries) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		bookingQueries:      bookingQueries,
	}
}

// @Summary Create reservation
// @Description Hold a station (or a station type) for a time window until payment
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Success 200 {object} resdto.ReservationResponse "replayed request"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	idempotencyKey, err := parseIdempotencyKey(c)
	if err != nil {
		httperr.AbortBadRequest(c, err, "Invalid Idempotency-Key format")
		return
	}

	var req reqdto.CreateReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.reservationCommands.CreateReservation(c.Request.Context(), req.ToCommand(), actor, idempotencyKey)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromReservationView(result.Reservation))
}

func parseIdempotencyKey(c *gin.Context) (*uuid.UUID, error) {
	raw := c.GetHeader(idempotencyKeyHeader)
	if raw == "" {
		return nil, nil
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "reservation")
	if !ok {
		return
	}

	view, err := h.bookingQueries.GetReservation(c.Request.Context(), id, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Cancel reservation
// @Description Owner or operator cancel; also withdraws a waiting queue entry
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "reservation")
	if !ok {
		return
	}

	view, err := h.reservationCommands.CancelReservation(c.Request.Context(), id, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Pay offline
// @Description Record a counter payment; confirms directly under the auto_confirm policy
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.OfflinePaymentRequest true "Payment evidence"
// @Success 200 {object} resdto.DispatchResponse
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/offline-payment [post]
func (h *ReservationHandler) OfflinePayment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "reservation")
	if !ok {
		return
	}
	var req reqdto.OfflinePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.reservationCommands.MarkOfflinePayment(c.Request.Context(), id, req.PaymentRef, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDispatchResult(result))
}

// @Summary Approve offline payment
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.DispatchResponse
// @Failure 409 {object} httperr.Response
// @Router /admin/reservations/{id}/approve [post]
func (h *ReservationHandler) Approve(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "reservation")
	if !ok {
		return
	}

	result, err := h.reservationCommands.ApproveOfflinePayment(c.Request.Context(), id, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDispatchResult(result))
}

// @Summary Confirm reservation
// @Description Operator confirmation, optionally pinning a station
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ConfirmReservationRequest true "Confirmation"
// @Success 200 {object} resdto.DispatchResponse
// @Failure 409 {object} httperr.Response
// @Router /admin/reservations/{id}/confirm [post]
func (h *ReservationHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c, "reservation")
	if !ok {
		return
	}
	var req reqdto.ConfirmReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.reservationCommands.ConfirmReservation(c.Request.Context(), id, req.ToCommand())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDispatchResult(result))
}

// @Summary Mark payment failed
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 409 {object} httperr.Response
// @Router /admin/reservations/{id}/payment-failed [post]
func (h *ReservationHandler) MarkFailed(c *gin.Context) {
	id, ok := pathID(c, "reservation")
	if !ok {
		return
	}

	view, err := h.reservationCommands.MarkPaymentFailed(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Queue status
// @Description Position and estimated wait of a queued reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.QueueStatusResponse
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id}/queue [get]
func (h *ReservationHandler) QueueStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "reservation")
	if !ok {
		return
	}

	view, err := h.bookingQueries.QueueStatus(c.Request.Context(), id, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQueueStatusView(view))
}
