package api

import (
	"net/http"

	reqdto "gamezone-booking/internal/handler/dto/request"
	resdto "gamezone-booking/internal/handler/dto/response"
	"gamezone-booking/internal/handler/httperr"
	"gamezone-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{paymentCommands: paymentCommands}
}

// @Summary Verify gateway payment
// @Description Signed gateway callback; confirms the reservation or session extension it names
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.VerifyPaymentRequest true "Gateway confirmation"
// @Success 200 {object} resdto.DispatchResponse
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /payments/verify [post]
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req reqdto.VerifyPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.paymentCommands.Verify(c.Request.Context(), req.ToCommand())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDispatchResult(result))
}
