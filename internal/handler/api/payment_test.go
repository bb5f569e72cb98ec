//go:build unit

package api_test

import (
	"net/http"

	resdto "gamezone-booking/internal/handler/dto/response"
	"gamezone-booking/internal/pkg/signature"
	"gamezone-booking/internal/usecase/commands"
	"gamezone-booking/tests/common/builder"
	"gamezone-booking/tests/common/httptest"

	"go.uber.org/mock/gomock"
)

func (s *HandlerSuite) TestVerifyPayment() {
	url := "/api/payments/verify"
	view := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.Status = "payment_confirmed" }).BuildView()
	body := map[string]any{
		"entityType": "reservation",
		"orderRef":   view.ID.String(),
		"paymentRef": "pay_123",
		"signature":  "deadbeef",
	}

	s.Run("gateway callback needs no bearer token", func() {
		s.payments.EXPECT().Verify(gomock.Any(), commands.VerifyPaymentRequest{
			EntityType: commands.EntityReservation,
			OrderRef:   view.ID.String(),
			PaymentRef: "pay_123",
			Signature:  "deadbeef",
		}).Return(&commands.DispatchResult{Outcome: commands.OutcomeConfirmed, Reservation: view}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		var resp resdto.DispatchResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("confirmed", resp.Outcome)
	})

	s.Run("bad signature is 401", func() {
		s.payments.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(nil, signature.ErrInvalidSignature)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "invalid payment signature")
	})

	s.Run("unknown entity type is 422", func() {
		s.payments.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(nil, commands.ErrUnknownEntityType)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "entity type")
	})

	s.Run("signature is required", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"entityType": "reservation", "orderRef": "x"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}
