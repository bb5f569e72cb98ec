//go:build unit

package api_test

import (
	"context"
	"net/http"

	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/domain/user"
	resdto "gamezone-booking/internal/handler/dto/response"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/commands"
	"gamezone-booking/internal/usecase/queries"
	"gamezone-booking/tests/common/builder"
	"gamezone-booking/tests/common/httptest"
	"gamezone-booking/tests/common/testutil"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

func (s *HandlerSuite) TestCreateReservation() {
	url := "/api/reservations"
	b := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
		b.CustomerID = s.customerID
	})
	view := b.BuildView()

	s.Run("success: 201 with the standard kind by default", func() {
		s.reservations.EXPECT().
			CreateReservation(gomock.Any(), gomock.Any(), s.customerActor(), gomock.Nil()).
			DoAndReturn(func(_ context.Context, req commands.CreateReservationRequest, _ user.Actor, _ *uuid.UUID) (*commands.CreateReservationResult, error) {
				s.Equal(b.StationTypeID, req.StationTypeID)
				s.Equal(reservation.KindStandard, req.Kind)
				s.Equal(60, req.DurationMinutes)
				return &commands.CreateReservationResult{Reservation: view}, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, b.BuildDTO(), s.customerToken())

		var resp resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &resp)
		s.Equal(view.ID, resp.ID)
		s.Equal("pending_payment", resp.Status)
		s.Equal(int64(300), resp.Amount)
	})

	s.Run("success: replayed idempotency key answers 200", func() {
		key := uuid.New()
		s.reservations.EXPECT().
			CreateReservation(gomock.Any(), gomock.Any(), s.customerActor(), &key).
			Return(&commands.CreateReservationResult{Reservation: view, IsReplayed: true}, nil)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, b.BuildDTO(), s.customerToken(),
			map[string]string{"Idempotency-Key": key.String()})

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resdto.ReservationResponse{})
	})

	s.Run("error: 400 on malformed Idempotency-Key", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, b.BuildDTO(), s.customerToken(),
			map[string]string{"Idempotency-Key": "not-a-uuid"})

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Idempotency-Key")
	})

	s.Run("error: 400 on missing required fields", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing stationTypeId", mutate: testutil.Field("stationTypeId", nil)},
			{name: "missing startTime", mutate: testutil.Field("startTime", nil)},
			{name: "startTime not a timestamp", mutate: testutil.Field("startTime", "tomorrow")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), b.BuildDTO(), tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.customerToken())
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: usecase errors map onto their class status", func() {
		cases := []struct {
			name   string
			err    error
			status int
			msg    string
		}{
			{name: "overlap", err: commands.ErrSlotTaken, status: http.StatusConflict, msg: "overlaps"},
			{name: "unknown type", err: commands.ErrStationTypeNotFound, status: http.StatusNotFound, msg: "station type not found"},
			{name: "invalid duration", err: reservation.ErrDurationTooShort, status: http.StatusUnprocessableEntity},
			{name: "unclassified", err: errs.New("connection reset"), status: http.StatusInternalServerError, msg: "Internal server error"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.reservations.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, b.BuildDTO(), s.customerToken())

				httptest.AssertErrorResponse(s.T(), rec, tc.status, tc.msg)
				s.Empty(rec.Header().Get("Retry-After"))
			})
		}
	})

	s.Run("error: lock contention is retryable", func() {
		s.reservations.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.Wrap(commands.ErrLockContention, "create reservation"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, b.BuildDTO(), s.customerToken())

		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Retry-After": "1"})
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, b.BuildDTO(), "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: 401 with an expired token", func() {
		token := s.jwt.CreateExpiredToken(s.T(), s.customerID, user.RoleCustomer)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, b.BuildDTO(), token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

func (s *HandlerSuite) TestGetReservation() {
	view := builder.NewReservationBuilder().BuildView()

	s.Run("success: returns the view", func() {
		s.queries.EXPECT().GetReservation(gomock.Any(), view.ID, s.customerActor()).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/reservations/"+view.ID.String(), nil, s.customerToken())

		var resp resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal(view.StationTypeID, resp.StationTypeID)
		s.Equal(view.EndTime, resp.EndTime)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/reservations/abc", nil, s.customerToken())
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid reservation ID format")
	})

	s.Run("error: 404 when not visible", func() {
		s.queries.EXPECT().GetReservation(gomock.Any(), view.ID, gomock.Any()).Return(nil, queries.ErrReservationNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/reservations/"+view.ID.String(), nil, s.customerToken())

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "reservation not found")
	})
}

func (s *HandlerSuite) TestCancelReservation() {
	view := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.Status = "cancelled" }).BuildView()
	url := "/api/reservations/" + view.ID.String() + "/cancel"

	s.Run("success", func() {
		s.reservations.EXPECT().CancelReservation(gomock.Any(), view.ID, s.customerActor()).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.customerToken())

		var resp resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("cancelled", resp.Status)
	})

	s.Run("error: 403 for another customer's booking", func() {
		s.reservations.EXPECT().CancelReservation(gomock.Any(), view.ID, gomock.Any()).Return(nil, commands.ErrNotOwner)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.customerToken())

		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "another customer")
	})
}

func (s *HandlerSuite) TestOfflinePaymentAndApproval() {
	view := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.Status = "pending_approval" }).BuildView()

	s.Run("customer records offline payment", func() {
		s.reservations.EXPECT().MarkOfflinePayment(gomock.Any(), view.ID, "CASH-7", s.customerActor()).
			Return(&commands.DispatchResult{Reservation: view}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/reservations/"+view.ID.String()+"/offline-payment",
			map[string]any{"paymentRef": "CASH-7"}, s.customerToken())

		var resp resdto.DispatchResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Require().NotNil(resp.Reservation)
		s.Equal("pending_approval", resp.Reservation.Status)
		s.Nil(resp.Session)
	})

	s.Run("customer cannot approve", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/reservations/"+view.ID.String()+"/approve", nil, s.customerToken())
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("staff approval seats the customer", func() {
		sess := builder.NewSessionBuilder().BuildView()
		s.reservations.EXPECT().ApproveOfflinePayment(gomock.Any(), view.ID, gomock.Any()).
			Return(&commands.DispatchResult{Outcome: commands.OutcomeConfirmed, Reservation: view, Session: sess}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/reservations/"+view.ID.String()+"/approve", nil, s.tokenFor(user.RoleStaff))

		var resp resdto.DispatchResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("confirmed", resp.Outcome)
		s.Require().NotNil(resp.Session)
		s.Equal(sess.ID, resp.Session.ID)
	})

	s.Run("approval when policy confirms automatically", func() {
		s.reservations.EXPECT().ApproveOfflinePayment(gomock.Any(), view.ID, gomock.Any()).Return(nil, commands.ErrApprovalDisabled)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/reservations/"+view.ID.String()+"/approve", nil, s.tokenFor(user.RoleAdmin))

		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "confirmed automatically")
	})
}

func (s *HandlerSuite) TestConfirmAndFail() {
	view := builder.NewReservationBuilder().BuildView()
	stationID := uuid.New()

	s.Run("confirm forwards the station override", func() {
		s.reservations.EXPECT().ConfirmReservation(gomock.Any(), view.ID, commands.ConfirmReservationRequest{PaymentRef: "PAY-1", StationID: &stationID}).
			Return(&commands.DispatchResult{Outcome: commands.OutcomeQueued, Reservation: view, Queue: &queries.QueueStatusView{Position: 2, AheadCount: 1, EstimatedWaitMinutes: 60}}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/reservations/"+view.ID.String()+"/confirm",
			map[string]any{"paymentRef": "PAY-1", "stationId": stationID}, s.tokenFor(user.RoleAdmin))

		var resp resdto.DispatchResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("queued", resp.Outcome)
		s.Require().NotNil(resp.Queue)
		s.Equal(2, resp.Queue.Position)
		s.Equal(60, resp.Queue.EstimatedWaitMinutes)
	})

	s.Run("payment failed", func() {
		failed := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.Status = "payment_failed" }).BuildView()
		s.reservations.EXPECT().MarkPaymentFailed(gomock.Any(), failed.ID).Return(failed, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/reservations/"+failed.ID.String()+"/payment-failed", nil, s.tokenFor(user.RoleStaff))

		var resp resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("payment_failed", resp.Status)
	})
}

func (s *HandlerSuite) TestQueueStatus() {
	id := uuid.New()
	url := "/api/reservations/" + id.String() + "/queue"

	s.Run("success", func() {
		s.queries.EXPECT().QueueStatus(gomock.Any(), id, s.customerActor()).
			Return(&queries.QueueStatusView{EntryID: uuid.New(), Status: "waiting", Position: 3, AheadCount: 2, EstimatedWaitMinutes: 90}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.customerToken())

		var resp resdto.QueueStatusResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal(3, resp.Position)
		s.Equal(2, resp.AheadCount)
		s.Equal(90, resp.EstimatedWaitMinutes)
	})

	s.Run("error: 404 when not queued", func() {
		s.queries.EXPECT().QueueStatus(gomock.Any(), id, gomock.Any()).Return(nil, queries.ErrNotQueued)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.customerToken())

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "waiting queue")
	})
}
