//go:build unit

package api_test

import (
	"net/http"

	"gamezone-booking/internal/domain/user"
	resdto "gamezone-booking/internal/handler/dto/response"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/commands"
	"gamezone-booking/internal/usecase/queries"
	"gamezone-booking/tests/common/httptest"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

func (s *HandlerSuite) TestCancelQueueEntry() {
	entryID := uuid.New()
	url := "/api/waitlist/" + entryID.String() + "/cancel"

	s.Run("success", func() {
		s.waitlist.EXPECT().CancelEntry(gomock.Any(), entryID, s.customerActor()).
			Return(&queries.QueueStatusView{EntryID: entryID, Status: "cancelled"}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.customerToken())

		var resp resdto.QueueStatusResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("cancelled", resp.Status)
	})

	s.Run("unknown entry", func() {
		s.waitlist.EXPECT().CancelEntry(gomock.Any(), entryID, gomock.Any()).Return(nil, commands.ErrQueueEntryNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.customerToken())

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "queue entry not found")
	})
}

func (s *HandlerSuite) TestEnqueueWalkIn() {
	typeID, customerID := uuid.New(), uuid.New()
	body := map[string]any{
		"stationTypeId":   typeID,
		"customerId":      customerID,
		"durationMinutes": 60,
		"amount":          300,
		"paymentRef":      "COUNTER-12",
	}

	s.Run("staff queues a paid walk-in", func() {
		amount := int64(300)
		s.waitlist.EXPECT().Enqueue(gomock.Any(), gomock.Cond(func(req commands.EnqueueRequest) bool {
			return req.StationTypeID == typeID && req.CustomerID == customerID &&
				req.Amount.Units() == amount && req.PaymentRef == "COUNTER-12"
		})).Return(&queries.QueueStatusView{EntryID: uuid.New(), Status: "waiting", Position: 1, EstimatedWaitMinutes: 30}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/waitlist", body, s.tokenFor(user.RoleStaff))

		var resp resdto.QueueStatusResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &resp)
		s.Equal(1, resp.Position)
	})

	s.Run("negative amount never reaches the queue", func() {
		bad := map[string]any{}
		for k, v := range body {
			bad[k] = v
		}
		bad["amount"] = -1

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/waitlist", bad, s.tokenFor(user.RoleStaff))

		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "negative")
	})

	s.Run("free station means book directly", func() {
		s.waitlist.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil, commands.ErrBookDirectly)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/waitlist", body, s.tokenFor(user.RoleStaff))

		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "book directly")
	})
}

func (s *HandlerSuite) TestPromote() {
	typeID := uuid.New()
	url := "/api/admin/station-types/" + typeID.String() + "/promote"

	s.Run("reports assignments", func() {
		a := commands.Assignment{EntryID: uuid.New(), SessionID: uuid.New(), StationID: uuid.New()}
		s.waitlist.EXPECT().Promote(gomock.Any(), typeID).Return(&commands.PromotionResult{Assigned: []commands.Assignment{a}}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.tokenFor(user.RoleAdmin))

		var resp resdto.PromotionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Require().Len(resp.Assigned, 1)
		s.Equal(a.SessionID, resp.Assigned[0].SessionID)
	})

	s.Run("nothing to do is an empty list", func() {
		s.waitlist.EXPECT().Promote(gomock.Any(), typeID).Return(&commands.PromotionResult{}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.tokenFor(user.RoleAdmin))

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"assigned":[]}`, rec.Body.String())
	})

	s.Run("rolled back promotion is a server error", func() {
		s.waitlist.EXPECT().Promote(gomock.Any(), typeID).
			Return(nil, errs.Mark(errs.New("create session"), errs.ErrPromotionRollback))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.tokenFor(user.RoleAdmin))

		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
