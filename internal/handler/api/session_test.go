//go:build unit

package api_test

import (
	"net/http"

	"gamezone-booking/internal/domain/session"
	"gamezone-booking/internal/domain/user"
	resdto "gamezone-booking/internal/handler/dto/response"
	"gamezone-booking/internal/usecase/commands"
	"gamezone-booking/tests/common/builder"
	"gamezone-booking/tests/common/httptest"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

func (s *HandlerSuite) TestSessionTransitions() {
	view := builder.NewSessionBuilder().With(func(b *builder.SessionBuilder) { b.CustomerID = s.customerID }).BuildView()
	base := "/api/sessions/" + view.ID.String()

	s.Run("get", func() {
		s.queries.EXPECT().GetSession(gomock.Any(), view.ID, s.customerActor()).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base, nil, s.customerToken())

		var resp resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal(view.StationID, resp.StationID)
		s.Equal(int64(300), resp.BaseAmount)
		s.Nil(resp.FinalAmount)
	})

	s.Run("start", func() {
		s.sessions.EXPECT().StartSession(gomock.Any(), view.ID, s.customerActor()).Return(view, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/start", nil, s.customerToken())
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resdto.SessionResponse{})
	})

	s.Run("pause with a reason", func() {
		s.sessions.EXPECT().PauseSession(gomock.Any(), view.ID, "snack break", s.customerActor()).Return(view, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/pause", map[string]any{"reason": "snack break"}, s.customerToken())
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resdto.SessionResponse{})
	})

	s.Run("pause without a body", func() {
		s.sessions.EXPECT().PauseSession(gomock.Any(), view.ID, "", s.customerActor()).Return(view, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/pause", nil, s.customerToken())
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resdto.SessionResponse{})
	})

	s.Run("pause twice conflicts", func() {
		s.sessions.EXPECT().PauseSession(gomock.Any(), view.ID, gomock.Any(), gomock.Any()).Return(nil, session.ErrAlreadyPaused)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/pause", nil, s.customerToken())
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already paused")
	})

	s.Run("resume", func() {
		s.sessions.EXPECT().ResumeSession(gomock.Any(), view.ID, s.customerActor()).Return(view, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/resume", nil, s.customerToken())
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resdto.SessionResponse{})
	})

	s.Run("end reports the final amount", func() {
		ended := *view
		final := int64(250)
		ended.Status = "ended"
		ended.FinalAmount = &final
		s.sessions.EXPECT().EndSession(gomock.Any(), view.ID, s.customerActor()).Return(&ended, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/end", nil, s.customerToken())

		var resp resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("ended", resp.Status)
		s.Require().NotNil(resp.FinalAmount)
		s.Equal(int64(250), *resp.FinalAmount)
	})
}

func (s *HandlerSuite) TestExtendSession() {
	view := builder.NewSessionBuilder().BuildView()
	url := "/api/sessions/" + view.ID.String() + "/extend"

	s.Run("success: returns the separate charge", func() {
		extended := *view
		extended.Extended = true
		extended.ExtensionAmount = 75
		s.sessions.EXPECT().ExtendSession(gomock.Any(), view.ID, 15, s.customerActor()).
			Return(&commands.ExtendResult{Session: &extended, Charge: 75}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"additionalMinutes": 15}, s.customerToken())

		var resp resdto.ExtendSessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal(int64(75), resp.Charge)
		s.True(resp.Session.Extended)
	})

	s.Run("error: 422 on a non-positive extension", func() {
		s.sessions.EXPECT().ExtendSession(gomock.Any(), view.ID, 0, gomock.Any()).Return(nil, session.ErrInvalidExtension)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"additionalMinutes": 0}, s.customerToken())

		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "at least one minute")
	})

	s.Run("error: 409 when the added window is booked", func() {
		s.sessions.EXPECT().ExtendSession(gomock.Any(), view.ID, 30, gomock.Any()).Return(nil, commands.ErrSlotTaken)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"additionalMinutes": 30}, s.customerToken())

		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "overlaps")
	})
}

func (s *HandlerSuite) TestAdminSessionActions() {
	view := builder.NewSessionBuilder().With(func(b *builder.SessionBuilder) { b.Status = "cancelled" }).BuildView()

	s.Run("customer cannot cancel through the admin route", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/sessions/"+view.ID.String()+"/cancel", nil, s.customerToken())
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})

	s.Run("staff cancel", func() {
		s.sessions.EXPECT().CancelSession(gomock.Any(), view.ID, gomock.Any()).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/sessions/"+view.ID.String()+"/cancel", nil, s.tokenFor(user.RoleStaff))

		var resp resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("cancelled", resp.Status)
	})

	s.Run("winner selection", func() {
		winner := uuid.New()
		chosen := *view
		chosen.Status = "ended"
		chosen.WinnerID = &winner
		s.sessions.EXPECT().SelectWinner(gomock.Any(), view.ID, winner, gomock.Any()).Return(&chosen, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/sessions/"+view.ID.String()+"/winner",
			map[string]any{"winnerId": winner}, s.tokenFor(user.RoleAdmin))

		var resp resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Require().NotNil(resp.WinnerID)
		s.Equal(winner, *resp.WinnerID)
	})

	s.Run("winner outside the challenge", func() {
		s.sessions.EXPECT().SelectWinner(gomock.Any(), view.ID, gomock.Any(), gomock.Any()).Return(nil, session.ErrWinnerNotParticipant)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/sessions/"+view.ID.String()+"/winner",
			map[string]any{"winnerId": uuid.New()}, s.tokenFor(user.RoleAdmin))

		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "not a participant")
	})

	s.Run("winner is required", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/sessions/"+view.ID.String()+"/winner",
			map[string]any{}, s.tokenFor(user.RoleAdmin))

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}
