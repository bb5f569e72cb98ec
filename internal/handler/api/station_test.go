//go:build unit

package api_test

import (
	"context"
	"net/http"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/domain/user"
	resdto "gamezone-booking/internal/handler/dto/response"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/commands"
	"gamezone-booking/internal/usecase/queries"
	"gamezone-booking/tests/common/httptest"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func (s *HandlerSuite) TestListTypesAndAvailability() {
	typ := &queries.StationTypeView{ID: uuid.New(), Name: "PS5", PricingModel: "per_hour", BaseRate: "300", MinimumMinutes: 30, Enabled: true}

	s.Run("list", func() {
		s.queries.EXPECT().ListStationTypes(gomock.Any()).Return([]*queries.StationTypeView{typ}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/station-types", nil, s.customerToken())

		var resp []resdto.StationTypeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Require().Len(resp, 1)
		s.Equal("PS5", resp[0].Name)
		s.Equal("per_hour", resp[0].PricingModel)
	})

	s.Run("availability", func() {
		stations := []*queries.StationView{
			{ID: uuid.New(), TypeID: typ.ID, Name: "PS5-1", Status: "occupied"},
			{ID: uuid.New(), TypeID: typ.ID, Name: "PS5-2", Status: "available"},
		}
		s.queries.EXPECT().Availability(gomock.Any(), typ.ID).
			Return(&queries.AvailabilityView{Type: typ, Stations: stations, Available: 1, Waiting: 4}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/station-types/"+typ.ID.String()+"/stations", nil, s.customerToken())

		var resp resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal(1, resp.Available)
		s.Equal(4, resp.Waiting)
		s.Len(resp.Stations, 2)
		s.Equal("occupied", resp.Stations[0].Status)
	})
}

func (s *HandlerSuite) TestCreateStationType() {
	url := "/api/admin/station-types"
	body := map[string]any{
		"name":           "PC",
		"pricingModel":   "per_hour",
		"baseRate":       "120",
		"minimumMinutes": 60,
		"peakMultiplier": "1.5",
	}

	s.Run("staff is not enough", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.tokenFor(user.RoleStaff))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("admin creates an enabled type by default", func() {
		s.stations.EXPECT().CreateStationType(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req commands.CreateStationTypeRequest) (*queries.StationTypeView, error) {
				s.Equal("PC", req.Name)
				s.True(req.Enabled)
				s.Equal(pricing.ModelPerHour, req.RatePlan.Model)
				s.True(req.RatePlan.BaseRate.Equal(decimal.NewFromInt(120)))
				s.Require().NotNil(req.RatePlan.PeakMultiplier)
				s.Equal("1.5", req.RatePlan.PeakMultiplier.String())
				return &queries.StationTypeView{ID: uuid.New(), Name: req.Name, PricingModel: "per_hour", BaseRate: "120", Enabled: true}, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.tokenFor(user.RoleAdmin))

		var resp resdto.StationTypeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &resp)
		s.Equal("120", resp.BaseRate)
	})

	s.Run("invalid rate plan", func() {
		s.stations.EXPECT().CreateStationType(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(pricing.ErrUnknownModel, errs.ErrValidation))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.tokenFor(user.RoleAdmin))

		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "")
	})
}

func (s *HandlerSuite) TestStations() {
	typeID := uuid.New()

	s.Run("create station", func() {
		view := &queries.StationView{ID: uuid.New(), TypeID: typeID, Name: "PS5-3", Status: "available"}
		s.stations.EXPECT().CreateStation(gomock.Any(), commands.CreateStationRequest{TypeID: typeID, Name: "PS5-3"}).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/stations",
			map[string]any{"typeId": typeID, "name": "PS5-3"}, s.tokenFor(user.RoleAdmin))

		var resp resdto.StationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &resp)
		s.Equal(view.ID, resp.ID)
	})

	s.Run("create station for unknown type", func() {
		s.stations.EXPECT().CreateStation(gomock.Any(), gomock.Any()).Return(nil, commands.ErrStationTypeNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/stations",
			map[string]any{"typeId": typeID, "name": "PS5-3"}, s.tokenFor(user.RoleAdmin))

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "station type not found")
	})

	s.Run("staff takes a station into maintenance", func() {
		id := uuid.New()
		s.stations.EXPECT().SetStationStatus(gomock.Any(), id, station.StatusMaintenance).
			Return(&queries.StationView{ID: id, TypeID: typeID, Status: "maintenance"}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/stations/"+id.String()+"/status",
			map[string]any{"status": "maintenance"}, s.tokenFor(user.RoleStaff))

		var resp resdto.StationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("maintenance", resp.Status)
	})

	s.Run("station with a live session", func() {
		id := uuid.New()
		s.stations.EXPECT().SetStationStatus(gomock.Any(), id, station.StatusMaintenance).Return(nil, commands.ErrStationBusy)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/stations/"+id.String()+"/status",
			map[string]any{"status": "maintenance"}, s.tokenFor(user.RoleStaff))

		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "live session")
	})
}
