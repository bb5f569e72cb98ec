package api

import (
	"net/http"

	"gamezone-booking/internal/domain/station"
	reqdto "gamezone-booking/internal/handler/dto/request"
	resdto "gamezone-booking/internal/handler/dto/response"
	"gamezone-booking/internal/handler/httperr"
	"gamezone-booking/internal/usecase/commands"
	"gamezone-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type StationHandler struct {
	stationCommands commands.StationCommands
	bookingQueries  queries.BookingQueries
}

func NewStationHandler(stationCommands commands.StationCommands, bookingQueries queries.BookingQueries) *StationHandler {
	return &StationHandler{
		stationCommands: stationCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary List station types
// @Tags stations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.StationTypeResponse
// @Router /station-types [get]
func (h *StationHandler) ListTypes(c *gin.Context) {
	views, err := h.bookingQueries.ListStationTypes(c.Request.Context())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromStationTypeViews(views))
}

// @Summary Station availability
// @Description Stations of a type with their status, plus the waiting queue length
// @Tags stations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Station type ID"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 404 {object} httperr.Response
// @Router /station-types/{id}/stations [get]
func (h *StationHandler) Availability(c *gin.Context) {
	id, ok := pathID(c, "station type")
	if !ok {
		return
	}

	view, err := h.bookingQueries.Availability(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Create station type
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateStationTypeRequest true "Station type with rate plan"
// @Success 201 {object} resdto.StationTypeResponse
// @Failure 422 {object} httperr.Response
// @Router /admin/station-types [post]
func (h *StationHandler) CreateType(c *gin.Context) {
	var req reqdto.CreateStationTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.stationCommands.CreateStationType(c.Request.Context(), req.ToCommand())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromStationTypeView(view))
}

// @Summary Create station
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateStationRequest true "Station"
// @Success 201 {object} resdto.StationResponse
// @Failure 404 {object} httperr.Response
// @Router /admin/stations [post]
func (h *StationHandler) CreateStation(c *gin.Context) {
	var req reqdto.CreateStationRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.stationCommands.CreateStation(c.Request.Context(), commands.CreateStationRequest{
		TypeID: req.TypeID,
		Name:   req.Name,
	})
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromStationView(view))
}

// @Summary Set station status
// @Description Take a station into or out of maintenance
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Station ID"
// @Param request body reqdto.StationStatusRequest true "Target status"
// @Success 200 {object} resdto.StationResponse
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /admin/stations/{id}/status [post]
func (h *StationHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c, "station")
	if !ok {
		return
	}
	var req reqdto.StationStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.stationCommands.SetStationStatus(c.Request.Context(), id, station.Status(req.Status))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromStationView(view))
}
