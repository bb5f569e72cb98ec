package response

import (
	"time"

	"gamezone-booking/internal/usecase/commands"
	"gamezone-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type StationTypeResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	PricingModel   string    `json:"pricingModel"`
	BaseRate       string    `json:"baseRate"`
	BlockMinutes   int       `json:"blockMinutes,omitempty"`
	MinimumMinutes int       `json:"minimumMinutes"`
	PeakMultiplier *string   `json:"peakMultiplier,omitempty"`
	Enabled        bool      `json:"enabled"`
	CreatedAt      time.Time `json:"createdAt"`
}

func FromStationTypeView(v *queries.StationTypeView) *StationTypeResponse {
	return mapView[StationTypeResponse](v)
}

func FromStationTypeViews(vs []*queries.StationTypeView) []*StationTypeResponse {
	return mapViews[StationTypeResponse](vs)
}

type StationResponse struct {
	ID     uuid.UUID `json:"id"`
	TypeID uuid.UUID `json:"typeId"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
}

func FromStationView(v *queries.StationView) *StationResponse {
	return mapView[StationResponse](v)
}

type AvailabilityResponse struct {
	Type      *StationTypeResponse `json:"type"`
	Stations  []*StationResponse   `json:"stations"`
	Available int                  `json:"available"`
	Waiting   int                  `json:"waiting"`
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	return &AvailabilityResponse{
		Type:      FromStationTypeView(v.Type),
		Stations:  mapViews[StationResponse](v.Stations),
		Available: v.Available,
		Waiting:   v.Waiting,
	}
}

type AssignmentResponse struct {
	EntryID   uuid.UUID `json:"entryId"`
	SessionID uuid.UUID `json:"sessionId"`
	StationID uuid.UUID `json:"stationId"`
}

type PromotionResponse struct {
	Assigned []*AssignmentResponse `json:"assigned"`
}

func FromPromotionResult(r *commands.PromotionResult) *PromotionResponse {
	return &PromotionResponse{Assigned: mapViews[AssignmentResponse](r.Assigned)}
}
