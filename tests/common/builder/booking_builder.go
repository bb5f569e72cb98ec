//go:build unit || e2e

package builder

import (
	"time"

	reqdto "gamezone-booking/internal/handler/dto/request"
	"gamezone-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID              uuid.UUID
	StationTypeID   uuid.UUID
	StationID       *uuid.UUID
	CustomerID      uuid.UUID
	StartTime       time.Time
	DurationMinutes int
	Amount          int64
	Status          string
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		ID:              uuid.New(),
		StationTypeID:   uuid.New(),
		CustomerID:      uuid.New(),
		StartTime:       time.Date(2025, 3, 3, 11, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Amount:          300,
		Status:          "pending_payment",
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) BuildDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		StationTypeID:   b.StationTypeID,
		StationID:       b.StationID,
		StartTime:       b.StartTime,
		DurationMinutes: b.DurationMinutes,
	}
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	end := b.StartTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
	return &queries.ReservationView{
		ID:              b.ID,
		StationTypeID:   b.StationTypeID,
		StationID:       b.StationID,
		CustomerID:      b.CustomerID,
		StartTime:       b.StartTime,
		EndTime:         end,
		DurationMinutes: b.DurationMinutes,
		Amount:          b.Amount,
		Kind:            "standard",
		Status:          b.Status,
		ExpiresAt:       b.StartTime.Add(-45 * time.Minute),
		CreatedAt:       b.StartTime.Add(-time.Hour),
		UpdatedAt:       b.StartTime.Add(-time.Hour),
	}
}

type SessionBuilder struct {
	ID              uuid.UUID
	StationID       uuid.UUID
	StationTypeID   uuid.UUID
	CustomerID      uuid.UUID
	Status          string
	Start           time.Time
	DurationMinutes int
	BaseAmount      int64
}

func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		ID:              uuid.New(),
		StationID:       uuid.New(),
		StationTypeID:   uuid.New(),
		CustomerID:      uuid.New(),
		Status:          "active",
		Start:           time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		BaseAmount:      300,
	}
}

func (b *SessionBuilder) With(mutate func(*SessionBuilder)) *SessionBuilder {
	mutate(b)
	return b
}

func (b *SessionBuilder) BuildView() *queries.SessionView {
	start := b.Start
	return &queries.SessionView{
		ID:              b.ID,
		StationID:       b.StationID,
		StationTypeID:   b.StationTypeID,
		CustomerID:      b.CustomerID,
		Status:          b.Status,
		ScheduledStart:  start,
		ActualStart:     &start,
		EndTime:         start.Add(time.Duration(b.DurationMinutes) * time.Minute),
		DurationMinutes: b.DurationMinutes,
		BaseAmount:      b.BaseAmount,
		PaymentStatus:   "paid",
		CreatedAt:       start,
		UpdatedAt:       start,
	}
}
