package commands

import (
	"context"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/queries"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=station.go -destination=../../../tests/mock/commands/station.go -package=commandsmock

type CreateStationTypeRequest struct {
	Name     string
	RatePlan pricing.RatePlanParams
	Enabled  bool
}

type CreateStationRequest struct {
	TypeID uuid.UUID
	Name   string
}

type StationCommands interface {
	CreateStationType(ctx context.Context, req CreateStationTypeRequest) (*queries.StationTypeView, error)
	CreateStation(ctx context.Context, req CreateStationRequest) (*queries.StationView, error)
	SetStationStatus(ctx context.Context, id uuid.UUID, status station.Status) (*queries.StationView, error)
}

type stationUseCaseImpl struct {
	*Dependencies
	promoter Promoter
}

func NewStationCommands(deps *Dependencies, promoter Promoter) StationCommands {
	return &stationUseCaseImpl{Dependencies: deps, promoter: promoter}
}

func (uc *stationUseCaseImpl) CreateStationType(ctx context.Context, req CreateStationTypeRequest) (*queries.StationTypeView, error) {
	plan, err := pricing.NewRatePlan(req.RatePlan)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "invalid rate plan"), errs.ErrValidation)
	}
	typ, err := station.NewType(req.Name, plan, req.Enabled, uc.Clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	err = uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.StationTypes().Create(ctx, typ)
	})
	if err != nil {
		return nil, errs.Wrap(err, "create station type")
	}
	return queries.NewStationTypeView(typ), nil
}

func (uc *stationUseCaseImpl) CreateStation(ctx context.Context, req CreateStationRequest) (*queries.StationView, error) {
	st, err := station.NewStation(req.TypeID, req.Name, uc.Clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	err = uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.StationTypes().FindByID(ctx, req.TypeID); err != nil {
			return notFoundAs(err, ErrStationTypeNotFound)
		}
		return tx.Stations().Create(ctx, st)
	})
	if err != nil {
		return nil, err
	}
	return queries.NewStationView(st), nil
}

// SetStationStatus moves a station in or out of maintenance. Bringing one back
// to available is an admin release and promotes the queue.
func (uc *stationUseCaseImpl) SetStationStatus(ctx context.Context, id uuid.UUID, status station.Status) (*queries.StationView, error) {
	if !status.IsValid() {
		return nil, errs.Mark(station.ErrInvalidStatus, errs.ErrValidation)
	}
	var st *station.Station
	err := uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Stations().FindByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrStationNotFound)
		}
		if current.Status() == station.StatusOccupied {
			return ErrStationBusy
		}
		if err := station.AdminStatusChange(current.Status(), status); err != nil {
			return errs.Mark(err, errs.ErrConflict)
		}
		now := uc.Clock.Now()
		err = tx.Stations().UpdateStatus(ctx, id, current.Status(), status, now)
		if infra.IsKind(err, infra.KindStatusMismatch) {
			return ErrStationBusy
		}
		if err != nil {
			return err
		}
		st = station.ReconstructStation(current.ID(), current.TypeID(), current.Name(), status, current.CreatedAt(), now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if status == station.StatusAvailable {
		promoteAfterRelease(ctx, uc.promoter, uc.Logger, st.TypeID())
	}
	return queries.NewStationView(st), nil
}
