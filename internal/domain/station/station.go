package station

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus      = errors.New("invalid station status")
	ErrStatusChangeDenied = errors.New("station status change not allowed")
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusMaintenance:
		return true
	default:
		return false
	}
}

// Station is one physical unit. Its status is the single source of truth for
// "is this free"; occupied must correspond to exactly one active or paused session.
// Status is only ever changed through a compare-and-set in the same transaction
// that changes the session.
type Station struct {
	id        uuid.UUID
	typeID    uuid.UUID
	name      string
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func NewStation(typeID uuid.UUID, name string, now time.Time) (*Station, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return &Station{
		id:        uuid.New(),
		typeID:    typeID,
		name:      name,
		status:    StatusAvailable,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructStation(id, typeID uuid.UUID, name string, status Status, createdAt, updatedAt time.Time) *Station {
	return &Station{
		id:        id,
		typeID:    typeID,
		name:      name,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (s *Station) IsAvailable() bool {
	return s.status == StatusAvailable
}

// AdminStatusChange validates an operator moving a station in or out of
// maintenance. Occupied stations are released only by their session.
func AdminStatusChange(from, to Status) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	switch {
	case from == StatusAvailable && to == StatusMaintenance:
		return nil
	case from == StatusMaintenance && to == StatusAvailable:
		return nil
	default:
		return ErrStatusChangeDenied
	}
}

func (s *Station) ID() uuid.UUID        { return s.id }
func (s *Station) TypeID() uuid.UUID    { return s.typeID }
func (s *Station) Name() string         { return s.name }
func (s *Station) Status() Status       { return s.status }
func (s *Station) CreatedAt() time.Time { return s.createdAt }
func (s *Station) UpdatedAt() time.Time { return s.updatedAt }
