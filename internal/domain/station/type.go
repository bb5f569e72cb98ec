package station

import (
	"errors"
	"strings"
	"time"

	"gamezone-booking/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrEmptyName   = errors.New("name cannot be empty")
	ErrNameTooLong = errors.New("name is too long (max 255 characters)")
)

const MaxNameLength = 255

// Type is a class of interchangeable stations (e.g. "Snooker Table", "PS5 Bay")
// sharing one rate plan.
type Type struct {
	id        uuid.UUID
	name      string
	ratePlan  pricing.RatePlan
	enabled   bool
	createdAt time.Time
	updatedAt time.Time
}

func NewType(name string, plan pricing.RatePlan, enabled bool, now time.Time) (*Type, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return &Type{
		id:        uuid.New(),
		name:      name,
		ratePlan:  plan,
		enabled:   enabled,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructType(id uuid.UUID, name string, plan pricing.RatePlan, enabled bool, createdAt, updatedAt time.Time) *Type {
	return &Type{
		id:        id,
		name:      name,
		ratePlan:  plan,
		enabled:   enabled,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (t *Type) MinimumMinutes() int {
	return t.ratePlan.MinimumMinutes()
}

func (t *Type) ID() uuid.UUID              { return t.id }
func (t *Type) Name() string               { return t.name }
func (t *Type) RatePlan() pricing.RatePlan { return t.ratePlan }
func (t *Type) Enabled() bool              { return t.enabled }
func (t *Type) CreatedAt() time.Time       { return t.createdAt }
func (t *Type) UpdatedAt() time.Time       { return t.updatedAt }

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}
