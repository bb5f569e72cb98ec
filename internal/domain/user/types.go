package user

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsOperator reports whether the role may act on other customers' bookings.
func (r Role) IsOperator() bool {
	return r == RoleStaff || r == RoleAdmin
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Actor identifies who triggered a state change; recorded in pause history and logs.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func SystemActor() Actor {
	return Actor{ID: uuid.Nil, Role: RoleAdmin}
}

func (a Actor) IsSystem() bool {
	return a.ID == uuid.Nil
}

func (a Actor) CanActFor(ownerID uuid.UUID) bool {
	return a.Role.IsOperator() || a.ID == ownerID
}

func (a Actor) Label() string {
	if a.IsSystem() {
		return "system"
	}
	return string(a.Role) + ":" + a.ID.String()
}
