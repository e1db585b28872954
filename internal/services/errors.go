package services

import (
	"fmt"

	"github.com/abrezinsky/racenight/internal/models"
)

// Service errors
var (
	ErrNoRacers               = &ServiceError{Message: "race has no racers to attribute"}
	ErrNotARacer              = &ServiceError{Message: "user is not a racer in this race"}
	ErrEmptyCarCatalog        = &ServiceError{Message: "no active cars to draw from"}
	ErrEmptyMapCatalog        = &ServiceError{Message: "no active maps to draw from"}
	ErrInvalidAttributionMode = &ServiceError{Message: "attribution mode must be GLOBAL or PER_USER"}
	ErrInvalidJoinCode        = &ServiceError{Message: "join code is not recognized"}
	ErrJoinClosed             = &ServiceError{Message: "joining parties is currently closed"}
	ErrNoRacersGiven          = &ServiceError{Message: "no racers specified"}
	ErrInvalidCatalogName     = &ServiceError{Message: "name must not be empty"}
	ErrSelfDelete             = &ServiceError{Message: "cannot delete your own account"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// PartyNotActionableError rejects a race, score, or attribution
// mutation against a party that is not usable today. Reason is one of
// the actionability reason codes.
type PartyNotActionableError struct {
	PartyID int64
	Reason  string
}

func (e *PartyNotActionableError) Error() string {
	return fmt.Sprintf("party %d is not actionable: %s", e.PartyID, e.Reason)
}

// InvalidStateTransitionError rejects a race status change outside the
// strict PENDING -> IN_PROGRESS -> COMPLETED order.
type InvalidStateTransitionError struct {
	From models.RaceStatus
	To   models.RaceStatus
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid race transition %s -> %s", e.From, e.To)
}

// NotFoundError reports a missing entity by type and id.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}
