package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/logger"
	"github.com/abrezinsky/racenight/internal/models"
	"github.com/abrezinsky/racenight/internal/repository"
)

// AttributionServiceRepository defines the repository methods needed by AttributionService
type AttributionServiceRepository interface {
	repository.PartyRepository
	repository.MemberRepository
	repository.RaceRepository
	repository.CatalogRepository
}

// AttributionService draws cars and maps for a race, uniformly at
// random over the active catalog. Draws happen on demand, never
// automatically, and re-drawing replaces the previous result wholesale.
type AttributionService struct {
	log         logger.Logger
	repo        AttributionServiceRepository
	races       *RaceService
	broadcaster Broadcaster
	now         nowFunc
	randInt     func(n int) int // for testing: defaults to rand.Intn
}

// NewAttributionService creates a new AttributionService
func NewAttributionService(log logger.Logger, repo AttributionServiceRepository, races *RaceService) *AttributionService {
	return &AttributionService{
		log:     log,
		repo:    repo,
		races:   races,
		now:     time.Now,
		randInt: rand.Intn,
	}
}

// SetBroadcaster wires the live-update hub
func (s *AttributionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetNowFunc overrides the clock (for testing)
func (s *AttributionService) SetNowFunc(f func() time.Time) {
	s.now = f
}

// SetRandFunc sets a custom draw function (for testing)
func (s *AttributionService) SetRandFunc(f func(n int) int) {
	s.randInt = f
}

// guard runs the facade preconditions shared by both draw operations
// and returns the loaded race.
func (s *AttributionService) guard(ctx context.Context, principal *authz.Principal, raceID int64, action authz.Action) (*models.Race, error) {
	race, party, err := s.races.loadRaceAndParty(ctx, raceID)
	if err != nil {
		return nil, err
	}

	if err := requireActionable(party, s.now()); err != nil {
		return nil, err
	}

	role, err := memberRole(ctx, s.repo, party.ID, principal)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(principal, action, role); err != nil {
		return nil, err
	}
	return race, nil
}

// AttributeCar draws cars for a race. GLOBAL draws one car shared by
// every racer; PER_USER draws independently per racer, so repeats are
// possible. Requires at least one racer.
func (s *AttributionService) AttributeCar(ctx context.Context, principal *authz.Principal, raceID int64, mode models.AttributionMode) (*models.CarAttribution, error) {
	if mode != models.AttributionGlobal && mode != models.AttributionPerUser {
		return nil, ErrInvalidAttributionMode
	}

	race, err := s.guard(ctx, principal, raceID, authz.ActionAttributeCar)
	if err != nil {
		return nil, err
	}
	if len(race.Racers) == 0 {
		return nil, ErrNoRacers
	}

	cars, err := s.repo.ListActiveCars(ctx)
	if err != nil {
		return nil, err
	}
	if len(cars) == 0 {
		return nil, ErrEmptyCarCatalog
	}

	var entries []models.CarAssignment
	switch mode {
	case models.AttributionGlobal:
		car := cars[s.randInt(len(cars))]
		entries = []models.CarAssignment{{CarID: car.ID, CarName: car.Name}}
	case models.AttributionPerUser:
		entries = make([]models.CarAssignment, 0, len(race.Racers))
		for _, userID := range race.Racers {
			car := cars[s.randInt(len(cars))]
			entries = append(entries, models.CarAssignment{UserID: userID, CarID: car.ID, CarName: car.Name})
		}
	}

	if err := s.repo.ReplaceCarAttribution(ctx, raceID, mode, entries); err != nil {
		return nil, err
	}

	attribution, err := s.repo.GetCarAttribution(ctx, raceID)
	if err != nil {
		return nil, err
	}

	s.log.Info("Cars attributed", "race_id", raceID, "mode", mode, "entries", len(entries))
	broadcast(s.broadcaster, EventAttributionDrawn, attribution)
	return attribution, nil
}

// AttributeMap draws one map for a race, replacing any prior assignment
func (s *AttributionService) AttributeMap(ctx context.Context, principal *authz.Principal, raceID int64) (*models.MapAssignment, error) {
	if _, err := s.guard(ctx, principal, raceID, authz.ActionAttributeMap); err != nil {
		return nil, err
	}

	maps, err := s.repo.ListActiveMaps(ctx)
	if err != nil {
		return nil, err
	}
	if len(maps) == 0 {
		return nil, ErrEmptyMapCatalog
	}

	drawn := maps[s.randInt(len(maps))]
	if err := s.repo.SetMapAssignment(ctx, raceID, drawn.ID); err != nil {
		return nil, err
	}

	assignment, err := s.repo.GetMapAssignment(ctx, raceID)
	if err != nil {
		return nil, err
	}

	s.log.Info("Map attributed", "race_id", raceID, "map_id", drawn.ID)
	broadcast(s.broadcaster, EventAttributionDrawn, assignment)
	return assignment, nil
}
