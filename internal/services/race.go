package services

import (
	"context"
	"errors"
	"time"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/logger"
	"github.com/abrezinsky/racenight/internal/models"
	"github.com/abrezinsky/racenight/internal/repository"
)

// RaceServiceRepository defines the repository methods needed by RaceService
type RaceServiceRepository interface {
	repository.PartyRepository
	repository.MemberRepository
	repository.RaceRepository
	repository.ScoreRepository
}

// RaceService handles the race lifecycle: creation under an actionable
// party, the PENDING -> IN_PROGRESS -> COMPLETED state machine, racer
// management, and current-race selection.
type RaceService struct {
	log         logger.Logger
	repo        RaceServiceRepository
	broadcaster Broadcaster
	now         nowFunc
}

// NewRaceService creates a new RaceService
func NewRaceService(log logger.Logger, repo RaceServiceRepository) *RaceService {
	return &RaceService{
		log:  log,
		repo: repo,
		now:  time.Now,
	}
}

// SetBroadcaster wires the live-update hub
func (s *RaceService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetNowFunc overrides the clock (for testing)
func (s *RaceService) SetNowFunc(f func() time.Time) {
	s.now = f
}

// RaceDetail is a race with its scores and current draws.
type RaceDetail struct {
	Race           models.Race            `json:"race"`
	Scores         []models.Score         `json:"scores"`
	CarAttribution *models.CarAttribution `json:"car_attribution,omitempty"`
	MapAssignment  *models.MapAssignment  `json:"map_assignment,omitempty"`
}

// raceTransitions is the complete legal transition table. Anything
// outside it, including PENDING -> COMPLETED, is an error.
var raceTransitions = map[models.RaceStatus]models.RaceStatus{
	models.RacePending:    models.RaceInProgress,
	models.RaceInProgress: models.RaceCompleted,
}

// ValidateTransition checks a race status change against the strict
// linear lifecycle.
func ValidateTransition(from, to models.RaceStatus) error {
	if next, ok := raceTransitions[from]; ok && next == to {
		return nil
	}
	return &InvalidStateTransitionError{From: from, To: to}
}

// loadRaceAndParty fetches a race and its owning party fresh; both are
// re-read on every mutation so decisions never run against stale state.
func (s *RaceService) loadRaceAndParty(ctx context.Context, raceID int64) (*models.Race, *models.Party, error) {
	race, err := s.repo.GetRace(ctx, raceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, &NotFoundError{Entity: "race", ID: raceID}
	}
	if err != nil {
		return nil, nil, err
	}

	party, err := s.repo.GetParty(ctx, race.PartyID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, &NotFoundError{Entity: "party", ID: race.PartyID}
	}
	if err != nil {
		return nil, nil, err
	}
	return race, party, nil
}

// CreateRace creates a PENDING race under an actionable party. When the
// party already has an open race, a concurrent or repeated create
// reuses it rather than failing.
func (s *RaceService) CreateRace(ctx context.Context, principal *authz.Principal, partyID int64) (*models.Race, error) {
	party, err := s.repo.GetParty(ctx, partyID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Entity: "party", ID: partyID}
	}
	if err != nil {
		return nil, err
	}

	if err := requireActionable(party, s.now()); err != nil {
		return nil, err
	}

	role, err := memberRole(ctx, s.repo, partyID, principal)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(principal, authz.ActionCreateRace, role); err != nil {
		return nil, err
	}

	raceID, err := s.repo.CreateRace(ctx, partyID)
	if errors.Is(err, repository.ErrDuplicate) {
		return s.openRace(ctx, partyID)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("Race created", "race_id", raceID, "party_id", partyID)
	race, err := s.repo.GetRace(ctx, raceID)
	if err != nil {
		return nil, err
	}
	broadcast(s.broadcaster, EventRaceUpdated, race)
	return race, nil
}

// EnsureRace guarantees an actionable party has a race: today's party
// always has one. Safe under concurrent callers; a duplicate-create
// conflict falls back to the race that won.
func (s *RaceService) EnsureRace(ctx context.Context, party *models.Party) (*models.Race, error) {
	races, err := s.repo.ListRacesByParty(ctx, party.ID)
	if err != nil {
		return nil, err
	}
	if current := SelectCurrentRace(races); current != nil {
		return current, nil
	}
	if err := requireActionable(party, s.now()); err != nil {
		return nil, err
	}

	raceID, err := s.repo.CreateRace(ctx, party.ID)
	if errors.Is(err, repository.ErrDuplicate) {
		return s.openRace(ctx, party.ID)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("Race auto-created", "race_id", raceID, "party_id", party.ID)
	return s.repo.GetRace(ctx, raceID)
}

// openRace returns the party's open (PENDING or IN_PROGRESS) race.
func (s *RaceService) openRace(ctx context.Context, partyID int64) (*models.Race, error) {
	races, err := s.repo.ListRacesByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	for i := range races {
		if races[i].Status == models.RacePending || races[i].Status == models.RaceInProgress {
			return &races[i], nil
		}
	}
	return nil, &NotFoundError{Entity: "race", ID: partyID}
}

// transition applies one step of the race lifecycle under the full
// facade ordering: fresh load, actionability, authorization, pure
// validation, guarded persist.
func (s *RaceService) transition(ctx context.Context, principal *authz.Principal, raceID int64, to models.RaceStatus, action authz.Action) (*models.Race, error) {
	race, party, err := s.loadRaceAndParty(ctx, raceID)
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

	if err := ValidateTransition(race.Status, to); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRaceStatus(ctx, race.ID, race.Status, to); err != nil {
		return nil, err
	}

	race.Status = to
	s.log.Info("Race transitioned", "race_id", race.ID, "status", to)
	broadcast(s.broadcaster, EventRaceUpdated, race)
	return race, nil
}

// StartRace moves a PENDING race to IN_PROGRESS
func (s *RaceService) StartRace(ctx context.Context, principal *authz.Principal, raceID int64) (*models.Race, error) {
	return s.transition(ctx, principal, raceID, models.RaceInProgress, authz.ActionStartRace)
}

// CompleteRace moves an IN_PROGRESS race to COMPLETED
func (s *RaceService) CompleteRace(ctx context.Context, principal *authz.Principal, raceID int64) (*models.Race, error) {
	return s.transition(ctx, principal, raceID, models.RaceCompleted, authz.ActionCompleteRace)
}

// AddParticipants appends racers to a race. Racers already present are
// no-ops, not errors.
func (s *RaceService) AddParticipants(ctx context.Context, principal *authz.Principal, raceID int64, userIDs []int64) (*models.Race, error) {
	if len(userIDs) == 0 {
		return nil, ErrNoRacersGiven
	}

	race, party, err := s.loadRaceAndParty(ctx, raceID)
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
	if err := authz.Require(principal, authz.ActionAddRacers, role); err != nil {
		return nil, err
	}

	if err := s.repo.AddRacers(ctx, race.ID, userIDs); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetRace(ctx, raceID)
	if err != nil {
		return nil, err
	}
	broadcast(s.broadcaster, EventRaceUpdated, updated)
	return updated, nil
}

// CurrentRace returns the party's current race with scores and draws
func (s *RaceService) CurrentRace(ctx context.Context, partyID int64) (*RaceDetail, error) {
	races, err := s.repo.ListRacesByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	race := SelectCurrentRace(races)
	if race == nil {
		return nil, &NotFoundError{Entity: "race", ID: partyID}
	}

	// Racer list is not populated by the list query
	full, err := s.repo.GetRace(ctx, race.ID)
	if err != nil {
		return nil, err
	}
	return s.raceDetail(ctx, full)
}

// GetRace returns one race with scores and draws
func (s *RaceService) GetRace(ctx context.Context, raceID int64) (*RaceDetail, error) {
	race, err := s.repo.GetRace(ctx, raceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Entity: "race", ID: raceID}
	}
	if err != nil {
		return nil, err
	}
	return s.raceDetail(ctx, race)
}

func (s *RaceService) raceDetail(ctx context.Context, race *models.Race) (*RaceDetail, error) {
	scores, err := s.repo.ListScoresByRace(ctx, race.ID)
	if err != nil {
		return nil, err
	}
	attribution, err := s.repo.GetCarAttribution(ctx, race.ID)
	if err != nil {
		return nil, err
	}
	mapAssignment, err := s.repo.GetMapAssignment(ctx, race.ID)
	if err != nil {
		return nil, err
	}

	return &RaceDetail{
		Race:           *race,
		Scores:         scores,
		CarAttribution: attribution,
		MapAssignment:  mapAssignment,
	}, nil
}
