package services

import (
	"context"
	"time"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/logger"
	"github.com/abrezinsky/racenight/internal/models"
	"github.com/abrezinsky/racenight/internal/repository"
)

// ScoreServiceRepository defines the repository methods needed by ScoreService
type ScoreServiceRepository interface {
	repository.PartyRepository
	repository.MemberRepository
	repository.RaceRepository
	repository.ScoreRepository
}

// ScoreService records race results. Scores are keyed by (race, user):
// recording twice overwrites, it never duplicates.
type ScoreService struct {
	log         logger.Logger
	repo        ScoreServiceRepository
	races       *RaceService
	broadcaster Broadcaster
	now         nowFunc
}

// NewScoreService creates a new ScoreService
func NewScoreService(log logger.Logger, repo ScoreServiceRepository, races *RaceService) *ScoreService {
	return &ScoreService{
		log:   log,
		repo:  repo,
		races: races,
		now:   time.Now,
	}
}

// SetBroadcaster wires the live-update hub
func (s *ScoreService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetNowFunc overrides the clock (for testing)
func (s *ScoreService) SetNowFunc(f func() time.Time) {
	s.now = f
}

// RecordScore upserts a racer's score. Participants may record their
// own score; recording for someone else takes CO_HOST or better.
func (s *ScoreService) RecordScore(ctx context.Context, principal *authz.Principal, raceID, userID int64, value float64) (*models.Score, error) {
	race, party, err := s.races.loadRaceAndParty(ctx, raceID)
	if err != nil {
		return nil, err
	}

	if err := requireActionable(party, s.now()); err != nil {
		return nil, err
	}

	if !isRacer(race, userID) {
		return nil, ErrNotARacer
	}

	action := authz.ActionRecordScore
	if principal != nil && principal.ID == userID {
		action = authz.ActionRecordOwnScore
	}
	role, err := memberRole(ctx, s.repo, party.ID, principal)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(principal, action, role); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertScore(ctx, raceID, userID, value); err != nil {
		return nil, err
	}

	s.log.Info("Score recorded", "race_id", raceID, "user_id", userID, "value", value)
	score := &models.Score{RaceID: raceID, UserID: userID, Value: value}
	broadcast(s.broadcaster, EventScoreRecorded, score)
	return score, nil
}

// ListScores returns a race's scores, best first
func (s *ScoreService) ListScores(ctx context.Context, raceID int64) ([]models.Score, error) {
	if _, _, err := s.races.loadRaceAndParty(ctx, raceID); err != nil {
		return nil, err
	}
	return s.repo.ListScoresByRace(ctx, raceID)
}

func isRacer(race *models.Race, userID int64) bool {
	for _, id := range race.Racers {
		if id == userID {
			return true
		}
	}
	return false
}
