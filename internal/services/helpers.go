package services

import (
	"context"
	"errors"
	"time"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/models"
	"github.com/abrezinsky/racenight/internal/repository"
)

// Broadcaster pushes live updates to connected clients. Services hold
// it optionally; a nil broadcaster drops events.
type Broadcaster interface {
	BroadcastMessage(msgType string, payload interface{})
}

// Event types pushed over the broadcaster.
const (
	EventPartyUpdated     = "party_updated"
	EventMemberUpdated    = "member_updated"
	EventRaceUpdated      = "race_updated"
	EventScoreRecorded    = "score_recorded"
	EventAttributionDrawn = "attribution_drawn"
)

func broadcast(b Broadcaster, msgType string, payload interface{}) {
	if b != nil {
		b.BroadcastMessage(msgType, payload)
	}
}

// nowFunc supplies the current time; overridable in tests so "today"
// is deterministic.
type nowFunc func() time.Time

// memberRole resolves the principal's party-scoped role. A non-member
// (or nil principal) has no role; the zero Role fails every role gate.
func memberRole(ctx context.Context, repo repository.MemberRepository, partyID int64, p *authz.Principal) (models.Role, error) {
	if p == nil {
		return "", nil
	}
	m, err := repo.GetMember(ctx, partyID, p.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return m.Role, nil
}

// SelectCurrentRace picks a party's current race from a newest-first
// race list: the newest PENDING or IN_PROGRESS race, or when every race
// is settled, the newest race regardless of status so history never
// looks empty. Returns nil for an empty list.
func SelectCurrentRace(races []models.Race) *models.Race {
	for i := range races {
		if races[i].Status == models.RacePending || races[i].Status == models.RaceInProgress {
			return &races[i]
		}
	}
	if len(races) > 0 {
		return &races[0]
	}
	return nil
}
