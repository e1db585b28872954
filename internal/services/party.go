package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/logger"
	"github.com/abrezinsky/racenight/internal/models"
	"github.com/abrezinsky/racenight/internal/repository"
)

// PartyServiceRepository defines the repository methods needed by PartyService
type PartyServiceRepository interface {
	repository.PartyRepository
	repository.MemberRepository
	repository.RaceRepository
}

// PartyService handles party lifecycle and the join flow. Today's party
// is fetched-or-created idempotently; the first caller becomes HOST.
type PartyService struct {
	log         logger.Logger
	repo        PartyServiceRepository
	races       *RaceService
	settings    SettingsServicer
	broadcaster Broadcaster
	now         nowFunc
}

// NewPartyService creates a new PartyService
func NewPartyService(log logger.Logger, repo PartyServiceRepository, races *RaceService, settings SettingsServicer) *PartyService {
	return &PartyService{
		log:      log,
		repo:     repo,
		races:    races,
		settings: settings,
		now:      time.Now,
	}
}

// SetBroadcaster wires the live-update hub
func (s *PartyService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetNowFunc overrides the clock (for testing)
func (s *PartyService) SetNowFunc(f func() time.Time) {
	s.now = f
}

// PartyDetail is a party with its members, current race, and a fresh
// actionability verdict.
type PartyDetail struct {
	Party         models.Party         `json:"party"`
	Members       []models.PartyMember `json:"members"`
	CurrentRace   *RaceDetail          `json:"current_race,omitempty"`
	Actionability Actionability        `json:"actionability"`
}

// GetOrCreateToday fetches today's party, creating it when none exists.
// Creation is safe under concurrent callers: a duplicate-date conflict
// refetches the party that won. The caller joins as PARTICIPANT (the
// creator becomes HOST), and an actionable party is guaranteed a race.
func (s *PartyService) GetOrCreateToday(ctx context.Context, principal *authz.Principal) (*PartyDetail, error) {
	if principal == nil {
		return nil, &authz.DeniedError{Action: "get_or_create_party", Reason: authz.ReasonNoPrincipal}
	}

	today := s.now().Format(models.DateLayout)
	party, err := s.repo.GetPartyByDate(ctx, today)
	if errors.Is(err, repository.ErrNotFound) {
		party, err = s.createForDate(ctx, today, principal.ID)
	}
	if err != nil {
		return nil, err
	}

	// Joining an existing membership is a no-op; the HOST keeps HOST.
	if err := s.repo.AddMember(ctx, party.ID, principal.ID, models.RoleParticipant); err != nil {
		return nil, err
	}

	if _, err := s.races.EnsureRace(ctx, party); err != nil {
		// A deactivated party still renders; it just gets no new race.
		var notActionable *PartyNotActionableError
		if !errors.As(err, &notActionable) {
			return nil, err
		}
	}

	return s.detail(ctx, party)
}

func (s *PartyService) createForDate(ctx context.Context, date string, hostID int64) (*models.Party, error) {
	id, err := s.repo.CreateParty(ctx, date, uuid.NewString(), hostID)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost the race to a concurrent creator; reuse theirs.
		return s.repo.GetPartyByDate(ctx, date)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("Party created", "party_id", id, "date", date, "host_id", hostID)
	return s.repo.GetParty(ctx, id)
}

// GetParty returns one party with members and current race
func (s *PartyService) GetParty(ctx context.Context, id int64) (*PartyDetail, error) {
	party, err := s.repo.GetParty(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Entity: "party", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, party)
}

// ListParties returns all parties, newest first
func (s *PartyService) ListParties(ctx context.Context) ([]models.Party, error) {
	return s.repo.ListParties(ctx)
}

// ListMembers returns a party's members
func (s *PartyService) ListMembers(ctx context.Context, partyID int64) ([]models.PartyMember, error) {
	if _, err := s.repo.GetParty(ctx, partyID); errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Entity: "party", ID: partyID}
	} else if err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, partyID)
}

// SetActive retires or reinstates a party. Deactivation blocks new
// mutations but never invalidates past races.
func (s *PartyService) SetActive(ctx context.Context, principal *authz.Principal, partyID int64, active bool) (*models.Party, error) {
	if err := authz.Require(principal, authz.ActionManageParties, ""); err != nil {
		return nil, err
	}

	err := s.repo.SetPartyActive(ctx, partyID, active)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Entity: "party", ID: partyID}
	}
	if err != nil {
		return nil, err
	}

	party, err := s.repo.GetParty(ctx, partyID)
	if err != nil {
		return nil, err
	}

	s.log.Info("Party active flag set", "party_id", partyID, "active", active)
	broadcast(s.broadcaster, EventPartyUpdated, party)
	return party, nil
}

// Join adds the caller to the party carrying the join code as a
// PARTICIPANT. Re-joining is a no-op. Joining is itself a mutation, so
// it requires an actionable party and the join setting to be open.
func (s *PartyService) Join(ctx context.Context, principal *authz.Principal, joinCode string) (*PartyDetail, error) {
	if principal == nil {
		return nil, &authz.DeniedError{Action: "join_party", Reason: authz.ReasonNoPrincipal}
	}

	open, err := s.settings.IsJoinOpen(ctx)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, ErrJoinClosed
	}

	party, err := s.repo.GetPartyByJoinCode(ctx, joinCode)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidJoinCode
	}
	if err != nil {
		return nil, err
	}

	if err := requireActionable(party, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.AddMember(ctx, party.ID, principal.ID, models.RoleParticipant); err != nil {
		return nil, err
	}

	s.log.Info("Member joined party", "party_id", party.ID, "user_id", principal.ID)
	broadcast(s.broadcaster, EventMemberUpdated, map[string]interface{}{
		"party_id": party.ID,
		"user_id":  principal.ID,
	})
	return s.detail(ctx, party)
}

// JoinQRImage renders a QR code PNG for the party's join URL
func (s *PartyService) JoinQRImage(ctx context.Context, partyID int64) ([]byte, error) {
	party, err := s.repo.GetParty(ctx, partyID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Entity: "party", ID: partyID}
	}
	if err != nil {
		return nil, err
	}

	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}

	joinURL := fmt.Sprintf("%s/join/%s", baseURL, party.JoinCode)
	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

func (s *PartyService) detail(ctx context.Context, party *models.Party) (*PartyDetail, error) {
	members, err := s.repo.ListMembers(ctx, party.ID)
	if err != nil {
		return nil, err
	}

	detail := &PartyDetail{
		Party:         *party,
		Members:       members,
		Actionability: CheckActionability(party, s.now().Format(models.DateLayout)),
	}

	current, err := s.races.CurrentRace(ctx, party.ID)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	} else {
		detail.CurrentRace = current
	}
	return detail, nil
}
