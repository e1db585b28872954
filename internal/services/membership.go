package services

import (
	"context"
	"errors"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/logger"
	"github.com/abrezinsky/racenight/internal/models"
	"github.com/abrezinsky/racenight/internal/repository"
)

// MembershipServiceRepository defines the repository methods needed by MembershipService
type MembershipServiceRepository interface {
	repository.PartyRepository
	repository.MemberRepository
}

// MembershipService applies party-role transitions: promote, demote,
// remove, and ownership transfer. Every transition is decided by the
// pure rules in the authz package and either fully applies or not at
// all; the one-HOST invariant holds at all times.
type MembershipService struct {
	log         logger.Logger
	repo        MembershipServiceRepository
	broadcaster Broadcaster
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(log logger.Logger, repo MembershipServiceRepository) *MembershipService {
	return &MembershipService{
		log:  log,
		repo: repo,
	}
}

// SetBroadcaster wires the live-update hub
func (s *MembershipService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// loadRoles resolves the actor's and target's membership rows.
func (s *MembershipService) loadRoles(ctx context.Context, partyID int64, principal *authz.Principal, targetUserID int64) (actor models.Role, target models.Role, err error) {
	if _, err := s.repo.GetParty(ctx, partyID); errors.Is(err, repository.ErrNotFound) {
		return "", "", &NotFoundError{Entity: "party", ID: partyID}
	} else if err != nil {
		return "", "", err
	}

	actor, err = memberRole(ctx, s.repo, partyID, principal)
	if err != nil {
		return "", "", err
	}

	targetMember, err := s.repo.GetMember(ctx, partyID, targetUserID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", "", &NotFoundError{Entity: "member", ID: targetUserID}
	}
	if err != nil {
		return "", "", err
	}
	return actor, targetMember.Role, nil
}

// Promote raises a PARTICIPANT to CO_HOST
func (s *MembershipService) Promote(ctx context.Context, principal *authz.Principal, partyID, targetUserID int64) (*models.PartyMember, error) {
	actor, target, err := s.loadRoles(ctx, partyID, principal, targetUserID)
	if err != nil {
		return nil, err
	}

	if err := authz.Require(principal, authz.ActionManageMembers, actor); err != nil {
		return nil, err
	}
	if err := authz.CanPromote(actor, target); err != nil {
		return nil, err
	}

	if err := s.repo.SetMemberRole(ctx, partyID, targetUserID, models.RoleCoHost); err != nil {
		return nil, err
	}

	s.log.Info("Member promoted", "party_id", partyID, "user_id", targetUserID)
	return s.finishMemberChange(ctx, partyID, targetUserID)
}

// Demote lowers a CO_HOST to PARTICIPANT
func (s *MembershipService) Demote(ctx context.Context, principal *authz.Principal, partyID, targetUserID int64) (*models.PartyMember, error) {
	actor, target, err := s.loadRoles(ctx, partyID, principal, targetUserID)
	if err != nil {
		return nil, err
	}

	if err := authz.Require(principal, authz.ActionManageMembers, actor); err != nil {
		return nil, err
	}
	if err := authz.CanDemote(actor, target); err != nil {
		return nil, err
	}

	if err := s.repo.SetMemberRole(ctx, partyID, targetUserID, models.RoleParticipant); err != nil {
		return nil, err
	}

	s.log.Info("Member demoted", "party_id", partyID, "user_id", targetUserID)
	return s.finishMemberChange(ctx, partyID, targetUserID)
}

// Remove removes a member from the party. A HOST may remove anyone but
// itself; a CO_HOST may remove only PARTICIPANTs.
func (s *MembershipService) Remove(ctx context.Context, principal *authz.Principal, partyID, targetUserID int64) error {
	actor, target, err := s.loadRoles(ctx, partyID, principal, targetUserID)
	if err != nil {
		return err
	}

	if err := authz.Require(principal, authz.ActionRemoveMember, actor); err != nil {
		return err
	}
	removingSelf := principal != nil && principal.ID == targetUserID
	if err := authz.CanRemove(actor, target, removingSelf); err != nil {
		return err
	}

	if err := s.repo.RemoveMember(ctx, partyID, targetUserID); err != nil {
		return err
	}

	s.log.Info("Member removed", "party_id", partyID, "user_id", targetUserID)
	broadcast(s.broadcaster, EventMemberUpdated, map[string]interface{}{
		"party_id": partyID,
		"user_id":  targetUserID,
		"removed":  true,
	})
	return nil
}

// TransferOwnership hands HOST to another member; the former HOST
// becomes CO_HOST. The swap is atomic: exactly one HOST exists before
// and after.
func (s *MembershipService) TransferOwnership(ctx context.Context, principal *authz.Principal, partyID, targetUserID int64) (*models.PartyMember, error) {
	actor, target, err := s.loadRoles(ctx, partyID, principal, targetUserID)
	if err != nil {
		return nil, err
	}

	if err := authz.Require(principal, authz.ActionManageMembers, actor); err != nil {
		return nil, err
	}
	transferringToSelf := principal != nil && principal.ID == targetUserID
	if err := authz.CanTransferOwnership(actor, target, transferringToSelf); err != nil {
		return nil, err
	}

	if err := s.repo.SwapHost(ctx, partyID, principal.ID, targetUserID); err != nil {
		return nil, err
	}

	s.log.Info("Ownership transferred", "party_id", partyID, "from", principal.ID, "to", targetUserID)
	return s.finishMemberChange(ctx, partyID, targetUserID)
}

func (s *MembershipService) finishMemberChange(ctx context.Context, partyID, userID int64) (*models.PartyMember, error) {
	member, err := s.repo.GetMember(ctx, partyID, userID)
	if err != nil {
		return nil, err
	}
	broadcast(s.broadcaster, EventMemberUpdated, member)
	return member, nil
}
