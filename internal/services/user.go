package services

import (
	"context"
	"errors"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/logger"
	"github.com/abrezinsky/racenight/internal/models"
	"github.com/abrezinsky/racenight/internal/repository"
)

// UserService manages user accounts and their global grants
type UserService struct {
	log  logger.Logger
	repo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(log logger.Logger, repo repository.UserRepository) *UserService {
	return &UserService{log: log, repo: repo}
}

// GetMe returns the account behind the principal
func (s *UserService) GetMe(ctx context.Context, principal *authz.Principal) (*models.User, error) {
	if principal == nil {
		return nil, &authz.DeniedError{Action: "get_me", Reason: authz.ReasonNoPrincipal}
	}
	user, err := s.repo.GetUser(ctx, principal.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Entity: "user", ID: principal.ID}
	}
	return user, err
}

// Provision finds or creates the account for a verified login and
// returns it with its stored role and permissions.
func (s *UserService) Provision(ctx context.Context, name, email string) (*models.User, error) {
	id, err := s.repo.UpsertUser(ctx, name, email)
	if err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, id)
}

// ListUsers returns all accounts
func (s *UserService) ListUsers(ctx context.Context, principal *authz.Principal) ([]models.User, error) {
	if err := authz.Require(principal, authz.ActionViewAllUsers, ""); err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx)
}

// SetRole changes an account's global role
func (s *UserService) SetRole(ctx context.Context, principal *authz.Principal, userID int64, role string) error {
	if err := authz.Require(principal, authz.ActionAssignRoles, ""); err != nil {
		return err
	}
	err := s.repo.SetUserRole(ctx, userID, role)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: "user", ID: userID}
	}
	if err == nil {
		s.log.Info("User role updated", "user_id", userID, "role", role)
	}
	return err
}

// SetPermissions replaces an account's global permission grants
func (s *UserService) SetPermissions(ctx context.Context, principal *authz.Principal, userID int64, permissions []string) error {
	if err := authz.Require(principal, authz.ActionAssignRoles, ""); err != nil {
		return err
	}
	err := s.repo.SetUserPermissions(ctx, userID, permissions)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: "user", ID: userID}
	}
	if err == nil {
		s.log.Info("User permissions updated", "user_id", userID, "count", len(permissions))
	}
	return err
}

// DeleteUser removes an account
func (s *UserService) DeleteUser(ctx context.Context, principal *authz.Principal, userID int64) error {
	if err := authz.Require(principal, authz.ActionDeleteUser, ""); err != nil {
		return err
	}
	if principal.ID == userID {
		return ErrSelfDelete
	}
	err := s.repo.DeleteUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: "user", ID: userID}
	}
	if err == nil {
		s.log.Info("User deleted", "user_id", userID)
	}
	return err
}
