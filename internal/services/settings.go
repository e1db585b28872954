package services

import (
	"context"
	"strings"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/logger"
	"github.com/abrezinsky/racenight/internal/repository"
)

// Setting keys.
const (
	SettingJoinOpen = "join_open"
	SettingBaseURL  = "base_url"
)

// DefaultBaseURL is used for join links until an admin configures one.
const DefaultBaseURL = "http://localhost:8080"

// SettingsService manages application-wide settings
type SettingsService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// GetSetting returns the raw value for a key, or "" when unset
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.repo.GetSetting(ctx, key)
}

// SetSetting stores a raw setting value
func (s *SettingsService) SetSetting(ctx context.Context, principal *authz.Principal, key, value string) error {
	if err := authz.Require(principal, authz.ActionManageParties, ""); err != nil {
		return err
	}
	s.log.Info("Setting updated", "key", key)
	return s.repo.SetSetting(ctx, key, value)
}

// IsJoinOpen reports whether new members may join parties.
// Defaults to open when the setting has never been written.
func (s *SettingsService) IsJoinOpen(ctx context.Context) (bool, error) {
	v, err := s.repo.GetSetting(ctx, SettingJoinOpen)
	if err != nil {
		return false, err
	}
	if v == "" {
		return true, nil
	}
	return v == "true", nil
}

// SetJoinOpen opens or closes party joining
func (s *SettingsService) SetJoinOpen(ctx context.Context, principal *authz.Principal, open bool) error {
	value := "false"
	if open {
		value = "true"
	}
	return s.SetSetting(ctx, principal, SettingJoinOpen, value)
}

// GetBaseURL returns the externally reachable base URL used in join links
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	v, err := s.repo.GetSetting(ctx, SettingBaseURL)
	if err != nil {
		return "", err
	}
	if v == "" {
		return DefaultBaseURL, nil
	}
	return strings.TrimRight(v, "/"), nil
}

// SetBaseURL stores the base URL for join links
func (s *SettingsService) SetBaseURL(ctx context.Context, principal *authz.Principal, url string) error {
	return s.SetSetting(ctx, principal, SettingBaseURL, strings.TrimRight(strings.TrimSpace(url), "/"))
}
