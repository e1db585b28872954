package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/services"
)

// TestSettings_Defaults tests the unset-setting defaults
func TestSettings_Defaults(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	open, err := svc.settings.IsJoinOpen(ctx)
	if err != nil {
		t.Fatalf("IsJoinOpen failed: %v", err)
	}
	if !open {
		t.Error("expected joining to default to open")
	}

	baseURL, err := svc.settings.GetBaseURL(ctx)
	if err != nil {
		t.Fatalf("GetBaseURL failed: %v", err)
	}
	if baseURL != services.DefaultBaseURL {
		t.Errorf("expected default base URL, got %s", baseURL)
	}
}

// TestSettings_JoinOpenRoundTrip tests closing and reopening joining
func TestSettings_JoinOpenRoundTrip(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	if err := svc.settings.SetJoinOpen(ctx, admin(1), false); err != nil {
		t.Fatalf("SetJoinOpen failed: %v", err)
	}
	open, err := svc.settings.IsJoinOpen(ctx)
	if err != nil {
		t.Fatalf("IsJoinOpen failed: %v", err)
	}
	if open {
		t.Error("expected joining to be closed")
	}

	if err := svc.settings.SetJoinOpen(ctx, admin(1), true); err != nil {
		t.Fatalf("SetJoinOpen failed: %v", err)
	}
	open, err = svc.settings.IsJoinOpen(ctx)
	if err != nil {
		t.Fatalf("IsJoinOpen failed: %v", err)
	}
	if !open {
		t.Error("expected joining to be open again")
	}
}

// TestSettings_SetRequiresPermission tests the write gate
func TestSettings_SetRequiresPermission(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	if err := svc.settings.SetJoinOpen(ctx, principal(5), false); !errors.Is(err, authz.ErrDenied) {
		t.Errorf("expected denial, got %v", err)
	}
	if err := svc.settings.SetBaseURL(ctx, nil, "https://example.com"); !errors.Is(err, authz.ErrDenied) {
		t.Errorf("expected denial for nil principal, got %v", err)
	}
}

// TestSettings_BaseURLTrimsSlash tests trailing-slash normalization
func TestSettings_BaseURLTrimsSlash(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	if err := svc.settings.SetBaseURL(ctx, admin(1), "https://race.example.com/ "); err != nil {
		t.Fatalf("SetBaseURL failed: %v", err)
	}
	baseURL, err := svc.settings.GetBaseURL(ctx)
	if err != nil {
		t.Fatalf("GetBaseURL failed: %v", err)
	}
	if baseURL != "https://race.example.com" {
		t.Errorf("expected trimmed URL, got %q", baseURL)
	}
}
