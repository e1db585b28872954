package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/services"
)

// TestProvision_IdempotentByEmail tests that repeated logins reuse the
// same account
func TestProvision_IdempotentByEmail(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	first, err := svc.users.Provision(ctx, "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}
	again, err := svc.users.Provision(ctx, "Ada L", "ada@example.com")
	if err != nil {
		t.Fatalf("second Provision failed: %v", err)
	}

	if first.ID != again.ID {
		t.Errorf("expected same account, got %d and %d", first.ID, again.ID)
	}
}

// TestGetMe tests self-lookup and the nil-principal denial
func TestGetMe(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	user, err := svc.users.Provision(ctx, "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}

	me, err := svc.users.GetMe(ctx, principal(user.ID))
	if err != nil {
		t.Fatalf("GetMe failed: %v", err)
	}
	if me.Email != "ada@example.com" {
		t.Errorf("unexpected account: %+v", me)
	}

	if _, err := svc.users.GetMe(ctx, nil); !errors.Is(err, authz.ErrDenied) {
		t.Errorf("expected denial for nil principal, got %v", err)
	}
}

// TestListUsers_RequiresPermission tests the view-all-users gate
func TestListUsers_RequiresPermission(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	if _, err := svc.users.ListUsers(ctx, principal(1)); !errors.Is(err, authz.ErrDenied) {
		t.Errorf("expected denial, got %v", err)
	}

	p := principal(1, string(authz.PermissionViewAllUsers))
	if _, err := svc.users.ListUsers(ctx, p); err != nil {
		t.Errorf("expected VIEW_ALL_USERS to suffice, got %v", err)
	}
}

// TestSetPermissions_RoundTrip tests storing and reading grants
func TestSetPermissions_RoundTrip(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	user, err := svc.users.Provision(ctx, "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}

	grants := []string{string(authz.PermissionManageParties), string(authz.PermissionViewScore)}
	if err := svc.users.SetPermissions(ctx, admin(99), user.ID, grants); err != nil {
		t.Fatalf("SetPermissions failed: %v", err)
	}

	me, err := svc.users.GetMe(ctx, principal(user.ID))
	if err != nil {
		t.Fatalf("GetMe failed: %v", err)
	}
	if len(me.Permissions) != 2 {
		t.Errorf("expected 2 permissions, got %v", me.Permissions)
	}
}

// TestSetRole_RequiresPermission tests the assign-roles gate
func TestSetRole_RequiresPermission(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	user, err := svc.users.Provision(ctx, "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}

	if err := svc.users.SetRole(ctx, principal(1), user.ID, "admin"); !errors.Is(err, authz.ErrDenied) {
		t.Errorf("expected denial, got %v", err)
	}
	if err := svc.users.SetRole(ctx, admin(99), user.ID, "admin"); err != nil {
		t.Errorf("SetRole as admin failed: %v", err)
	}
}

// TestDeleteUser tests deletion, the self-delete guard, and not-found
func TestDeleteUser(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	user, err := svc.users.Provision(ctx, "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}

	if err := svc.users.DeleteUser(ctx, admin(user.ID), user.ID); !errors.Is(err, services.ErrSelfDelete) {
		t.Errorf("expected ErrSelfDelete, got %v", err)
	}

	if err := svc.users.DeleteUser(ctx, admin(99), user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	err = svc.users.DeleteUser(ctx, admin(99), user.ID)
	var notFound *services.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}
