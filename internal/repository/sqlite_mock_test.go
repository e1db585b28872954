package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/abrezinsky/racenight/internal/models"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Repository{db: db}, mock
}

// TestListParties_QueryError tests the query failure path
func TestListParties_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM parties").WillReturnError(errors.New("db closed"))

	if _, err := repo.ListParties(ctx); err == nil {
		t.Error("expected error from query failure, got nil")
	}
}

// TestListParties_ScanError tests row scanning error
func TestListParties_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "scheduled_date", "active", "join_code", "created_at"}).
		AddRow("bad-id", "2026-03-14", true, "abc", nil)

	mock.ExpectQuery("SELECT (.+) FROM parties").WillReturnRows(rows)

	if _, err := repo.ListParties(ctx); err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

// TestCreateParty_MemberInsertError tests that the transaction fails
// when the host row cannot be inserted
func TestCreateParty_MemberInsertError(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO parties").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO party_members").
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	if _, err := repo.CreateParty(ctx, "2026-03-14", "abc", 7); err == nil {
		t.Error("expected error from member insert failure, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestUpdateRaceStatus_ExecError tests the exec failure path
func TestUpdateRaceStatus_ExecError(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec("UPDATE races SET status").
		WillReturnError(errors.New("db closed"))

	err := repo.UpdateRaceStatus(ctx, 1, models.RacePending, models.RaceInProgress)
	if err == nil {
		t.Error("expected error from exec failure, got nil")
	}
}

// TestReplaceCarAttribution_DeleteError tests rollback when clearing
// the previous draw fails
func TestReplaceCarAttribution_DeleteError(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM race_cars").
		WillReturnError(errors.New("db closed"))
	mock.ExpectRollback()

	err := repo.ReplaceCarAttribution(ctx, 1, models.AttributionGlobal, []models.CarAssignment{{CarID: 1}})
	if err == nil {
		t.Error("expected error from delete failure, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestGetUser_BadPermissionsJSON tests that corrupt permission data is
// surfaced instead of silently dropped
func TestGetUser_BadPermissionsJSON(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "role", "permissions", "created_at"}).
		AddRow(1, "Ada", "ada@example.com", "user", "{not json", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM users").WillReturnRows(rows)

	if _, err := repo.GetUser(ctx, 1); err == nil {
		t.Error("expected error from corrupt permissions, got nil")
	}
}
