package mock

import (
	"context"

	"github.com/abrezinsky/racenight/internal/models"
	"github.com/abrezinsky/racenight/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.CreateRaceError = errors.New("database error")
//	svc := services.NewRaceService(log, mockRepo)
//	_, err := svc.CreateRace(ctx, principal, partyID)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Party Errors =====
	GetPartyError           error
	GetPartyByDateError     error
	GetPartyByJoinCodeError error
	CreatePartyError        error
	SetPartyActiveError     error
	ListPartiesError        error

	// ===== Member Errors =====
	ListMembersError   error
	GetMemberError     error
	AddMemberError     error
	SetMemberRoleError error
	RemoveMemberError  error
	SwapHostError      error

	// ===== Race Errors =====
	GetRaceError               error
	ListRacesByPartyError      error
	CreateRaceError            error
	UpdateRaceStatusError      error
	AddRacersError             error
	ReplaceCarAttributionError error
	GetCarAttributionError     error
	SetMapAssignmentError      error
	GetMapAssignmentError      error

	// ===== Score Errors =====
	UpsertScoreError      error
	ListScoresByRaceError error

	// ===== Catalog Errors =====
	ListActiveCarsError error
	ListActiveMapsError error
	CreateCarError      error
	CreateMapError      error

	// ===== User Errors =====
	GetUserError            error
	GetUserByEmailError     error
	ListUsersError          error
	UpsertUserError         error
	SetUserRoleError        error
	SetUserPermissionsError error
	DeleteUserError         error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

func (m *Repository) GetParty(ctx context.Context, id int64) (*models.Party, error) {
	if m.GetPartyError != nil {
		return nil, m.GetPartyError
	}
	return m.FullRepository.GetParty(ctx, id)
}

func (m *Repository) GetPartyByDate(ctx context.Context, date string) (*models.Party, error) {
	if m.GetPartyByDateError != nil {
		return nil, m.GetPartyByDateError
	}
	return m.FullRepository.GetPartyByDate(ctx, date)
}

func (m *Repository) GetPartyByJoinCode(ctx context.Context, code string) (*models.Party, error) {
	if m.GetPartyByJoinCodeError != nil {
		return nil, m.GetPartyByJoinCodeError
	}
	return m.FullRepository.GetPartyByJoinCode(ctx, code)
}

func (m *Repository) CreateParty(ctx context.Context, date, joinCode string, hostID int64) (int64, error) {
	if m.CreatePartyError != nil {
		return 0, m.CreatePartyError
	}
	return m.FullRepository.CreateParty(ctx, date, joinCode, hostID)
}

func (m *Repository) SetPartyActive(ctx context.Context, id int64, active bool) error {
	if m.SetPartyActiveError != nil {
		return m.SetPartyActiveError
	}
	return m.FullRepository.SetPartyActive(ctx, id, active)
}

func (m *Repository) ListParties(ctx context.Context) ([]models.Party, error) {
	if m.ListPartiesError != nil {
		return nil, m.ListPartiesError
	}
	return m.FullRepository.ListParties(ctx)
}

func (m *Repository) ListMembers(ctx context.Context, partyID int64) ([]models.PartyMember, error) {
	if m.ListMembersError != nil {
		return nil, m.ListMembersError
	}
	return m.FullRepository.ListMembers(ctx, partyID)
}

func (m *Repository) GetMember(ctx context.Context, partyID, userID int64) (*models.PartyMember, error) {
	if m.GetMemberError != nil {
		return nil, m.GetMemberError
	}
	return m.FullRepository.GetMember(ctx, partyID, userID)
}

func (m *Repository) AddMember(ctx context.Context, partyID, userID int64, role models.Role) error {
	if m.AddMemberError != nil {
		return m.AddMemberError
	}
	return m.FullRepository.AddMember(ctx, partyID, userID, role)
}

func (m *Repository) SetMemberRole(ctx context.Context, partyID, userID int64, role models.Role) error {
	if m.SetMemberRoleError != nil {
		return m.SetMemberRoleError
	}
	return m.FullRepository.SetMemberRole(ctx, partyID, userID, role)
}

func (m *Repository) RemoveMember(ctx context.Context, partyID, userID int64) error {
	if m.RemoveMemberError != nil {
		return m.RemoveMemberError
	}
	return m.FullRepository.RemoveMember(ctx, partyID, userID)
}

func (m *Repository) SwapHost(ctx context.Context, partyID, fromUserID, toUserID int64) error {
	if m.SwapHostError != nil {
		return m.SwapHostError
	}
	return m.FullRepository.SwapHost(ctx, partyID, fromUserID, toUserID)
}

func (m *Repository) GetRace(ctx context.Context, id int64) (*models.Race, error) {
	if m.GetRaceError != nil {
		return nil, m.GetRaceError
	}
	return m.FullRepository.GetRace(ctx, id)
}

func (m *Repository) ListRacesByParty(ctx context.Context, partyID int64) ([]models.Race, error) {
	if m.ListRacesByPartyError != nil {
		return nil, m.ListRacesByPartyError
	}
	return m.FullRepository.ListRacesByParty(ctx, partyID)
}

func (m *Repository) CreateRace(ctx context.Context, partyID int64) (int64, error) {
	if m.CreateRaceError != nil {
		return 0, m.CreateRaceError
	}
	return m.FullRepository.CreateRace(ctx, partyID)
}

func (m *Repository) UpdateRaceStatus(ctx context.Context, id int64, from, to models.RaceStatus) error {
	if m.UpdateRaceStatusError != nil {
		return m.UpdateRaceStatusError
	}
	return m.FullRepository.UpdateRaceStatus(ctx, id, from, to)
}

func (m *Repository) AddRacers(ctx context.Context, raceID int64, userIDs []int64) error {
	if m.AddRacersError != nil {
		return m.AddRacersError
	}
	return m.FullRepository.AddRacers(ctx, raceID, userIDs)
}

func (m *Repository) ReplaceCarAttribution(ctx context.Context, raceID int64, mode models.AttributionMode, entries []models.CarAssignment) error {
	if m.ReplaceCarAttributionError != nil {
		return m.ReplaceCarAttributionError
	}
	return m.FullRepository.ReplaceCarAttribution(ctx, raceID, mode, entries)
}

func (m *Repository) GetCarAttribution(ctx context.Context, raceID int64) (*models.CarAttribution, error) {
	if m.GetCarAttributionError != nil {
		return nil, m.GetCarAttributionError
	}
	return m.FullRepository.GetCarAttribution(ctx, raceID)
}

func (m *Repository) SetMapAssignment(ctx context.Context, raceID, mapID int64) error {
	if m.SetMapAssignmentError != nil {
		return m.SetMapAssignmentError
	}
	return m.FullRepository.SetMapAssignment(ctx, raceID, mapID)
}

func (m *Repository) GetMapAssignment(ctx context.Context, raceID int64) (*models.MapAssignment, error) {
	if m.GetMapAssignmentError != nil {
		return nil, m.GetMapAssignmentError
	}
	return m.FullRepository.GetMapAssignment(ctx, raceID)
}

func (m *Repository) UpsertScore(ctx context.Context, raceID, userID int64, value float64) error {
	if m.UpsertScoreError != nil {
		return m.UpsertScoreError
	}
	return m.FullRepository.UpsertScore(ctx, raceID, userID, value)
}

func (m *Repository) ListScoresByRace(ctx context.Context, raceID int64) ([]models.Score, error) {
	if m.ListScoresByRaceError != nil {
		return nil, m.ListScoresByRaceError
	}
	return m.FullRepository.ListScoresByRace(ctx, raceID)
}

func (m *Repository) ListActiveCars(ctx context.Context) ([]models.Car, error) {
	if m.ListActiveCarsError != nil {
		return nil, m.ListActiveCarsError
	}
	return m.FullRepository.ListActiveCars(ctx)
}

func (m *Repository) ListActiveMaps(ctx context.Context) ([]models.GameMap, error) {
	if m.ListActiveMapsError != nil {
		return nil, m.ListActiveMapsError
	}
	return m.FullRepository.ListActiveMaps(ctx)
}

func (m *Repository) CreateCar(ctx context.Context, name string) (int64, error) {
	if m.CreateCarError != nil {
		return 0, m.CreateCarError
	}
	return m.FullRepository.CreateCar(ctx, name)
}

func (m *Repository) CreateMap(ctx context.Context, name string) (int64, error) {
	if m.CreateMapError != nil {
		return 0, m.CreateMapError
	}
	return m.FullRepository.CreateMap(ctx, name)
}

func (m *Repository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if m.GetUserError != nil {
		return nil, m.GetUserError
	}
	return m.FullRepository.GetUser(ctx, id)
}

func (m *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetUserByEmailError != nil {
		return nil, m.GetUserByEmailError
	}
	return m.FullRepository.GetUserByEmail(ctx, email)
}

func (m *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.ListUsersError != nil {
		return nil, m.ListUsersError
	}
	return m.FullRepository.ListUsers(ctx)
}

func (m *Repository) UpsertUser(ctx context.Context, name, email string) (int64, error) {
	if m.UpsertUserError != nil {
		return 0, m.UpsertUserError
	}
	return m.FullRepository.UpsertUser(ctx, name, email)
}

func (m *Repository) SetUserRole(ctx context.Context, id int64, role string) error {
	if m.SetUserRoleError != nil {
		return m.SetUserRoleError
	}
	return m.FullRepository.SetUserRole(ctx, id, role)
}

func (m *Repository) SetUserPermissions(ctx context.Context, id int64, permissions []string) error {
	if m.SetUserPermissionsError != nil {
		return m.SetUserPermissionsError
	}
	return m.FullRepository.SetUserPermissions(ctx, id, permissions)
}

func (m *Repository) DeleteUser(ctx context.Context, id int64) error {
	if m.DeleteUserError != nil {
		return m.DeleteUserError
	}
	return m.FullRepository.DeleteUser(ctx, id)
}
