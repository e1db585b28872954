package repository

import (
	"context"

	"github.com/abrezinsky/racenight/internal/models"
)

// PartyRepository defines party data operations
type PartyRepository interface {
	GetParty(ctx context.Context, id int64) (*models.Party, error)
	GetPartyByDate(ctx context.Context, date string) (*models.Party, error)
	GetPartyByJoinCode(ctx context.Context, code string) (*models.Party, error)
	// CreateParty inserts the party and its HOST member in one
	// transaction. Returns ErrDuplicate when a party already exists for
	// the date.
	CreateParty(ctx context.Context, date, joinCode string, hostID int64) (int64, error)
	SetPartyActive(ctx context.Context, id int64, active bool) error
	ListParties(ctx context.Context) ([]models.Party, error)
}

// MemberRepository defines party membership data operations
type MemberRepository interface {
	ListMembers(ctx context.Context, partyID int64) ([]models.PartyMember, error)
	GetMember(ctx context.Context, partyID, userID int64) (*models.PartyMember, error)
	// AddMember is idempotent: adding an existing member is a no-op.
	AddMember(ctx context.Context, partyID, userID int64, role models.Role) error
	SetMemberRole(ctx context.Context, partyID, userID int64, role models.Role) error
	RemoveMember(ctx context.Context, partyID, userID int64) error
	// SwapHost atomically makes toUserID the HOST and demotes
	// fromUserID to CO_HOST, preserving the one-host invariant.
	SwapHost(ctx context.Context, partyID, fromUserID, toUserID int64) error
}

// RaceRepository defines race data operations
type RaceRepository interface {
	GetRace(ctx context.Context, id int64) (*models.Race, error)
	// ListRacesByParty returns races newest first.
	ListRacesByParty(ctx context.Context, partyID int64) ([]models.Race, error)
	// CreateRace returns ErrDuplicate when the party already has an
	// open (non-completed) race.
	CreateRace(ctx context.Context, partyID int64) (int64, error)
	// UpdateRaceStatus applies the transition only if the race is still
	// in the expected from status.
	UpdateRaceStatus(ctx context.Context, id int64, from, to models.RaceStatus) error
	// AddRacers appends racers; already-present racers are no-ops.
	AddRacers(ctx context.Context, raceID int64, userIDs []int64) error
	// ReplaceCarAttribution replaces the race's entire car attribution.
	ReplaceCarAttribution(ctx context.Context, raceID int64, mode models.AttributionMode, entries []models.CarAssignment) error
	// GetCarAttribution returns nil when the race has no attribution.
	GetCarAttribution(ctx context.Context, raceID int64) (*models.CarAttribution, error)
	SetMapAssignment(ctx context.Context, raceID, mapID int64) error
	// GetMapAssignment returns nil when the race has no map.
	GetMapAssignment(ctx context.Context, raceID int64) (*models.MapAssignment, error)
}

// ScoreRepository defines score data operations
type ScoreRepository interface {
	// UpsertScore overwrites the value keyed by (raceID, userID).
	UpsertScore(ctx context.Context, raceID, userID int64, value float64) error
	ListScoresByRace(ctx context.Context, raceID int64) ([]models.Score, error)
}

// CatalogRepository defines car and map catalog data operations
type CatalogRepository interface {
	ListCars(ctx context.Context) ([]models.Car, error)
	ListActiveCars(ctx context.Context) ([]models.Car, error)
	GetCar(ctx context.Context, id int64) (*models.Car, error)
	CreateCar(ctx context.Context, name string) (int64, error)
	SetCarActive(ctx context.Context, id int64, active bool) error
	DeleteCar(ctx context.Context, id int64) error
	ListMaps(ctx context.Context) ([]models.GameMap, error)
	ListActiveMaps(ctx context.Context) ([]models.GameMap, error)
	GetMap(ctx context.Context, id int64) (*models.GameMap, error)
	CreateMap(ctx context.Context, name string) (int64, error)
	SetMapActive(ctx context.Context, id int64, active bool) error
	DeleteMap(ctx context.Context, id int64) error
}

// UserRepository defines user account data operations
type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// UpsertUser provisions an account on first login and returns its id.
	UpsertUser(ctx context.Context, name, email string) (int64, error)
	SetUserRole(ctx context.Context, id int64, role string) error
	SetUserPermissions(ctx context.Context, id int64, permissions []string) error
	DeleteUser(ctx context.Context, id int64) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	PartyRepository
	MemberRepository
	RaceRepository
	ScoreRepository
	CatalogRepository
	UserRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
