package services

import (
	"context"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/models"
)

// PartyServicer defines the interface for party operations
type PartyServicer interface {
	GetOrCreateToday(ctx context.Context, principal *authz.Principal) (*PartyDetail, error)
	GetParty(ctx context.Context, id int64) (*PartyDetail, error)
	ListParties(ctx context.Context) ([]models.Party, error)
	ListMembers(ctx context.Context, partyID int64) ([]models.PartyMember, error)
	SetActive(ctx context.Context, principal *authz.Principal, partyID int64, active bool) (*models.Party, error)
	Join(ctx context.Context, principal *authz.Principal, joinCode string) (*PartyDetail, error)
	JoinQRImage(ctx context.Context, partyID int64) ([]byte, error)
	SetBroadcaster(b Broadcaster)
}

// MembershipServicer defines the interface for party-role operations
type MembershipServicer interface {
	Promote(ctx context.Context, principal *authz.Principal, partyID, targetUserID int64) (*models.PartyMember, error)
	Demote(ctx context.Context, principal *authz.Principal, partyID, targetUserID int64) (*models.PartyMember, error)
	Remove(ctx context.Context, principal *authz.Principal, partyID, targetUserID int64) error
	TransferOwnership(ctx context.Context, principal *authz.Principal, partyID, targetUserID int64) (*models.PartyMember, error)
	SetBroadcaster(b Broadcaster)
}

// RaceServicer defines the interface for race lifecycle operations
type RaceServicer interface {
	CreateRace(ctx context.Context, principal *authz.Principal, partyID int64) (*models.Race, error)
	StartRace(ctx context.Context, principal *authz.Principal, raceID int64) (*models.Race, error)
	CompleteRace(ctx context.Context, principal *authz.Principal, raceID int64) (*models.Race, error)
	AddParticipants(ctx context.Context, principal *authz.Principal, raceID int64, userIDs []int64) (*models.Race, error)
	CurrentRace(ctx context.Context, partyID int64) (*RaceDetail, error)
	GetRace(ctx context.Context, raceID int64) (*RaceDetail, error)
	SetBroadcaster(b Broadcaster)
}

// ScoreServicer defines the interface for score operations
type ScoreServicer interface {
	RecordScore(ctx context.Context, principal *authz.Principal, raceID, userID int64, value float64) (*models.Score, error)
	ListScores(ctx context.Context, raceID int64) ([]models.Score, error)
	SetBroadcaster(b Broadcaster)
}

// AttributionServicer defines the interface for random draw operations
type AttributionServicer interface {
	AttributeCar(ctx context.Context, principal *authz.Principal, raceID int64, mode models.AttributionMode) (*models.CarAttribution, error)
	AttributeMap(ctx context.Context, principal *authz.Principal, raceID int64) (*models.MapAssignment, error)
	SetBroadcaster(b Broadcaster)
}

// CatalogServicer defines the interface for car/map catalog operations
type CatalogServicer interface {
	ListCars(ctx context.Context) ([]models.Car, error)
	CreateCar(ctx context.Context, principal *authz.Principal, name string) (*models.Car, error)
	SetCarActive(ctx context.Context, principal *authz.Principal, id int64, active bool) error
	DeleteCar(ctx context.Context, principal *authz.Principal, id int64) error
	ListMaps(ctx context.Context) ([]models.GameMap, error)
	CreateMap(ctx context.Context, principal *authz.Principal, name string) (*models.GameMap, error)
	SetMapActive(ctx context.Context, principal *authz.Principal, id int64, active bool) error
	DeleteMap(ctx context.Context, principal *authz.Principal, id int64) error
}

// UserServicer defines the interface for user account operations
type UserServicer interface {
	GetMe(ctx context.Context, principal *authz.Principal) (*models.User, error)
	Provision(ctx context.Context, name, email string) (*models.User, error)
	ListUsers(ctx context.Context, principal *authz.Principal) ([]models.User, error)
	SetRole(ctx context.Context, principal *authz.Principal, userID int64, role string) error
	SetPermissions(ctx context.Context, principal *authz.Principal, userID int64, permissions []string) error
	DeleteUser(ctx context.Context, principal *authz.Principal, userID int64) error
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, principal *authz.Principal, key, value string) error
	IsJoinOpen(ctx context.Context) (bool, error)
	SetJoinOpen(ctx context.Context, principal *authz.Principal, open bool) error
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, principal *authz.Principal, url string) error
}

// Ensure concrete types implement interfaces
var (
	_ PartyServicer       = (*PartyService)(nil)
	_ MembershipServicer  = (*MembershipService)(nil)
	_ RaceServicer        = (*RaceService)(nil)
	_ ScoreServicer       = (*ScoreService)(nil)
	_ AttributionServicer = (*AttributionService)(nil)
	_ CatalogServicer     = (*CatalogService)(nil)
	_ UserServicer        = (*UserService)(nil)
	_ SettingsServicer    = (*SettingsService)(nil)
)
