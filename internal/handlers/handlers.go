package handlers

import (
	"github.com/abrezinsky/racenight/internal/auth"
	"github.com/abrezinsky/racenight/internal/services"
	"github.com/abrezinsky/racenight/internal/websocket"
	"github.com/abrezinsky/racenight/pkg/authsvc"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Party       services.PartyServicer
	Membership  services.MembershipServicer
	Race        services.RaceServicer
	Score       services.ScoreServicer
	Attribution services.AttributionServicer
	Catalog     services.CatalogServicer
	User        services.UserServicer
	Settings    services.SettingsServicer
	Verifier    authsvc.Client
	Auth        *auth.Auth
	Hub         *websocket.Hub
	Log         HTTPLogger
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	party services.PartyServicer,
	membership services.MembershipServicer,
	race services.RaceServicer,
	score services.ScoreServicer,
	attribution services.AttributionServicer,
	catalog services.CatalogServicer,
	user services.UserServicer,
	settings services.SettingsServicer,
	verifier authsvc.Client,
	tokenAuth *auth.Auth,
	hub *websocket.Hub,
	log HTTPLogger,
) *Handlers {
	return &Handlers{
		Party:       party,
		Membership:  membership,
		Race:        race,
		Score:       score,
		Attribution: attribution,
		Catalog:     catalog,
		User:        user,
		Settings:    settings,
		Verifier:    verifier,
		Auth:        tokenAuth,
		Hub:         hub,
		Log:         log,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }
