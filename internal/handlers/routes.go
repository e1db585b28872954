package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abrezinsky/racenight/internal/auth"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(h.Auth.Middleware)

	// Auth (public)
	r.Post("/api/login", h.handleLogin)
	r.Post("/api/logout", h.handleLogout)

	// WebSocket
	r.Get("/ws", h.Hub.ServeWs)

	// Join QR is public so it can be shown on a shared screen
	r.Get("/api/parties/{id}/qr", h.handlePartyJoinQR)

	// Authenticated API
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Get("/api/me", h.handleMe)

		// Party
		r.Post("/api/party/today", h.handlePartyToday)
		r.Post("/api/party/join", h.handleJoinParty)
		r.Get("/api/parties/{id}", h.handleGetParty)
		r.Get("/api/parties/{id}/members", h.handleListMembers)
		r.Get("/api/parties/{id}/race", h.handleCurrentRace)
		r.Post("/api/parties/{id}/races", h.handleCreateRace)

		// Membership
		r.Post("/api/parties/{id}/members/promote", h.handlePromoteMember)
		r.Post("/api/parties/{id}/members/demote", h.handleDemoteMember)
		r.Post("/api/parties/{id}/members/transfer", h.handleTransferOwnership)
		r.Delete("/api/parties/{id}/members/{userID}", h.handleRemoveMember)

		// Race lifecycle
		r.Get("/api/races/{raceID}", h.handleGetRace)
		r.Post("/api/races/{raceID}/start", h.handleStartRace)
		r.Post("/api/races/{raceID}/complete", h.handleCompleteRace)
		r.Post("/api/races/{raceID}/racers", h.handleAddRacers)

		// Scores
		r.Get("/api/races/{raceID}/scores", h.handleListScores)
		r.Post("/api/races/{raceID}/scores", h.handleRecordScore)

		// Attribution
		r.Post("/api/races/{raceID}/attribute-car", h.handleAttributeCar)
		r.Post("/api/races/{raceID}/attribute-map", h.handleAttributeMap)

		// Catalog
		r.Get("/api/catalog/cars", h.handleListCars)
		r.Post("/api/catalog/cars", h.handleCreateCar)
		r.Put("/api/catalog/cars/{id}/active", h.handleSetCarActive)
		r.Delete("/api/catalog/cars/{id}", h.handleDeleteCar)
		r.Get("/api/catalog/maps", h.handleListMaps)
		r.Post("/api/catalog/maps", h.handleCreateMap)
		r.Put("/api/catalog/maps/{id}/active", h.handleSetMapActive)
		r.Delete("/api/catalog/maps/{id}", h.handleDeleteMap)

		// Admin
		r.Get("/api/admin/parties", h.handleListParties)
		r.Put("/api/admin/parties/{id}/active", h.handleSetPartyActive)
		r.Get("/api/admin/users", h.handleListUsers)
		r.Put("/api/admin/users/{id}/role", h.handleSetUserRole)
		r.Put("/api/admin/users/{id}/permissions", h.handleSetUserPermissions)
		r.Delete("/api/admin/users/{id}", h.handleDeleteUser)
		r.Get("/api/admin/settings", h.handleGetSettings)
		r.Put("/api/admin/settings/join-open", h.handleSetJoinOpen)
		r.Put("/api/admin/settings/base-url", h.handleSetBaseURL)
	})

	return r
}
