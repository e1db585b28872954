package handlers

import (
	"net/http"

	"github.com/abrezinsky/racenight/internal/auth"
)

// handleListParties returns all parties
func (h *Handlers) handleListParties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.Party.ListParties(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, parties)
}

// handleSetPartyActive retires or reinstates a party
func (h *Handlers) handleSetPartyActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req PartyActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	party, err := h.Party.SetActive(r.Context(), auth.FromContext(r.Context()), id, req.Active)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, party)
}

// handleListUsers returns all accounts
func (h *Handlers) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.User.ListUsers(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, users)
}

// handleSetUserRole changes an account's global role
func (h *Handlers) handleSetUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req UserRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Role == "" {
		respondError(w, BadRequest("Missing role"))
		return
	}

	if err := h.User.SetRole(r.Context(), auth.FromContext(r.Context()), id, req.Role); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Role updated")
}

// handleSetUserPermissions replaces an account's permission grants
func (h *Handlers) handleSetUserPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req UserPermissionsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.User.SetPermissions(r.Context(), auth.FromContext(r.Context()), id, req.Permissions); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Permissions updated")
}

// handleDeleteUser removes an account
func (h *Handlers) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.User.DeleteUser(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// handleListCars returns the car catalog
func (h *Handlers) handleListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.Catalog.ListCars(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, cars)
}

// handleCreateCar adds a car to the catalog
func (h *Handlers) handleCreateCar(w http.ResponseWriter, r *http.Request) {
	var req CatalogCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	car, err := h.Catalog.CreateCar(r.Context(), auth.FromContext(r.Context()), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, car)
}

// handleSetCarActive toggles a car's draw eligibility
func (h *Handlers) handleSetCarActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req CatalogActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.Catalog.SetCarActive(r.Context(), auth.FromContext(r.Context()), id, req.Active); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Car updated")
}

// handleDeleteCar removes a car from the catalog
func (h *Handlers) handleDeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Catalog.DeleteCar(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// handleListMaps returns the map catalog
func (h *Handlers) handleListMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := h.Catalog.ListMaps(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, maps)
}

// handleCreateMap adds a map to the catalog
func (h *Handlers) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	var req CatalogCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	gameMap, err := h.Catalog.CreateMap(r.Context(), auth.FromContext(r.Context()), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, gameMap)
}

// handleSetMapActive toggles a map's draw eligibility
func (h *Handlers) handleSetMapActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req CatalogActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.Catalog.SetMapActive(r.Context(), auth.FromContext(r.Context()), id, req.Active); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Map updated")
}

// handleDeleteMap removes a map from the catalog
func (h *Handlers) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Catalog.DeleteMap(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// handleGetSettings returns the settings view
func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	open, err := h.Settings.IsJoinOpen(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	baseURL, err := h.Settings.GetBaseURL(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, SettingsResponse{JoinOpen: open, BaseURL: baseURL})
}

// handleSetJoinOpen opens or closes party joining
func (h *Handlers) handleSetJoinOpen(w http.ResponseWriter, r *http.Request) {
	var req JoinOpenRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.Settings.SetJoinOpen(r.Context(), auth.FromContext(r.Context()), req.Open); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, JoinOpenResponse{Open: req.Open})
}

// handleSetBaseURL stores the join-link base URL
func (h *Handlers) handleSetBaseURL(w http.ResponseWriter, r *http.Request) {
	var req BaseURLRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.BaseURL == "" {
		respondError(w, BadRequest("Missing base_url"))
		return
	}
	if err := h.Settings.SetBaseURL(r.Context(), auth.FromContext(r.Context()), req.BaseURL); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Base URL updated")
}
