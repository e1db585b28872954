package handlers

import (
	"net/http"
	"strings"

	"github.com/abrezinsky/racenight/internal/auth"
)

// handleLogin verifies credentials against the auth service, provisions
// the account, and issues a signed token.
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		respondError(w, BadRequest("Email and password are required"))
		return
	}

	identity, err := h.Verifier.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.User.Provision(r.Context(), identity.Name, identity.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.Auth.IssueToken(user)
	if err != nil {
		respondError(w, err)
		return
	}

	auth.SetTokenCookie(w, token)
	respondOK(w, LoginResponse{Token: token, User: *user})
}

// handleLogout clears the auth cookie
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w)
	respondSuccess(w, "Logged out")
}

// handleMe returns the calling account
func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.User.GetMe(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, user)
}
