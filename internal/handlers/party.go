package handlers

import (
	"context"
	"net/http"

	"github.com/abrezinsky/racenight/internal/auth"
	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/models"
)

// handlePartyToday returns today's party, creating it on first call
func (h *Handlers) handlePartyToday(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Party.GetOrCreateToday(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, detail)
}

// handleGetParty returns one party with members and current race
func (h *Handlers) handleGetParty(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	detail, err := h.Party.GetParty(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, detail)
}

// handleListMembers returns a party's member roster
func (h *Handlers) handleListMembers(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	members, err := h.Party.ListMembers(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, members)
}

// handleJoinParty joins the caller to a party by join code
func (h *Handlers) handleJoinParty(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.JoinCode == "" {
		respondError(w, BadRequest("Missing join_code"))
		return
	}

	detail, err := h.Party.Join(r.Context(), auth.FromContext(r.Context()), req.JoinCode)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, detail)
}

// handlePartyJoinQR renders the party's join QR code as a PNG
func (h *Handlers) handlePartyJoinQR(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	png, err := h.Party.JoinQRImage(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handlePromoteMember promotes a PARTICIPANT to CO_HOST
func (h *Handlers) handlePromoteMember(w http.ResponseWriter, r *http.Request) {
	h.memberAction(w, r, h.Membership.Promote)
}

// handleDemoteMember demotes a CO_HOST to PARTICIPANT
func (h *Handlers) handleDemoteMember(w http.ResponseWriter, r *http.Request) {
	h.memberAction(w, r, h.Membership.Demote)
}

// handleTransferOwnership hands HOST to another member
func (h *Handlers) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	h.memberAction(w, r, h.Membership.TransferOwnership)
}

// handleRemoveMember removes a member from the party
func (h *Handlers) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	partyID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Membership.Remove(r.Context(), auth.FromContext(r.Context()), partyID, userID); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

type memberActionFunc func(ctx context.Context, p *authz.Principal, partyID, targetUserID int64) (*models.PartyMember, error)

// memberAction runs one role-change operation shared by promote,
// demote, and transfer.
func (h *Handlers) memberAction(w http.ResponseWriter, r *http.Request, action memberActionFunc) {
	partyID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req MemberActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	member, err := action(r.Context(), auth.FromContext(r.Context()), partyID, req.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, member)
}
