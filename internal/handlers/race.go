package handlers

import (
	"net/http"

	"github.com/abrezinsky/racenight/internal/auth"
	"github.com/abrezinsky/racenight/internal/models"
)

// handleCreateRace creates a new PENDING race under a party
func (h *Handlers) handleCreateRace(w http.ResponseWriter, r *http.Request) {
	partyID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	race, err := h.Race.CreateRace(r.Context(), auth.FromContext(r.Context()), partyID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, race)
}

// handleCurrentRace returns a party's current race
func (h *Handlers) handleCurrentRace(w http.ResponseWriter, r *http.Request) {
	partyID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	detail, err := h.Race.CurrentRace(r.Context(), partyID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, detail)
}

// handleGetRace returns one race with scores and draws
func (h *Handlers) handleGetRace(w http.ResponseWriter, r *http.Request) {
	raceID, err := parseIDParam(r, "raceID")
	if err != nil {
		respondError(w, err)
		return
	}
	detail, err := h.Race.GetRace(r.Context(), raceID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, detail)
}

// handleStartRace moves a race to IN_PROGRESS
func (h *Handlers) handleStartRace(w http.ResponseWriter, r *http.Request) {
	raceID, err := parseIDParam(r, "raceID")
	if err != nil {
		respondError(w, err)
		return
	}
	race, err := h.Race.StartRace(r.Context(), auth.FromContext(r.Context()), raceID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, race)
}

// handleCompleteRace moves a race to COMPLETED
func (h *Handlers) handleCompleteRace(w http.ResponseWriter, r *http.Request) {
	raceID, err := parseIDParam(r, "raceID")
	if err != nil {
		respondError(w, err)
		return
	}
	race, err := h.Race.CompleteRace(r.Context(), auth.FromContext(r.Context()), raceID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, race)
}

// handleAddRacers appends racers to a race
func (h *Handlers) handleAddRacers(w http.ResponseWriter, r *http.Request) {
	raceID, err := parseIDParam(r, "raceID")
	if err != nil {
		respondError(w, err)
		return
	}
	var req AddRacersRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	race, err := h.Race.AddParticipants(r.Context(), auth.FromContext(r.Context()), raceID, req.UserIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, race)
}

// handleListScores returns a race's scores
func (h *Handlers) handleListScores(w http.ResponseWriter, r *http.Request) {
	raceID, err := parseIDParam(r, "raceID")
	if err != nil {
		respondError(w, err)
		return
	}
	scores, err := h.Score.ListScores(r.Context(), raceID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, scores)
}

// handleRecordScore upserts a racer's score
func (h *Handlers) handleRecordScore(w http.ResponseWriter, r *http.Request) {
	raceID, err := parseIDParam(r, "raceID")
	if err != nil {
		respondError(w, err)
		return
	}
	var req RecordScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	score, err := h.Score.RecordScore(r.Context(), auth.FromContext(r.Context()), raceID, req.UserID, req.Value)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, score)
}

// handleAttributeCar draws cars for a race
func (h *Handlers) handleAttributeCar(w http.ResponseWriter, r *http.Request) {
	raceID, err := parseIDParam(r, "raceID")
	if err != nil {
		respondError(w, err)
		return
	}
	var req AttributeCarRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	attribution, err := h.Attribution.AttributeCar(r.Context(), auth.FromContext(r.Context()), raceID, models.AttributionMode(req.Mode))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, attribution)
}

// handleAttributeMap draws a map for a race
func (h *Handlers) handleAttributeMap(w http.ResponseWriter, r *http.Request) {
	raceID, err := parseIDParam(r, "raceID")
	if err != nil {
		respondError(w, err)
		return
	}
	assignment, err := h.Attribution.AttributeMap(r.Context(), auth.FromContext(r.Context()), raceID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, assignment)
}
