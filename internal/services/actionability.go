package services

import (
	"time"

	"github.com/abrezinsky/racenight/internal/models"
)

// Actionability reason codes.
const (
	ReasonOK                = "OK"
	ReasonPartyDeactivated  = "PARTY_DEACTIVATED"
	ReasonPartyDateMissing  = "PARTY_DATE_MISSING"
	ReasonPartyDateNotToday = "PARTY_DATE_NOT_TODAY"
)

// Actionability says whether a party may accept race, score, or
// attribution mutations right now, and why not when it may not.
type Actionability struct {
	Actionable bool   `json:"actionable"`
	Reason     string `json:"reason"`
}

// CheckActionability derives a party's actionability for a given day.
// today is a calendar date in models.DateLayout; the comparison is
// date-only. The result is never cached: active can be toggled by an
// administrator at any time and today changes at midnight, so every
// mutation attempt re-evaluates against fresh state.
func CheckActionability(party *models.Party, today string) Actionability {
	if party == nil || !party.Active {
		return Actionability{Actionable: false, Reason: ReasonPartyDeactivated}
	}
	if party.ScheduledDate == "" {
		return Actionability{Actionable: false, Reason: ReasonPartyDateMissing}
	}
	if party.ScheduledDate != today {
		return Actionability{Actionable: false, Reason: ReasonPartyDateNotToday}
	}
	return Actionability{Actionable: true, Reason: ReasonOK}
}

// requireActionable folds CheckActionability into the error all
// mutating facade operations return.
func requireActionable(party *models.Party, now time.Time) error {
	a := CheckActionability(party, now.Format(models.DateLayout))
	if !a.Actionable {
		var id int64
		if party != nil {
			id = party.ID
		}
		return &PartyNotActionableError{PartyID: id, Reason: a.Reason}
	}
	return nil
}
