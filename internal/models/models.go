package models

import "time"

// DateLayout is the calendar-date format used for party scheduling.
// Parties are keyed by date only; time of day never participates in
// actionability decisions.
const DateLayout = "2006-01-02"

// Role is a party-scoped member role. It is distinct from a user's
// global role: a platform administrator is still a PARTICIPANT in a
// party unless promoted.
type Role string

const (
	RoleHost        Role = "HOST"
	RoleCoHost      Role = "CO_HOST"
	RoleParticipant Role = "PARTICIPANT"
)

// Rank returns the privilege rank of a role. Higher outranks lower.
func (r Role) Rank() int {
	switch r {
	case RoleHost:
		return 3
	case RoleCoHost:
		return 2
	case RoleParticipant:
		return 1
	default:
		return 0
	}
}

// Valid reports whether the role is one of the known party roles.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// RaceStatus is the lifecycle state of a race. Transitions are strictly
// linear: PENDING -> IN_PROGRESS -> COMPLETED.
type RaceStatus string

const (
	RacePending    RaceStatus = "PENDING"
	RaceInProgress RaceStatus = "IN_PROGRESS"
	RaceCompleted  RaceStatus = "COMPLETED"
)

// AttributionMode selects how cars are drawn for a race.
type AttributionMode string

const (
	// AttributionGlobal draws a single car shared by every racer.
	AttributionGlobal AttributionMode = "GLOBAL"
	// AttributionPerUser draws one independent car per racer. Draws may
	// repeat across racers.
	AttributionPerUser AttributionMode = "PER_USER"
)

// Party groups the races of one calendar date. One party exists per
// date; a retired party keeps its history but blocks new mutations.
type Party struct {
	ID            int64     `json:"id"`
	ScheduledDate string    `json:"scheduled_date"`
	Active        bool      `json:"active"`
	JoinCode      string    `json:"join_code,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PartyMember is a user's membership in a specific party. Exactly one
// member holds HOST at all times.
type PartyMember struct {
	PartyID  int64     `json:"party_id"`
	UserID   int64     `json:"user_id"`
	UserName string    `json:"user_name,omitempty"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Race is a single race under a party.
type Race struct {
	ID        int64      `json:"id"`
	PartyID   int64      `json:"party_id"`
	Status    RaceStatus `json:"status"`
	Racers    []int64    `json:"racers"`
	CreatedAt time.Time  `json:"created_at"`
}

// Score is one racer's result in a race. At most one row exists per
// (race, user); re-recording overwrites the value.
type Score struct {
	RaceID    int64     `json:"race_id"`
	UserID    int64     `json:"user_id"`
	Value     float64   `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CarAssignment binds a car to a race, optionally scoped to one racer.
// UserID is zero for a global assignment.
type CarAssignment struct {
	UserID  int64  `json:"user_id,omitempty"`
	CarID   int64  `json:"car_id"`
	CarName string `json:"car_name,omitempty"`
}

// CarAttribution is the current car draw for a race. Re-drawing
// replaces it wholesale.
type CarAttribution struct {
	RaceID  int64           `json:"race_id"`
	Mode    AttributionMode `json:"mode"`
	Entries []CarAssignment `json:"entries"`
}

// MapAssignment is the current map draw for a race; zero or one per race.
type MapAssignment struct {
	RaceID  int64  `json:"race_id"`
	MapID   int64  `json:"map_id"`
	MapName string `json:"map_name,omitempty"`
}

// Car is a catalog entry available for random draw.
type Car struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// GameMap is a map catalog entry available for random draw.
type GameMap struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// User is a platform account. Role is the global role label;
// Permissions is the granted permission set (may contain the
// ALL_PERMISSIONS wildcard).
type User struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}

// WSMessage is a websocket envelope pushed to connected clients.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
