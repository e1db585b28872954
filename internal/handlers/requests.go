package handlers

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// JoinRequest represents a request to join a party by code
type JoinRequest struct {
	JoinCode string `json:"join_code"`
}

// PartyActiveRequest represents a request to activate or deactivate a party
type PartyActiveRequest struct {
	Active bool `json:"active"`
}

// AddRacersRequest represents a request to add racers to a race
type AddRacersRequest struct {
	UserIDs []int64 `json:"user_ids"`
}

// RecordScoreRequest represents a request to record a racer's score
type RecordScoreRequest struct {
	UserID int64   `json:"user_id"`
	Value  float64 `json:"value"`
}

// AttributeCarRequest represents a request to draw cars for a race
type AttributeCarRequest struct {
	Mode string `json:"mode"`
}

// MemberActionRequest represents a role change or removal target
type MemberActionRequest struct {
	UserID int64 `json:"user_id"`
}

// CatalogCreateRequest represents a request to add a car or map
type CatalogCreateRequest struct {
	Name string `json:"name"`
}

// CatalogActiveRequest represents a request to toggle draw eligibility
type CatalogActiveRequest struct {
	Active bool `json:"active"`
}

// UserRoleRequest represents a request to change a user's global role
type UserRoleRequest struct {
	Role string `json:"role"`
}

// UserPermissionsRequest represents a request to replace a user's grants
type UserPermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// JoinOpenRequest represents a request to open or close joining
type JoinOpenRequest struct {
	Open bool `json:"open"`
}

// BaseURLRequest represents a request to set the join-link base URL
type BaseURLRequest struct {
	BaseURL string `json:"base_url"`
}
