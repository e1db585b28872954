package handlers

import "github.com/abrezinsky/racenight/internal/models"

// LoginResponse is the response for a successful login
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// JoinOpenResponse is the response for join status changes
type JoinOpenResponse struct {
	Open bool `json:"open"`
}

// SettingsResponse is the response for the settings view
type SettingsResponse struct {
	JoinOpen bool   `json:"join_open"`
	BaseURL  string `json:"base_url"`
}
