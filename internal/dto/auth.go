package dto

import "time"

// LoginRequest represents the credentials typed at the cashier.
// Identifier is an account ID or a display name.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	PIN        string `json:"pin" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	AccountID string    `json:"accountID"`
	ExpiresAt time.Time `json:"expiresAt"`
}
