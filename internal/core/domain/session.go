package domain

import "time"

// Session binds a caller to one authenticated account.
// It is returned by authentication and passed back into every account operation.
type Session struct {
	AccountID string    `json:"accountID"`
	StartedAt time.Time `json:"startedAt"`
}
