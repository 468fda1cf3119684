package domain

import "time"

// UserProfile is the durable record for one registered principal.
// The principal is immutable after registration; at most one profile
// exists per principal.
type UserProfile struct {
	Principal     string    `json:"principal"`
	Username      string    `json:"username"`
	CreatedAt     time.Time `json:"created_at"`
	LastActive    time.Time `json:"last_active"`
	SessionCount  uint32    `json:"session_count"`
	TotalSessions uint32    `json:"total_sessions"`
}
