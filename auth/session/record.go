package session

import "time"

// Record is the stored credential and identity bound to one role in the
// current browsing context.
type Record struct {
	Role   Role   `json:"role"`
	Token  string `json:"token"`
	UserID string `json:"user_id"`

	// SessionID is unique per login event and distinguishes concurrent
	// logins under the same role after a re-authentication.
	SessionID string `json:"session_id"`

	// CreatedAt is diagnostic only. The client never expires sessions.
	CreatedAt time.Time `json:"created_at"`
}
