package service

// Principal is the authenticated caller as carried in the session token.
// IsAdmin is a snapshot taken at login; admin routes re-check it against
// the database through AdminGate.
type Principal struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}
