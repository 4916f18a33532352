package config

import "fmt"

// sessionKeys centralizes Redis key construction for auth sessions.
type sessionKeys struct{}

// SessionKey is the shared Redis key builder.
var SessionKey sessionKeys

// UserSession returns the key holding the active JWT ID for a user.
func (sessionKeys) UserSession(userID string) string {
	return fmt.Sprintf("session:user:%s", userID)
}
