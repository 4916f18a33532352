package response

import "fmt"

// Fixed messages shared by the authorization layer.
const (
	MsgNotAuthorized = "User is not authorized"
	MsgPolicyError   = "Unexpected authorization error"
)

// InvalidID returns the malformed-identifier message for an entity label,
// e.g. "Paper is invalid".
func InvalidID(label string) string {
	return fmt.Sprintf("%s is invalid", label)
}

// NotFound returns the missing-entity message for an entity label,
// e.g. "No Paper with that identifier has been found".
func NotFound(label string) string {
	return fmt.Sprintf("No %s with that identifier has been found", label)
}
