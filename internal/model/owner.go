package model

import "github.com/google/uuid"

// Owner is the populated owner reference attached to list and read
// responses: display name only, never the full profile.
type Owner struct {
	ID          uuid.UUID `json:"_id"`
	DisplayName string    `json:"displayName"`
}
